package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient:  s.client,
		HistoryLimit: 3,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) snapshot(id string, lastSeen int) *models.Snapshot {
	return &models.Snapshot{
		ID:         id,
		ThreadID:   123456,
		CycleState: models.CycleStateDayCounting,
		State: models.GameState{
			Phase:          models.PhaseDay,
			DayNumber:      2,
			DayStartPostID: 100,
			LastSeenPostID: lastSeen,
			Roster:         []models.PlayerID{"alice", "bob"},
			Ledger:         models.Ledger{{Target: "bob", Voter: "alice", PostID: 101}},
		},
		Tally: &models.Tally{Entries: []models.TallyEntry{
			{Target: "bob", TargetName: "Bob", Voters: []string{"Alice"}},
		}},
		MajorityThreshold: 2,
		CreatedAt:         s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestNewRedis_Validation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSnapshot() {
	want := s.snapshot("snap-1", 105)

	err := s.repo.SaveSnapshot(context.Background(), &SaveSnapshotInput{Snapshot: want})
	s.Require().NoError(err)

	got, err := s.repo.GetSnapshot(context.Background(), &GetSnapshotInput{ThreadID: 123456})
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *RedisRepositoryTestSuite) TestGetSnapshot_NotFound() {
	_, err := s.repo.GetSnapshot(context.Background(), &GetSnapshotInput{ThreadID: 42})
	s.ErrorIs(err, ErrSnapshotNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetSnapshot_InvalidInput() {
	_, err := s.repo.GetSnapshot(context.Background(), nil)
	s.Error(err)

	err = s.repo.SaveSnapshot(context.Background(), &SaveSnapshotInput{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestHistoryIsCappedNewestFirst() {
	for i, id := range []string{"snap-1", "snap-2", "snap-3", "snap-4"} {
		err := s.repo.SaveSnapshot(context.Background(), &SaveSnapshotInput{Snapshot: s.snapshot(id, 101+i)})
		s.Require().NoError(err)
	}

	out, err := s.repo.GetHistory(context.Background(), &GetHistoryInput{ThreadID: 123456})
	s.Require().NoError(err)
	s.Require().Len(out.Snapshots, 3)
	s.Equal("snap-4", out.Snapshots[0].ID)
	s.Equal("snap-2", out.Snapshots[2].ID)

	latest, err := s.repo.GetSnapshot(context.Background(), &GetSnapshotInput{ThreadID: 123456})
	s.Require().NoError(err)
	s.Equal("snap-4", latest.ID)
	s.Equal(104, latest.State.LastSeenPostID)
}

func (s *RedisRepositoryTestSuite) TestGetHistory_Limit() {
	for _, id := range []string{"snap-1", "snap-2"} {
		s.Require().NoError(s.repo.SaveSnapshot(context.Background(), &SaveSnapshotInput{Snapshot: s.snapshot(id, 101)}))
	}

	out, err := s.repo.GetHistory(context.Background(), &GetHistoryInput{ThreadID: 123456, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(out.Snapshots, 1)
	s.Equal("snap-2", out.Snapshots[0].ID)
}

func (s *RedisRepositoryTestSuite) TestGetHistory_Empty() {
	out, err := s.repo.GetHistory(context.Background(), &GetHistoryInput{ThreadID: 7})
	s.Require().NoError(err)
	s.Empty(out.Snapshots)
}
