package game

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/services/phase"
	"github.com/KirkDiggler/mafiabot/internal/services/tally"
)

var fivePlayers = []models.PlayerID{"alice", "bob", "carol", "dave", "erin"}

func testRights() models.RightsTable {
	rights := models.RightsTable{}
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "Erin"} {
		rights[models.NewPlayerID(name)] = models.RightsEntry{
			DisplayName:         name,
			AllowedVotes:        1,
			CanBeVoted:          true,
			AllowedVoteRequests: 1,
		}
	}
	return rights
}

func newTestEvaluator(t *testing.T) *tally.Evaluator {
	evaluator, err := tally.New(&tally.Config{
		Rights:           testRights(),
		GameMaster:       "narrador",
		PostPushInterval: 10,
		Logger:           slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatal(err)
	}
	return evaluator
}

func dayStarted(postID, day int, roster ...models.PlayerID) *phase.Detection {
	return &phase.Detection{
		Phase:  models.PhaseDay,
		Marker: &phase.Marker{Kind: phase.MarkerDayStart, DayNumber: day, PostID: postID},
		Roster: roster,
	}
}

func command(id int, author models.PlayerID, headings ...string) models.Post {
	post := models.Post{ID: id, Author: author}
	for _, text := range headings {
		post.Headings = append(post.Headings, models.NewHeading(4, text))
	}
	return post
}

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineTestSuite) SetupTest() {
	engine, err := NewEngine(newTestEvaluator(s.T()), 0)
	s.Require().NoError(err)
	s.engine = engine
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestNewEngine_RequiresEvaluator() {
	_, err := NewEngine(nil, 4)
	s.ErrorIs(err, ErrNilEvaluator)
}

func (s *EngineTestSuite) TestAdvance_LynchOnThirdVote() {
	obs := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 99},
		Posts: []models.Post{
			command(99, "alice", "voto carol"),
			{ID: 100, Author: "narrador"},
			command(101, "alice", "voto bob"),
			command(102, "carol", "Voto Bob"),
			command(103, "dave", "VOTO BOB"),
			command(104, "erin", "voto alice"),
		},
	}

	state, effects := s.engine.Advance(models.GameState{}, obs)

	s.True(state.MajorityReached)
	s.Equal(models.CycleStateMajorityReached, state.CycleState())
	s.Equal(104, state.LastSeenPostID)
	s.Len(state.Ledger, 3)
	s.Equal([]Effect{{
		Kind: EffectPublishLynch,
		Tally: &models.Tally{Entries: []models.TallyEntry{
			{Target: "bob", TargetName: "Bob", Voters: []string{"Alice", "Carol", "Dave"}},
		}},
		VictimName: "Bob",
		AsOfPostID: 103,
	}}, effects)
}

func (s *EngineTestSuite) TestAdvance_Idempotent() {
	obs := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 99},
		Posts: []models.Post{
			{ID: 100, Author: "narrador"},
			command(101, "alice", "voto bob"),
			command(102, "carol", "voto no linchamiento"),
			command(103, "bob", "recuento"),
		},
	}

	first, firstEffects := s.engine.Advance(models.GameState{}, obs)
	second, secondEffects := s.engine.Advance(first, obs)

	s.Equal(first, second)
	s.Equal(firstEffects, secondEffects)
	s.Equal(models.Ledger{
		{Target: "bob", Voter: "alice", PostID: 101},
		{Target: models.TargetNoLynch, Voter: "carol", PostID: 102},
	}, second.Ledger)
	s.Equal(map[models.PlayerID]int{"bob": 1}, second.RecountRequests)
	s.False(second.MajorityReached)
	s.Equal(100, second.DayStartPostID)
}

func (s *EngineTestSuite) TestAdvance_DayRollover() {
	prev := models.GameState{
		Phase:           models.PhaseDay,
		DayNumber:       2,
		DayStartPostID:  50,
		MajorityReached: true,
		Roster:          fivePlayers,
		Ledger:          models.Ledger{{Target: "erin", Voter: "alice", PostID: 60}},
	}
	obs := &Observation{
		Detection: dayStarted(120, 3, "alice", "bob", "carol"),
		LastCount: LastCount{PostID: 115, Final: true},
		Posts: []models.Post{
			{ID: 120, Author: "narrador"},
			command(121, "alice", "voto bob"),
		},
	}

	state, effects := s.engine.Advance(prev, obs)

	s.Equal(models.CycleStateDayCounting, state.CycleState())
	s.False(state.MajorityReached)
	s.Equal(3, state.DayNumber)
	s.Equal(120, state.DayStartPostID)
	s.Equal([]models.PlayerID{"alice", "bob", "carol"}, state.Roster)
	s.Equal(models.Ledger{{Target: "bob", Voter: "alice", PostID: 121}}, state.Ledger)
	s.Empty(effects)
}

func (s *EngineTestSuite) TestAdvance_NightSkipsCounting() {
	prev := models.GameState{Phase: models.PhaseDay, DayNumber: 2, DayStartPostID: 100, Roster: fivePlayers}
	obs := &Observation{
		Detection: &phase.Detection{
			Phase:  models.PhaseNight,
			Marker: &phase.Marker{Kind: phase.MarkerDayEnd, DayNumber: 2, PostID: 150},
		},
		Posts: []models.Post{command(151, "alice", "voto bob")},
	}

	state, effects := s.engine.Advance(prev, obs)

	s.Equal(models.CycleStateNight, state.CycleState())
	s.Empty(state.Ledger)
	s.Nil(effects)
}

func (s *EngineTestSuite) TestAdvance_VoteStateDoesNotDependOnHistory() {
	day := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 99},
		Posts: []models.Post{
			command(101, "alice", "voto bob"),
			command(102, "carol", "voto bob"),
			command(103, "narrador", "recuento"),
		},
	}
	continued, _ := s.engine.Advance(models.GameState{}, day)
	s.Require().Len(continued.Ledger, 2)

	tests := map[string]*Observation{
		"night": {
			Detection: &phase.Detection{
				Phase:  models.PhaseNight,
				Marker: &phase.Marker{Kind: phase.MarkerDayEnd, DayNumber: 2, PostID: 150},
			},
			LastCount: LastCount{PostID: 140},
		},
		"majority reached": {
			Detection: dayStarted(100, 2, fivePlayers...),
			LastCount: LastCount{PostID: 140, Final: true},
		},
	}

	for name, obs := range tests {
		s.Run(name, func() {
			fromDay, effects := s.engine.Advance(continued, obs)
			s.Nil(effects)

			fromScratch, _ := s.engine.Advance(models.GameState{}, obs)

			s.Empty(fromDay.Ledger)
			s.Equal(fromScratch.Ledger, fromDay.Ledger)
			s.Equal(fromScratch.RecountRequests, fromDay.RecountRequests)
			s.Equal(fromScratch.PendingRecountRequest, fromDay.PendingRecountRequest)
			s.Equal(fromScratch.CycleState(), fromDay.CycleState())
		})
	}
}

func (s *EngineTestSuite) TestAdvance_MajorityRecoveredFromFinalCount() {
	prev := models.GameState{Phase: models.PhaseDay, DayNumber: 2, DayStartPostID: 100, Roster: fivePlayers}
	obs := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 110, Final: true},
		Posts:     []models.Post{command(111, "alice", "voto bob")},
	}

	state, effects := s.engine.Advance(prev, obs)

	s.True(state.MajorityReached)
	s.Equal(110, state.LastPublishedCountID)
	s.Empty(state.Ledger)
	s.Nil(effects)
}

func (s *EngineTestSuite) TestAdvance_PublishesAfterInterval() {
	obs := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 90},
		Posts: []models.Post{
			{ID: 100, Author: "narrador"},
			command(101, "alice", "voto bob"),
			command(102, "carol", "voto bob"),
		},
	}

	_, effects := s.engine.Advance(models.GameState{}, obs)

	s.Equal([]Effect{{
		Kind: EffectPublishTally,
		Tally: &models.Tally{Entries: []models.TallyEntry{
			{Target: "bob", TargetName: "Bob", Voters: []string{"Alice", "Carol"}},
		}},
		AliveCount:        5,
		MajorityThreshold: 3,
		AsOfPostID:        102,
	}}, effects)
}

func (s *EngineTestSuite) TestAdvance_RecountRequests() {
	base := []models.Post{
		{ID: 100, Author: "narrador"},
		command(101, "alice", "voto bob"),
		command(102, "bob", "recuento"),
	}

	s.Run("player request only counted", func() {
		state, effects := s.engine.Advance(models.GameState{}, &Observation{
			Detection: dayStarted(100, 2, fivePlayers...),
			LastCount: LastCount{PostID: 99},
			Posts:     base,
		})
		s.Empty(effects)
		s.Equal(1, state.RecountRequests["bob"])
	})

	s.Run("game master request publishes", func() {
		posts := append(append([]models.Post(nil), base...), command(103, "narrador", "Recuento"))
		state, effects := s.engine.Advance(models.GameState{}, &Observation{
			Detection: dayStarted(100, 2, fivePlayers...),
			LastCount: LastCount{PostID: 99},
			Posts:     posts,
		})
		s.Require().Len(effects, 1)
		s.Equal(EffectPublishTally, effects[0].Kind)
		s.Equal(103, effects[0].AsOfPostID)
		s.False(state.PendingRecountRequest)
	})

	s.Run("request older than last tally ignored", func() {
		posts := append(append([]models.Post(nil), base...),
			command(103, "narrador", "recuento"),
			models.Post{ID: 104, Author: "mafiabot"},
		)
		_, effects := s.engine.Advance(models.GameState{}, &Observation{
			Detection: dayStarted(100, 2, fivePlayers...),
			LastCount: LastCount{PostID: 104},
			Posts:     posts,
		})
		s.Empty(effects)
	})
}

func (s *EngineTestSuite) TestAdvance_UnvoteThenRevote() {
	obs := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 99},
		Posts: []models.Post{
			command(101, "alice", "voto no linchamiento"),
			command(102, "alice", "voto bob"),
			command(103, "alice", "desvoto", "voto carol"),
		},
	}

	state, _ := s.engine.Advance(models.GameState{}, obs)

	s.Equal(models.Ledger{{Target: "carol", Voter: "alice", PostID: 103}}, state.Ledger)
}

func (s *EngineTestSuite) TestAdvance_NoLynchCanWin() {
	obs := &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 99},
		Posts: []models.Post{
			command(101, "alice", "voto no linchamiento"),
			command(102, "bob", "voto no linchamiento"),
			command(103, "carol", "voto no linchamiento"),
		},
	}

	state, effects := s.engine.Advance(models.GameState{}, obs)

	s.True(state.MajorityReached)
	s.Require().Len(effects, 1)
	s.Equal(EffectPublishLynch, effects[0].Kind)
	s.Equal(models.NoLynchDisplayName, effects[0].VictimName)
}

func (s *EngineTestSuite) TestAdvance_CommandLevelIsConfigurable() {
	engine, err := NewEngine(newTestEvaluator(s.T()), 3)
	s.Require().NoError(err)

	h3 := models.Post{ID: 101, Author: "alice", Headings: []models.Heading{models.NewHeading(3, "voto bob")}}
	h4 := command(102, "carol", "voto bob")

	state, _ := engine.Advance(models.GameState{}, &Observation{
		Detection: dayStarted(100, 2, fivePlayers...),
		LastCount: LastCount{PostID: 99},
		Posts:     []models.Post{h3, h4},
	})

	s.Equal(models.Ledger{{Target: "bob", Voter: "alice", PostID: 101}}, state.Ledger)
}
