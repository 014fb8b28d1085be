package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

const (
	// Key prefixes for Redis
	snapshotKeyPrefix = "snapshot:"
	historyKeyPrefix  = "cycles:"

	// DefaultHistoryLimit is the number of snapshots kept per thread when none is configured
	DefaultHistoryLimit = 20
)

// ErrSnapshotNotFound is returned when a thread has no snapshot yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Config holds configuration for the Redis snapshot repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// HistoryLimit caps the per-thread history list
	HistoryLimit int
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client       *redis.Client
	historyLimit int
}

// Ensure interface compliance at compile time
var _ Repository = (*redisRepository)(nil)

// NewRedis creates a new Redis-backed snapshot repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return &redisRepository{
		client:       cfg.RedisClient,
		historyLimit: limit,
	}, nil
}

func snapshotKey(threadID int) string {
	return fmt.Sprintf("%s%d", snapshotKeyPrefix, threadID)
}

func historyKey(threadID int) string {
	return fmt.Sprintf("%s%d", historyKeyPrefix, threadID)
}

// SaveSnapshot persists a snapshot to Redis
func (r *redisRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.Snapshot == nil {
		return errors.New("input and snapshot cannot be nil")
	}

	snapshotJSON, err := json.Marshal(input.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := r.client.TxPipeline()

	pipe.Set(ctx, snapshotKey(input.Snapshot.ThreadID), snapshotJSON, 0)

	history := historyKey(input.Snapshot.ThreadID)
	pipe.LPush(ctx, history, snapshotJSON)
	pipe.LTrim(ctx, history, 0, int64(r.historyLimit-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// GetSnapshot retrieves the latest snapshot of a thread from Redis
func (r *redisRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.Snapshot, error) {
	if input == nil || input.ThreadID == 0 {
		return nil, errors.New("input and thread ID cannot be empty")
	}

	snapshotJSON, err := r.client.Get(ctx, snapshotKey(input.ThreadID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// GetHistory retrieves the most recent snapshots of a thread from Redis
func (r *redisRepository) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if input == nil || input.ThreadID == 0 {
		return nil, errors.New("input and thread ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	entries, err := r.client.LRange(ctx, historyKey(input.ThreadID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}

	snapshots := make([]*models.Snapshot, 0, len(entries))
	for i, entry := range entries {
		var snapshot models.Snapshot
		if err := json.Unmarshal([]byte(entry), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %d: %w", i, err)
		}
		snapshots = append(snapshots, &snapshot)
	}

	return &GetHistoryOutput{
		Snapshots: snapshots,
	}, nil
}
