package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/mafiabot/internal/repositories/snapshot Repository

import (
	"context"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Repository defines the interface for cycle snapshot persistence
type Repository interface {
	// SaveSnapshot stores a snapshot as the thread's latest and appends it to the history
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// GetSnapshot retrieves the latest snapshot of a thread
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.Snapshot, error)

	// GetHistory retrieves the most recent snapshots of a thread, newest first
	GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error)
}
