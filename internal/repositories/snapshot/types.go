package snapshot

import "github.com/KirkDiggler/mafiabot/internal/models"

type SaveSnapshotInput struct {
	Snapshot *models.Snapshot
}

type GetSnapshotInput struct {
	ThreadID int
}

type GetHistoryInput struct {
	ThreadID int

	// Limit caps the number of snapshots returned; zero returns the whole history
	Limit int
}

type GetHistoryOutput struct {
	Snapshots []*models.Snapshot
}
