package rights

import (
	"context"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Repository defines access to the per-player rights table
type Repository interface {
	// LoadRightsTable reads and validates the rights table
	LoadRightsTable(ctx context.Context, input *LoadRightsTableInput) (models.RightsTable, error)
}

// LoadRightsTableInput contains parameters for loading a rights table
type LoadRightsTableInput struct {
	// Path is the location of the table file
	Path string
}
