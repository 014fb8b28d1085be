package thread

//go:generate mockgen -package=mocks -destination=mocks/mock_reader.go github.com/KirkDiggler/mafiabot/internal/repositories/thread Reader

import (
	"context"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Reader defines read access to the game thread
type Reader interface {
	// FetchPage retrieves one page of the full thread
	FetchPage(ctx context.Context, input *FetchPageInput) (*models.Page, error)

	// FetchUserPage retrieves one page of the thread filtered to a single author
	FetchUserPage(ctx context.Context, input *FetchUserPageInput) (*models.Page, error)
}
