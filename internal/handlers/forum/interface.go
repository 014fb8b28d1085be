package forum

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/mafiabot/internal/handlers/forum Publisher

import "context"

// Publisher posts tallies to the game thread
type Publisher interface {
	// PublishTally posts an interim tally
	PublishTally(ctx context.Context, input *PublishTallyInput) error

	// PublishLynch posts the final tally announcing a lynch
	PublishLynch(ctx context.Context, input *PublishLynchInput) error
}
