package messaging

import "context"

// Service renders the bodies of the posts the bot publishes
type Service interface {
	// RenderTally returns the body of an interim tally post
	RenderTally(ctx context.Context, input *RenderTallyInput) (*RenderOutput, error)

	// RenderLynch returns the body of a final tally announcing a lynch
	RenderLynch(ctx context.Context, input *RenderLynchInput) (*RenderOutput, error)
}
