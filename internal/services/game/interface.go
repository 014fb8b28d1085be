package game

import "context"

// Service defines the reconstruction driver operations
type Service interface {
	// RecoverState rebuilds the game state from the thread and returns the
	// announcements that are due, without publishing them
	RecoverState(ctx context.Context, input *RecoverStateInput) (*RecoverStateOutput, error)

	// RunCycle recovers the state, publishes the due announcements and records a snapshot
	RunCycle(ctx context.Context, input *RunCycleInput) (*RunCycleOutput, error)
}
