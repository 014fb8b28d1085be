package phase

// PhaseError is a custom error type for phase detection errors
type PhaseError string

// Error implements the error interface
func (e PhaseError) Error() string {
	return string(e)
}

const (
	ErrNilConfig       PhaseError = "config cannot be nil"
	ErrNilReader       PhaseError = "thread reader cannot be nil"
	ErrEmptyGameMaster PhaseError = "game master cannot be empty"
)
