package game

// GameError is a custom error type for reconstruction driver errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrPublishFailed    GameError = "failed to publish to the game thread"
	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilReader        GameError = "thread reader cannot be nil"
	ErrNilDetector      GameError = "phase detector cannot be nil"
	ErrNilEvaluator     GameError = "vote evaluator cannot be nil"
	ErrNilPublisher     GameError = "publisher cannot be nil"
	ErrNilClock         GameError = "clock cannot be nil"
	ErrNilUUIDGenerator GameError = "UUID generator cannot be nil"
	ErrEmptyBotUser     GameError = "bot user cannot be empty"
	ErrInvalidThreadID  GameError = "thread ID must be positive"
)
