package tally

// TallyError is a custom error type for vote adjudication errors
type TallyError string

// Error implements the error interface
func (e TallyError) Error() string {
	return string(e)
}

// Vote rejections. None of them is fatal: the vote is dropped and replay continues.
const (
	ErrMajorityReached     TallyError = "majority already reached"
	ErrVoterNotAlive       TallyError = "voter is not in the roster"
	ErrNoVoteToRemove      TallyError = "voter has no active vote to remove"
	ErrVoteQuotaExceeded   TallyError = "voter has no votes left"
	ErrTargetNotAlive      TallyError = "target is not in the roster"
	ErrTargetNotVotable    TallyError = "target cannot be voted"
	ErrTargetNotConfigured TallyError = "target is missing from the rights table"
	ErrVoterNotConfigured  TallyError = "voter is missing from the rights table"
)

// Constructor errors
const (
	ErrNilConfig       TallyError = "config cannot be nil"
	ErrNilRights       TallyError = "rights table cannot be nil"
	ErrEmptyGameMaster TallyError = "game master cannot be empty"
)
