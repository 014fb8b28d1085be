package thread

// FetchPageInput contains parameters for fetching a thread page
type FetchPageInput struct {
	// Page is the 1-based page number
	Page int
}

// FetchUserPageInput contains parameters for fetching a user-filtered thread page
type FetchUserPageInput struct {
	// User is the forum name whose posts are requested
	User string

	// Page is the 1-based page number within the filtered view
	Page int
}
