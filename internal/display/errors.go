package display

import "fmt"

// Banner texts shown when an operation fails.
const (
	MsgFetchFailed  = "Error loading price data. Please try again."
	MsgUpdateFailed = "Error updating price data. Please try again."
)

// FetchError is returned when the price series could not be loaded.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch price data: %v", e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// UpdateError is returned when the backend refresh could not be triggered.
type UpdateError struct {
	Cause error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update price data: %v", e.Cause)
}

func (e *UpdateError) Unwrap() error { return e.Cause }
