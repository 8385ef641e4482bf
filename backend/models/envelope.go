package models

// FallbackFailure is surfaced when a rejection carries no message of its own.
const FallbackFailure = "Something went wrong, please try again"

// Envelope is the wrapper of every content API response.
// Consumers must check Success before trusting Data.
type Envelope[T any] struct {
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Failure returns the user-facing text of a rejected envelope.
func (e *Envelope[T]) Failure() string {
	if e == nil {
		return FallbackFailure
	}
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return FallbackFailure
}

// Deleted is the payload of a successful delete.
type Deleted struct {
	ID string `json:"_id"`
}
