package client

import "fmt"

// TransportError reports that no envelope came back: the server was
// unreachable, the call timed out, or the body was not an envelope.
// Business rejections are never TransportErrors.
type TransportError struct {
	Op string
	// Status is the HTTP status when a response arrived, otherwise 0.
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
