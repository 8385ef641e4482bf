package editor

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/philosofium/coursecontent/backend/models"
)

var (
	ErrInvalidTransition = errors.New("editor: invalid state transition")
	ErrBusy              = errors.New("editor: a request is already in flight")
	ErrKindMismatch      = errors.New("editor: node does not match the edit session")
	ErrUnknownNode       = errors.New("editor: node is not in the loaded tree")
)

// MsgTransportFailure is surfaced when the server could not be reached.
const MsgTransportFailure = "Could not reach the server, please try again"

// RejectedError is a well-formed success:false answer from the content API.
type RejectedError struct {
	Op      string
	Message string
	// Fields carries per-field messages of a validation rejection.
	Fields map[string]string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

func rejected[T any](op string, env *models.Envelope[T]) *RejectedError {
	var fields map[string]string
	if env != nil {
		fields = env.Details
	}
	return &RejectedError{Op: op, Message: env.Failure(), Fields: fields}
}

// userMessage is what the notifier shows for err.
func userMessage(err error) string {
	var rej *RejectedError
	if errors.As(err, &rej) {
		if len(rej.Fields) > 0 {
			return models.ValidationErrorFromMap(rej.Fields).Error()
		}
		return rej.Message
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return MsgTransportFailure
}
