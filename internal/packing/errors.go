package packing

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidRange is returned when a carton range ends before it starts.
	ErrInvalidRange = errors.New("End package number cannot be less than start package number")
	// ErrInvalidStart is returned when a package number is below 1.
	ErrInvalidStart = errors.New("Start package number must be at least 1")
	// ErrListCompleted blocks structural edits on a completed list.
	ErrListCompleted = errors.New("This packing list is completed. You need to convert it to draft to make changes.")
	// ErrInvalidKind is returned for package kinds other than pallet or carton.
	ErrInvalidKind = errors.New("package kind must be pallet or carton")
)

// ValidationError carries the user facing messages of a failed validation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError returns nil for an empty message list.
func NewValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

// ValidationMessages extracts the messages of a ValidationError anywhere in
// the chain.
func ValidationMessages(err error) ([]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages, true
	}
	return nil, false
}
