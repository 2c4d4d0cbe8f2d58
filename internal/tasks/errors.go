package tasks

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTaskNotFound is returned by Edit, SetPriority and Delete for an unknown id
	ErrTaskNotFound = errors.New("task not found")

	// ErrCorruptState marks a persisted value that is not a valid task list
	ErrCorruptState = errors.New("stored task list is corrupt")
)

// ValidationError lists the fields that failed validation. The message is
// meant to be shown to the user as is.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// CorruptStateError carries the undecodable value and the reason it was rejected
type CorruptStateError struct {
	Key    string
	Raw    string
	Reason error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("decoding %q: %v", e.Key, e.Reason)
}

func (e *CorruptStateError) Unwrap() []error {
	return []error{ErrCorruptState, e.Reason}
}
