package report

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is the parent of every error raised because an action
	// was triggered before its inputs were ready
	ErrPrecondition = errors.New("precondition failed")

	ErrNoKindSelected = fmt.Errorf("%w: report type not selected", ErrPrecondition)
	ErrEmptyStation   = fmt.Errorf("%w: station name is empty", ErrPrecondition)
	ErrNothingToCopy  = fmt.Errorf("%w: no report generated", ErrPrecondition)
	ErrEmptyContent   = fmt.Errorf("%w: content is empty", ErrPrecondition)

	// ErrInvalidDateTime is returned when a datetime field cannot be parsed
	ErrInvalidDateTime = errors.New("invalid datetime")

	// ErrUnknownKind is returned by ParseKind for input outside the enumeration
	ErrUnknownKind = errors.New("unknown report kind")

	// ErrClipboardDenied matches any *ClipboardDeniedError via errors.Is
	ErrClipboardDenied = errors.New("clipboard write denied")
)

// ClipboardDeniedError reports a refused clipboard write with its cause
type ClipboardDeniedError struct {
	Cause error
}

func (e *ClipboardDeniedError) Error() string {
	if e.Cause == nil {
		return ErrClipboardDenied.Error()
	}
	return fmt.Sprintf("%s: %v", ErrClipboardDenied, e.Cause)
}

func (e *ClipboardDeniedError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrClipboardDenied) match regardless of cause
func (e *ClipboardDeniedError) Is(target error) bool {
	return target == ErrClipboardDenied
}
