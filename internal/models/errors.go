package models

import (
	"errors"
	"fmt"
)

var (
	// ErrRead marks a directory or project file that could not be read.
	// Read errors are logged and contribute no data.
	ErrRead = errors.New("read error")

	// ErrMove marks a file that could not be relocated into the archive.
	ErrMove = errors.New("move error")
)

// PreconditionError reports that an action was requested without its
// inputs. The action did nothing; callers must surface it.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}

// Is lets errors.Is match any PreconditionError with the same reason.
func (e *PreconditionError) Is(target error) bool {
	var pe *PreconditionError
	if errors.As(target, &pe) {
		return pe.Reason == e.Reason
	}
	return false
}

var (
	// ErrNoRoot is returned when no root directory was chosen.
	ErrNoRoot = &PreconditionError{Reason: "no root directory chosen"}
	// ErrNothingSelected is returned when an action has no selected items.
	ErrNothingSelected = &PreconditionError{Reason: "no items selected"}
	// ErrNotConfirmed is returned when an archive run was not confirmed.
	ErrNotConfirmed = &PreconditionError{Reason: "archive not confirmed"}
	// ErrNotAnalyzed is returned when archiving is requested before classification.
	ErrNotAnalyzed = &PreconditionError{Reason: "no analysis has been run"}
)

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
