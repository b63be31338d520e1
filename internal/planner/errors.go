package planner

import (
	"errors"
	"fmt"

	"github.com/backmassage/jellystream/internal/probe"
)

// ErrCannotProcess is matched (via errors.Is) by every rejection of a file.
var ErrCannotProcess = errors.New("cannot process file")

// RejectionError is the single failure kind of the planner: the file cannot
// be processed, for the human-readable Reason. Err, when set, is the
// underlying cause (a probe error, a collision).
type RejectionError struct {
	Reason string
	Err    error
}

func (e *RejectionError) Error() string { return e.Reason }

// Is makes every RejectionError match ErrCannotProcess.
func (e *RejectionError) Is(target error) bool { return target == ErrCannotProcess }

func (e *RejectionError) Unwrap() error { return e.Err }

// Reject builds a RejectionError from a format string.
func Reject(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// RejectErr wraps err as a rejection, keeping its message as the reason.
func RejectErr(err error) error {
	if err == nil {
		return nil
	}
	var re *RejectionError
	if errors.As(err, &re) {
		return err
	}
	return &RejectionError{Reason: err.Error(), Err: err}
}

func unsupported(s *probe.Stream) error {
	return Reject("stream %s unsupported", s.Name())
}
