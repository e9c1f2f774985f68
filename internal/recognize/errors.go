package recognize

import (
	"errors"
	"fmt"
)

// ErrNotRecognized is returned by a recognizer that does not claim an
// execution at all (wrong name, wrong shape). It is benign and filtered
// out silently by the dispatcher.
var ErrNotRecognized = errors.New("not recognized")

// RecognizedWithError is returned when a recognizer claims the execution
// by name but an invariant of the tool family fails, e.g. "no source files
// found". It is logged at debug level and the execution is dropped, never
// aborting the batch.
type RecognizedWithError struct {
	Reason string
}

func (e *RecognizedWithError) Error() string { return e.Reason }

func recognizedWithErrorf(format string, args ...any) error {
	return &RecognizedWithError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotRecognized reports whether err is (or wraps) ErrNotRecognized.
func IsNotRecognized(err error) bool { return errors.Is(err, ErrNotRecognized) }
