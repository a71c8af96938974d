package booking

import (
    "errors"
    "fmt"
)

// ErrSelectionLimitExceeded signals an attempt to select more than
// MaxSelection seats.  It is a reported condition, not a failure.
var ErrSelectionLimitExceeded = errors.New("selection limit reached")

// ErrSubmissionInProgress is returned by Submitter.Submit while another
// submission for the same key has not finished.
var ErrSubmissionInProgress = errors.New("booking submission already in progress")

// ValidationError is a locally detected problem with a booking request.
// It is never sent to the store; callers surface it for user correction.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    if e.Field == "" {
        return "invalid booking: " + e.Reason
    }
    return fmt.Sprintf("invalid booking: %s: %s", e.Field, e.Reason)
}

// SubmissionError means the store rejected the booking or could not be
// reached.  Detail carries the store's error message.
type SubmissionError struct {
    Detail string
    Err    error
}

func (e *SubmissionError) Error() string {
    if e.Detail == "" {
        return "booking submission failed"
    }
    return "booking submission failed: " + e.Detail
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}

// IsSubmission reports whether err is a SubmissionError.
func IsSubmission(err error) bool {
    var se *SubmissionError
    return errors.As(err, &se)
}
