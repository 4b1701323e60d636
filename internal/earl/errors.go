package earl

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRequirement indicates a requirement name that was never started.
	ErrUnknownRequirement = errors.New("earl: unknown requirement")
	// ErrRequirementFinalized indicates a requirement finalized more than once.
	ErrRequirementFinalized = errors.New("earl: requirement already finalized")
	// ErrNotInitialized indicates a builder used before Initialize.
	ErrNotInitialized = errors.New("earl: report not initialized")
)

// InvalidOutcomeCodeError reports an endtest result that is not an integer.
type InvalidOutcomeCodeError struct {
	Raw string
	Err error
}

func (e *InvalidOutcomeCodeError) Error() string {
	return fmt.Sprintf("earl: invalid outcome code %q: %v", e.Raw, e.Err)
}

func (e *InvalidOutcomeCodeError) Unwrap() error {
	return e.Err
}

// IsInvalidOutcomeCode returns true if err wraps an InvalidOutcomeCodeError.
func IsInvalidOutcomeCode(err error) bool {
	var oe *InvalidOutcomeCodeError
	return errors.As(err, &oe)
}
