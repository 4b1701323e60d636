package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/ctlearl/internal/ctllog"
	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/report"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeParse       = "E002" // Malformed execution log
	ErrCodeCorrelation = "E003" // Test call without a matching log record
	ErrCodeOutcome     = "E004" // Non-numeric endtest result
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeConfig      = "E006" // Invalid configuration
	ErrCodeWriteFailed = "E007" // Report write error
	ErrCodeHistory     = "E008" // Run history error
	ErrCodeScenario    = "E009" // Conformance scenario failed
)

// classifyError maps a generation error to its error code and exit code.
func classifyError(err error) (string, int) {
	switch {
	case ctllog.IsCorrelationError(err):
		return ErrCodeCorrelation, ExitFailure
	case ctllog.IsParseError(err):
		return ErrCodeParse, ExitFailure
	case earl.IsInvalidOutcomeCode(err):
		return ErrCodeOutcome, ExitFailure
	case errors.Is(err, earl.ErrRequirementFinalized), errors.Is(err, earl.ErrUnknownRequirement):
		return ErrCodeGeneric, ExitFailure
	case report.IsIOError(err):
		return ErrCodeWriteFailed, ExitCommandError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// failWith writes err through the formatter and returns the matching
// ExitError.
func failWith(f *OutputFormatter, code string, exit int, message string, err error) error {
	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, detail, nil)
	return WrapExitError(exit, code+": "+message, err)
}

// failGeneration reports a failed parse, walk or write.
func failGeneration(f *OutputFormatter, err error) error {
	code, exit := classifyError(err)
	return failWith(f, code, exit, "report generation failed", err)
}
