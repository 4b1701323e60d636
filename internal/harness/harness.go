package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/ctlearl/internal/ctllog"
	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/report"
	"github.com/roach88/ctlearl/internal/testutil"
)

// logFileName is the name the scenario's execution log is written under.
const logFileName = "log.xml"

// Harness runs scenarios with a deterministic clock and path normalizer.
type Harness struct {
	clock  *testutil.StepClock
	norm   ctllog.Normalizer
	logger *slog.Logger
}

// New creates a harness. A nil logger discards all output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{
		clock:  testutil.NewFixedClock(time.Time{}),
		norm:   ctllog.Normalizer{Separator: "/", Skip: ctllog.SkippedSegments},
		logger: logger,
	}
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh temporary directory that is removed
// afterwards. The returned error is reserved for harness failures; a
// scenario that does not behave as expected yields a failing Result.
//
// Execution flow:
// 1. Write the scenario's execution log
// 2. Generate the report into <tmp>/<scenario.Name>
// 3. Check the generation error against expect_error
// 4. Evaluate assertions against the generated report
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	h.clock.Reset()

	tmp, err := os.MkdirTemp("", "ctlearl-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	logFile := filepath.Join(tmp, logFileName)
	if err := os.WriteFile(logFile, []byte(scenario.LogXML()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write execution log: %w", err)
	}

	g := &report.Generator{
		Clock:      h.clock,
		Normalizer: h.norm,
		Logger:     h.logger.With("scenario", scenario.Name),
	}
	outDir := filepath.Join(tmp, scenario.Name)
	sum, genErr := g.Generate(outDir, logFile, scenario.Suite, scenario.Subject)

	result := NewResult()
	result.GenerationError = genErr

	if genErr != nil {
		if report.IsIOError(genErr) {
			return nil, fmt.Errorf("failed to write report: %w", genErr)
		}
		if err := checkNoReport(outDir); err != nil {
			result.AddError(err.Error())
		}
		kind := ErrorKind(genErr)
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("generation failed: %v", genErr))
		case scenario.ExpectError != kind:
			result.AddError(fmt.Sprintf("expected %s error, got %s error: %v", scenario.ExpectError, kind, genErr))
		}
		return result, nil
	}

	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected %s error, generation succeeded", scenario.ExpectError))
	}

	data, err := os.ReadFile(sum.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	result.Summary = sum
	result.Report = data

	for _, msg := range EvaluateAssertions(sum, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// ErrorKind returns the expect_error kind describing err, or "other".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case ctllog.IsDecodeError(err):
		return ErrorKindDecode
	case ctllog.IsCorrelationError(err):
		return ErrorKindCorrelation
	case earl.IsInvalidOutcomeCode(err):
		return ErrorKindOutcome
	case ctllog.IsParseError(err):
		return ErrorKindParse
	default:
		return "other"
	}
}

// checkNoReport verifies that a failed generation left no report behind.
func checkNoReport(outDir string) error {
	_, err := os.Stat(filepath.Join(outDir, report.FileName))
	if err == nil {
		return fmt.Errorf("failed generation left %s behind", report.FileName)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat report: %w", err)
	}
	return nil
}
