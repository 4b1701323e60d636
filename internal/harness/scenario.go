package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/testutil"
)

// Scenario defines a conformance scenario: an execution log, the report
// identity and the checks the generated report must pass.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the output
	// directory, so it appears in the report's base IRI.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Suite is the test run title.
	Suite string `yaml:"suite"`

	// Subject is the IRI of the implementation under test.
	Subject string `yaml:"subject"`

	// Log is the root log of a single execution.
	Log *LogNode `yaml:"log,omitempty"`

	// Executions lists the root logs of a document with several
	// execution elements, used instead of Log.
	Executions []LogNode `yaml:"executions,omitempty"`

	// RawLog is a literal execution log document, used instead of Log for
	// inputs the tree form cannot express.
	RawLog string `yaml:"raw_log,omitempty"`

	// ExpectError names the error kind generation must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the generated report.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// LogNode is one test of the scenario's execution log.
type LogNode struct {
	// Key is the path key of the log, e.g. "s0001/d1e5_1".
	Key string `yaml:"key"`

	// Base overrides the log's xml:base.
	Base string `yaml:"base,omitempty"`

	// Name is the test's local name.
	Name string `yaml:"name"`

	// Result is the endtest result code.
	Result int `yaml:"result"`

	// ConformanceClass marks the test as a conformance class boundary.
	ConformanceClass bool `yaml:"conformance_class,omitempty"`

	// NoLog keeps the parent's test call but drops this log.
	NoLog bool `yaml:"no_log,omitempty"`

	Children []LogNode `yaml:"children,omitempty"`
}

// ExpectedTally is the YAML form of a requirement's counters.
type ExpectedTally struct {
	Passed           int `yaml:"passed"`
	Failed           int `yaml:"failed"`
	Skipped          int `yaml:"skipped"`
	Continued        int `yaml:"continued"`
	BestPractice     int `yaml:"best_practice"`
	NotTested        int `yaml:"not_tested"`
	Warning          int `yaml:"warning"`
	InheritedFailure int `yaml:"inherited_failure"`
}

// Tally converts t to an earl.Tally.
func (t ExpectedTally) Tally() earl.Tally {
	return earl.Tally{
		Passed:           t.Passed,
		Failed:           t.Failed,
		Skipped:          t.Skipped,
		Continued:        t.Continued,
		BestPractice:     t.BestPractice,
		NotTested:        t.NotTested,
		Warning:          t.Warning,
		InheritedFailure: t.InheritedFailure,
	}
}

// Assertion validates the generated report.
type Assertion struct {
	// Type specifies the assertion type:
	// - "assertion_count": number of EARL assertions in the report
	// - "requirement_count": number of requirements in the report
	// - "requirement_tally": counters of one requirement
	// - "outcome": recorded outcome of one test case
	// - "has_part": requirement lists a test case
	Type string `yaml:"type"`

	// Requirement is the conformance class name (requirement_tally, has_part).
	Requirement string `yaml:"requirement,omitempty"`

	// Tally holds the expected counters (requirement_tally).
	Tally *ExpectedTally `yaml:"tally,omitempty"`

	// Count is the expected number (assertion_count, requirement_count).
	Count int `yaml:"count,omitempty"`

	// TestCase is the test case IRI, path + "#" + local name (outcome, has_part).
	TestCase string `yaml:"test_case,omitempty"`

	// Outcome is the expected outcome as a prefixed name, e.g. "earl:failed"
	// or "cite:Warning" (outcome).
	Outcome string `yaml:"outcome,omitempty"`
}

// Assertion type constants.
const (
	AssertAssertionCount   = "assertion_count"
	AssertRequirementCount = "requirement_count"
	AssertRequirementTally = "requirement_tally"
	AssertOutcome          = "outcome"
	AssertHasPart          = "has_part"
)

// Error kinds accepted by expect_error.
const (
	ErrorKindParse       = "parse"
	ErrorKindDecode      = "decode"
	ErrorKindCorrelation = "correlation"
	ErrorKindOutcome     = "outcome"
)

var errorKinds = []string{ErrorKindParse, ErrorKindDecode, ErrorKindCorrelation, ErrorKindOutcome}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LogXML renders the scenario's execution log document.
func (s *Scenario) LogXML() string {
	switch {
	case s.Log != nil:
		return testutil.ExecutionXML(s.Log.testLog())
	case len(s.Executions) > 0:
		roots := make([]testutil.TestLog, len(s.Executions))
		for i, n := range s.Executions {
			roots[i] = n.testLog()
		}
		return testutil.DocumentXML(roots...)
	}
	return s.RawLog
}

func (n LogNode) testLog() testutil.TestLog {
	l := testutil.TestLog{
		Key:              n.Key,
		Base:             n.Base,
		Name:             n.Name,
		Result:           n.Result,
		ConformanceClass: n.ConformanceClass,
		NoLog:            n.NoLog,
	}
	for _, child := range n.Children {
		l.Children = append(l.Children, child.testLog())
	}
	return l
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, `/\ `) {
		return fmt.Errorf("name %q must not contain separators or spaces", s.Name)
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Suite == "" {
		return fmt.Errorf("suite is required")
	}
	if s.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if u, err := url.Parse(s.Subject); err != nil || !u.IsAbs() {
		return fmt.Errorf("subject %q must be an absolute IRI", s.Subject)
	}

	sources := 0
	for _, set := range []bool{s.Log != nil, len(s.Executions) > 0, s.RawLog != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return fmt.Errorf("one of log, executions or raw_log is required")
	case sources > 1:
		return fmt.Errorf("log, executions and raw_log are mutually exclusive")
	}
	if s.Log != nil {
		if err := validateLogNode("log", s.Log); err != nil {
			return err
		}
	}
	for i := range s.Executions {
		if err := validateLogNode(fmt.Sprintf("executions[%d]", i), &s.Executions[i]); err != nil {
			return err
		}
	}

	if s.ExpectError != "" {
		if !validErrorKind(s.ExpectError) {
			return fmt.Errorf("expect_error: unknown error kind %q (want one of %s)",
				s.ExpectError, strings.Join(errorKinds, ", "))
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions cannot be combined with expect_error")
		}
		return nil
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateLogNode(where string, n *LogNode) error {
	if n.Key == "" {
		return fmt.Errorf("%s: key is required", where)
	}
	if n.Name == "" {
		return fmt.Errorf("%s: name is required", where)
	}
	for i := range n.Children {
		if err := validateLogNode(fmt.Sprintf("%s.children[%d]", where, i), &n.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAssertionCount, AssertRequirementCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertRequirementTally:
		if a.Requirement == "" {
			return fmt.Errorf("assertions[%d]: requirement is required for requirement_tally", index)
		}
		if a.Tally == nil {
			return fmt.Errorf("assertions[%d]: tally is required for requirement_tally", index)
		}
	case AssertOutcome:
		if a.TestCase == "" {
			return fmt.Errorf("assertions[%d]: test_case is required for outcome", index)
		}
		if _, err := expandOutcome(a.Outcome); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertHasPart:
		if a.Requirement == "" || a.TestCase == "" {
			return fmt.Errorf("assertions[%d]: requirement and test_case are required for has_part", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validErrorKind(kind string) bool {
	for _, k := range errorKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// expandOutcome resolves an "earl:" or "cite:" prefixed outcome to its IRI.
func expandOutcome(name string) (string, error) {
	prefix, local, ok := strings.Cut(name, ":")
	if !ok || local == "" {
		return "", fmt.Errorf("outcome %q must be a prefixed name like earl:passed", name)
	}
	switch prefix {
	case "earl":
		return earl.EARLNS + local, nil
	case "cite":
		return earl.CITENS + local, nil
	default:
		return "", fmt.Errorf("outcome %q: unknown prefix %q", name, prefix)
	}
}
