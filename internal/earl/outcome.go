package earl

import (
	"strconv"

	"github.com/roach88/ctlearl/internal/rdf"
)

// Outcome is the semantic category of a test result.
type Outcome int

const (
	OutcomePass Outcome = iota
	OutcomeFail
	OutcomeSkip
	OutcomeContinue
	OutcomeBestPractice
	OutcomeNotTestedAtAll
	OutcomeWarning
	OutcomeInheritedFailure
)

// CTL endtest result codes. Any other code is a pass.
const (
	CodeContinue         = 0
	CodeNotTested        = 2
	CodeSkipped          = 3
	CodeWarning          = 4
	CodeInheritedFailure = 5
	CodeFail             = 6
)

var outcomeNames = map[Outcome]string{
	OutcomePass:             "pass",
	OutcomeFail:             "fail",
	OutcomeSkip:             "skip",
	OutcomeContinue:         "continue",
	OutcomeBestPractice:     "best-practice",
	OutcomeNotTestedAtAll:   "not-tested",
	OutcomeWarning:          "warning",
	OutcomeInheritedFailure: "inherited-failure",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// IRI returns the earl:outcome value recorded for o.
func (o Outcome) IRI() rdf.IRI {
	switch o {
	case OutcomeFail:
		return EARLFailed
	case OutcomeSkip:
		return EARLUntested
	case OutcomeContinue:
		return CITEContinue
	case OutcomeBestPractice:
		return CITEBestPractice
	case OutcomeNotTestedAtAll:
		return CITENotTested
	case OutcomeWarning:
		return CITEWarning
	case OutcomeInheritedFailure:
		return CITEInheritedFailure
	default:
		return EARLPassed
	}
}

// OutcomeForCode maps a CTL result code to its outcome.
func OutcomeForCode(code int) Outcome {
	switch code {
	case CodeContinue:
		return OutcomeContinue
	case CodeNotTested:
		return OutcomeNotTestedAtAll
	case CodeSkipped:
		return OutcomeSkip
	case CodeWarning:
		return OutcomeWarning
	case CodeInheritedFailure:
		return OutcomeInheritedFailure
	case CodeFail:
		return OutcomeFail
	default:
		return OutcomePass
	}
}

// ParseOutcome parses a raw endtest result and maps it to an outcome.
func ParseOutcome(raw string) (Outcome, error) {
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidOutcomeCodeError{Raw: raw, Err: err}
	}
	return OutcomeForCode(code), nil
}

// Tally counts outcomes for one conformance class.
type Tally struct {
	Passed           int `json:"passed"`
	Failed           int `json:"failed"`
	Skipped          int `json:"skipped"`
	Continued        int `json:"continued"`
	BestPractice     int `json:"best_practice"`
	NotTested        int `json:"not_tested"`
	Warning          int `json:"warning"`
	InheritedFailure int `json:"inherited_failure"`
}

// Count increments the counter for o.
//
// Inherited failures are counted as warnings; InheritedFailure is never
// incremented. Report consumers read testsWarning for both.
func (t *Tally) Count(o Outcome) {
	switch o {
	case OutcomeFail:
		t.Failed++
	case OutcomeSkip:
		t.Skipped++
	case OutcomeContinue:
		t.Continued++
	case OutcomeBestPractice:
		t.BestPractice++
	case OutcomeNotTestedAtAll:
		t.NotTested++
	case OutcomeWarning, OutcomeInheritedFailure:
		t.Warning++
	default:
		t.Passed++
	}
}

// Total returns the sum of all counters.
func (t Tally) Total() int {
	return t.Passed + t.Failed + t.Skipped + t.Continued + t.BestPractice +
		t.NotTested + t.Warning + t.InheritedFailure
}

// Classify parses raw, counts the outcome on t and returns it.
// t is left unchanged when raw is not a valid code.
func Classify(raw string, t *Tally) (Outcome, error) {
	o, err := ParseOutcome(raw)
	if err != nil {
		return 0, err
	}
	t.Count(o)
	return o, nil
}
