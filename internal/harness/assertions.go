package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/rdf"
	"github.com/roach88/ctlearl/internal/report"
)

// EvaluateAssertions checks every assertion against a generated report and
// returns one message per failed assertion.
func EvaluateAssertions(sum *report.Summary, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(sum, &a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(sum *report.Summary, a *Assertion) error {
	switch a.Type {
	case AssertAssertionCount:
		if sum.Assertions != a.Count {
			return fmt.Errorf("expected %d assertions, got %d", a.Count, sum.Assertions)
		}
	case AssertRequirementCount:
		if len(sum.Requirements) != a.Count {
			return fmt.Errorf("expected %d requirements, got %d", a.Count, len(sum.Requirements))
		}
	case AssertRequirementTally:
		return assertTally(sum, a)
	case AssertOutcome:
		return assertOutcome(sum, a)
	case AssertHasPart:
		return assertHasPart(sum, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func findRequirement(sum *report.Summary, name string) (*earl.Requirement, error) {
	id := earl.SanitizeName(name)
	for i := range sum.Requirements {
		if sum.Requirements[i].ID == id {
			return &sum.Requirements[i], nil
		}
	}
	names := make([]string, len(sum.Requirements))
	for i, r := range sum.Requirements {
		names[i] = r.Name
	}
	return nil, fmt.Errorf("requirement %q not found (have: %s)", name, strings.Join(names, ", "))
}

func assertTally(sum *report.Summary, a *Assertion) error {
	req, err := findRequirement(sum, a.Requirement)
	if err != nil {
		return err
	}
	if !req.Finalized {
		return fmt.Errorf("requirement %q was never finalized", a.Requirement)
	}
	want := a.Tally.Tally()
	if req.Tally != want {
		return fmt.Errorf("requirement %q: expected tally %+v, got %+v", a.Requirement, want, req.Tally)
	}
	return nil
}

func assertOutcome(sum *report.Summary, a *Assertion) error {
	want, err := expandOutcome(a.Outcome)
	if err != nil {
		return err
	}
	g := sum.Graph
	testCase := rdf.IRI{Value: a.TestCase}

	var got []string
	for _, assertion := range g.Subjects(earl.EARLTest, testCase) {
		for _, result := range g.Objects(assertion, earl.EARLResult) {
			for _, outcome := range g.Objects(result, earl.EARLOutcome) {
				if outcome.String() == want {
					return nil
				}
				got = append(got, outcome.String())
			}
		}
	}
	if len(got) == 0 {
		return fmt.Errorf("no assertion recorded for test case %q", a.TestCase)
	}
	return fmt.Errorf("test case %q: expected outcome %s, got %s", a.TestCase, want, strings.Join(got, ", "))
}

func assertHasPart(sum *report.Summary, a *Assertion) error {
	req, err := findRequirement(sum, a.Requirement)
	if err != nil {
		return err
	}
	if !sum.Graph.Has(rdf.IRI{Value: req.ID}, earl.DCTHasPart, rdf.IRI{Value: a.TestCase}) {
		return fmt.Errorf("requirement %q has no part %q", a.Requirement, a.TestCase)
	}
	return nil
}
