package harness

import (
	"github.com/roach88/ctlearl/internal/report"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when generation behaved as expected and every
	// assertion held.
	Pass bool `json:"pass"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary describes the generated report. Nil when generation failed.
	Summary *report.Summary `json:"summary,omitempty"`

	// Report holds the serialized RDF/XML report.
	Report []byte `json:"-"`

	// GenerationError is the error returned by the generator, if any.
	GenerationError error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
