package cli

import (
	"fmt"
	"io"

	"github.com/roach88/ctlearl/internal/earl"
)

// RequirementResult is the JSON form of one requirement's tally.
type RequirementResult struct {
	Name  string     `json:"name"`
	Tally earl.Tally `json:"tally"`
	Total int        `json:"total"`
}

func requirementResults(reqs []earl.Requirement) []RequirementResult {
	out := make([]RequirementResult, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequirementResult{Name: r.Name, Tally: r.Tally, Total: r.Tally.Total()})
	}
	return out
}

// writeTallies prints one line per requirement.
func writeTallies(w io.Writer, reqs []RequirementResult) {
	if len(reqs) == 0 {
		fmt.Fprintln(w, "  (no conformance classes)")
		return
	}
	width := 0
	for _, r := range reqs {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}
	for _, r := range reqs {
		t := r.Tally
		fmt.Fprintf(w, "  %-*s  passed=%d failed=%d skipped=%d continue=%d best-practice=%d not-tested=%d warning=%d\n",
			width, r.Name,
			t.Passed, t.Failed, t.Skipped, t.Continued, t.BestPractice, t.NotTested, t.Warning)
	}
}
