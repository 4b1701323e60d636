package store

import (
	"errors"
	"time"

	"github.com/roach88/ctlearl/internal/earl"
)

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one recorded report generation.
type Run struct {
	ID         string    `json:"id"`
	Suite      string    `json:"suite"`
	Subject    string    `json:"subject"`
	CreatedAt  time.Time `json:"created_at"`
	OutputPath string    `json:"output_path"`
	Assertions int       `json:"assertions"`

	Requirements []RunRequirement `json:"requirements,omitempty"`
}

// RunRequirement is the tally of one requirement within a run.
type RunRequirement struct {
	// Position is the 1-based place of the requirement in the report sequence.
	Position int        `json:"position"`
	Name     string     `json:"name"`
	Tally    earl.Tally `json:"tally"`
}
