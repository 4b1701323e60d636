package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ctlearl/internal/ctllog"
	"github.com/roach88/ctlearl/internal/earl"
)

// classState is the conformance class currently accumulating results. It is
// threaded through the subtree recursion by pointer.
type classState struct {
	name  string
	open  bool
	tally *earl.Tally
}

// Walker walks execution call trees and records every executed test.
//
// A Walker is bound to one builder and is not safe for concurrent use.
type Walker struct {
	builder *earl.Builder
	index   *ctllog.LogIndex
	logger  *slog.Logger

	// tallies holds one running tally per requirement id; a class entered
	// at several boundaries keeps adding to the same tally.
	tallies map[string]*earl.Tally
	order   []string
}

// NewWalker creates a walker that records into b and resolves call paths with
// index. A nil logger discards output.
func NewWalker(b *earl.Builder, index *ctllog.LogIndex, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Walker{
		builder: b,
		index:   index,
		logger:  logger,
		tallies: make(map[string]*earl.Tally),
	}
}

// Walk walks every execution of doc in document order, then finalizes each
// requirement once, in the order the classes were first entered. On error
// nothing is finalized.
func (w *Walker) Walk(doc *ctllog.Document) error {
	for i, exec := range doc.Executions {
		if err := w.walkExecution(exec); err != nil {
			return fmt.Errorf("execution %d: %w", i+1, err)
		}
	}
	for _, id := range w.order {
		if err := w.finalize(id); err != nil {
			return err
		}
	}
	return nil
}

// walkExecution walks the top-level calls of one execution.
//
// A top-level record carrying a conformanceClass marker switches results to
// that class. Calls made before any marker count toward a class named after
// the first such call.
func (w *Walker) walkExecution(exec *ctllog.Execution) error {
	root := exec.Root()
	scope := exec.Scope(root)

	var state classState
	for _, call := range root.Calls {
		rec, err := w.index.Find(scope, call.Path)
		if err != nil {
			return fmt.Errorf("resolve top-level call: %w", err)
		}

		switch {
		case rec.ConformanceClass:
			if err := w.enter(&state, rec); err != nil {
				return err
			}
			key, _ := w.index.Key(rec)
			w.logger.Info("conformance class",
				"name", rec.LocalName,
				"path", key,
			)
		case !state.open:
			if err := w.enter(&state, rec); err != nil {
				return err
			}
			w.logger.Warn("test call outside any conformance class",
				"name", rec.LocalName,
				"path", call.Path,
			)
		}

		if err := w.processSubtree(exec, rec, &state); err != nil {
			return err
		}
	}
	return nil
}

// enter makes rec's class current, starting its requirement on first use.
func (w *Walker) enter(state *classState, rec *ctllog.LogRecord) error {
	id, err := w.builder.StartRequirement(rec.LocalName)
	if err != nil {
		return fmt.Errorf("start requirement %q: %w", rec.LocalName, err)
	}
	tally, seen := w.tallies[id]
	if !seen {
		tally = &earl.Tally{}
		w.tallies[id] = tally
		w.order = append(w.order, id)
	} else {
		w.logger.Debug("conformance class re-entered", "name", rec.LocalName)
	}
	*state = classState{name: rec.LocalName, open: true, tally: tally}
	return nil
}

func (w *Walker) finalize(id string) error {
	tally := *w.tallies[id]
	if err := w.builder.FinalizeRequirement(id, tally); err != nil {
		return fmt.Errorf("finalize requirement: %w", err)
	}
	w.logger.Debug("requirement finalized",
		"id", id,
		"total", tally.Total(),
		"failed", tally.Failed,
	)
	return nil
}

// processSubtree records every call made by rec and descends into calls that
// made calls of their own. All results count toward the class in state, at
// any depth.
func (w *Walker) processSubtree(exec *ctllog.Execution, rec *ctllog.LogRecord, state *classState) error {
	scope := exec.Scope(rec)
	for _, call := range rec.Calls {
		child, err := w.index.Find(scope, call.Path)
		if err != nil {
			return fmt.Errorf("resolve call from %q: %w", rec.LocalName, err)
		}

		outcome, err := earl.Classify(child.Result, state.tally)
		if err != nil {
			return fmt.Errorf("test %q at line %d: %w", child.LocalName, child.Line, err)
		}
		n, err := w.builder.RecordAssertion(call.Path, child.LocalName, outcome, state.name)
		if err != nil {
			return fmt.Errorf("record %q: %w", child.LocalName, err)
		}
		w.logger.Debug("assertion recorded",
			"seq", n,
			"test", child.LocalName,
			"path", call.Path,
			"outcome", outcome.String(),
		)

		if child.HasCalls() {
			if err := w.processSubtree(exec, child, state); err != nil {
				return err
			}
		}
	}
	return nil
}
