package store

import (
	"context"
	"fmt"
	"time"
)

// RecordRun inserts run and its requirements in one transaction and returns
// the run id. An empty run.ID is filled from the store's id generator.
// Recording a run id that already exists is a no-op.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, subject, created_at, output_path, assertions)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Suite,
		run.Subject,
		formatTime(run.CreatedAt),
		run.OutputPath,
		run.Assertions,
	)
	if err != nil {
		return "", fmt.Errorf("record run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return run.ID, nil
	}

	for i, req := range run.Requirements {
		pos := req.Position
		if pos == 0 {
			pos = i + 1
		}
		t := req.Tally
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_requirements
			(run_id, position, name, passed, failed, skipped, continued,
			 best_practice, not_tested, warning, inherited_failure)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID, pos, req.Name,
			t.Passed, t.Failed, t.Skipped, t.Continued,
			t.BestPractice, t.NotTested, t.Warning, t.InheritedFailure,
		)
		if err != nil {
			return "", fmt.Errorf("record requirement %q of run %s: %w", req.Name, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run %s: commit: %w", run.ID, err)
	}
	return run.ID, nil
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
