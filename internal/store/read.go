package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns
// every run. Requirements are not loaded.
//
// Returns an empty slice (not nil) when the history is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, subject, created_at, output_path, assertions
		FROM runs
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given id and its requirements.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, suite, subject, created_at, output_path, assertions
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	run.Requirements, err = s.RunRequirements(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// RunRequirements returns the requirements of a run ordered by position.
func (s *Store) RunRequirements(ctx context.Context, runID string) ([]RunRequirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, name, passed, failed, skipped, continued,
		       best_practice, not_tested, warning, inherited_failure
		FROM run_requirements
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query requirements: %w", err)
	}
	defer rows.Close()

	reqs := []RunRequirement{}
	for rows.Next() {
		var r RunRequirement
		t := &r.Tally
		if err := rows.Scan(&r.Position, &r.Name,
			&t.Passed, &t.Failed, &t.Skipped, &t.Continued,
			&t.BestPractice, &t.NotTested, &t.Warning, &t.InheritedFailure,
		); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		reqs = append(reqs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirements: %w", err)
	}
	return reqs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run     Run
		created string
	)
	err := sc.Scan(&run.ID, &run.Suite, &run.Subject, &created, &run.OutputPath, &run.Assertions)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at of run %s: %w", run.ID, err)
	}
	return run, nil
}
