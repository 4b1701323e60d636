// Package store keeps a SQLite history of generated reports.
//
// Each successful generation records one run with its per-requirement
// tallies:
//   - runs: one row per report (UUIDv7 id, suite, subject, output path)
//   - run_requirements: the eight counters of each requirement, in the
//     order the requirements appear in the report
//
// Runs are listed newest first. Requirements are ordered by position, so a
// history read reproduces the report's requirement sequence.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
