// Package report turns a parsed CTL execution log into an EARL report.
//
// The Walker correlates each execution's call tree with its log records and
// feeds classified results to an earl.Builder. Generator runs the whole
// pipeline for one log file: parse, walk, serialize, and an atomic write of
// earl-results.rdf into the output directory. A failed generation never
// leaves a partial report behind.
package report
