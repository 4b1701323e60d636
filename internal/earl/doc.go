// Package earl assembles EARL (Evaluation and Report Language) conformance
// reports.
//
// A Builder owns one report graph: a test run, the assertor that produced
// it, the subject under test, one requirement per conformance class, and an
// assertion/result/test-case triple per executed test. Outcome codes from the
// execution log are classified into Outcome values and tallied per
// conformance class; the tallies are written onto the requirement when the
// class is finalized.
package earl
