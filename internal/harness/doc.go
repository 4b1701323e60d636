// Package harness runs conformance scenarios against the report generator.
//
// A scenario describes a CTL execution log as a tree of tests, converts it
// into an EARL report and checks the outcome with declarative assertions.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: basic_crs
//	description: "One conformance class with a failed and a passed test"
//	suite: wms-1.3.0
//	subject: http://example.org/wms
//	log:
//	  key: s0001
//	  name: main
//	  children:
//	    - key: s0001/d1e5_1
//	      name: Basic CRS
//	      conformance_class: true
//	      children:
//	        - { key: s0001/d1e5_1/d2e3_1, name: t1, result: 6 }
//	        - { key: s0001/d1e5_1/d2e7_1, name: t2, result: 1 }
//	assertions:
//	  - type: assertion_count
//	    count: 2
//	  - type: requirement_tally
//	    requirement: Basic CRS
//	    tally: { passed: 1, failed: 1 }
//	  - type: outcome
//	    test_case: s0001/d1e5_1/d2e3_1#t1
//	    outcome: earl:failed
//
// A document with several execution elements lists their root logs under
// executions instead of log.
//
// A scenario whose generation must fail names the expected error kind in
// expect_error (parse, decode, correlation or outcome); assertions are not
// evaluated for such scenarios.
//
// # Deterministic Testing
//
// Every scenario runs with a fixed clock, a forward-slash path normalizer
// and a fresh temporary directory named after the scenario, so the report
// bytes are identical across runs and platforms and can be compared against
// golden files.
package harness
