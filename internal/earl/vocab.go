package earl

import "github.com/roach88/ctlearl/internal/rdf"

// Namespaces bound in every report.
const (
	EARLNS    = "http://www.w3.org/ns/earl#"
	DCTermsNS = "http://purl.org/dc/terms/"
	CITENS    = "http://cite.opengeospatial.org/"
	HTTPNS    = "http://www.w3.org/2011/http#"
	ContentNS = "http://www.w3.org/2011/content#"
)

var (
	earlNS = rdf.Namespace(EARLNS)
	dctNS  = rdf.Namespace(DCTermsNS)
	citeNS = rdf.Namespace(CITENS)
)

// EARL vocabulary.
var (
	EARLAssertion       = earlNS.IRI("Assertion")
	EARLAssertor        = earlNS.IRI("Assertor")
	EARLTestSubject     = earlNS.IRI("TestSubject")
	EARLTestRequirement = earlNS.IRI("TestRequirement")
	EARLTestCase        = earlNS.IRI("TestCase")
	EARLTestResult      = earlNS.IRI("TestResult")
	EARLAutomatic       = earlNS.IRI("automatic")
	EARLPassed          = earlNS.IRI("passed")
	EARLFailed          = earlNS.IRI("failed")
	EARLUntested        = earlNS.IRI("untested")

	EARLMode       = earlNS.IRI("mode")
	EARLAssertedBy = earlNS.IRI("assertedBy")
	EARLSubject    = earlNS.IRI("subject")
	EARLResult     = earlNS.IRI("result")
	EARLOutcome    = earlNS.IRI("outcome")
	EARLTest       = earlNS.IRI("test")
)

// Dublin Core terms.
var (
	DCTTitle       = dctNS.IRI("title")
	DCTDescription = dctNS.IRI("description")
	DCTDate        = dctNS.IRI("date")
	DCTCreated     = dctNS.IRI("created")
	DCTHasPart     = dctNS.IRI("hasPart")
)

// CITE vocabulary.
var (
	CITETestRun           = citeNS.IRI("TestRun")
	CITERequirements      = citeNS.IRI("requirements")
	CITEContinue          = citeNS.IRI("Continue")
	CITENotTested         = citeNS.IRI("Not_Tested")
	CITEWarning           = citeNS.IRI("Warning")
	CITEInheritedFailure  = citeNS.IRI("Inherited_Failure")
	CITEBestPractice      = citeNS.IRI("Best_Practice")
	CITETestsPassed       = citeNS.IRI("testsPassed")
	CITETestsFailed       = citeNS.IRI("testsFailed")
	CITETestsSkipped      = citeNS.IRI("testsSkipped")
	CITETestsContinue     = citeNS.IRI("testsContinue")
	CITETestsBestPractice = citeNS.IRI("testsBestPractice")
	CITETestsNotTested    = citeNS.IRI("testsNotTested")
	CITETestsWarning      = citeNS.IRI("testsWarning")
	CITETestsInherited    = citeNS.IRI("testsInheritedFailure")
)

// TestCaseDescription is the description attached to every test case.
const TestCaseDescription = "Test satisfies the OGC specification"

func bindPrefixes(g *rdf.Graph) {
	g.SetPrefix("earl", EARLNS)
	g.SetPrefix("dct", DCTermsNS)
	g.SetPrefix("cite", CITENS)
	g.SetPrefix("http", HTTPNS)
	g.SetPrefix("cnt", ContentNS)
}
