package earl

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/roach88/ctlearl/internal/rdf"
)

// Clock supplies report timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Assertor identifies the harness that produced the results.
type Assertor struct {
	IRI         string `yaml:"iri"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// DefaultAssertor returns the TEAM Engine identity.
func DefaultAssertor() Assertor {
	return Assertor{
		IRI:         "https://github.com/opengeospatial/teamengine",
		Title:       "OGC TEAM Engine",
		Description: "Official test harness of the OGC conformance testing program (CITE).",
	}
}

// DefaultLang is the language tag of assertor literals.
const DefaultLang = "en"

// Options configures a Builder. Zero fields take their defaults.
type Options struct {
	Assertor Assertor
	Lang     string
	Clock    Clock
}

// Requirement is the state of one conformance-class requirement.
type Requirement struct {
	// ID is the sanitized name used as the requirement IRI.
	ID string `json:"id"`
	// Name is the conformance class name as it appears in the log.
	Name string `json:"name"`
	// Tally holds the counters written at finalization.
	Tally Tally `json:"tally"`
	// Assertions is the number of assertions recorded under the requirement.
	Assertions int `json:"assertions"`
	// Finalized is set once the counters were written.
	Finalized bool `json:"finalized"`
}

var whitespace = regexp.MustCompile(`\s`)

// SanitizeName derives a requirement identifier from a conformance class
// name by replacing every whitespace character with a hyphen.
func SanitizeName(name string) string {
	return whitespace.ReplaceAllString(name, "-")
}

// Builder accumulates one EARL report graph. Operations only ever add
// statements.
//
// Builder is not safe for concurrent use.
type Builder struct {
	graph    *rdf.Graph
	clock    Clock
	lang     string
	assertor Assertor

	run        rdf.BlankNode
	created    time.Time
	assertorID rdf.IRI
	subject    rdf.IRI

	reqs    []*Requirement
	reqByID map[string]*Requirement

	// seq numbers assertion/result pairs; it only ever increases.
	seq         int
	initialized bool
	attached    bool
}

// NewBuilder creates a builder with an empty graph.
func NewBuilder(opts Options) *Builder {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}
	def := DefaultAssertor()
	if opts.Assertor.IRI == "" {
		opts.Assertor.IRI = def.IRI
	}
	if opts.Assertor.Title == "" {
		opts.Assertor.Title = def.Title
	}
	if opts.Assertor.Description == "" {
		opts.Assertor.Description = def.Description
	}
	g := rdf.NewGraph()
	bindPrefixes(g)
	return &Builder{
		graph:    g,
		clock:    opts.Clock,
		lang:     opts.Lang,
		assertor: opts.Assertor,
		reqByID:  make(map[string]*Requirement),
	}
}

// Initialize creates the test run, the assertor and the test subject.
func (b *Builder) Initialize(suiteTitle, subjectURI string) error {
	if b.initialized {
		return fmt.Errorf("earl: report already initialized")
	}
	g := b.graph

	b.created = b.clock.Now().UTC()
	b.run = g.NewBlankNode()
	g.Add(b.run, rdf.RDFType, CITETestRun)
	g.Add(b.run, DCTTitle, rdf.PlainLiteral(suiteTitle))
	g.Add(b.run, DCTCreated, rdf.PlainLiteral(b.created.Format(time.RFC3339)))

	b.assertorID = rdf.IRI{Value: b.assertor.IRI}
	g.Add(b.assertorID, rdf.RDFType, EARLAssertor)
	g.Add(b.assertorID, DCTTitle, rdf.LangLiteral(b.assertor.Title, b.lang))
	g.Add(b.assertorID, DCTDescription, rdf.LangLiteral(b.assertor.Description, b.lang))

	b.subject = rdf.IRI{Value: subjectURI}
	g.Add(b.subject, rdf.RDFType, EARLTestSubject)

	b.initialized = true
	return nil
}

// StartRequirement registers the requirement for a conformance class and
// returns its identifier. Starting a name that already exists returns the
// existing identifier without adding it to the run's sequence again.
func (b *Builder) StartRequirement(name string) (string, error) {
	if !b.initialized {
		return "", ErrNotInitialized
	}
	id := SanitizeName(name)
	if _, ok := b.reqByID[id]; ok {
		return id, nil
	}
	req := &Requirement{ID: id, Name: name}
	b.reqs = append(b.reqs, req)
	b.reqByID[id] = req

	iri := rdf.IRI{Value: id}
	b.graph.Add(iri, rdf.RDFType, EARLTestRequirement)
	b.graph.Add(iri, DCTTitle, rdf.PlainLiteral(name))
	return id, nil
}

// RecordAssertion adds the assertion, result and test case for one executed
// test and links the test case under the named conformance class. It returns
// the assertion number.
func (b *Builder) RecordAssertion(subjectPath, localName string, outcome Outcome, className string) (int, error) {
	if !b.initialized {
		return 0, ErrNotInitialized
	}
	req, ok := b.reqByID[SanitizeName(className)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRequirement, className)
	}

	b.seq++
	n := strconv.Itoa(b.seq)
	g := b.graph

	assertion := rdf.IRI{Value: "assert-" + n}
	g.Add(assertion, rdf.RDFType, EARLAssertion)
	g.Add(assertion, EARLMode, EARLAutomatic)
	g.Add(assertion, EARLAssertedBy, b.assertorID)
	g.Add(assertion, EARLSubject, b.subject)

	result := rdf.IRI{Value: "result-" + n}
	g.Add(result, rdf.RDFType, EARLTestResult)
	g.Add(result, DCTDate, rdf.Literal{
		Lexical:  b.clock.Now().UTC().Format(time.RFC3339),
		Datatype: rdf.XSDDateTime,
	})
	g.Add(result, EARLOutcome, outcome.IRI())
	g.Add(assertion, EARLResult, result)

	testCase := rdf.IRI{Value: subjectPath + "#" + localName}
	g.Add(testCase, rdf.RDFType, EARLTestCase)
	g.Add(testCase, DCTTitle, rdf.PlainLiteral(localName))
	g.Add(testCase, DCTDescription, rdf.PlainLiteral(TestCaseDescription))
	g.Add(assertion, EARLTest, testCase)
	g.Add(rdf.IRI{Value: req.ID}, DCTHasPart, testCase)

	req.Assertions++
	return b.seq, nil
}

// FinalizeRequirement writes the eight counters of tally onto the named
// requirement. Each requirement is finalized at most once.
func (b *Builder) FinalizeRequirement(name string, tally Tally) error {
	req, ok := b.reqByID[SanitizeName(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRequirement, name)
	}
	if req.Finalized {
		return fmt.Errorf("%w: %q", ErrRequirementFinalized, name)
	}
	iri := rdf.IRI{Value: req.ID}
	g := b.graph
	g.Add(iri, CITETestsPassed, rdf.IntLiteral(tally.Passed))
	g.Add(iri, CITETestsFailed, rdf.IntLiteral(tally.Failed))
	g.Add(iri, CITETestsSkipped, rdf.IntLiteral(tally.Skipped))
	g.Add(iri, CITETestsContinue, rdf.IntLiteral(tally.Continued))
	g.Add(iri, CITETestsBestPractice, rdf.IntLiteral(tally.BestPractice))
	g.Add(iri, CITETestsNotTested, rdf.IntLiteral(tally.NotTested))
	g.Add(iri, CITETestsWarning, rdf.IntLiteral(tally.Warning))
	g.Add(iri, CITETestsInherited, rdf.IntLiteral(tally.InheritedFailure))
	req.Tally = tally
	req.Finalized = true
	return nil
}

// AttachRequirements links the run to an rdf:Seq of every started
// requirement, in the order they were started.
func (b *Builder) AttachRequirements() error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if b.attached {
		return nil
	}
	seq := b.graph.NewBlankNode()
	b.graph.Add(b.run, CITERequirements, seq)
	b.graph.Add(seq, rdf.RDFType, rdf.RDFSeq)
	for i, req := range b.reqs {
		b.graph.Add(seq, rdf.SeqMember(i+1), rdf.IRI{Value: req.ID})
	}
	b.attached = true
	return nil
}

// Graph returns the report graph.
func (b *Builder) Graph() *rdf.Graph {
	return b.graph
}

// Requirements returns a snapshot of every requirement in start order.
func (b *Builder) Requirements() []Requirement {
	out := make([]Requirement, len(b.reqs))
	for i, req := range b.reqs {
		out[i] = *req
	}
	return out
}

// Created returns the creation instant of the test run.
func (b *Builder) Created() time.Time {
	return b.created
}

// Assertions returns the number of assertions recorded so far.
func (b *Builder) Assertions() int {
	return b.seq
}
