package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ctlearl/internal/ctllog"
	"github.com/roach88/ctlearl/internal/earl"
	"github.com/roach88/ctlearl/internal/rdf"
	"github.com/roach88/ctlearl/internal/testutil"
)

var slash = ctllog.Normalizer{Separator: "/", Skip: ctllog.SkippedSegments}

// basicCRS is one conformance class with a failing and a passing test.
func basicCRS() testutil.TestLog {
	return testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{{
			Key:              "s0001/d1e5_1",
			Name:             "Basic CRS",
			ConformanceClass: true,
			Children: []testutil.TestLog{
				{Key: "s0001/d1e5_1/d2e3_1", Name: "t1", Result: 6},
				{Key: "s0001/d1e5_1/d2e7_1", Name: "t2", Result: 9},
			},
		}},
	}
}

func newBuilder(t *testing.T) *earl.Builder {
	t.Helper()
	b := earl.NewBuilder(earl.Options{Clock: testutil.NewFixedClock(time.Time{})})
	require.NoError(t, b.Initialize("wms-1.3.0", "http://example.org/wms"))
	return b
}

func walkXML(t *testing.T, xml string) (*earl.Builder, error) {
	t.Helper()
	doc, err := ctllog.Parse(strings.NewReader(xml))
	require.NoError(t, err)
	b := newBuilder(t)
	return b, NewWalker(b, ctllog.NewLogIndex(slash), nil).Walk(doc)
}

func walkFixture(t *testing.T, roots ...testutil.TestLog) (*earl.Builder, error) {
	t.Helper()
	return walkXML(t, testutil.DocumentXML(roots...))
}

func requirement(t *testing.T, b *earl.Builder, id string) earl.Requirement {
	t.Helper()
	for _, req := range b.Requirements() {
		if req.ID == id {
			return req
		}
	}
	t.Fatalf("requirement %q not found", id)
	return earl.Requirement{}
}

func hasParts(b *earl.Builder, id string) []rdf.Term {
	return b.Graph().Objects(rdf.IRI{Value: id}, earl.DCTHasPart)
}

func TestWalkBasicCRS(t *testing.T) {
	b, err := walkFixture(t, basicCRS())
	require.NoError(t, err)

	req := requirement(t, b, "Basic-CRS")
	assert.Equal(t, "Basic CRS", req.Name)
	assert.True(t, req.Finalized)
	assert.Equal(t, earl.Tally{Passed: 1, Failed: 1}, req.Tally)
	assert.Equal(t, 2, req.Assertions)
	assert.Equal(t, 2, b.Assertions())

	assert.ElementsMatch(t, []rdf.Term{
		rdf.IRI{Value: "s0001/d1e5_1/d2e3_1#t1"},
		rdf.IRI{Value: "s0001/d1e5_1/d2e7_1#t2"},
	}, hasParts(b, "Basic-CRS"))

	g := b.Graph()
	assert.True(t, g.Has(rdf.IRI{Value: "result-1"}, earl.EARLOutcome, earl.EARLFailed))
	assert.True(t, g.Has(rdf.IRI{Value: "result-2"}, earl.EARLOutcome, earl.EARLPassed))
	assert.Len(t, g.Subjects(rdf.RDFType, earl.EARLAssertion), 2)
}

func TestWalkBoundaryProducesNoAssertion(t *testing.T) {
	b, err := walkFixture(t, basicCRS())
	require.NoError(t, err)

	assert.False(t, b.Graph().Has(rdf.IRI{Value: "s0001/d1e5_1#Basic CRS"}, rdf.RDFType, earl.EARLTestCase))
}

func TestWalkThreeLevelsDeep(t *testing.T) {
	root := testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{{
			Key:              "s0001/cc",
			Name:             "Nested",
			ConformanceClass: true,
			Children: []testutil.TestLog{{
				Key:    "s0001/cc/a",
				Name:   "a",
				Result: 1,
				Children: []testutil.TestLog{{
					Key:    "s0001/cc/a/b",
					Name:   "b",
					Result: 3,
					Children: []testutil.TestLog{
						{Key: "s0001/cc/a/b/c", Name: "c", Result: 6},
					},
				}},
			}},
		}},
	}
	b, err := walkFixture(t, root)
	require.NoError(t, err)

	reqs := b.Requirements()
	require.Len(t, reqs, 1)
	assert.Equal(t, earl.Tally{Passed: 1, Skipped: 1, Failed: 1}, reqs[0].Tally)

	assert.ElementsMatch(t, []rdf.Term{
		rdf.IRI{Value: "s0001/cc/a#a"},
		rdf.IRI{Value: "s0001/cc/a/b#b"},
		rdf.IRI{Value: "s0001/cc/a/b/c#c"},
	}, hasParts(b, "Nested"))
	assert.Empty(t, hasParts(b, "a"))
	assert.Empty(t, hasParts(b, "b"))
}

func TestWalkSeveralClasses(t *testing.T) {
	root := testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{
			{
				Key: "s0001/cc1", Name: "Basic CRS", ConformanceClass: true,
				Children: []testutil.TestLog{
					{Key: "s0001/cc1/t1", Name: "t1", Result: 1},
					{Key: "s0001/cc1/t2", Name: "t2", Result: 5},
				},
			},
			{
				Key: "s0001/cc2", Name: "Queryable", ConformanceClass: true,
				Children: []testutil.TestLog{
					{Key: "s0001/cc2/t3", Name: "t3", Result: 4},
					{Key: "s0001/cc2/t4", Name: "t4", Result: 0},
					{Key: "s0001/cc2/t5", Name: "t5", Result: 2},
				},
			},
		},
	}
	b, err := walkFixture(t, root)
	require.NoError(t, err)

	first := requirement(t, b, "Basic-CRS")
	assert.Equal(t, earl.Tally{Passed: 1, Warning: 1}, first.Tally)
	second := requirement(t, b, "Queryable")
	assert.Equal(t, earl.Tally{Warning: 1, Continued: 1, NotTested: 1}, second.Tally)

	for _, req := range b.Requirements() {
		assert.True(t, req.Finalized, req.ID)
		assert.Equal(t, req.Assertions, req.Tally.Total(), req.ID)
		assert.Len(t, hasParts(b, req.ID), req.Assertions, req.ID)
	}

	g := b.Graph()
	assert.True(t, g.Has(rdf.IRI{Value: "result-2"}, earl.EARLOutcome, earl.CITEInheritedFailure))
}

func TestWalkNonBoundaryAccumulatesIntoCurrentClass(t *testing.T) {
	root := testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{
			{
				Key: "s0001/cc1", Name: "Basic CRS", ConformanceClass: true,
				Children: []testutil.TestLog{{Key: "s0001/cc1/t1", Name: "t1", Result: 1}},
			},
			{
				Key: "s0001/extra", Name: "extra",
				Children: []testutil.TestLog{{Key: "s0001/extra/t2", Name: "t2", Result: 6}},
			},
		},
	}
	b, err := walkFixture(t, root)
	require.NoError(t, err)

	reqs := b.Requirements()
	require.Len(t, reqs, 1)
	assert.Equal(t, earl.Tally{Passed: 1, Failed: 1}, reqs[0].Tally)
}

func TestWalkImplicitClass(t *testing.T) {
	root := testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{{
			Key: "s0001/loose", Name: "loose",
			Children: []testutil.TestLog{{Key: "s0001/loose/t1", Name: "t1", Result: 6}},
		}},
	}
	b, err := walkFixture(t, root)
	require.NoError(t, err)

	req := requirement(t, b, "loose")
	assert.True(t, req.Finalized)
	assert.Equal(t, earl.Tally{Failed: 1}, req.Tally)
}

func TestWalkMissingLogAborts(t *testing.T) {
	root := basicCRS()
	root.Children[0].Children = append(root.Children[0].Children,
		testutil.TestLog{Key: "s0001/d1e5_1/gone", Name: "gone", NoLog: true})

	b, err := walkFixture(t, root)
	require.Error(t, err)
	assert.True(t, ctllog.IsCorrelationError(err))
	assert.Contains(t, err.Error(), "s0001/d1e5_1/gone")

	req := requirement(t, b, "Basic-CRS")
	assert.False(t, req.Finalized)
	assert.Empty(t, b.Graph().Objects(rdf.IRI{Value: "Basic-CRS"}, earl.CITETestsPassed))
}

func TestWalkUndecodableBaseAborts(t *testing.T) {
	root := basicCRS()
	root.Children[0].Children[0].Base = "file:/home/te_base/s0001/d1e5_1/d2e3%zz/log.xml"

	_, err := walkFixture(t, root)
	require.Error(t, err)
	assert.True(t, ctllog.IsCorrelationError(err))
	assert.True(t, ctllog.IsDecodeError(err))
}

func TestWalkInvalidOutcomeCode(t *testing.T) {
	xml := `<report><execution>
  <log xml:base="file:/home/te_base/s0001/log.xml">
    <starttest local-name="main"/>
    <testcall path="s0001/cc"/>
    <log xml:base="file:/home/te_base/s0001/cc/log.xml">
      <starttest local-name="Basic CRS"/>
      <conformanceClass/>
      <testcall path="s0001/cc/t1"/>
      <log xml:base="file:/home/te_base/s0001/cc/t1/log.xml">
        <starttest local-name="t1"/>
        <endtest result="broken"/>
      </log>
      <endtest result="1"/>
    </log>
    <endtest result="1"/>
  </log>
</execution></report>`

	b, err := walkXML(t, xml)
	require.Error(t, err)
	assert.True(t, earl.IsInvalidOutcomeCode(err))
	assert.Zero(t, b.Assertions())
}

func TestWalkRepeatedBoundaryMergesTally(t *testing.T) {
	root := testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{
			{
				Key: "s0001/d1e5_1", Name: "Basic CRS", ConformanceClass: true,
				Children: []testutil.TestLog{{Key: "s0001/d1e5_1/t1", Name: "t1", Result: 6}},
			},
			{
				Key: "s0001/d1e9_1", Name: "Queryable", ConformanceClass: true,
				Children: []testutil.TestLog{{Key: "s0001/d1e9_1/t2", Name: "t2", Result: 3}},
			},
			{
				Key: "s0001/d1e5_2", Name: "Basic CRS", ConformanceClass: true,
				Children: []testutil.TestLog{{Key: "s0001/d1e5_2/t1", Name: "t1", Result: 1}},
			},
		},
	}
	b, err := walkFixture(t, root)
	require.NoError(t, err)

	reqs := b.Requirements()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Basic-CRS", reqs[0].ID)
	assert.Equal(t, earl.Tally{Passed: 1, Failed: 1}, reqs[0].Tally)
	assert.Equal(t, earl.Tally{Skipped: 1}, reqs[1].Tally)
	for _, req := range reqs {
		assert.True(t, req.Finalized, req.ID)
		assert.Equal(t, req.Assertions, req.Tally.Total(), req.ID)
	}
	assert.Len(t, b.Graph().Objects(rdf.IRI{Value: "Basic-CRS"}, earl.CITETestsPassed), 1)
	assert.ElementsMatch(t, []rdf.Term{
		rdf.IRI{Value: "s0001/d1e5_1/t1#t1"},
		rdf.IRI{Value: "s0001/d1e5_2/t1#t1"},
	}, hasParts(b, "Basic-CRS"))
}

func TestWalkSameClassInTwoExecutions(t *testing.T) {
	b, err := walkFixture(t, basicCRS(), basicCRS())
	require.NoError(t, err)

	reqs := b.Requirements()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Finalized)
	assert.Equal(t, earl.Tally{Passed: 2, Failed: 2}, reqs[0].Tally)
	assert.Equal(t, 4, reqs[0].Assertions)
	assert.Equal(t, 4, b.Assertions())
}

func TestWalkSeveralExecutions(t *testing.T) {
	second := testutil.TestLog{
		Key:  "s0002",
		Name: "main",
		Children: []testutil.TestLog{{
			Key: "s0002/cc", Name: "Queryable", ConformanceClass: true,
			Children: []testutil.TestLog{{Key: "s0002/cc/t1", Name: "t1", Result: 3}},
		}},
	}
	b, err := walkFixture(t, basicCRS(), second)
	require.NoError(t, err)

	reqs := b.Requirements()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Basic-CRS", reqs[0].ID)
	assert.Equal(t, "Queryable", reqs[1].ID)
	assert.Equal(t, earl.Tally{Skipped: 1}, reqs[1].Tally)
	assert.Equal(t, 3, b.Assertions())
}

func TestWalkEmptyExecution(t *testing.T) {
	b, err := walkFixture(t, testutil.TestLog{Key: "s0001", Name: "main"})
	require.NoError(t, err)
	assert.Empty(t, b.Requirements())
	assert.Zero(t, b.Assertions())
}
