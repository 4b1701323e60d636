package ctllog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ctlearl/internal/testutil"
)

func nestedFixture() testutil.TestLog {
	return testutil.TestLog{
		Key:  "s0001",
		Name: "main",
		Children: []testutil.TestLog{
			{
				Key:              "s0001/cc1",
				Name:             "Basic CRS",
				Result:           1,
				ConformanceClass: true,
				Children: []testutil.TestLog{
					{Key: "s0001/cc1/t1", Name: "t1", Result: 6},
					{Key: "s0001/cc1/t2", Name: "t2", Result: 1, Children: []testutil.TestLog{
						{Key: "s0001/cc1/t2/t3", Name: "t3", Result: 3},
					}},
				},
			},
			{Key: "s0001/cc2", Name: "Other", Result: 1, ConformanceClass: true},
		},
	}
}

func TestParseBuildsPreorderArena(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.ExecutionXML(nestedFixture())))
	require.NoError(t, err)
	require.Len(t, doc.Executions, 1)

	exec := doc.Executions[0]
	require.Equal(t, 6, exec.Len())

	names := make([]string, exec.Len())
	for i := 0; i < exec.Len(); i++ {
		names[i] = exec.Record(i).LocalName
	}
	assert.Equal(t, []string{"main", "Basic CRS", "t1", "t2", "t3", "Other"}, names)

	root := exec.Root()
	assert.Equal(t, testutil.BaseFor("s0001"), root.Base)
	assert.Equal(t, []CallNode{{Path: "s0001/cc1"}, {Path: "s0001/cc2"}}, root.Calls)
	assert.Len(t, exec.Scope(root), 5)

	cc1 := exec.Record(1)
	assert.True(t, cc1.ConformanceClass)
	assert.Equal(t, "1", cc1.Result)
	scope := exec.Scope(cc1)
	require.Len(t, scope, 3)
	assert.Equal(t, "t1", scope[0].LocalName)
	assert.Equal(t, "t3", scope[2].LocalName)

	t3 := exec.Record(4)
	assert.Equal(t, "3", t3.Result)
	assert.False(t, t3.HasCalls())
	assert.Empty(t, exec.Scope(t3))

	assert.False(t, exec.Record(2).ConformanceClass)
	assert.True(t, exec.Record(5).ConformanceClass)
}

func TestParseMultipleExecutions(t *testing.T) {
	doc, err := Parse(strings.NewReader(testutil.DocumentXML(
		testutil.TestLog{Key: "s0001", Name: "first"},
		testutil.TestLog{Key: "s0002", Name: "second"},
	)))
	require.NoError(t, err)
	require.Len(t, doc.Executions, 2)
	assert.Equal(t, "first", doc.Executions[0].Root().LocalName)
	assert.Equal(t, "second", doc.Executions[1].Root().LocalName)
}

func TestParseOwnElementsOnly(t *testing.T) {
	// The parent's endtest follows its nested log; the nested result must not leak.
	input := `<execution>
  <log xml:base="file:/a/b/s1/log.xml">
    <starttest local-name="parent"/>
    <testcall path="s1/c"/>
    <log xml:base="file:/a/b/s1/c/log.xml">
      <starttest local-name="child"/>
      <conformanceClass/>
      <endtest result="6"/>
    </log>
    <endtest result="1"/>
  </log>
</execution>`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	root := doc.Executions[0].Root()
	assert.Equal(t, "parent", root.LocalName)
	assert.Equal(t, "1", root.Result)
	assert.False(t, root.ConformanceClass)
}

func TestParseIgnoresExtraTopLevelLogs(t *testing.T) {
	input := `<execution>
  <log xml:base="file:/a/b/s1/log.xml"><starttest local-name="root"/><endtest result="1"/></log>
  <log xml:base="file:/a/b/s2/log.xml"><starttest local-name="extra"/><log/><endtest result="1"/></log>
</execution>`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, doc.Executions, 1)
	assert.Equal(t, 1, doc.Executions[0].Len())
	assert.Equal(t, "root", doc.Executions[0].Root().LocalName)
}

func TestParseIgnoresMarkupOutsideExecution(t *testing.T) {
	input := `<report><log><starttest local-name="stray"/></log></report>`
	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, doc.Executions)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"malformed", `<execution><log>`, "malformed document"},
		{"mismatched", `<execution><log></execution>`, "malformed document"},
		{"no log", `<report><execution/></report>`, "has no log"},
		{"nested execution", `<execution><execution/></execution>`, "nested execution"},
		{"testcall without path", `<execution><log><testcall/></log></execution>`, "without path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("/nonexistent/log.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open execution log")
}
