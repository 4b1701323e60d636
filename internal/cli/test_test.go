package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: one_class
description: "one passed test in one class"
suite: wms-1.3.0
subject: http://example.org/wms
log:
  key: s0001
  name: main
  children:
    - key: s0001/cc
      name: Basic CRS
      conformance_class: true
      children:
        - { key: s0001/cc/t1, name: t1, result: 1 }
assertions:
  - type: requirement_tally
    requirement: Basic CRS
    tally: { passed: 1 }
`

const failingScenario = `name: wrong_count
description: "asserts a count the report does not have"
suite: wms-1.3.0
subject: http://example.org/wms
log:
  key: s0001
  name: main
  children:
    - key: s0001/cc
      name: Basic CRS
      conformance_class: true
      children:
        - { key: s0001/cc/t1, name: t1, result: 1 }
assertions:
  - type: assertion_count
    count: 4
`

const expectedErrorScenario = `name: missing_log
description: "a test call without a log aborts"
suite: wms-1.3.0
subject: http://example.org/wms
expect_error: correlation
log:
  key: s0001
  name: main
  children:
    - { key: s0001/cc, name: Basic CRS, conformance_class: true, no_log: true }
`

func writeScenarios(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, doc := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(doc), 0644))
	}
	return dir
}

func executeTest(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	buf, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	buf, err := executeTest(t, "json", t.TempDir())
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandPassingScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"one_class.yaml":   passingScenario,
		"missing_log.yaml": expectedErrorScenario,
	})

	buf, err := executeTest(t, "text", dir)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✓ one_class")
	assert.Contains(t, out, "✓ missing_log")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"wrong_count.yaml": failingScenario})

	buf, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out := buf.String()
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "expected 4 assertions, got 1")
	assert.Contains(t, out, "1 failed")
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"one_class.yaml":   passingScenario,
		"wrong_count.yaml": failingScenario,
	})

	buf, err := executeTest(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, 1, response.Data.Passed)
	assert.Equal(t, 1, response.Data.Failed)
	assert.Equal(t, 2, response.Data.Total)
	require.NotNil(t, response.Error)
	assert.Equal(t, ErrCodeScenario, response.Error.Code)
}

func TestTestCommandInvalidScenarioFile(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken.yaml": "name: broken\nunknown_field: 1\n"})

	buf, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "✗ broken.yaml")
	assert.Contains(t, buf.String(), "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"one_class.yaml": passingScenario})

	buf, err := executeTest(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ one_class (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "one_class.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `xml:base="http://example.org/earl/one_class/"`)
	assert.Contains(t, string(golden), "s0001/cc/t1#t1")

	// A second run compares against the golden file just written.
	buf, err = executeTest(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ one_class")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "one_class.golden"), []byte("stale"), 0644))
	buf, err = executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "does not match golden file")
}

func TestTestCommandFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"one_class.yaml":   passingScenario,
		"wrong_count.yaml": failingScenario,
	})

	buf, err := executeTest(t, "text", dir, "--filter", "one_*")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 passed, 0 failed, 1 total")
}

func TestTestHelpText(t *testing.T) {
	buf, err := executeTest(t, "text", "--help")
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "conformance")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "--filter")
	assert.Contains(t, output, "scenarios-dir")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "crs-basic.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "crs-nested.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "outcome-codes.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "crs-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Regexp(t, `^crs-`, filepath.Base(f))
	}
}

func TestFindScenarioFilesBadFilter(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.yaml"), []byte(""), 0644))

	_, err := findScenarioFiles(tmpDir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subDir, "sub.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestGoldenFilePath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/path/to/scenario.yaml", "/path/to/golden/scenario.golden"},
		{"/path/to/scenario.yml", "/path/to/golden/scenario.golden"},
		{"scenarios/test.yaml", "scenarios/golden/test.golden"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, goldenFilePath(tc.input))
	}
}
