package testrunner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esgo/config"
)

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFixtures(t *testing.T) {
	results, summary := Run(Config{Dir: "testdata/fixtures"})
	for _, r := range results {
		if r.Result == Fail || r.Result == Error {
			t.Errorf("%s %s: %s", r.Result, r.Path, r.Message)
		}
	}
	assert.True(t, summary.OK())
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, summary.Total, summary.Passed+summary.Skipped)
	assert.Greater(t, summary.Passed, 30)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "PASS", Pass.String())
	assert.Equal(t, "FAIL", Fail.String())
	assert.Equal(t, "SKIP", Skip.String())
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "UNKNOWN", Result(9).String())
}

func TestFilterAndLimit(t *testing.T) {
	results, summary := Run(Config{Dir: "testdata/fixtures", Filter: "classes.yaml/"})
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.True(t, strings.HasPrefix(r.Path, "classes.yaml/"), r.Path)
	}
	assert.Equal(t, len(results), summary.Total)

	results, _ = Run(Config{Dir: "testdata/fixtures", Limit: 3})
	assert.Len(t, results, 3)
}

func TestFailuresAreReported(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "bad.yaml", `
- name: wrong value
  expect: "2"
  source: "1"
- name: wrong output
  output: "x\n"
  source: "console.log('y')"
- name: expected fault did not happen
  error: NotIterableError
  source: "1"
- name: wrong fault
  error: NullDestructureError
  source: "missing"
- name: unexpected fault
  source: "missing"
- name: parse error
  source: "var = ;"
`)
	results, summary := Run(Config{Dir: dir})
	require.Len(t, results, 6)
	assert.False(t, summary.OK())
	assert.Equal(t, 5, summary.Failed)
	assert.Equal(t, 1, summary.Errors)

	byName := map[string]TestResult{}
	for _, r := range results {
		byName[strings.TrimPrefix(r.Path, "bad.yaml/")] = r
	}
	assert.Equal(t, "expected 2, got 1", byName["wrong value"].Message)
	assert.Equal(t, `output mismatch: got "y\n"`, byName["wrong output"].Message)
	assert.Equal(t, "expected NotIterableError, got 1", byName["expected fault did not happen"].Message)
	assert.Contains(t, byName["wrong fault"].Message, "UndefinedReferenceError")
	assert.Contains(t, byName["unexpected fault"].Message, "missing")
	assert.Equal(t, Error, byName["parse error"].Result)
}

func TestMalformedFixtures(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.yaml", "- name: ok\n  source: '1'\n  expect: '1'\n")
	writeFixture(t, dir, "b.yaml", "- source: '1'\n")
	writeFixture(t, dir, "c.yml", "- name: both\n  source: '1'\n  program: {type: Program, body: []}\n")
	writeFixture(t, dir, "d.yaml", "name: [\n")
	writeFixture(t, dir, "notes.txt", "ignored")

	results, summary := Run(Config{Dir: dir})
	require.Len(t, results, 4)
	assert.Equal(t, Pass, results[0].Result)
	assert.Equal(t, "case 0: missing name", results[1].Message)
	assert.Contains(t, results[2].Message, "exactly one of source and program")
	assert.Contains(t, results[3].Message, "parse fixture d.yaml")
	assert.Equal(t, 3, summary.Errors)
}

func TestMissingDir(t *testing.T) {
	results, summary := Run(Config{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Len(t, results, 1)
	assert.Equal(t, Error, results[0].Result)
	assert.Contains(t, results[0].Message, "discover fixtures")
	assert.False(t, summary.OK())
}

func TestRunWithGlobals(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "globals.yaml", `
- name: project global
  expect: "'esgo 2'"
  source: "project + ' ' + versions.length"
`)
	settings := config.Default()
	settings.Globals = map[string]any{"project": "esgo", "versions": []any{1, 2}}
	results, summary := Run(Config{Dir: dir, Settings: settings})
	require.Len(t, results, 1)
	assert.Equal(t, Pass, results[0].Result, results[0].Message)
	assert.True(t, summary.OK())
}

func TestTimeout(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "loop.yaml", "- name: spin\n  source: 'while (true) {}'\n")
	settings := config.Default()
	settings.MaxSteps = 0
	results, _ := Run(Config{Dir: dir, Timeout: 20 * time.Millisecond, Settings: settings})
	require.Len(t, results, 1)
	assert.Equal(t, Error, results[0].Result)
	assert.Equal(t, "timeout (20ms)", results[0].Message)
}

func TestStepLimitFromSettings(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "loop.yaml", "- name: spin\n  error: StepLimit\n  source: 'while (true) {}'\n")
	settings := config.Default()
	settings.MaxSteps = 100
	results, summary := Run(Config{Dir: dir, Settings: settings})
	require.Len(t, results, 1)
	assert.Equal(t, Pass, results[0].Result, results[0].Message)
	assert.True(t, summary.OK())
}
