package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), strings.NewReader(stdin), &stdout, &stderr, args)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunEval(t *testing.T) {
	r := execute(t, "", "run", "-e", "1 + 2")
	require.NoError(t, r.err)
	assert.Equal(t, "3\n", r.stdout)

	r = execute(t, "", "run", "-e", "console.log('hi', [1]); console.error('oops')")
	require.NoError(t, r.err)
	assert.Equal(t, "hi [ 1 ]\n", r.stdout)
	assert.Equal(t, "oops\n", r.stderr)
}

func TestRunStdin(t *testing.T) {
	r := execute(t, "2 * 3", "run", "-")
	require.NoError(t, r.err)
	assert.Equal(t, "6\n", r.stdout)
}

const answerJSON = `{"type": "Program", "body": [
  {"type": "ExpressionStatement", "expression": {"type": "Literal", "value": 42}}
]}`

const answerYAML = `
type: Program
body:
  - type: ExpressionStatement
    expression: {type: Literal, value: answer}
`

func TestRunFormats(t *testing.T) {
	r := execute(t, "", "run", writeFile(t, "answer.json", answerJSON))
	require.NoError(t, r.err)
	assert.Equal(t, "42\n", r.stdout)

	r = execute(t, "", "run", writeFile(t, "answer.yml", answerYAML))
	require.NoError(t, r.err)
	assert.Equal(t, "'answer'\n", r.stdout)

	r = execute(t, "", "run", "--format", "yaml", writeFile(t, "answer.txt", answerYAML))
	require.NoError(t, r.err)
	assert.Equal(t, "'answer'\n", r.stdout)

	r = execute(t, "", "run", "--format", "xml", writeFile(t, "answer.txt", answerYAML))
	require.Error(t, r.err)
	assert.Equal(t, "Error: unknown format \"xml\" (want js, json or yaml)\n", r.stderr)
}

func TestRunFailures(t *testing.T) {
	r := execute(t, "", "run", "-e", "throw new Error('boom')")
	assert.ErrorIs(t, r.err, errReported)
	assert.Equal(t, "Uncaught Error: boom\n", r.stderr)

	r = execute(t, "", "run", "-e", "missing")
	assert.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "UndefinedReferenceError")

	r = execute(t, "", "run", "-e", "var = ;")
	require.Error(t, r.err)
	assert.True(t, strings.HasPrefix(r.stderr, "Error: "), r.stderr)

	r = execute(t, "", "run")
	require.Error(t, r.err)
	assert.Equal(t, "Error: no input: pass a file or -e\n", r.stderr)

	r = execute(t, "", "run", filepath.Join(t.TempDir(), "absent.js"))
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "read input")
}

func TestGlobalFlags(t *testing.T) {
	r := execute(t, "", "run", "--max-steps", "20", "-e", "while (true) {}")
	assert.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "StepLimitError")

	r = execute(t, "", "run", "--var-scoping", "function", "-e", "{ var x = 1; } x")
	require.NoError(t, r.err)
	assert.Equal(t, "1\n", r.stdout)

	r = execute(t, "", "run", "--var-scoping", "module", "-e", "1")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "var_scoping must be")

	r = execute(t, "", "run", "--max-steps=-3", "-e", "1")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "max_steps must not be negative")
}

func TestConfigFile(t *testing.T) {
	path := writeFile(t, "esgo.yaml", "var_scoping: function\nglobals:\n  greeting: hello\n")
	r := execute(t, "", "run", "--config", path, "-e", "{ var x = greeting; } x")
	require.NoError(t, r.err)
	assert.Equal(t, "'hello'\n", r.stdout)

	r = execute(t, "", "run", "--config", path, "--var-scoping", "block", "-e", "{ var x = 1; } x")
	assert.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "UndefinedReferenceError")
}

func TestParse(t *testing.T) {
	r := execute(t, "", "parse", "-e", "var a = 1;")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, `"VariableDeclaration"`)
	assert.True(t, strings.HasPrefix(r.stdout, "{\n  \"type\": \"Program\""), r.stdout)

	r = execute(t, "", "run", writeFile(t, "parsed.json", r.stdout))
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
}

func TestFixtures(t *testing.T) {
	r := execute(t, "", "fixtures", filepath.Join("..", "..", "testrunner", "testdata", "fixtures"))
	require.NoError(t, r.err, r.stdout)
	assert.Contains(t, r.stdout, "=== Fixture Summary ===")
	assert.Contains(t, r.stdout, "Failed:  0\n")
	assert.Contains(t, r.stdout, "SKIP ")
	assert.NotContains(t, r.stdout, "PASS ")

	r = execute(t, "", "fixtures", "-v", "--filter", "classes.yaml/", filepath.Join("..", "..", "testrunner", "testdata", "fixtures"))
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "PASS classes.yaml/class called without new")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.yaml"), []byte("- name: off by one\n  expect: '2'\n  source: '1'\n"), 0o644))
	r = execute(t, "", "fixtures", dir)
	assert.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stdout, "FAIL f.yaml/off by one expected 2, got 1")
	assert.Empty(t, r.stderr)
}
