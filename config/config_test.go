package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esgo/interpreter"
	"github.com/example/esgo/jsparse"
	"github.com/example/esgo/runtime"
)

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("var_scoping: function\n"))
	require.NoError(t, err)
	assert.Equal(t, "function", cfg.VarScoping)
	assert.Equal(t, Default().MaxSteps, cfg.MaxSteps)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Zero(t, cfg.Timeout)
}

func TestParseAllFields(t *testing.T) {
	cfg, err := Parse([]byte(`
max_steps: 500
var_scoping: block
log_level: debug
timeout: 2s
globals:
  limit: 3
  name: esgo
  tags: [a, b]
  nested: {x: 1}
`))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxSteps)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Len(t, cfg.Globals, 4)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"scoping", "var_scoping: module", `var_scoping must be "block" or "function", got "module"`},
		{"steps", "max_steps: -1", "max_steps must not be negative"},
		{"level", "log_level: loud", "config: log_level"},
		{"syntax", "max_steps: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "esgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_steps: 42\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxSteps)
	assert.Equal(t, "block", cfg.VarScoping)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadDefaultFileMissing(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestOverride(t *testing.T) {
	base := Default()
	cfg, err := base.Override(Config{VarScoping: "function", MaxSteps: 7})
	require.NoError(t, err)
	assert.Equal(t, "function", cfg.VarScoping)
	assert.Equal(t, 7, cfg.MaxSteps)
	assert.Equal(t, base.LogLevel, cfg.LogLevel)

	_, err = base.Override(Config{VarScoping: "nope"})
	require.Error(t, err)
}

func run(t *testing.T, cfg Config, source string) (*runtime.Value, error) {
	t.Helper()
	interp := interpreter.New(cfg.Options(nil)...)
	require.NoError(t, cfg.DefineGlobals(interp))
	prog, err := jsparse.Parse("config.js", source)
	require.NoError(t, err)
	return interp.Run(prog)
}

func TestOptionsApplyToInterpreter(t *testing.T) {
	cfg, err := Parse([]byte("var_scoping: function\n"))
	require.NoError(t, err)
	val, err := run(t, cfg, "{ var x = 1; } x")
	require.NoError(t, err)
	assert.Equal(t, "1", runtime.Inspect(val))

	cfg, err = Parse([]byte("max_steps: 50\n"))
	require.NoError(t, err)
	_, err = run(t, cfg, "while (true) {}")
	assert.ErrorIs(t, err, runtime.ErrStepLimit)
}

func TestDefineGlobals(t *testing.T) {
	cfg, err := Parse([]byte(`
globals:
  limit: 3
  tags: [a, b]
  nested: {x: 1}
`))
	require.NoError(t, err)
	val, err := run(t, cfg, `[limit, tags, nested.x]`)
	require.NoError(t, err)
	assert.Equal(t, "[ 3, [ 'a', 'b' ], 1 ]", runtime.Inspect(val))
}
