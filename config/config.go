// Package config loads esgo.yaml, the run settings shared by the CLI and the
// fixture runner.
package config

import (
	"os"
	"sort"
	"time"

	"dario.cat/mergo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/example/esgo/interpreter"
)

// DefaultFile is the name looked up when no config path is given.
const DefaultFile = "esgo.yaml"

// Config holds run settings. Zero fields mean "not set" and are filled from
// Default when a file is loaded.
type Config struct {
	MaxSteps   int            `yaml:"max_steps"`
	VarScoping string         `yaml:"var_scoping"`
	LogLevel   string         `yaml:"log_level"`
	Timeout    time.Duration  `yaml:"timeout"`
	Globals    map[string]any `yaml:"globals"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		MaxSteps:   10_000_000,
		VarScoping: string(interpreter.VarScopingBlock),
		LogLevel:   logrus.WarnLevel.String(),
	}
}

// Load reads a YAML config file and fills unset fields from Default. A
// missing file at the default location is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML config data and fills unset fields from Default.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, errors.Wrap(err, "apply config defaults")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Override returns c with every set field of o taking precedence. Command
// line flags arrive this way.
func (c Config) Override(o Config) (Config, error) {
	if err := mergo.Merge(&c, o, mergo.WithOverride); err != nil {
		return Config{}, errors.Wrap(err, "merge config")
	}
	return c, c.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	switch interpreter.VarScoping(c.VarScoping) {
	case interpreter.VarScopingBlock, interpreter.VarScopingFunction:
	default:
		return errors.Errorf("config: var_scoping must be %q or %q, got %q",
			interpreter.VarScopingBlock, interpreter.VarScopingFunction, c.VarScoping)
	}
	if c.MaxSteps < 0 {
		return errors.Errorf("config: max_steps must not be negative, got %d", c.MaxSteps)
	}
	if c.Timeout < 0 {
		return errors.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: log_level")
	}
	return nil
}

// Level is the parsed log level; Validate guarantees it parses.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// Options turns the settings into interpreter options.
func (c Config) Options(logger logrus.FieldLogger) []interpreter.Option {
	opts := []interpreter.Option{
		interpreter.WithMaxSteps(c.MaxSteps),
		interpreter.WithVarScoping(interpreter.VarScoping(c.VarScoping)),
	}
	if logger != nil {
		opts = append(opts, interpreter.WithLogger(logger))
	}
	return opts
}

// DefineGlobals declares the configured globals in interp, in name order.
func (c Config) DefineGlobals(interp *interpreter.Interpreter) error {
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := interp.Realm().FromGo(c.Globals[name])
		if err != nil {
			return errors.Wrapf(err, "global %s", name)
		}
		if err := interp.Define(name, v); err != nil {
			return errors.Wrapf(err, "global %s", name)
		}
	}
	return nil
}
