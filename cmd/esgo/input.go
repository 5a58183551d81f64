package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/example/esgo/ast"
	"github.com/example/esgo/config"
	"github.com/example/esgo/estree"
	"github.com/example/esgo/jsparse"
)

// Input holds the flag values shared by every command.
type Input struct {
	configPath string
	maxSteps   int
	varScoping string
	timeout    time.Duration
	verbose    bool

	format string
	eval   string

	filter string
	limit  int
}

// settings loads the config file and lays the explicitly set flags over it.
func (i *Input) settings(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(i.configPath)
	if err != nil {
		return config.Config{}, err
	}
	var o config.Config
	if flags.Changed("var-scoping") {
		o.VarScoping = i.varScoping
	}
	if flags.Changed("timeout") {
		o.Timeout = i.timeout
	}
	if cfg, err = cfg.Override(o); err != nil {
		return config.Config{}, err
	}
	// zero is meaningful here (no limit), which a merge would skip
	if flags.Changed("max-steps") {
		cfg.MaxSteps = i.maxSteps
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func (i *Input) logger(cfg config.Config, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(cfg.Level())
	if i.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// source returns the program text and a name for it: the -e text, the named
// file, or stdin for "-".
func (i *Input) source(args []string, stdin io.Reader) (name string, data []byte, err error) {
	switch {
	case i.eval != "":
		return "<eval>", []byte(i.eval), nil
	case len(args) == 0:
		return "", nil, errors.New("no input: pass a file or -e")
	case args[0] == "-":
		data, err = io.ReadAll(stdin)
		return "<stdin>", data, errors.Wrap(err, "read stdin")
	}
	data, err = os.ReadFile(args[0])
	if err != nil {
		return "", nil, errors.Wrap(err, "read input")
	}
	return args[0], data, nil
}

// inputFormat picks the decoder: the --format flag, else the file extension,
// else ES5 source.
func (i *Input) inputFormat(name string) (string, error) {
	if i.format != "" {
		switch i.format {
		case "js", "json", "yaml":
			return i.format, nil
		}
		return "", errors.Errorf("unknown format %q (want js, json or yaml)", i.format)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "js", nil
}

func (i *Input) program(args []string, stdin io.Reader) (*ast.Program, error) {
	name, data, err := i.source(args, stdin)
	if err != nil {
		return nil, err
	}
	format, err := i.inputFormat(name)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return estree.Decode(data)
	case "yaml":
		return estree.DecodeYAML(data)
	}
	return jsparse.Parse(name, string(data))
}
