// Package testrunner runs YAML fixture files against the evaluator. Each
// fixture file holds a list of cases; a case supplies a program (ESTree as
// YAML) or ES5 source text and states what the run must produce.
package testrunner

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/example/esgo/ast"
	"github.com/example/esgo/builtins"
	"github.com/example/esgo/config"
	"github.com/example/esgo/estree"
	"github.com/example/esgo/interpreter"
	"github.com/example/esgo/jsparse"
	"github.com/example/esgo/runtime"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

// OK reports whether no case failed or errored.
func (s Summary) OK() bool { return s.Failed == 0 && s.Errors == 0 }

// Config selects fixtures and sets how they run.
type Config struct {
	Dir     string
	Filter  string // substring of "file.yaml/case name"
	Limit   int
	Timeout time.Duration
	// Settings supplies interpreter options and globals; a case's
	// var_scoping overrides Settings.VarScoping.
	Settings config.Config
	Logger   logrus.FieldLogger
}

// Case is one fixture entry.
type Case struct {
	Name       string   `yaml:"name"`
	Source     string   `yaml:"source"`
	Program    any      `yaml:"program"`
	Expect     *string  `yaml:"expect"`
	Error      string   `yaml:"error"`
	Output     *string  `yaml:"output"`
	Stderr     *string  `yaml:"stderr"`
	VarScoping string   `yaml:"var_scoping"`
	Features   []string `yaml:"features"`
	Skip       string   `yaml:"skip"`
}

const defaultTimeout = 5 * time.Second

// Run discovers fixture files under cfg.Dir and runs every case, returning
// per-case results and a summary.
func Run(cfg Config) ([]TestResult, Summary) {
	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Settings.VarScoping == "" {
		cfg.Settings = config.Default()
	}

	start := time.Now()
	var results []TestResult
	var summary Summary

	files, err := discover(cfg.Dir)
	if err != nil {
		results = append(results, TestResult{Path: cfg.Dir, Result: Error, Message: err.Error()})
	}

	for _, file := range files {
		rel, _ := filepath.Rel(cfg.Dir, file)
		cases, err := loadFixture(file)
		if err != nil {
			results = append(results, TestResult{Path: rel, Result: Error, Message: err.Error()})
			continue
		}
		for _, tc := range cases {
			path := rel + "/" + tc.Name
			if cfg.Filter != "" && !strings.Contains(path, cfg.Filter) {
				continue
			}
			if cfg.Limit > 0 && len(results) >= cfg.Limit {
				break
			}
			tr := runCase(cfg, path, tc)
			logger.WithFields(logrus.Fields{"fixture": path, "elapsed": tr.Elapsed}).
				Debugf("%s %s", tr.Result, tr.Message)
			results = append(results, tr)
		}
	}

	summary.Total = len(results)
	for _, tr := range results {
		switch tr.Result {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Skip:
			summary.Skipped++
		case Error:
			summary.Errors++
		}
	}
	summary.Elapsed = time.Since(start)
	return results, summary
}

// discover lists *.yaml and *.yml files under dir in lexical order.
func discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "discover fixtures in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func loadFixture(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, errors.Wrapf(err, "parse fixture %s", filepath.Base(path))
	}
	for i, tc := range cases {
		if tc.Name == "" {
			return nil, errors.Errorf("case %d: missing name", i)
		}
		if (tc.Source == "") == (tc.Program == nil) {
			return nil, errors.Errorf("case %q: exactly one of source and program is required", tc.Name)
		}
	}
	return cases, nil
}

// unsupportedFeatures lists fixture features the evaluator rejects outright;
// cases that need them are skipped rather than failed.
var unsupportedFeatures = map[string]bool{
	"async-functions": true,
	"generators":      true,
	"modules":         true,
	"template":        true,
	"for-of":          true,
	"optional-chain":  true,
	"class-fields":    true,
	"regexp":          true,
}

func (tc Case) program(name string) (*ast.Program, error) {
	if tc.Program != nil {
		return estree.DecodeValue(tc.Program)
	}
	return jsparse.Parse(name, tc.Source)
}

func runCase(cfg Config, path string, tc Case) TestResult {
	if tc.Skip != "" {
		return TestResult{Path: path, Result: Skip, Message: tc.Skip}
	}
	for _, feat := range tc.Features {
		if unsupportedFeatures[feat] {
			return TestResult{Path: path, Result: Skip, Message: "unsupported feature: " + feat}
		}
	}

	prog, err := tc.program(path)
	if err != nil {
		return TestResult{Path: path, Result: Error, Message: err.Error()}
	}

	settings := cfg.Settings
	if tc.VarScoping != "" {
		if settings, err = settings.Override(config.Config{VarScoping: tc.VarScoping}); err != nil {
			return TestResult{Path: path, Result: Error, Message: err.Error()}
		}
	}

	start := time.Now()
	var stdout, stderr bytes.Buffer
	interp := interpreter.New(settings.Options(cfg.Logger)...)
	if err := builtins.RegisterAll(interp, &stdout, &stderr); err != nil {
		return TestResult{Path: path, Result: Error, Message: err.Error()}
	}
	if err := settings.DefineGlobals(interp); err != nil {
		return TestResult{Path: path, Result: Error, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	val, runErr := interp.RunContext(ctx, prog)
	elapsed := time.Since(start)

	fail := func(msg string) TestResult {
		return TestResult{Path: path, Result: Fail, Message: msg, Elapsed: elapsed}
	}

	if tc.Error != "" {
		if runErr == nil {
			return fail("expected " + tc.Error + ", got " + runtime.Inspect(val))
		}
		if !matchError(runErr, tc.Error) {
			return fail("expected " + tc.Error + ", got " + runErr.Error())
		}
	} else if runErr != nil {
		if errors.Is(runErr, runtime.ErrCanceled) {
			return TestResult{Path: path, Result: Error, Message: "timeout (" + cfg.Timeout.String() + ")", Elapsed: elapsed}
		}
		return fail(runErr.Error())
	}

	if tc.Expect != nil && runErr == nil {
		if got := runtime.Inspect(val); got != *tc.Expect {
			return fail("expected " + *tc.Expect + ", got " + got)
		}
	}
	if tc.Output != nil && stdout.String() != *tc.Output {
		return fail("output mismatch: got " + quote(stdout.String()))
	}
	if tc.Stderr != nil && stderr.String() != *tc.Stderr {
		return fail("stderr mismatch: got " + quote(stderr.String()))
	}
	return TestResult{Path: path, Result: Pass, Elapsed: elapsed}
}

// matchError accepts a fault kind name ("NotIterableError"), "Exception"
// for any uncaught throw, or the exact message of an uncaught throw
// ("Uncaught TypeError: x is not a function").
func matchError(err error, want string) bool {
	if kind, ok := runtime.FaultKindByName(want); ok {
		return errors.Is(err, kind.Sentinel())
	}
	ex, ok := runtime.AsException(err)
	if !ok {
		return false
	}
	if want == "Exception" {
		return true
	}
	return ex.Error() == want
}

func quote(s string) string {
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return "\"" + strings.ReplaceAll(s, "\n", `\n`) + "\""
}
