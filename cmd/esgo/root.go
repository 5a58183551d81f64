package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/esgo/builtins"
	"github.com/example/esgo/estree"
	"github.com/example/esgo/interpreter"
	"github.com/example/esgo/jsparse"
	"github.com/example/esgo/runtime"
	"github.com/example/esgo/testrunner"
)

// errReported is returned once a failure has already been written to stderr.
var errReported = errors.New("esgo: failed")

// Execute is the entry point to running the CLI.
func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	rootCmd := createRootCommand(ctx, &Input{}, version)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func createRootCommand(ctx context.Context, input *Input, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "esgo",
		Short:         "Evaluate ESTree programs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&input.configPath, "config", "c", "", "config file (default ./esgo.yaml when present)")
	rootCmd.PersistentFlags().IntVar(&input.maxSteps, "max-steps", 0, "node evaluation budget, 0 for none")
	rootCmd.PersistentFlags().StringVar(&input.varScoping, "var-scoping", "", "var binding scope: block or function")
	rootCmd.PersistentFlags().DurationVar(&input.timeout, "timeout", 0, "wall clock limit per program")
	rootCmd.PersistentFlags().BoolVarP(&input.verbose, "verbose", "v", false, "verbose output")

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Evaluate a program and print its completion value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  newRunCommand(ctx, input),
	}
	runCmd.Flags().StringVarP(&input.format, "format", "f", "", "input format: js, json or yaml (default from extension)")
	runCmd.Flags().StringVarP(&input.eval, "eval", "e", "", "evaluate inline ES5 source")

	parseCmd := &cobra.Command{
		Use:   "parse [file.js]",
		Short: "Print ES5 source as ESTree JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  newParseCommand(input),
	}
	parseCmd.Flags().StringVarP(&input.eval, "eval", "e", "", "parse inline ES5 source")

	fixturesCmd := &cobra.Command{
		Use:   "fixtures [dir]",
		Short: "Run YAML fixture files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  newFixturesCommand(input),
	}
	fixturesCmd.Flags().StringVar(&input.filter, "filter", "", "only run cases whose path contains this text")
	fixturesCmd.Flags().IntVar(&input.limit, "limit", 0, "maximum number of cases, 0 for all")

	rootCmd.AddCommand(runCmd, parseCmd, fixturesCmd)
	return rootCmd
}

func newRunCommand(ctx context.Context, input *Input) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := input.settings(cmd.Flags())
		if err != nil {
			return err
		}
		log := input.logger(cfg, cmd.ErrOrStderr())

		prog, err := input.program(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		interp := interpreter.New(cfg.Options(log)...)
		if err := builtins.RegisterAll(interp, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			return err
		}
		if err := cfg.DefineGlobals(interp); err != nil {
			return err
		}

		runCtx := ctx
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		val, err := interp.RunContext(runCtx, prog)
		if err != nil {
			reportFailure(cmd.ErrOrStderr(), err)
			return errReported
		}
		if val.Type != runtime.TypeUndefined {
			fmt.Fprintln(cmd.OutOrStdout(), runtime.Inspect(val))
		}
		return nil
	}
}

// reportFailure prints an uncaught exception or an interpreter fault. Fault
// messages already carry their kind and source position.
func reportFailure(w io.Writer, err error) {
	red := color.New(color.FgRed).SprintFunc()
	if ex, ok := runtime.AsException(err); ok {
		fmt.Fprintln(w, red(ex.Error()))
		return
	}
	if runtime.IsFault(err) {
		fmt.Fprintln(w, red(err.Error()))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func newParseCommand(input *Input) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		name, data, err := input.source(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		prog, err := jsparse.Parse(name, string(data))
		if err != nil {
			return err
		}
		out, err := estree.EncodeIndent(prog)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
}

func newFixturesCommand(input *Input) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := input.settings(cmd.Flags())
		if err != nil {
			return err
		}
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		log := input.logger(cfg, cmd.ErrOrStderr())
		log.WithField("dir", dir).Debug("running fixtures")

		results, summary := testrunner.Run(testrunner.Config{
			Dir:      dir,
			Filter:   input.filter,
			Limit:    input.limit,
			Timeout:  cfg.Timeout,
			Settings: cfg,
			Logger:   log,
		})
		printResults(cmd.OutOrStdout(), results, summary, input.verbose)
		if !summary.OK() {
			return errReported
		}
		return nil
	}
}

var resultColors = map[testrunner.Result]*color.Color{
	testrunner.Pass:  color.New(color.FgGreen),
	testrunner.Fail:  color.New(color.FgRed),
	testrunner.Skip:  color.New(color.FgYellow),
	testrunner.Error: color.New(color.FgMagenta),
}

func printResults(w io.Writer, results []testrunner.TestResult, summary testrunner.Summary, verbose bool) {
	for _, r := range results {
		if r.Result == testrunner.Pass && !verbose {
			continue
		}
		msg := ""
		if r.Message != "" {
			msg = " " + r.Message
		}
		fmt.Fprintf(w, "%s %s%s\n", resultColors[r.Result].Sprint(r.Result), r.Path, msg)
	}

	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintln(w, "=== Fixture Summary ===")
	fmt.Fprintf(w, "Total:   %d\n", summary.Total)
	fmt.Fprintf(w, "Passed:  %s\n", resultColors[testrunner.Pass].Sprint(summary.Passed))
	fmt.Fprintf(w, "Failed:  %s\n", resultColors[testrunner.Fail].Sprint(summary.Failed))
	fmt.Fprintf(w, "Skipped: %d\n", summary.Skipped)
	fmt.Fprintf(w, "Errors:  %d\n", summary.Errors)
	if ran := summary.Total - summary.Skipped; ran > 0 {
		fmt.Fprintf(w, "Pass rate: %.1f%% (%d/%d excluding skipped)\n",
			float64(summary.Passed)/float64(ran)*100, summary.Passed, ran)
	}
	fmt.Fprintf(w, "Elapsed: %s\n", summary.Elapsed.Round(time.Millisecond))
}
