// Copyright © 2026 The FXLINT authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/luthersystems/fxlint/driver"
	"github.com/luthersystems/fxlint/lint"
)

// Names under which inline and piped formulas are reported.
const (
	exprName  = "<expr>"
	stdinName = "<stdin>"
)

type checkFlags struct {
	expr       string
	format     string
	checks     string
	list       bool
	jobs       int
	trace      bool
	excludes   []string
	failOn     string
	complexity bool
}

// CheckCommand creates the "check" cobra command with optional embedder
// configuration.  Embedders can pass WithRegistry or WithDelegation to
// analyze formulas against their own rules.
func CheckCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [flags] [files...]",
		Short: "Analyze Power Fx formulas",
		Long: `Analyze Power Fx formulas and report problems.

Statements are separated by top-level semicolons and analyzed one at a time.
Each check is an independent analyzer that examines the scanned and parsed
statement and reports diagnostics.

With no files and no -e, reads from stdin. A path ending in "/..." stands for
every .fx file below the directory. Text diagnostics go to stderr; json and
msgpack reports go to stdout.

Exit codes:
  0  No problems at or above --fail-on
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files, bad configuration)

To suppress a specific diagnostic, add a comment on the same line:
  Collect(Orders, x) // nolint:collection-patterns

To suppress all checks on a line:
  Collect(Orders, x) // nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  fxlint check app.fx                             # Analyze a single file
  fxlint check -e 'Sum(1)'                        # Analyze an inline formula
  fxlint check --format=json ./...                # Report diagnostics as JSON
  fxlint check --checks=syntax,delegation app.fx  # Run only specific checks
  fxlint check --list                             # List available checks
  fxlint check --exclude=build ./...              # Skip a directory
  cat app.fx | fxlint check                       # Analyze stdin`,
		Run: func(cmd *cobra.Command, args []string) {
			code := runCheck(cmd.Context(), cfg, flags, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code != exitClean {
				os.Exit(code)
			}
		},
	}

	cmd.Flags().StringVarP(&flags.expr, "expr", "e", "",
		"Analyze the given formula instead of files.")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		`Output format: "text", "json" or "msgpack".`)
	cmd.Flags().StringVar(&flags.checks, keyChecks, "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&flags.list, "list", false,
		"List available checks and exit.")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0,
		"Number of files analyzed in parallel (default: GOMAXPROCS).")
	cmd.Flags().BoolVar(&flags.trace, "trace", false,
		"Print a trace span for every analyzed file to stderr.")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	cmd.Flags().StringVar(&flags.failOn, "fail-on", "error",
		`Lowest severity that makes the exit code 1: "error", "warning", "suggestion" or "style".`)
	cmd.Flags().BoolVar(&flags.complexity, "complexity", false,
		"Print the complexity of every input to stdout (text format).")

	return cmd
}

func runCheck(ctx context.Context, cfg *cmdConfig, f *checkFlags, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.list {
		for _, name := range lint.AnalyzerNames() {
			fmt.Fprintln(stdout, name) //nolint:errcheck // best-effort output
		}
		return exitClean
	}
	failOn, err := lint.ParseSeverity(f.failOn)
	if err != nil {
		fmt.Fprintf(stderr, "fxlint check: --fail-on: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	switch f.format {
	case "text", "json", "msgpack":
	default:
		fmt.Fprintf(stderr, "fxlint check: unknown format: %s\n", f.format) //nolint:errcheck // best-effort output
		return exitUsage
	}
	l, err := cfg.newLinter(viper.GetViper(), f.checks)
	if err != nil {
		fmt.Fprintf(stderr, "fxlint check: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}

	dopts := []driver.Option{driver.WithJobs(f.jobs)}
	if f.trace {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&spanPrinter{w: stderr}))
		defer tp.Shutdown(context.Background()) //nolint:errcheck // printer never fails
		dopts = append(dopts, driver.WithTracerProvider(tp))
	}
	d := driver.New(l, dopts...)

	var results []driver.FileResult
	switch {
	case f.expr != "":
		results = append(results, d.AnalyzeSource(ctx, exprName, []byte(f.expr)))
	case len(args) == 0:
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "reading stdin: %v\n", err) //nolint:errcheck // best-effort output
			return exitUsage
		}
		results = append(results, d.AnalyzeSource(ctx, stdinName, src))
	default:
		paths, err := expandArgs(args, f.excludes)
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
			return exitUsage
		}
		results, err = d.AnalyzeFiles(ctx, paths)
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
			return exitUsage
		}
	}

	code := exitClean
	sources := make(map[string][]byte, len(results))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(stderr, r.Err) //nolint:errcheck // best-effort output
			code = exitUsage
			continue
		}
		sources[r.Path] = r.Source
	}
	diags := driver.Diagnostics(results)

	if err := writeReport(f, diags, results, sources, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	if code != exitClean {
		return code
	}
	for _, diag := range diags {
		if diag.Severity <= failOn {
			return exitProblems
		}
	}
	return exitClean
}

func writeReport(f *checkFlags, diags []lint.Diagnostic, results []driver.FileResult, sources map[string][]byte, stdout, stderr io.Writer) error {
	switch f.format {
	case "json":
		if diags == nil {
			diags = []lint.Diagnostic{}
		}
		return lint.FormatJSON(stdout, diags)
	case "msgpack":
		return lint.FormatMsgpack(stdout, diags)
	}
	if len(diags) > 0 {
		if err := renderLintDiagnostics(stderr, diags, sources); err != nil {
			return err
		}
	}
	if f.complexity {
		for _, r := range results {
			if r.Result == nil {
				continue
			}
			fmt.Fprintf(stdout, "%s: %s\n", r.Path, r.Result.Complexity) //nolint:errcheck // best-effort output
		}
	}
	return nil
}

// spanPrinter is a span exporter writing one line per finished span.
type spanPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ sdktrace.SpanExporter = (*spanPrinter)(nil)

func (p *spanPrinter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range spans {
		attrs := make([]string, 0, len(s.Attributes()))
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
		}
		_, err := fmt.Fprintf(p.w, "trace: %s %s %s\n", s.Name(), s.EndTime().Sub(s.StartTime()), strings.Join(attrs, " "))
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *spanPrinter) Shutdown(context.Context) error {
	return nil
}

func init() {
	rootCmd.AddCommand(CheckCommand())
}
