// Copyright © 2026 The FXLINT authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/driver"
	"github.com/luthersystems/fxlint/watch"
)

var (
	watchChecks   string
	watchExcludes []string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] files...",
	Short: "Re-analyze formula files whenever they change",
	Long: `Analyze formula files once and again every time one of them is saved.
Only the changed files are re-analyzed. Stop with Ctrl-C.

Examples:
  fxlint watch app.fx
  fxlint watch --checks=syntax,function-arity ./...`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if code := runWatch(ctx, newCmdConfig(nil), args, cmd.ErrOrStderr()); code != exitClean {
			os.Exit(code)
		}
	},
}

func runWatch(ctx context.Context, cfg *cmdConfig, args []string, stderr io.Writer) int {
	l, err := cfg.newLinter(viper.GetViper(), watchChecks)
	if err != nil {
		fmt.Fprintf(stderr, "fxlint watch: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	paths, err := expandArgs(args, watchExcludes)
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	w, err := watch.New(paths, watch.WithDebounce(watchDebounce))
	if err != nil {
		fmt.Fprintf(stderr, "fxlint watch: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	defer w.Close() //nolint:errcheck // best-effort cleanup

	d := driver.New(l)
	analyze := func(files []string) {
		results, err := d.AnalyzeFiles(ctx, files)
		if err != nil {
			return
		}
		reportWatch(stderr, results)
	}
	analyze(paths)
	if err := w.Run(ctx, analyze); err != nil {
		fmt.Fprintf(stderr, "fxlint watch: %v\n", err) //nolint:errcheck // best-effort output
		return 1
	}
	return exitClean
}

// reportWatch prints a status line per file followed by its diagnostics.
func reportWatch(w io.Writer, results []driver.FileResult) {
	stamp := time.Now().Format("15:04:05")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "[%s] %v\n", stamp, r.Err) //nolint:errcheck // best-effort output
			continue
		}
		diags := r.Result.Diagnostics()
		verdict := "valid"
		if !r.Result.Valid() {
			verdict = "invalid"
		}
		fmt.Fprintf(w, "[%s] %s: %s, %s, %s\n", stamp, r.Path, verdict, //nolint:errcheck // best-effort output
			plural(len(diags), "diagnostic"), r.Result.Complexity)
		if len(diags) > 0 {
			_ = renderLintDiagnostics(w, diags, map[string][]byte{r.Path: r.Source})
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchChecks, keyChecks, "",
		"Comma-separated list of checks to run (default: all).")
	watchCmd.Flags().StringArrayVar(&watchExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"Quiet period after a change before re-analyzing.")
}
