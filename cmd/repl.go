// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Analyze formulas interactively",
	Long: `Start an interactive shell that analyzes each formula as it is entered.

A formula with unbalanced brackets or an open string continues on the next
line. Line editing, name completion and command history
($HOME/.fxlint_history) are supported via readline. Use Ctrl-D to exit.

Example session:
  fx> Sum(1)
  error[function-arity]: Sum requires exactly two arguments.
  ...
  invalid, Simple (score 2)
  fx> :doc Sum
  Sum(table, formula)
  ...`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		l, err := newCmdConfig(nil).newLinter(viper.GetViper(), "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fxlint repl: %v\n", err)
			os.Exit(exitUsage)
		}
		if err := repl.RunRepl("fx> ", repl.WithLinter(l), repl.WithColor(colorMode())); err != nil {
			fmt.Fprintf(os.Stderr, "fxlint repl: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
