// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fxlint",
	Short: "fxlint: static analyzer for Power Fx formulas",
	Long: `fxlint checks Power Fx formulas without running them. It reports syntax
errors, wrong argument counts, operator misuse, delegation risks and
inefficient collection patterns, and scores the complexity of every
statement.

Getting started:
  fxlint check app.fx                    Analyze a formula file
  fxlint check -e 'Sum(1, 2)'            Analyze a formula given inline
  fxlint check ./...                     Analyze every .fx file below .
  fxlint tree -e 'If(x, Sum(a, b), 0)'   Print the call tree
  fxlint rules Filter                    Show documentation for a function
  fxlint repl                            Analyze formulas interactively
  fxlint watch app.fx                    Re-analyze a file when it changes
  fxlint lsp                             Start the language server

Configuration is read from $HOME/.fxlint.yaml (or --config) and from
FXLINT_* environment variables:
  max-depth                 deepest accepted bracket nesting (200)
  complexity.moderate       score above which a statement is Moderate (30)
  complexity.complex        score above which a statement is Complex (60)
  complexity.very-complex   score above which a statement is Very Complex (75)
  catalog                   path to a rule catalog JSON file
  delegation                path to a delegation table TOML file
  checks                    comma-separated checks to run
  color                     auto, always or never`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fxlint.yaml)")
	rootCmd.PersistentFlags().String(keyColor, "auto",
		`Control colored output: "auto", "always", or "never".`)
	_ = viper.BindPFlag(keyColor, rootCmd.PersistentFlags().Lookup(keyColor))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults(viper.GetViper())
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}

		// Search config in home directory with name ".fxlint" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".fxlint")
	}

	viper.SetEnvPrefix("FXLINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "fxlint: %v\n", err)
		os.Exit(exitUsage)
	}
}
