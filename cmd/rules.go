// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/catalog"
)

var rulesOperators bool

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules [flags] [NAME]",
	Short: "List rules or show the documentation of a function or operator",
	Long: `List the functions and operators known to the rule catalog, or show the
documentation of one of them.

Examples:
  fxlint rules                 List all functions with their argument counts
  fxlint rules --operators     List all operators
  fxlint rules Filter          Show the documentation of Filter
  fxlint rules '<>'            Show the documentation of an operator`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code := runRules(newCmdConfig(nil), rulesOperators, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if code != exitClean {
			os.Exit(code)
		}
	},
}

// ruleLister is implemented by registries that can enumerate their rules.
type ruleLister interface {
	Functions() []*catalog.Rule
	Operators() []*catalog.Rule
}

func runRules(cfg *cmdConfig, operators bool, args []string, stdout, stderr io.Writer) int {
	reg, err := cfg.resolveRegistry(viper.GetViper())
	if err != nil {
		fmt.Fprintf(stderr, "fxlint rules: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	if len(args) == 1 {
		rule, ok := lookupRule(reg, args[0])
		if !ok {
			msg := fmt.Sprintf("fxlint rules: no function or operator named %s", args[0])
			if sug, ok := reg.(catalog.Suggester); ok {
				if name, ok := sug.Suggest(args[0]); ok {
					msg += fmt.Sprintf("; did you mean %s?", name)
				}
			}
			fmt.Fprintln(stderr, msg) //nolint:errcheck // best-effort output
			return exitProblems
		}
		fmt.Fprint(stdout, ruleDoc(rule)) //nolint:errcheck // best-effort output
		return exitClean
	}
	lister, ok := reg.(ruleLister)
	if !ok {
		fmt.Fprintln(stderr, "fxlint rules: the registry cannot list its rules") //nolint:errcheck // best-effort output
		return exitUsage
	}
	rules := lister.Functions()
	if operators {
		rules = lister.Operators()
	}
	for _, r := range rules {
		fmt.Fprintf(stdout, "%-24s %-6s %s\n", r.Key(), r.ArityString(), summary(r.Description)) //nolint:errcheck // best-effort output
	}
	return exitClean
}

func lookupRule(reg catalog.Registry, name string) (*catalog.Rule, bool) {
	if r, ok := reg.Function(name); ok {
		return r, true
	}
	return reg.Operator(name)
}

// summary returns the first sentence of a description.
func summary(desc string) string {
	if i := strings.Index(desc, ". "); i >= 0 {
		return desc[:i+1]
	}
	return desc
}

// ruleDoc formats the documentation of a rule for a terminal.
func ruleDoc(r *catalog.Rule) string {
	var b strings.Builder
	title := r.Syntax
	if title == "" {
		title = r.Key()
	}
	if r.IsOperator() {
		title = fmt.Sprintf("%s (%s)", title, r.Name)
	}
	fmt.Fprintln(&b, title)
	if r.Description != "" {
		fmt.Fprintln(&b, wrapDoc(r.Description))
	}
	if len(r.Parameters) > 0 {
		fmt.Fprintln(&b, "Parameters:")
		for _, p := range r.Parameters {
			req := ""
			if p.Required {
				req = " (required)"
			}
			fmt.Fprintf(&b, "  %-16s %s%s\n", p.Name, p.Type, req)
		}
	}
	if r.Returns != "" {
		fmt.Fprintf(&b, "Returns: %s\n", r.Returns)
	}
	noun := "Arguments"
	if r.IsOperator() {
		noun = "Operands"
	}
	fmt.Fprintf(&b, "%s: %s\n", noun, r.ArityString())
	if len(r.Examples) > 0 {
		fmt.Fprintln(&b, "Examples:")
		for _, ex := range r.Examples {
			fmt.Fprintf(&b, "  %s\n", ex)
		}
	}
	if r.Docs != "" {
		fmt.Fprintf(&b, "See: %s\n", r.Docs)
	}
	return b.String()
}

func wrapDoc(doc string) string {
	doc = indent.String(wordwrap.String(strings.TrimSpace(doc), 72), 2)
	return strings.TrimSuffix(doc, "\n")
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesOperators, "operators", false, "List operators instead of functions.")
}
