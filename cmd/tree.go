// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/diagnostic"
	"github.com/luthersystems/fxlint/lint"
	"github.com/luthersystems/fxlint/parser"
)

var treeExpr string

var treeCmd = &cobra.Command{
	Use:   "tree [-e formula | file]",
	Short: "Print the call tree of a formula",
	Long: `Print the function call tree of every statement with its complexity.

Examples:
  fxlint tree -e 'If(IsBlank(x), 0, Sum(a, b))'
  fxlint tree app.fx`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code := runTree(newCmdConfig(nil), treeExpr, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if code != exitClean {
			os.Exit(code)
		}
	},
}

// treeStyles are the lipgloss styles of the tree printer.
type treeStyles struct {
	header  lipgloss.Style
	name    lipgloss.Style
	args    lipgloss.Style
	warning lipgloss.Style
	levels  map[lint.Complexity]lipgloss.Style
}

func newTreeStyles(w io.Writer, mode diagnostic.ColorMode) treeStyles {
	if mode == diagnostic.ColorNever {
		plain := lipgloss.NewStyle()
		return treeStyles{header: plain, name: plain, args: plain, warning: plain, levels: map[lint.Complexity]lipgloss.Style{}}
	}
	r := lipgloss.NewRenderer(w)
	return treeStyles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		name:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		args:    r.NewStyle().Foreground(lipgloss.Color("8")),
		warning: r.NewStyle().Foreground(lipgloss.Color("1")),
		levels: map[lint.Complexity]lipgloss.Style{
			lint.Simple:      r.NewStyle().Foreground(lipgloss.Color("2")),
			lint.Moderate:    r.NewStyle().Foreground(lipgloss.Color("3")),
			lint.Complex:     r.NewStyle().Foreground(lipgloss.Color("5")),
			lint.VeryComplex: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		},
	}
}

func (s treeStyles) level(c lint.Complexity) string {
	if st, ok := s.levels[c]; ok {
		return st.Render(c.String())
	}
	return c.String()
}

func runTree(cfg *cmdConfig, expr string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	l, err := cfg.newLinter(viper.GetViper(), "")
	if err != nil {
		fmt.Fprintf(stderr, "fxlint tree: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	var src []byte
	switch {
	case expr != "":
		src = []byte(expr)
	case len(args) == 1:
		src, err = os.ReadFile(args[0]) //nolint:gosec // CLI tool reads user-specified files
	default:
		src, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "fxlint tree: %v\n", err) //nolint:errcheck // best-effort output
		return exitUsage
	}
	printTree(stdout, l.Analyze(string(src)), newTreeStyles(stdout, colorMode()))
	return exitClean
}

// printTree writes one block per statement: a header with the complexity
// and score, followed by the nested calls.
func printTree(w io.Writer, res *lint.AnalysisResult, st treeStyles) {
	for i, sr := range res.Statements {
		fmt.Fprintf(w, "%s %s (score %d)\n", //nolint:errcheck // best-effort output
			st.header.Render(fmt.Sprintf("statement %d:", i+1)), st.level(sr.Complexity), sr.Score)
		printCalls(w, sr.Calls, "", st)
	}
	if len(res.Statements) > 1 {
		fmt.Fprintf(w, "%s %s\n", st.header.Render("overall:"), st.level(res.Complexity)) //nolint:errcheck // best-effort output
	}
}

func printCalls(w io.Writer, calls []*parser.CallNode, indent string, st treeStyles) {
	for i, n := range calls {
		branch, next := "├── ", "│   "
		if i == len(calls)-1 {
			branch, next = "└── ", "    "
		}
		label := st.name.Render(n.Name) + " " + st.args.Render(plural(len(n.Args), "arg"))
		if !n.Closed {
			label += " " + st.warning.Render("(unclosed)")
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, branch, label) //nolint:errcheck // best-effort output
		printCalls(w, n.Nested, indent+next, st)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().StringVarP(&treeExpr, "expr", "e", "", "Print the tree of the given formula.")
}
