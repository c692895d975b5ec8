// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/lsp"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass
// WithRegistry or WithDelegation to serve their own rule catalog.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio  bool
		port   int
		checks string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the formula Language Server Protocol server",
		Long: `Start an LSP server for Power Fx formula files.

The language server publishes lint diagnostics as documents change and
provides hover documentation for functions and operators, function name
completion, signature help, document symbols, folding ranges, semantic
tokens and quick fixes (nolint comments and function name spelling).

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  fxlint lsp                         Start with stdio transport
  fxlint lsp --stdio                 Same as above (explicit)
  fxlint lsp --port 7998             Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "fxlint lsp --stdio" for .fx files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			l, err := cfg.newLinter(viper.GetViper(), checks)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fxlint lsp: %v\n", err)
				os.Exit(exitUsage)
			}
			srv := lsp.New(lsp.WithLinter(l))

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Printf("fxlint LSP server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated analyzers to run (default all)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
