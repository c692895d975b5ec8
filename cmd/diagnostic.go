// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/diagnostic"
	"github.com/luthersystems/fxlint/lint"
)

func colorMode() diagnostic.ColorMode {
	mode, ok := diagnostic.ParseColorMode(viper.GetString(keyColor))
	if !ok {
		fmt.Fprintf(os.Stderr, "fxlint: unknown color mode %q, using auto\n", viper.GetString(keyColor))
	}
	return mode
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
// Errors carry a note on how to suppress them.
func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic, sources map[string][]byte) error {
	withHints := make([]lint.Diagnostic, len(diags))
	for i, d := range diags {
		if d.Severity == lint.SeverityError && d.Analyzer != "" {
			d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)],
				"to suppress: add \"// nolint:"+d.Analyzer+"\" as a comment on this line")
		}
		withHints[i] = d
	}
	return lint.Render(w, &diagnostic.Renderer{Color: colorMode()}, withHints, sources)
}
