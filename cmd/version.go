// Copyright © 2026 The FXLINT authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/diagnostic"
)

// Build information.  These variables can be overridden at build time via
// -ldflags.
var (
	Version   = ""
	GitCommit = ""
	BuildDate = ""
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the fxlint version and the versions of its rule tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := collectVersionInfo()
		if err != nil {
			return err
		}
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), info)
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}

type versionInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"gitCommit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	Catalog    string `json:"catalog"`
	Delegation string `json:"delegation"`
}

func collectVersionInfo() (versionInfo, error) {
	cat, err := catalog.Default()
	if err != nil {
		return versionInfo{}, err
	}
	del, err := catalog.DefaultDelegation()
	if err != nil {
		return versionInfo{}, err
	}
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return versionInfo{
		Version:    v,
		GitCommit:  strings.TrimSpace(GitCommit),
		BuildDate:  strings.TrimSpace(BuildDate),
		Catalog:    cat.Version(),
		Delegation: del.Version,
	}, nil
}

func renderVersionPretty(out io.Writer, info versionInfo) {
	switch colorMode() {
	case diagnostic.ColorNever:
		color.NoColor = true
	case diagnostic.ColorAlways:
		color.NoColor = false
	}
	name := color.New(color.FgCyan, color.Bold)
	ver := color.New(color.FgYellow, color.Bold)
	fmt.Fprintf(out, "%s %s\n", name.Sprint("fxlint"), ver.Sprint(info.Version)) //nolint:errcheck // best-effort output
	fmt.Fprintf(out, "rule catalog:     %s\n", info.Catalog)                         //nolint:errcheck // best-effort output
	fmt.Fprintf(out, "delegation table: %s\n", info.Delegation)                      //nolint:errcheck // best-effort output
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit:           %s\n", info.GitCommit) //nolint:errcheck // best-effort output
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:            %s\n", info.BuildDate) //nolint:errcheck // best-effort output
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}
