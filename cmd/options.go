// Copyright © 2026 The FXLINT authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/lint"
	"github.com/luthersystems/fxlint/parser"
)

// Exit codes shared by all commands.
const (
	exitClean    = 0
	exitProblems = 1
	exitUsage    = 2
)

// Configuration keys.
const (
	keyMaxDepth   = "max-depth"
	keyComplexity = "complexity"
	keyCatalog    = "catalog"
	keyDelegation = "delegation"
	keyChecks     = "checks"
	keyColor      = "color"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyMaxDepth, parser.DefaultMaxDepth)
	v.SetDefault(keyComplexity+".moderate", lint.DefaultThresholds.Moderate)
	v.SetDefault(keyComplexity+".complex", lint.DefaultThresholds.Complex)
	v.SetDefault(keyComplexity+".very-complex", lint.DefaultThresholds.VeryComplex)
	v.SetDefault(keyColor, "auto")
}

// Option configures an exported command factory (CheckCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	registry   catalog.Registry
	delegation *catalog.DelegationTable
}

// WithRegistry injects the rule registry used for analysis.  Embedders use
// it to add their own functions; the catalog config key is then ignored.
func WithRegistry(reg catalog.Registry) Option {
	return func(c *cmdConfig) { c.registry = reg }
}

// WithDelegation injects the delegation risk table.  The delegation config
// key is then ignored.
func WithDelegation(t *catalog.DelegationTable) Option {
	return func(c *cmdConfig) { c.delegation = t }
}

func newCmdConfig(opts []Option) *cmdConfig {
	cfg := &cmdConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// resolveRegistry returns the injected registry, the catalog named by the
// configuration or the embedded default catalog, in that order.
func (c *cmdConfig) resolveRegistry(v *viper.Viper) (catalog.Registry, error) {
	if c.registry != nil {
		return c.registry, nil
	}
	load := catalog.Default
	if path := v.GetString(keyCatalog); path != "" {
		load = func() (*catalog.Catalog, error) { return catalog.LoadFile(path) }
	}
	cat, err := load()
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *cmdConfig) resolveDelegation(v *viper.Viper) (*catalog.DelegationTable, error) {
	if c.delegation != nil {
		return c.delegation, nil
	}
	if path := v.GetString(keyDelegation); path != "" {
		return catalog.LoadDelegationFile(path)
	}
	return catalog.DefaultDelegation()
}

// thresholds reads the complexity thresholds from v.
func thresholds(v *viper.Viper) (lint.Thresholds, error) {
	t := lint.DefaultThresholds
	if err := v.UnmarshalKey(keyComplexity, &t); err != nil {
		return t, fmt.Errorf("%s: %w", keyComplexity, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// splitChecks splits a comma-separated list of check names.
func splitChecks(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// newLinter builds a Linter from the configuration in v.  checks overrides
// the checks config key when non-empty.
func (c *cmdConfig) newLinter(v *viper.Viper, checks string) (*lint.Linter, error) {
	setDefaults(v)
	reg, err := c.resolveRegistry(v)
	if err != nil {
		return nil, err
	}
	del, err := c.resolveDelegation(v)
	if err != nil {
		return nil, err
	}
	t, err := thresholds(v)
	if err != nil {
		return nil, err
	}
	depth := v.GetInt(keyMaxDepth)
	if depth <= 0 {
		return nil, fmt.Errorf("%s must be positive: %d", keyMaxDepth, depth)
	}
	opts := []lint.Option{
		lint.WithMaxDepth(depth),
		lint.WithThresholds(t),
		lint.WithDelegation(del),
	}
	if checks == "" {
		checks = v.GetString(keyChecks)
	}
	if names := splitChecks(checks); len(names) > 0 {
		analyzers, err := lint.SelectAnalyzers(names)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lint.WithAnalyzers(analyzers...))
	}
	return lint.New(reg, opts...), nil
}
