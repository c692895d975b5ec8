// Copyright © 2026 The FXLINT authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/lint"
	"github.com/luthersystems/fxlint/parser"
)

func TestNewLinter_Defaults(t *testing.T) {
	v := viper.New()
	l, err := newCmdConfig(nil).newLinter(v, "")
	require.NoError(t, err)
	assert.Equal(t, parser.DefaultMaxDepth, l.MaxDepth)
	assert.Equal(t, lint.DefaultThresholds, l.Thresholds)
	assert.Same(t, catalog.MustDefault(), l.Registry)
	assert.Same(t, catalog.MustDefaultDelegation(), l.Delegation)
	assert.Len(t, l.Analyzers, len(lint.DefaultAnalyzers()))
}

func TestNewLinter_Config(t *testing.T) {
	v := viper.New()
	v.Set(keyMaxDepth, 12)
	v.Set(keyComplexity, map[string]any{"moderate": 5, "complex": 10, "very-complex": 15})
	v.Set(keyChecks, "syntax, style")

	l, err := newCmdConfig(nil).newLinter(v, "")
	require.NoError(t, err)
	assert.Equal(t, 12, l.MaxDepth)
	assert.Equal(t, lint.Thresholds{Moderate: 5, Complex: 10, VeryComplex: 15}, l.Thresholds)
	require.Len(t, l.Analyzers, 2)
	assert.Equal(t, "syntax", l.Analyzers[0].Name)
	assert.Equal(t, "style", l.Analyzers[1].Name)
}

func TestNewLinter_BadThresholds(t *testing.T) {
	v := viper.New()
	v.Set(keyComplexity, map[string]any{"moderate": 50, "complex": 10, "very-complex": 15})
	_, err := newCmdConfig(nil).newLinter(v, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be increasing")
}

func TestNewLinter_Files(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(rules, []byte(`{"version": "1.0.0", "functions": [{"name": "Twice", "minArity": 1, "maxArity": 1}], "operators": []}`), 0o600))
	del := filepath.Join(dir, "delegation.toml")
	require.NoError(t, os.WriteFile(del, []byte("version = \"1.0.0\"\n\n[[risk]]\nname = \"Twice\"\npattern = 'Twice\\('\nmessage = \"Twice may not delegate\"\n"), 0o600))

	v := viper.New()
	v.Set(keyCatalog, rules)
	v.Set(keyDelegation, del)
	l, err := newCmdConfig(nil).newLinter(v, "")
	require.NoError(t, err)

	_, ok := l.Registry.Function("Twice")
	assert.True(t, ok)
	_, ok = l.Registry.Function("Sum")
	assert.False(t, ok)
	_, ok = l.Delegation.Lookup("Twice")
	assert.True(t, ok)
}

func TestNewLinter_Injected(t *testing.T) {
	reg, err := catalog.New("1.0.0", []*catalog.Rule{{Name: "Only", MinArity: 0}}, nil)
	require.NoError(t, err)
	table := &catalog.DelegationTable{}

	// Injected values win over the configured files.
	v := viper.New()
	v.Set(keyCatalog, "/nonexistent/rules.json")
	v.Set(keyDelegation, "/nonexistent/delegation.toml")
	cfg := newCmdConfig([]Option{WithRegistry(reg), WithDelegation(table)})
	l, err := cfg.newLinter(v, "")
	require.NoError(t, err)
	assert.Same(t, reg, l.Registry)
	assert.Same(t, table, l.Delegation)

	diags := l.Analyze("Sum(1)").Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown function: Sum", diags[0].Message)
}

func TestSplitChecks(t *testing.T) {
	assert.Nil(t, splitChecks(""))
	assert.Nil(t, splitChecks(" , "))
	assert.Equal(t, []string{"syntax", "style"}, splitChecks("syntax, style,"))
}

func TestInitConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), "fxlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checks: syntax\ncomplexity:\n  moderate: 1\n  complex: 2\n  very-complex: 3\n"), 0o600))
	old := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = old })
	t.Setenv("FXLINT_MAX_DEPTH", "7")

	initConfig()

	assert.Equal(t, "syntax", viper.GetString(keyChecks))
	assert.Equal(t, 7, viper.GetInt(keyMaxDepth))
	assert.Equal(t, "auto", viper.GetString(keyColor))
	th, err := thresholds(viper.GetViper())
	require.NoError(t, err)
	assert.Equal(t, lint.Thresholds{Moderate: 1, Complex: 2, VeryComplex: 3}, th)
}
