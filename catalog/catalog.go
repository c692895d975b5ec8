// Copyright © 2026 The FXLINT authors

// Package catalog provides the function and operator rules consulted by the
// formula validator, along with the delegation risk table.
//
// The default catalog is embedded in the binary.  Alternative catalogs can
// be loaded with Load and LoadFile; they are validated against an embedded
// JSON schema and must declare a compatible version.
package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

//go:embed data/rules.json data/delegation.toml
var dataFS embed.FS

// SupportedVersions is the range of catalog versions Load accepts.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Registry is read-only rule lookup.  Functions are looked up by exact,
// case-sensitive name and operators by exact token.  Implementations must be
// safe for concurrent use.
type Registry interface {
	Function(name string) (*Rule, bool)
	Operator(token string) (*Rule, bool)
}

// Suggester is implemented by registries that can propose the canonical
// spelling of a misspelled function name.
type Suggester interface {
	Suggest(name string) (string, bool)
}

// Catalog is the standard Registry implementation.  A Catalog is immutable
// once constructed.
type Catalog struct {
	version   *semver.Version
	functions map[string]*Rule
	operators map[string]*Rule
	funcNames []string
	opTokens  []string
	folded    map[string]string
}

var _ Registry = (*Catalog)(nil)
var _ Suggester = (*Catalog)(nil)

type catalogDoc struct {
	Version   string  `json:"version"`
	Functions []*Rule `json:"functions"`
	Operators []*Rule `json:"operators"`
}

// New constructs a catalog from rule lists.  Function names and operator
// tokens must be unique.
func New(version string, functions []*Rule, operators []*Rule) (*Catalog, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("catalog version %q: %w", version, err)
	}
	c := &Catalog{
		version:   v,
		functions: make(map[string]*Rule, len(functions)),
		operators: make(map[string]*Rule, len(operators)),
		folded:    make(map[string]string, len(functions)),
	}
	for _, r := range functions {
		if r.Name == "" {
			return nil, fmt.Errorf("function rule without a name")
		}
		if _, ok := c.functions[r.Name]; ok {
			return nil, fmt.Errorf("duplicate function rule: %s", r.Name)
		}
		if err := r.check(); err != nil {
			return nil, err
		}
		c.functions[r.Name] = r
		c.funcNames = append(c.funcNames, r.Name)
		c.folded[foldName(r.Name)] = r.Name
	}
	for _, r := range operators {
		if r.Token == "" {
			return nil, fmt.Errorf("operator rule without a token: %s", r.Name)
		}
		if _, ok := c.operators[r.Token]; ok {
			return nil, fmt.Errorf("duplicate operator rule: %s", r.Token)
		}
		if r.Fixity == "" {
			r.Fixity = Infix
		}
		if err := r.check(); err != nil {
			return nil, err
		}
		c.operators[r.Token] = r
		c.opTokens = append(c.opTokens, r.Token)
	}
	sort.Strings(c.funcNames)
	return c, nil
}

// Load reads a JSON rule catalog, validates it against the catalog schema
// and checks that its version is supported.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if errs := validateDocument(raw); len(errs) > 0 {
		return nil, &SchemaErrors{Errors: errs}
	}
	var doc catalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return New(doc.Version, doc.Functions, doc.Operators)
}

// LoadFile loads the JSON rule catalog stored at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	data, err := dataFS.ReadFile("data/rules.json")
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data))
})

// Default returns the embedded rule catalog.  The catalog is loaded once and
// shared.
func Default() (*Catalog, error) {
	return loadDefault()
}

// MustDefault is like Default but panics if the embedded catalog is invalid.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func checkVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("catalog version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported catalog version %s (want %s)", v, SupportedVersions)
	}
	return nil
}

// Version returns the catalog version.
func (c *Catalog) Version() string {
	return c.version.String()
}

// Function implements Registry.
func (c *Catalog) Function(name string) (*Rule, bool) {
	r, ok := c.functions[name]
	return r, ok
}

// Operator implements Registry.
func (c *Catalog) Operator(token string) (*Rule, bool) {
	r, ok := c.operators[token]
	return r, ok
}

// Functions returns the function rules sorted by name.
func (c *Catalog) Functions() []*Rule {
	rules := make([]*Rule, len(c.funcNames))
	for i, name := range c.funcNames {
		rules[i] = c.functions[name]
	}
	return rules
}

// Operators returns the operator rules in catalog order.
func (c *Catalog) Operators() []*Rule {
	rules := make([]*Rule, len(c.opTokens))
	for i, tok := range c.opTokens {
		rules[i] = c.operators[tok]
	}
	return rules
}

// Suggest returns the catalog spelling of a function name that differs from
// name only in case.  It returns false if name is already a known function.
func (c *Catalog) Suggest(name string) (string, bool) {
	if _, ok := c.functions[name]; ok {
		return "", false
	}
	canon, ok := c.folded[foldName(name)]
	return canon, ok
}

func foldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}
