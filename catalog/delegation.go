// Copyright © 2026 The FXLINT authors

package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Risk is a delegation risk pattern.  A statement whose text matches Pattern
// may not be delegated to its data source.
type Risk struct {
	Name          string `toml:"name"`
	Pattern       string `toml:"pattern"`
	Message       string `toml:"message"`
	Documentation string `toml:"documentation"`
	Suggestion    string `toml:"suggestion"`

	re *regexp.Regexp
}

// FindIndex returns the location of the first match of the risk pattern in
// text, or nil.
func (r *Risk) FindIndex(text string) []int {
	return r.re.FindStringIndex(text)
}

// FindAllIndex returns the locations of every match of the risk pattern in
// text.
func (r *Risk) FindAllIndex(text string) [][]int {
	return r.re.FindAllStringIndex(text, -1)
}

// DelegationTable holds the delegation risk patterns in declaration order.
type DelegationTable struct {
	Version string  `toml:"version"`
	Risks   []*Risk `toml:"risk"`

	byName map[string]*Risk
}

// Lookup returns the risk registered for a function name.
func (t *DelegationTable) Lookup(name string) (*Risk, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// LoadDelegation decodes a TOML delegation table.  Unknown keys are
// rejected so that misspelled fields do not silently disable a pattern.
func LoadDelegation(r io.Reader) (*DelegationTable, error) {
	var t DelegationTable
	meta, err := toml.NewDecoder(r).Decode(&t)
	if err != nil {
		return nil, fmt.Errorf("parse delegation table: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("delegation table: unknown keys: %s", strings.Join(keys, ", "))
	}
	if t.Version != "" {
		if err := checkVersion(t.Version); err != nil {
			return nil, fmt.Errorf("delegation table: %w", err)
		}
	}
	t.byName = make(map[string]*Risk, len(t.Risks))
	for _, risk := range t.Risks {
		if risk.Name == "" || risk.Pattern == "" {
			return nil, fmt.Errorf("delegation table: risk entries need a name and pattern")
		}
		if _, ok := t.byName[risk.Name]; ok {
			return nil, fmt.Errorf("delegation table: duplicate risk %s", risk.Name)
		}
		risk.re, err = regexp.Compile(risk.Pattern)
		if err != nil {
			return nil, fmt.Errorf("delegation table: risk %s: %w", risk.Name, err)
		}
		t.byName[risk.Name] = risk
	}
	return &t, nil
}

// LoadDelegationFile loads the TOML delegation table stored at path.
func LoadDelegationFile(path string) (*DelegationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	t, err := LoadDelegation(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

var loadDefaultDelegation = sync.OnceValues(func() (*DelegationTable, error) {
	data, err := dataFS.ReadFile("data/delegation.toml")
	if err != nil {
		return nil, err
	}
	return LoadDelegation(bytes.NewReader(data))
})

// DefaultDelegation returns the embedded delegation table.
func DefaultDelegation() (*DelegationTable, error) {
	return loadDefaultDelegation()
}

// MustDefaultDelegation is like DefaultDelegation but panics if the embedded
// table is invalid.
func MustDefaultDelegation() *DelegationTable {
	t, err := DefaultDelegation()
	if err != nil {
		panic(err)
	}
	return t
}
