// Copyright © 2026 The FXLINT authors

package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", c.Version())
	assert.True(t, len(c.Functions()) > 150)
	assert.Len(t, c.Operators(), 21)

	sum, ok := c.Function("Sum")
	require.True(t, ok)
	assert.Equal(t, 2, sum.MinArity)
	assert.Equal(t, 2, sum.MaxArity)

	filter, ok := c.Function("Filter")
	require.True(t, ok)
	assert.True(t, filter.Variadic())
	assert.NotEmpty(t, filter.Docs)

	_, ok = c.Function("sum")
	assert.False(t, ok, "function lookup is case sensitive")

	div, ok := c.Operator("/")
	require.True(t, ok)
	assert.Equal(t, Infix, div.Fixity)
	assert.True(t, div.Numeric)

	not, ok := c.Operator("!")
	require.True(t, ok)
	assert.Equal(t, Prefix, not.Fixity)

	pct, ok := c.Operator("%")
	require.True(t, ok)
	assert.Equal(t, Postfix, pct.Fixity)
}

func TestFunctionsSorted(t *testing.T) {
	c := MustDefault()
	fns := c.Functions()
	for i := 1; i < len(fns); i++ {
		assert.True(t, fns[i-1].Name < fns[i].Name, "%s before %s", fns[i-1].Name, fns[i].Name)
	}
}

func TestFixedArityRoundTrip(t *testing.T) {
	c := MustDefault()
	for _, r := range c.Functions() {
		if r.Variadic() || r.MinArity != r.MaxArity {
			continue
		}
		args := make([]string, r.MinArity)
		for i := range args {
			args[i] = "{x: 1}"
		}
		assert.True(t, r.Validate(args).Valid, "%s with %d args", r.Name, len(args))
		if r.MinArity > 0 {
			out := r.Validate(args[1:])
			assert.False(t, out.Valid, "%s with %d args", r.Name, len(args)-1)
			assert.NotEmpty(t, out.Message)
		}
	}
}

func TestSuggest(t *testing.T) {
	c := MustDefault()
	name, ok := c.Suggest("clearcollect")
	require.True(t, ok)
	assert.Equal(t, "ClearCollect", name)

	name, ok = c.Suggest("LOOKUP")
	require.True(t, ok)
	assert.Equal(t, "LookUp", name)

	_, ok = c.Suggest("LookUp")
	assert.False(t, ok)

	_, ok = c.Suggest("NoSuchFunction")
	assert.False(t, ok)
}

func TestLoadSchemaErrors(t *testing.T) {
	_, err := Load(strings.NewReader(`{"version": "1.0.0", "functions": [{"name": "X"}], "operators": []}`))
	require.Error(t, err)
	var serr *SchemaErrors
	require.True(t, errors.As(err, &serr), "%v", err)
	require.NotEmpty(t, serr.Errors)
	assert.Contains(t, serr.Error(), "minArity")

	_, err = Load(strings.NewReader(`{"version": "1.0.0", "functions": [], "operators": [{"token": "+", "name": "Add", "fixity": "sideways", "minArity": 2, "maxArity": 2}]}`))
	require.True(t, errors.As(err, &serr), "%v", err)

	_, err = Load(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestLoadVersionGate(t *testing.T) {
	doc := `{"version": %q, "functions": [{"name": "Now", "minArity": 0, "maxArity": 0}], "operators": []}`
	c, err := Load(strings.NewReader(strings.Replace(doc, "%q", `"1.9.2"`, 1)))
	require.NoError(t, err)
	assert.Equal(t, "1.9.2", c.Version())

	_, err = Load(strings.NewReader(strings.Replace(doc, "%q", `"2.0.0"`, 1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog version")

	_, err = Load(strings.NewReader(strings.Replace(doc, "%q", `"banana"`, 1)))
	assert.Error(t, err)
}

func TestLoadDuplicate(t *testing.T) {
	_, err := Load(strings.NewReader(`{"version": "1.0.0", "functions": [{"name": "A", "minArity": 0}, {"name": "A", "minArity": 1}], "operators": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate function rule: A")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	doc := `{"version": "1.1.0", "functions": [{"name": "Twice", "minArity": 1, "maxArity": 1, "message": "Twice takes one value."}], "operators": [{"token": "+", "name": "Addition", "fixity": "infix", "minArity": 2, "maxArity": 2, "numeric": true}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	c, err := LoadFile(path)
	require.NoError(t, err)
	r, ok := c.Function("Twice")
	require.True(t, ok)
	assert.Equal(t, "Twice takes one value.", r.Validate(nil).Message)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRuleJSON(t *testing.T) {
	r := &Rule{Name: "Concat", MinArity: 1, MaxArity: Unbounded}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "maxArity")

	var back Rule
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Unbounded, back.MaxArity)

	r.MaxArity = 3
	b, err = json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"maxArity":3`)
}

func TestNewRejectsBadRules(t *testing.T) {
	_, err := New("1.0.0", []*Rule{{Name: "X", MinArity: 3, MaxArity: 1}}, nil)
	assert.Error(t, err)
	_, err = New("1.0.0", []*Rule{{Name: "X", MaxArity: Unbounded, Validators: []string{"nope"}}}, nil)
	assert.Error(t, err)
	_, err = New("1.0.0", nil, []*Rule{{Name: "Plus", MinArity: 2, MaxArity: 2}})
	assert.Error(t, err)
}
