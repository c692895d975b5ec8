// Copyright © 2026 The FXLINT authors

package lint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/diagnostic"
)

func TestToDiagnostic(t *testing.T) {
	src := "Sum(1, 2);\r\nFoo(1)"
	l := New(catalog.MustDefault(), WithAnalyzers(AnalyzerFunctionArity))
	diags := l.Analyze(src).Diagnostics()
	require.Len(t, diags, 1)

	d := ToDiagnostic(diags[0], []byte(src))
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "function-arity", d.Code)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, diagnostic.Span{Line: 2, Col: 1, EndCol: 3, Source: "Foo(1)"}, d.Spans[0])

	// Without the text only the location is known.
	d = ToDiagnostic(diags[0], nil)
	require.Len(t, d.Spans, 1)
	assert.Empty(t, d.Spans[0].Source)
	assert.Zero(t, d.Spans[0].EndCol)
}

func TestRender(t *testing.T) {
	src := "Sum(1)"
	diags := New(catalog.MustDefault()).Analyze(src).Diagnostics()
	require.NotEmpty(t, diags)
	for i := range diags {
		diags[i].Position.File = "app.fx"
	}

	var buf bytes.Buffer
	r := &diagnostic.Renderer{Color: diagnostic.ColorNever}
	require.NoError(t, Render(&buf, r, diags, map[string][]byte{"app.fx": []byte(src)}))
	assert.Contains(t, buf.String(), "error[function-arity]")
	assert.Contains(t, buf.String(), "--> app.fx:1:1")
	assert.Contains(t, buf.String(), " 1 |  Sum(1)")
}
