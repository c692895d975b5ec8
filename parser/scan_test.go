// Copyright © 2026 The FXLINT authors

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanErrors(t *testing.T) {
	tests := []struct {
		text string
		errs []SyntaxError
	}{
		{`Sum(1, 2)`, nil},
		{`{a: [1, (2)]}`, nil},
		{`Sum(1, 2))`, []SyntaxError{{9, "unexpected closing )"}}},
		{`{a: 1)`, []SyntaxError{{5, "mismatched brackets: expected } but found )"}}},
		{`If(a, [1, 2`, []SyntaxError{{2, "unclosed ("}, {6, "unclosed ["}}},
		{`Set(a, 1; b)`, []SyntaxError{{8, "invalid semicolon inside ( block"}}},
		{`Text("abc`, []SyntaxError{{5, "unclosed string literal"}, {4, "unclosed ("}}},
		{"Text(\"a\nb\")", []SyntaxError{{5, "string literal contains line break"}}},
		{`Text("(", ")")`, nil},
	}
	for _, test := range tests {
		s := ScanText(test.text)
		if test.errs == nil {
			assert.Empty(t, s.Errors(), test.text)
			continue
		}
		assert.ElementsMatch(t, test.errs, s.Errors(), test.text)
	}
}

func TestScanErrorsSorted(t *testing.T) {
	s := ScanText(`(a]; {b`)
	errs := s.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Pos)
	assert.Equal(t, 5, errs[1].Pos)
}

func TestScanDepth(t *testing.T) {
	text := `a(b, {c: "x(y"}) + d`
	s := ScanText(text)
	at := func(sub string) int {
		t.Helper()
		i := strings.Index(text, sub)
		require.True(t, i >= 0, sub)
		return i
	}
	assert.Equal(t, 0, s.Depth(at("a")))
	assert.Equal(t, 0, s.Depth(at("(")))
	assert.Equal(t, 1, s.Depth(at("b")))
	assert.Equal(t, 1, s.Depth(at("{")))
	assert.Equal(t, 2, s.Depth(at("c")))
	assert.Equal(t, 0, s.Depth(at(")")))
	assert.Equal(t, 0, s.Depth(at("d")))

	assert.True(t, s.IsTopLevel(at("+")))
	assert.False(t, s.IsTopLevel(at("b")))
	assert.True(t, s.InString(at("x(y")+1))
	assert.False(t, s.IsTopLevel(at("x(y")+1))
	assert.False(t, s.InString(at("d")))
}

func TestScanMatch(t *testing.T) {
	s := ScanText(`f(g(1), 2`)
	toks := s.Tokens()
	require.Equal(t, "(", toks[1].Text)
	assert.Equal(t, -1, s.Match(1))
	require.Equal(t, "(", toks[3].Text)
	assert.Equal(t, 5, s.Match(3))
	assert.Equal(t, 2, s.TokenDepth(4))
	assert.Equal(t, 1, s.TokenDepth(6))
}

func TestMatchingClose(t *testing.T) {
	assert.Equal(t, ')', MatchingClose('('))
	assert.Equal(t, '}', MatchingClose('{'))
	assert.Equal(t, ']', MatchingClose('['))
	assert.Equal(t, rune(0), MatchingClose('x'))
}
