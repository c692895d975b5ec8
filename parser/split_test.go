// Copyright © 2026 The FXLINT authors

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		text  string
		stmts []Statement
	}{
		{``, nil},
		{`  ;  ; `, nil},
		{`Set(a, 1)`, []Statement{{"Set(a, 1)", 0}}},
		{`Set(a, 1); Set(b, 2)`, []Statement{{"Set(a, 1)", 0}, {"Set(b, 2)", 11}}},
		{` a ;;b; `, []Statement{{"a", 1}, {"b", 5}}},
		{`Text("a;b"); x`, []Statement{{`Text("a;b")`, 0}, {"x", 13}}},
		{`If(a; b); c`, []Statement{{"If(a; b)", 0}, {"c", 10}}},
		{`{a: 1; b}; c`, []Statement{{"{a: 1; b}", 0}, {"c", 11}}},
	}
	for _, test := range tests {
		assert.Equal(t, test.stmts, SplitStatements(test.text), test.text)
	}
}

func TestSplitStatementsCount(t *testing.T) {
	parts := []string{
		`Set(x, 1)`,
		`UpdateContext({y: "a;b"})`,
		`Collect(Col, {A: [1, 2]; })`,
		`Navigate(Screen2)`,
	}
	for k := 0; k < len(parts); k++ {
		text := strings.Join(parts[:k+1], "; ")
		stmts := SplitStatements(text)
		require.Len(t, stmts, k+1, text)
		for i, stmt := range stmts {
			assert.Equal(t, parts[i], stmt.Text)
			assert.Equal(t, stmt.Text, text[stmt.Offset:stmt.Offset+len(stmt.Text)])
		}
	}
}
