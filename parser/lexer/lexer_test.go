// Copyright © 2026 The FXLINT authors

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/fxlint/parser/token"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []*token.Token
	}{
		{``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc`, []*token.Token{
			testToken(token.IDENT, "abc"),
			testToken(token.EOF, ""),
		}},
		{`If(x > 10, "Large", "Small")`, []*token.Token{
			testToken(token.IDENT, "If"),
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "x"),
			testToken(token.OPERATOR, ">"),
			testToken(token.NUMBER, "10"),
			testToken(token.COMMA, ","),
			testToken(token.STRING, `"Large"`),
			testToken(token.COMMA, ","),
			testToken(token.STRING, `"Small"`),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`{Name: "x"}[1];`, []*token.Token{
			testToken(token.BRACE_L, "{"),
			testToken(token.IDENT, "Name"),
			testToken(token.COLON, ":"),
			testToken(token.STRING, `"x"`),
			testToken(token.BRACE_R, "}"),
			testToken(token.BRACKET_L, "["),
			testToken(token.NUMBER, "1"),
			testToken(token.BRACKET_R, "]"),
			testToken(token.SEMICOLON, ";"),
			testToken(token.EOF, ""),
		}},
		{`10 -5 0.1 .5 12e12 12e-12 12.02E+5 3e`, []*token.Token{
			testToken(token.NUMBER, "10"),
			testToken(token.OPERATOR, "-"),
			testToken(token.NUMBER, "5"),
			testToken(token.NUMBER, "0.1"),
			testToken(token.NUMBER, ".5"),
			testToken(token.NUMBER, "12e12"),
			testToken(token.NUMBER, "12e-12"),
			testToken(token.NUMBER, "12.02E+5"),
			testToken(token.NUMBER, "3"),
			testToken(token.IDENT, "e"),
			testToken(token.EOF, ""),
		}},
		{`"abc" "" "a""b" "a\"b"`, []*token.Token{
			testToken(token.STRING, `"abc"`),
			testToken(token.STRING, `""`),
			testToken(token.STRING, `"a""b"`),
			testToken(token.STRING, `"a\"b"`),
			testToken(token.EOF, ""),
		}},
		{`a<>b>=c<=d&&e||!f`, []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.OPERATOR, "<>"),
			testToken(token.IDENT, "b"),
			testToken(token.OPERATOR, ">="),
			testToken(token.IDENT, "c"),
			testToken(token.OPERATOR, "<="),
			testToken(token.IDENT, "d"),
			testToken(token.OPERATOR, "&&"),
			testToken(token.IDENT, "e"),
			testToken(token.OPERATOR, "||"),
			testToken(token.OPERATOR, "!"),
			testToken(token.IDENT, "f"),
			testToken(token.EOF, ""),
		}},
		{`x != y == z | 50%`, []*token.Token{
			testToken(token.IDENT, "x"),
			testToken(token.OPERATOR, "!="),
			testToken(token.IDENT, "y"),
			testToken(token.OPERATOR, "=="),
			testToken(token.IDENT, "z"),
			testToken(token.OPERATOR, "|"),
			testToken(token.NUMBER, "50"),
			testToken(token.OPERATOR, "%"),
			testToken(token.EOF, ""),
		}},
		{`"a" in ColumnNames exactin Names`, []*token.Token{
			testToken(token.STRING, `"a"`),
			testToken(token.OPERATOR, "in"),
			testToken(token.IDENT, "ColumnNames"),
			testToken(token.OPERATOR, "exactin"),
			testToken(token.IDENT, "Names"),
			testToken(token.EOF, ""),
		}},
		{`Gallery1.Selected.Name & 'Order Details'.Total`, []*token.Token{
			testToken(token.IDENT, "Gallery1.Selected.Name"),
			testToken(token.OPERATOR, "&"),
			testToken(token.IDENT, "'Order Details'.Total"),
			testToken(token.EOF, ""),
		}},
		{"a / b // half\n/* note */ c", []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.OPERATOR, "/"),
			testToken(token.IDENT, "b"),
			testToken(token.COMMENT, "// half"),
			testToken(token.COMMENT, "/* note */"),
			testToken(token.IDENT, "c"),
			testToken(token.EOF, ""),
		}},
		{`x /* open`, []*token.Token{
			testToken(token.IDENT, "x"),
			testToken(token.ERROR, ErrUnclosedComment),
			testToken(token.COMMENT, "/* open"),
			testToken(token.EOF, ""),
		}},
		{`@x # y`, []*token.Token{
			testToken(token.OPERATOR, "@"),
			testToken(token.IDENT, "x"),
			testToken(token.INVALID, "#"),
			testToken(token.IDENT, "y"),
			testToken(token.EOF, ""),
		}},
	}

	for i, test := range tests {
		toks := Tokenize("test", test.input)
		require.Len(t, toks, len(test.tokens), "test %d: %q", i, test.input)
		for j := range toks {
			assert.Equal(t, test.tokens[j].Type, toks[j].Type, "test %d token %d: %q", i, j, test.input)
			assert.Equal(t, test.tokens[j].Text, toks[j].Text, "test %d token %d: %q", i, j, test.input)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	toks := Tokenize("test", `Sum( a ,1)`)
	require.Len(t, toks, 7)
	want := []int{0, 3, 5, 7, 8, 9, 10}
	for i, tok := range toks {
		assert.Equal(t, want[i], tok.Source.Pos, "token %d (%s)", i, tok.Text)
	}
	assert.Equal(t, 4, toks[1].End())
}

func TestLexerUnclosedString(t *testing.T) {
	toks := Tokenize("test", `Text("abc, def`)
	require.Len(t, toks, 5)
	assert.Equal(t, token.IDENT, toks[0].Type)
	assert.Equal(t, token.PAREN_L, toks[1].Type)
	assert.Equal(t, token.ERROR, toks[2].Type)
	assert.Equal(t, ErrUnclosedString, toks[2].Text)
	assert.Equal(t, 5, toks[2].Source.Pos)
	assert.Equal(t, token.STRING, toks[3].Type)
	assert.Equal(t, `"abc, def`, toks[3].Text)
	assert.Equal(t, token.EOF, toks[4].Type)
}

func TestLexerMultiline(t *testing.T) {
	toks := Tokenize("test", "Set(x,\n  1)")
	require.Len(t, toks, 7)
	assert.Equal(t, 2, toks[4].Source.Line)
	assert.Equal(t, 3, toks[4].Source.Col)
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}
