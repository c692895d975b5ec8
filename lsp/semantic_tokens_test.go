// Copyright © 2026 The FXLINT authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func semanticTokens(t *testing.T, s *Server, uri string) []rawToken {
	t.Helper()
	result, err := s.textDocumentSemanticTokensFull(mockContext(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return decodeTokens(result.Data)
}

func TestSemanticTokensFull(t *testing.T) {
	s := testServer()

	t.Run("number tokens", func(t *testing.T) {
		doc := openDoc(s, "file:///test/numbers.fx", "42")
		tokens := semanticTokens(t, s, doc.URI)
		require.Len(t, tokens, 1)
		assert.Equal(t, rawToken{length: 2, tokenType: semTokenNumber}, tokens[0])
	})

	t.Run("string tokens", func(t *testing.T) {
		doc := openDoc(s, "file:///test/strings.fx", `"hello"`)
		tokens := semanticTokens(t, s, doc.URI)
		require.Len(t, tokens, 1)
		assert.Equal(t, semTokenString, tokens[0].tokenType)
		assert.Equal(t, 7, tokens[0].length)
	})

	t.Run("functions and variables", func(t *testing.T) {
		doc := openDoc(s, "file:///test/calls.fx", "Sum(T, x) + Foo(y)")
		tokens := semanticTokens(t, s, doc.URI)
		require.Len(t, tokens, 6)
		assert.Equal(t, rawToken{length: 3, tokenType: semTokenFunction, modifiers: semModDefaultLibrary}, tokens[0])
		assert.Equal(t, semTokenVariable, tokens[1].tokenType)
		assert.Equal(t, semTokenOperator, tokens[3].tokenType)
		// Unknown functions are not part of the default library.
		assert.Equal(t, rawToken{startChar: 12, length: 3, tokenType: semTokenFunction}, tokens[4])
	})

	t.Run("comments span lines", func(t *testing.T) {
		doc := openDoc(s, "file:///test/comments.fx", "/* one\n   two */\nx // tail")
		tokens := semanticTokens(t, s, doc.URI)
		require.Len(t, tokens, 4)
		assert.Equal(t, rawToken{line: 0, length: 6, tokenType: semTokenComment}, tokens[0])
		assert.Equal(t, rawToken{line: 1, length: 9, tokenType: semTokenComment}, tokens[1])
		assert.Equal(t, rawToken{line: 2, length: 1, tokenType: semTokenVariable}, tokens[2])
		assert.Equal(t, rawToken{line: 2, startChar: 2, length: 7, tokenType: semTokenComment}, tokens[3])
	})

	t.Run("unknown document", func(t *testing.T) {
		result, err := s.textDocumentSemanticTokensFull(mockContext(), &protocol.SemanticTokensParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.fx"},
		})
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestDeltaEncode(t *testing.T) {
	tokens := []rawToken{
		{line: 0, startChar: 0, length: 3, tokenType: semTokenFunction, modifiers: semModDefaultLibrary},
		{line: 0, startChar: 5, length: 4, tokenType: semTokenVariable},
		{line: 1, startChar: 2, length: 1, tokenType: semTokenOperator},
	}
	data := deltaEncode(tokens)
	require.Len(t, data, 15) // 3 tokens * 5

	assert.Equal(t, []protocol.UInteger{0, 0, 3, semTokenFunction, semModDefaultLibrary}, data[0:5])
	// Same line: the start is relative to the previous token.
	assert.Equal(t, []protocol.UInteger{0, 5, 4, semTokenVariable, 0}, data[5:10])
	// New line: the start is absolute.
	assert.Equal(t, []protocol.UInteger{1, 2, 1, semTokenOperator, 0}, data[10:15])

	assert.Equal(t, tokens, decodeTokens(data))
}

func TestSemanticTokenLegend(t *testing.T) {
	legend := semanticTokenLegend()
	assert.Equal(t, "variable", legend.TokenTypes[semTokenVariable])
	assert.Equal(t, "function", legend.TokenTypes[semTokenFunction])
	assert.Equal(t, "comment", legend.TokenTypes[semTokenComment])
	assert.Equal(t, "string", legend.TokenTypes[semTokenString])
	assert.Equal(t, "number", legend.TokenTypes[semTokenNumber])
	assert.Equal(t, "operator", legend.TokenTypes[semTokenOperator])
	assert.Equal(t, []string{"defaultLibrary"}, legend.TokenModifiers)
}

// decodeTokens converts delta-encoded data back to raw tokens for testing.
func decodeTokens(data []protocol.UInteger) []rawToken {
	var tokens []rawToken
	prevLine := 0
	prevChar := 0
	for i := 0; i+4 < len(data); i += 5 {
		line := prevLine + int(data[i])
		char := int(data[i+1])
		if data[i] == 0 {
			char = prevChar + int(data[i+1])
		}
		tokens = append(tokens, rawToken{
			line:      line,
			startChar: char,
			length:    int(data[i+2]),
			tokenType: int(data[i+3]),
			modifiers: int(data[i+4]),
		})
		prevLine = line
		prevChar = char
	}
	return tokens
}
