// Copyright © 2026 The FXLINT authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/parser/lexer"
)

// nameCompleter implements readline.AutoCompleter by enumerating the
// function names of the rule registry.
type nameCompleter struct {
	reg catalog.Registry
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the name being typed (backwards from cursor to the first
	// character that cannot be part of a name).
	start := pos
	for start > 0 && isNameRune(line[start-1]) {
		start--
	}
	for start < pos && !lexer.IsWordStart(line[start]) {
		start++
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectNames(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

func isNameRune(r rune) bool {
	return r == '.' || lexer.IsWord(r)
}

func (c *nameCompleter) collectNames(prefix string) []string {
	lister, ok := c.reg.(interface{ Functions() []*catalog.Rule })
	if !ok {
		return nil
	}
	var result []string
	for _, r := range lister.Functions() {
		if strings.HasPrefix(r.Name, prefix) {
			result = append(result, r.Name)
		}
	}
	sort.Strings(result)
	return result
}
