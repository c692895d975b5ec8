// Copyright © 2026 The FXLINT authors

package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luthersystems/fxlint/catalog"
)

func TestNameCompleter(t *testing.T) {
	c := &nameCompleter{reg: catalog.MustDefault()}

	// "Clear" should match Clear and ClearCollect.
	candidates, offset := c.Do([]rune("If(x, Clear"), 11)
	assert.Equal(t, 5, offset)
	assert.Contains(t, candidates, []rune(""))
	assert.Contains(t, candidates, []rune("Collect"))

	// Completion stops at the opening paren.
	candidates, offset = c.Do([]rune("Sum(Fil"), 7)
	assert.Equal(t, 3, offset)
	assert.Contains(t, candidates, []rune("ter"))

	candidates, _ = c.Do([]rune("Zzznonexistent"), 14)
	assert.Empty(t, candidates)

	candidates, _ = c.Do([]rune("Sum( "), 5)
	assert.Empty(t, candidates)

	// A name cannot begin with a digit.
	candidates, offset = c.Do([]rune("1Fil"), 4)
	assert.Equal(t, 3, offset)
	assert.Contains(t, candidates, []rune("ter"))

	candidates, _ = c.Do([]rune("Sum(1, 23"), 9)
	assert.Empty(t, candidates)
}
