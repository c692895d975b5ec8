// Copyright © 2026 The FXLINT authors

package lsp

import (
	"math"
	"net/url"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/fxlint/parser/lexer"
)

// safeUint converts an int to protocol.UInteger, clamping values outside
// the uint32 range.
func safeUint(n int) protocol.UInteger {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		if n < 0 {
			return 0
		}
		return math.MaxUint32
	}
	return protocol.UInteger(v)
}

// lineMap converts between byte offsets and LSP positions, whose
// characters count UTF-16 code units.
type lineMap struct {
	text   string
	starts []int
}

func newLineMap(text string) *lineMap {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineMap{text: text, starts: starts}
}

// lineCount returns the number of lines, counting a trailing empty line.
func (m *lineMap) lineCount() int {
	return len(m.starts)
}

// lineEnd returns the offset of the newline ending line, or the length of
// the text for the last line.
func (m *lineMap) lineEnd(line int) int {
	if line+1 < len(m.starts) {
		return m.starts[line+1] - 1
	}
	return len(m.text)
}

// line returns the 0-based line containing offset.
func (m *lineMap) line(offset int) int {
	lo, hi := 0, len(m.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func (m *lineMap) position(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.text) {
		offset = len(m.text)
	}
	line := m.line(offset)
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(utf16Len(m.text[m.starts[line]:offset])),
	}
}

// offset converts an LSP position to a byte offset.  Positions past the end
// of a line resolve to the end of that line.
func (m *lineMap) offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(m.starts) {
		return len(m.text)
	}
	off := m.starts[line]
	end := m.lineEnd(line)
	want := int(pos.Character)
	for units := 0; off < end && units < want; {
		r, size := utf8.DecodeRuneInString(m.text[off:end])
		units += utf16.RuneLen(r)
		if units > want {
			break
		}
		off += size
	}
	return off
}

// rangeOf returns the range covering bytes [start, end).
func (m *lineMap) rangeOf(start, end int) protocol.Range {
	if end < start {
		end = start
	}
	return protocol.Range{Start: m.position(start), End: m.position(end)}
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	var n int
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// wordBefore returns the identifier ending at offset.  Leading characters
// that cannot begin an identifier, such as the digits of "1Su", are dropped.
func wordBefore(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}
	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !lexer.IsWord(r) {
			break
		}
		start -= size
	}
	for start < offset {
		r, size := utf8.DecodeRuneInString(text[start:])
		if lexer.IsWordStart(r) {
			break
		}
		start += size
	}
	return text[start:offset]
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}
