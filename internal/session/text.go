// Package session implements the typing session engine: logical text,
// word-wrapped visual layout, the keystroke state machine, and the action
// log that statistics are derived from.
package session

import (
	"fmt"
	"strings"
)

// Text is the immutable logical practice text: cleaned source lines joined
// with a trailing line break per line, addressed by flat rune offsets.
type Text struct {
	lines  []string
	runes  []rune
	starts []int
	gutter int
}

// NewText builds the logical text from ordered, non-empty, right-trimmed
// practice lines.
func NewText(lines []string) (*Text, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no practice lines")
	}
	t := &Text{
		lines:  lines,
		starts: make([]int, 0, len(lines)),
	}
	var b strings.Builder
	cum := 0
	for _, line := range lines {
		t.starts = append(t.starts, cum)
		cum += len([]rune(line)) + 1
		b.WriteString(line)
		b.WriteByte('\n')
	}
	t.runes = []rune(b.String())
	t.gutter = len(fmt.Sprint(len(lines))) + 1
	return t, nil
}

// Len returns the total number of logical offsets.
func (t *Text) Len() int {
	return len(t.runes)
}

// LineCount returns the number of logical lines.
func (t *Text) LineCount() int {
	return len(t.lines)
}

// Line returns the logical line at index i.
func (t *Text) Line(i int) string {
	return t.lines[i]
}

// LineStart returns the logical offset where line i begins.
func (t *Text) LineStart(i int) int {
	return t.starts[i]
}

// Rune returns the character at a logical offset.
func (t *Text) Rune(offset int) rune {
	return t.runes[offset]
}

// GutterWidth returns the width of the line-number gutter: the digit count
// of the total line count plus one.
func (t *Text) GutterWidth() int {
	return t.gutter
}

// String returns the full logical text.
func (t *Text) String() string {
	return string(t.runes)
}
