package session

import (
	"fmt"
	"strings"
)

// Frame renders the currently visible window as styled rows. It is a pure
// read over session state and may be called any number of times between
// keystrokes.
func (s *Session) Frame() []string {
	if s.layout == nil {
		return nil
	}
	cursorRow, _ := s.layout.locate(s.visibleCursor())
	top, bottom := s.layout.window(cursorRow)

	rows := make([]string, 0, bottom-top)
	for i := top; i < bottom; i++ {
		rows = append(rows, s.renderRow(i))
	}
	return rows
}

// visibleCursor clamps the cursor for display: after completion the cursor
// may rest at the text length, which has no cell of its own.
func (s *Session) visibleCursor() int {
	if s.cursor >= s.text.Len() {
		return s.text.Len() - 1
	}
	return s.cursor
}

func (s *Session) renderRow(row int) string {
	vl := s.layout.lines[row]
	var b strings.Builder
	b.WriteString(s.styler.Gutter().Render(gutterText(vl.lineNo, s.text.GutterWidth())))

	cursor := s.visibleCursor()
	for i, r := range vl.text {
		offset := vl.start + i
		style := s.styler.At(offset)
		if status, ok := s.displayStatus(offset); ok {
			style = s.styler.Display(r, status, style)
		}
		if offset == cursor {
			style = s.styler.Cursor(style)
		}
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gutterText renders the line-number column: the right-justified number on a
// logical line's first row, blanks on continuation rows.
func gutterText(lineNo, gutter int) string {
	if lineNo == 0 {
		return strings.Repeat(" ", gutter+1)
	}
	return fmt.Sprintf("%*d ", gutter, lineNo)
}
