package session

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// contextRowsAbove is how many visual rows are kept above the cursor's row
// when the text does not fit the viewport.
const contextRowsAbove = 5

// visualLine is one rendered, word-wrapped row. Its rendered text has
// exactly one rune per spanned logical offset: a row that ends at a wrap
// space or at the logical line break renders that final offset as a space.
type visualLine struct {
	start  int
	text   []rune
	lineNo int // 1-based logical line number, 0 on continuation rows
}

// layout maps logical offsets to visual rows for one viewport epoch.
// Visual line spans are contiguous and partition the logical text exactly.
type layout struct {
	width  int
	height int
	lines  []visualLine
	starts []int
}

// newLayout word-wraps every logical line for the given viewport. It either
// returns a fully consistent layout or an error and nothing else.
func newLayout(t *Text, width, height int) (*layout, error) {
	avail := width - t.GutterWidth() - 1
	if avail < 1 {
		return nil, fmt.Errorf("viewport width %d leaves no room after the gutter", width)
	}
	if height < 1 {
		return nil, fmt.Errorf("viewport height %d is too small", height)
	}

	l := &layout{width: width, height: height}
	for i := 0; i < t.LineCount(); i++ {
		wrapLine(l, []rune(t.Line(i)), t.LineStart(i), i+1, avail)
	}
	l.starts = make([]int, len(l.lines))
	for i, vl := range l.lines {
		l.starts[i] = vl.start
	}
	return l, nil
}

// wrapLine appends the visual rows for one logical line. Rows break at the
// last space that fits; the break space becomes the row's trailing rendered
// space. The final row spans the line's trailing break, also rendered as a
// space. Lines with no breakable space are hard-wrapped.
func wrapLine(l *layout, line []rune, start, lineNo, avail int) {
	rem := line
	off := start
	no := lineNo
	for {
		if cellWidth(rem) <= avail {
			text := make([]rune, 0, len(rem)+1)
			text = append(text, rem...)
			text = append(text, ' ')
			l.lines = append(l.lines, visualLine{start: off, text: text, lineNo: no})
			return
		}

		fit := fittingPrefix(rem, avail)
		brk := -1
		if fit < len(rem) && rem[fit] == ' ' {
			brk = fit
		} else {
			for i := fit - 1; i > 0; i-- {
				if rem[i] == ' ' {
					brk = i
					break
				}
			}
		}

		var row visualLine
		var consumed int
		if brk > 0 {
			text := make([]rune, 0, brk+1)
			text = append(text, rem[:brk]...)
			text = append(text, ' ')
			row = visualLine{start: off, text: text, lineNo: no}
			consumed = brk + 1
		} else {
			text := make([]rune, fit)
			copy(text, rem[:fit])
			row = visualLine{start: off, text: text, lineNo: no}
			consumed = fit
		}
		l.lines = append(l.lines, row)
		rem = rem[consumed:]
		off += consumed
		no = 0
	}
}

// fittingPrefix returns the largest prefix length whose rendered cell width
// fits avail. At least one rune is consumed so wrapping always progresses.
func fittingPrefix(rem []rune, avail int) int {
	fit := 0
	w := 0
	for i, r := range rem {
		rw := runewidth.RuneWidth(r)
		if w+rw > avail {
			break
		}
		w += rw
		fit = i + 1
	}
	if fit == 0 {
		fit = 1
	}
	return fit
}

func cellWidth(rs []rune) int {
	total := 0
	for _, r := range rs {
		total += runewidth.RuneWidth(r)
	}
	return total
}

// locate maps a logical offset to its (row, column) pair. The row's start
// plus the column reconstructs the offset.
func (l *layout) locate(offset int) (row, col int) {
	row = sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return row, offset - l.starts[row]
}

func (l *layout) rowCount() int {
	return len(l.lines)
}

// rowStart returns the starting logical offset of a visual row.
func (l *layout) rowStart(row int) (int, bool) {
	if row < 0 || row >= len(l.lines) {
		return 0, false
	}
	return l.starts[row], true
}

// restIsWhitespace reports whether everything from col to the end of the
// row's rendered text is whitespace.
func (l *layout) restIsWhitespace(row, col int) bool {
	text := l.lines[row].text
	if col >= len(text) {
		return true
	}
	for _, r := range text[col:] {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// window selects the visible row range for a cursor position: all rows when
// they fit, otherwise a viewport-height slice keeping contextRowsAbove rows
// above the cursor, clamped at both ends of the document.
func (l *layout) window(cursorRow int) (top, bottom int) {
	if len(l.lines) <= l.height {
		return 0, len(l.lines)
	}
	top = cursorRow - contextRowsAbove
	if max := len(l.lines) - l.height; top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	return top, top + l.height
}
