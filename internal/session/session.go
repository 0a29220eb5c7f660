package session

import (
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
)

// ErrCursorOutOfRange reports a cursor outside the logical text at the start
// of keystroke handling. It means the caller and the engine have
// desynchronized and must not be silently recovered.
var ErrCursorOutOfRange = errors.New("cursor is outside of the text")

// ErrNoLayout reports a keystroke before the first successful resize.
var ErrNoLayout = errors.New("no layout: resize the session first")

// Outcome is the result of one keystroke.
type Outcome int

const (
	// OutcomeContinue means the keystroke was processed and more input is
	// expected.
	OutcomeContinue Outcome = iota
	// OutcomeIgnored means the key class is not recognized and no state
	// changed.
	OutcomeIgnored
	// OutcomeFinished means no characters remain to type; the end timestamp
	// is fixed.
	OutcomeFinished
)

// Styler resolves display styles. Base styles come from syntax highlighting;
// Display projects a base style through a keystroke status without touching
// engine state.
type Styler interface {
	At(offset int) lipgloss.Style
	Display(r rune, status model.Status, base lipgloss.Style) lipgloss.Style
	Cursor(base lipgloss.Style) lipgloss.Style
	Gutter() lipgloss.Style
}

// Options tune session behavior.
type Options struct {
	// WordSize is the character count of one "word" for WPM; 5 when zero.
	WordSize int
	// ForcePerfect requires every character to be correct before the
	// session can finish.
	ForcePerfect bool
	// InstantDeath ends the session on the first wrong keystroke with zero
	// elapsed time.
	InstantDeath bool
	// Clock supplies action timestamps; wall clock when nil. Timestamps
	// must be non-decreasing across calls.
	Clock func() time.Time
}

const defaultWordSize = 5

// Session owns the logical text, the visual layout, the cursor, and the
// action log. Exactly one keystroke is processed to completion before the
// next is accepted; frame production is a pure read.
type Session struct {
	text   *Text
	styler Styler

	layout *layout
	log    *actionLog
	cursor int
	undo   []int
	// revertAt is the offset the last backspace returned to, -1 when the
	// last keystroke moved forward. That offset displays its base highlight
	// while the user is about to retype it.
	revertAt int

	startTS time.Time
	endTS   time.Time

	wordSize     int
	forcePerfect bool
	instantDeath bool
	clock        func() time.Time
}

// New constructs a session over the logical text. Resize must be called once
// before the first keystroke to establish the layout.
func New(t *Text, styler Styler, opts Options) *Session {
	wordSize := opts.WordSize
	if wordSize <= 0 {
		wordSize = defaultWordSize
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Session{
		text:         t,
		styler:       styler,
		revertAt:     -1,
		wordSize:     wordSize,
		forcePerfect: opts.ForcePerfect,
		instantDeath: opts.InstantDeath,
		clock:        clock,
	}
}

// Text returns the logical text.
func (s *Session) Text() *Text {
	return s.text
}

// Cursor returns the logical offset of the next expected character.
func (s *Session) Cursor() int {
	return s.cursor
}

// StartedAt returns the first action's timestamp, zero before any action.
func (s *Session) StartedAt() time.Time {
	return s.startTS
}

// EndedAt returns the completion timestamp, zero until the session finishes.
func (s *Session) EndedAt() time.Time {
	return s.endTS
}

// Resize rebuilds the visual layout for a new viewport and starts a new
// epoch: the cursor returns to 0 and the action log, undo stack, and session
// clock are cleared. On error the previous layout is kept, but a session
// that has never been sized cannot start.
func (s *Session) Resize(width, height int) error {
	l, err := newLayout(s.text, width, height)
	if err != nil {
		return fmt.Errorf("failed to build layout: %w", err)
	}
	s.layout = l
	s.log = newActionLog(s.text.Len())
	s.cursor = 0
	s.undo = s.undo[:0]
	s.revertAt = -1
	s.startTS = time.Time{}
	s.endTS = time.Time{}
	return nil
}

// canonicalKey normalizes a raw key name. Control aliases follow the usual
// terminal substitutions; any other multi-rune name is unrecognized.
func canonicalKey(key string) (string, bool) {
	switch key {
	case "ctrl+h", "backspace", "delete":
		return "backspace", true
	case "ctrl+i", "tab":
		return "tab", true
	case "ctrl+j", "ctrl+m", "enter":
		return "\n", true
	}
	if utf8.RuneCountInString(key) != 1 {
		return "", false
	}
	return key, true
}

// HandleKey processes one raw key event to completion. Unrecognized keys
// yield OutcomeIgnored with no state change. A cursor outside the text is a
// fatal desynchronization.
func (s *Session) HandleKey(rawKey string) (Outcome, error) {
	if s.layout == nil {
		return OutcomeIgnored, ErrNoLayout
	}
	key, ok := canonicalKey(rawKey)
	if !ok {
		return OutcomeIgnored, nil
	}

	idx := s.cursor
	if idx < 0 || idx >= s.text.Len() {
		return OutcomeIgnored, fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, idx, s.text.Len())
	}

	ts := s.clock()
	if s.startTS.IsZero() {
		s.startTS = ts
	}

	switch key {
	case "backspace":
		s.log.record(idx, model.Action{Key: key, Status: model.StatusBackspace, TS: ts})
		if idx == 0 {
			s.cursor = 0
		} else {
			s.cursor = s.popUndo()
		}
		s.revertAt = s.cursor
		return OutcomeContinue, nil
	case "tab":
		s.revertAt = -1
		s.handleTab(idx, ts)
	default:
		s.revertAt = -1
		s.handleRune(idx, []rune(key)[0], ts)
	}
	return s.settle(idx, ts)
}

// handleTab skips the leading whitespace run when legal. Tab is only legal
// on a space at the start of a logical line; an illegal tab records a wrong
// action and leaves the cursor in place.
func (s *Session) handleTab(idx int, ts time.Time) {
	legal := s.text.Rune(idx) == ' ' && (idx == 0 || s.text.Rune(idx-1) == '\n')
	if !legal {
		s.log.record(idx, model.Action{Key: "tab", Status: model.StatusWrong, TS: ts})
		return
	}
	s.log.record(idx, model.Action{Key: "tab", Status: model.StatusCorrect, TS: ts})
	next := idx
	for next < s.text.Len() && unicode.IsSpace(s.text.Rune(next)) {
		next++
	}
	if next > s.text.Len()-1 {
		next = s.text.Len() - 1
	}
	s.pushUndo(idx)
	s.cursor = next
}

func (s *Session) handleRune(idx int, r rune, ts time.Time) {
	row, col := s.layout.locate(idx)
	if r == ' ' && s.layout.restIsWhitespace(row, col) {
		// Line completion: the rest of the visual row is whitespace.
		s.log.record(idx, model.Action{Key: " ", Status: model.StatusCorrect, TS: ts})
		s.pushUndo(idx)
		if next, ok := s.layout.rowStart(row + 1); ok {
			s.cursor = next
		} else {
			s.cursor = s.text.Len()
		}
		return
	}

	status := model.StatusWrong
	if r == s.text.Rune(idx) {
		status = model.StatusCorrect
	}
	s.log.record(idx, model.Action{Key: string(r), Status: status, TS: ts})
	s.pushUndo(idx)
	s.cursor = idx + 1
}

// settle applies termination rules after a forward transition.
func (s *Session) settle(idx int, ts time.Time) (Outcome, error) {
	if s.instantDeath {
		if st, ok := s.log.last(idx); ok && st == model.StatusWrong {
			// Instant death collapses the session clock to zero elapsed.
			s.endTS = s.startTS
			return OutcomeFinished, nil
		}
	}
	if s.atEnd() {
		if s.forcePerfect && s.log.charsWithStatus(model.StatusWrong) > 0 {
			s.cursor = s.text.Len() - 1
			return OutcomeContinue, nil
		}
		s.endTS = ts
		return OutcomeFinished, nil
	}
	return OutcomeContinue, nil
}

// atEnd reports whether nothing remains to type. The text always carries a
// trailing line break; reaching it completes the session without requiring a
// keystroke for the break itself.
func (s *Session) atEnd() bool {
	n := s.text.Len()
	if s.cursor >= n {
		return true
	}
	return s.cursor == n-1 && s.text.Rune(s.cursor) == '\n'
}

// displayStatus resolves the status projected onto an offset when rendering.
// The offset a backspace just returned to shows its base highlight again
// until the next forward keystroke, even though its prior action stays in
// the log for the statistics.
func (s *Session) displayStatus(offset int) (model.Status, bool) {
	if offset == s.revertAt {
		return 0, false
	}
	return s.log.last(offset)
}

func (s *Session) pushUndo(offset int) {
	s.undo = append(s.undo, offset)
}

func (s *Session) popUndo() int {
	if len(s.undo) == 0 {
		return 0
	}
	offset := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return offset
}

// NActions returns the number of recorded actions.
func (s *Session) NActions() int {
	return s.log.totalActions()
}

// NBackspaceActions returns the number of recorded backspace actions.
func (s *Session) NBackspaceActions() int {
	return s.log.backspaceActions()
}

// NCorrectChars counts offsets whose last action is correct.
func (s *Session) NCorrectChars() int {
	return s.log.charsWithStatus(model.StatusCorrect)
}

// NWrongChars counts offsets whose last action is wrong.
func (s *Session) NWrongChars() int {
	return s.log.charsWithStatus(model.StatusWrong)
}

// NBackspacedChars counts offsets whose last action is a backspace.
func (s *Session) NBackspacedChars() int {
	return s.log.charsWithStatus(model.StatusBackspace)
}

// NUntouchedChars counts offsets with no recorded action.
func (s *Session) NUntouchedChars() int {
	return s.log.untouched()
}

// Accuracy is the share of correct characters among non-backspace actions,
// 0 when nothing has been typed.
func (s *Session) Accuracy() float64 {
	den := s.NActions() - s.NBackspaceActions()
	if den == 0 {
		return 0
	}
	return float64(s.NCorrectChars()) / float64(den)
}

// ElapsedSeconds is the time from the first action to completion, or to now
// for a running session. 0 before the first action.
func (s *Session) ElapsedSeconds() float64 {
	if s.startTS.IsZero() {
		return 0
	}
	end := s.endTS
	if end.IsZero() {
		end = s.clock()
	}
	return end.Sub(s.startTS).Seconds()
}

// CPM is correct characters per minute, 0 for a zero-length session.
func (s *Session) CPM() float64 {
	elapsed := s.ElapsedSeconds()
	if elapsed == 0 {
		return 0
	}
	return 60 * float64(s.NCorrectChars()) / elapsed
}

// WPM is CPM scaled by the configured word size.
func (s *Session) WPM() float64 {
	return s.CPM() / float64(s.wordSize)
}

// Unroll exports all actions in chronological order.
func (s *Session) Unroll() []OffsetAction {
	if s.log == nil {
		return nil
	}
	return s.log.unroll()
}
