package session

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
)

// markStyler uppercases characters whose typed status is projected, so tests
// can read status visibility straight from the rendered text.
type markStyler struct{}

func (markStyler) At(int) lipgloss.Style { return lipgloss.NewStyle() }
func (markStyler) Display(_ rune, status model.Status, base lipgloss.Style) lipgloss.Style {
	if status == model.StatusBackspace {
		return base
	}
	return base.Transform(strings.ToUpper)
}
func (markStyler) Cursor(base lipgloss.Style) lipgloss.Style { return base }
func (markStyler) Gutter() lipgloss.Style                    { return lipgloss.NewStyle() }

func TestFrameRendersGutterAndRows(t *testing.T) {
	s := newTestSession(t, []string{"ab", "cd"}, Options{})
	rows := s.Frame()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// The plain styler renders unstyled text: gutter number, line, trailing
	// break cell.
	if rows[0] != " 1 ab " {
		t.Fatalf("unexpected first row: %q", rows[0])
	}
	if rows[1] != " 2 cd " {
		t.Fatalf("unexpected second row: %q", rows[1])
	}
}

func TestFrameContinuationRowHasBlankGutter(t *testing.T) {
	text, err := NewText([]string{"aaa bb"})
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	s := New(text, plainStyler{}, Options{Clock: stepClock()})
	if err := s.Resize(8, 24); err != nil {
		t.Fatalf("resize: %v", err)
	}
	rows := s.Frame()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1] != "   bb " {
		t.Fatalf("unexpected continuation row: %q", rows[1])
	}
}

func TestFrameWindowsAroundCursor(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "ab"
	}
	text, err := NewText(lines)
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	s := New(text, plainStyler{}, Options{Clock: stepClock()})
	if err := s.Resize(20, 10); err != nil {
		t.Fatalf("resize: %v", err)
	}
	rows := s.Frame()
	if len(rows) != 10 {
		t.Fatalf("expected viewport-height frame, got %d rows", len(rows))
	}
}

func TestFrameRevertsBackspacedCharacter(t *testing.T) {
	text, err := NewText([]string{"abc"})
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	s := New(text, markStyler{}, Options{Clock: stepClock()})
	if err := s.Resize(80, 24); err != nil {
		t.Fatalf("resize: %v", err)
	}

	typeKeys(t, s, "a", "b")
	if rows := s.Frame(); rows[0] != " 1 ABc " {
		t.Fatalf("unexpected row after typing: %q", rows[0])
	}

	// Backspace returns the cursor to 'b'; its earlier correct status must
	// stop showing so the character reads as still to be typed.
	typeKeys(t, s, "backspace")
	if s.Cursor() != 1 {
		t.Fatalf("expected cursor 1 after backspace, got %d", s.Cursor())
	}
	if rows := s.Frame(); rows[0] != " 1 Abc " {
		t.Fatalf("expected reverted display after backspace, got %q", rows[0])
	}

	// The next forward keystroke restores normal status projection.
	typeKeys(t, s, "b")
	if rows := s.Frame(); rows[0] != " 1 ABc " {
		t.Fatalf("expected projection back after retype, got %q", rows[0])
	}
}

func TestFrameBeforeResize(t *testing.T) {
	text, err := NewText([]string{"ab"})
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	s := New(text, plainStyler{}, Options{})
	if rows := s.Frame(); rows != nil {
		t.Fatalf("expected nil frame before resize, got %d rows", len(rows))
	}
}
