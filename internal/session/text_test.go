package session

import "testing"

func TestNewTextOffsets(t *testing.T) {
	text, err := NewText([]string{"ab", "cde"})
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if text.Len() != 7 {
		t.Fatalf("expected 7 offsets, got %d", text.Len())
	}
	if text.String() != "ab\ncde\n" {
		t.Fatalf("unexpected text: %q", text.String())
	}
	if text.LineStart(0) != 0 || text.LineStart(1) != 3 {
		t.Fatalf("unexpected line starts: %d, %d", text.LineStart(0), text.LineStart(1))
	}
	if text.Rune(2) != '\n' || text.Rune(3) != 'c' {
		t.Fatalf("unexpected runes at line boundary")
	}
}

func TestNewTextGutterWidth(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "x"
	}
	text, err := NewText(lines)
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if text.GutterWidth() != 3 {
		t.Fatalf("expected gutter width 3 for 12 lines, got %d", text.GutterWidth())
	}
}

func TestNewTextEmpty(t *testing.T) {
	if _, err := NewText(nil); err == nil {
		t.Fatalf("expected error for empty lines")
	}
}
