package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
)

type noStyler struct{}

func (noStyler) At(int) lipgloss.Style { return lipgloss.NewStyle() }
func (noStyler) Display(_ rune, _ model.Status, base lipgloss.Style) lipgloss.Style {
	return base
}
func (noStyler) Cursor(base lipgloss.Style) lipgloss.Style { return base }
func (noStyler) Gutter() lipgloss.Style                    { return lipgloss.NewStyle() }

func newFooterModel(t *testing.T, lines []string, targetWPM int) *Model {
	t.Helper()
	text, err := session.NewText(lines)
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	now := time.Unix(1000, 0)
	sess := session.New(text, noStyler{}, session.Options{Clock: func() time.Time {
		now = now.Add(time.Second)
		return now
	}})
	if err := sess.Resize(80, 23); err != nil {
		t.Fatalf("resize: %v", err)
	}
	return NewModel(sess, nil, model.Config{Theme: "monokai", TargetWPM: targetWPM}, "main.go", "Go")
}

func TestRenderFooterFormats(t *testing.T) {
	m := newFooterModel(t, []string{"abcd"}, 40)
	if _, err := m.session.HandleKey("a"); err != nil {
		t.Fatalf("handle key: %v", err)
	}
	if _, err := m.session.HandleKey("b"); err != nil {
		t.Fatalf("handle key: %v", err)
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"main.go", "Go", "Progress 40%", "Target 40 WPM", "WPM"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterBeforeFirstKey(t *testing.T) {
	m := newFooterModel(t, []string{"abcd"}, 0)
	out := m.renderFooter()
	if !containsAll(out, []string{"main.go", "Progress 0%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "Target") {
		t.Fatalf("target segment must be hidden when unset: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
