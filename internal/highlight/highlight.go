// Package highlight turns a chroma syntax theme into per-offset lipgloss
// styles for the typing session, plus the pure status projections that
// recolor characters as they are typed.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/codetype/internal/model"
)

const (
	// untypedLift lightens the theme so untyped text looks washed out.
	untypedLift = 0.10
	// typedDrop darkens a correctly typed character back toward the theme.
	typedDrop = 0.15
	// cursorLift lightens the theme background for the cursor cell.
	cursorLift = 0.15
)

// Highlighter resolves base styles per logical offset and projects them
// through keystroke statuses. It is built once per session and never
// mutated afterwards.
type Highlighter struct {
	perOffset []lipgloss.Style
	fallback  lipgloss.Style
	wrong     lipgloss.Style
	gutter    lipgloss.Style
	cursorBg  lipgloss.Color
}

// New tokenizes the logical text (the cleaned lines joined with trailing
// line breaks) and precomputes one base style per offset using the named
// chroma theme, lightened for the untyped look.
func New(lines []string, lexer chroma.Lexer, themeName string) (*Highlighter, error) {
	style, ok := styles.Registry[themeName]
	if !ok {
		return nil, fmt.Errorf("unknown color theme %q", themeName)
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	text := b.String()

	background := style.Get(chroma.Background).Background.String()
	h := &Highlighter{
		perOffset: make([]lipgloss.Style, len([]rune(text))),
		fallback:  styleFor(style.Get(chroma.Text), untypedLift),
		wrong: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D70000")).
			Background(lipgloss.Color("#FFFFFF")).
			Bold(true),
		gutter: lipgloss.NewStyle().
			Foreground(lipgloss.Color(style.Get(chroma.Comment).Colour.String())).
			Background(lipgloss.Color(background)),
		cursorBg: lipgloss.Color(shiftLuminance(background, cursorLift)),
	}

	tokens, err := chroma.Tokenise(chroma.Coalesce(lexer), nil, text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize text: %w", err)
	}

	pos := 0
	for _, tok := range tokens {
		tokStyle := styleFor(style.Get(tok.Type), untypedLift)
		for range tok.Value {
			if pos >= len(h.perOffset) {
				break
			}
			h.perOffset[pos] = tokStyle
			pos++
		}
	}
	for ; pos < len(h.perOffset); pos++ {
		h.perOffset[pos] = h.fallback
	}
	return h, nil
}

// At returns the base style in effect at a logical offset.
func (h *Highlighter) At(offset int) lipgloss.Style {
	if offset < 0 || offset >= len(h.perOffset) {
		return h.fallback
	}
	return h.perOffset[offset]
}

// Display projects a base style through a keystroke status. Backspaced
// characters revert to the base highlight; correct non-space characters get
// a color-emphasized variant; wrong characters use a fixed style.
func (h *Highlighter) Display(r rune, status model.Status, base lipgloss.Style) lipgloss.Style {
	switch status {
	case model.StatusCorrect:
		if r == ' ' || r == '\n' {
			return base
		}
		if c, ok := base.GetForeground().(lipgloss.Color); ok {
			return base.Foreground(lipgloss.Color(shiftLuminance(string(c), -typedDrop)))
		}
		return base
	case model.StatusWrong:
		return h.wrong
	default:
		return base
	}
}

// Cursor layers the cursor cell style on top of a display style.
func (h *Highlighter) Cursor(base lipgloss.Style) lipgloss.Style {
	return base.Background(h.cursorBg).Bold(true)
}

// Gutter returns the line-number column style.
func (h *Highlighter) Gutter() lipgloss.Style {
	return h.gutter
}

func styleFor(entry chroma.StyleEntry, lift float64) lipgloss.Style {
	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(shiftLuminance(entry.Colour.String(), lift)))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	return s
}

// shiftLuminance moves a hex color's HSL luminance by delta, clamped to
// [0, 1]. Unparseable colors pass through unchanged.
func shiftLuminance(hex string, delta float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	hue, sat, lum := c.Hsl()
	lum += delta
	if lum < 0 {
		lum = 0
	}
	if lum > 1 {
		lum = 1
	}
	return colorful.Hsl(hue, sat, lum).Hex()
}
