package statsui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(lipgloss.Color("#5FAFAF")).
	Padding(1, 2)

// filterForm edits the session filters inline in the body area.
type filterForm struct {
	active bool
	inputs []textinput.Model
	focus  int
	errMsg string
}

const (
	fieldLanguage = iota
	fieldPath
	fieldSince
	fieldLast
	fieldWindow
)

func newFilterForm() filterForm {
	prompts := []string{"Language: ", "Path: ", "Since (YYYY-MM-DD): ", "Last: ", "Curve window: "}
	inputs := make([]textinput.Model, len(prompts))
	for i, prompt := range prompts {
		inputs[i] = newPromptInput(prompt)
	}
	return filterForm{inputs: inputs}
}

func newPromptInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (f *filterForm) resize(width int) {
	for i := range f.inputs {
		w := width - lipgloss.Width(f.inputs[i].Prompt) - 2
		if w < 10 {
			w = 10
		}
		f.inputs[i].Width = w
	}
}

func (f *filterForm) view() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range f.inputs {
		lines = append(lines, input.View())
	}
	if f.errMsg != "" {
		lines = append(lines, errStyle.Render(f.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (f *filterForm) setFromConfig(cfg model.StatsConfig) {
	f.inputs[fieldLanguage].SetValue(strings.TrimSpace(cfg.Language))
	f.inputs[fieldPath].SetValue(strings.TrimSpace(cfg.Path))
	if cfg.Since != nil {
		f.inputs[fieldSince].SetValue(cfg.Since.Format("2006-01-02"))
	} else {
		f.inputs[fieldSince].SetValue("")
	}
	if cfg.Last > 0 {
		f.inputs[fieldLast].SetValue(strconv.Itoa(cfg.Last))
	} else {
		f.inputs[fieldLast].SetValue("")
	}
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
}

// parse validates the fields and returns the filter config they describe.
func (f *filterForm) parse() (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Language: strings.TrimSpace(f.inputs[fieldLanguage].Value()),
		Path:     strings.TrimSpace(f.inputs[fieldPath].Value()),
	}
	if raw := strings.TrimSpace(f.inputs[fieldSince].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := strings.TrimSpace(f.inputs[fieldLast].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or a positive integer)")
		}
		cfg.Last = parsed
	}
	if raw := strings.TrimSpace(f.inputs[fieldWindow].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use an integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func (f *filterForm) setFocus(idx int) tea.Cmd {
	count := len(f.inputs)
	f.focus = ((idx % count) + count) % count
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) openForm() tea.Cmd {
	m.form.active = true
	m.form.errMsg = ""
	m.form.setFromConfig(m.cfg)
	return m.form.setFocus(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form.active = false
		m.form.errMsg = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.form.parse()
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.form.active = false
		m.form.errMsg = ""
		m.reload()
		m.resize()
		return m, nil
	case tea.KeyTab:
		return m, m.form.setFocus(m.form.focus + 1)
	case tea.KeyShiftTab:
		return m, m.form.setFocus(m.form.focus - 1)
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// charPicker is the centered modal that edits the curve character set.
type charPicker struct {
	active bool
	input  textinput.Model
}

func newCharPicker() charPicker {
	input := newPromptInput("Chars: ")
	input.Placeholder = "asdfjkl;"
	return charPicker{input: input}
}

func (p *charPicker) resize(width int) {
	w := pickerWidth(width) - 6 - lipgloss.Width(p.input.Prompt)
	if w < 10 {
		w = 10
	}
	p.input.Width = w
}

func pickerWidth(width int) int {
	w := width - 4
	if w > 70 {
		w = 70
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) openPicker() tea.Cmd {
	m.picker.active = true
	m.picker.input.SetValue(strings.Join(m.chars, ""))
	return m.picker.input.Focus()
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.picker.active = false
		return m, nil
	case tea.KeyEnter:
		m.applyCharSelection(m.picker.input.Value())
		m.picker.active = false
		m.loadCharHistory()
		m.renderPanes()
		return m, nil
	}
	var cmd tea.Cmd
	m.picker.input, cmd = m.picker.input.Update(msg)
	if cleaned := stripCharInput(m.picker.input.Value()); cleaned != m.picker.input.Value() {
		m.picker.input.SetValue(cleaned)
	}
	return m, cmd
}

func (m *Model) applyCharSelection(raw string) {
	chars := parseRunes(stripCharInput(raw))
	if len(chars) == 0 {
		m.customChars = false
		m.chars = stats.TopCharsByFrequency(m.history.CharTotals, 5)
		return
	}
	m.customChars = true
	m.chars = chars
}

func (m *Model) renderPicker() string {
	body := []string{
		strongStyle.Render("Select Characters"),
		m.picker.input.View(),
		dimStyle.Render("Type characters (no separators)."),
		dimStyle.Render("Enter to apply / Esc to cancel"),
	}
	box := modalStyle.Width(pickerWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) filterSummary() string {
	orAny := func(s string) string {
		if s == "" {
			return "any"
		}
		return s
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filters: language=%s  path=%s  since=%s  last=%s  window=%d",
		orAny(m.cfg.Language), orAny(m.cfg.Path), since, last, m.cfg.CurveWindow)
}

// splitCharList parses the --char flag value: comma separated tokens, or
// one character per rune when no comma is present.
func splitCharList(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if strings.Contains(input, ",") {
		var out []string
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return parseRunes(input)
}

func parseRunes(input string) []string {
	var out []string
	for _, r := range input {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func stripCharInput(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == ',' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// growWindow and shrinkWindow step the curve window in fives with a floor
// of one session.
func growWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func shrinkWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}
