// Package statsui provides the Bubble Tea stats browser.
package statsui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/store"
)

type pane int

const (
	paneOverview pane = iota
	paneCharacters
	paneCharCurves
)

var paneTitles = [...]string{"Overview", "Characters", "Char Curves"}

const chartHeight = 10

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5F5F5")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#5FAFAF"))
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9E9E9E")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A3A3A"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	strongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F5F5")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	wpmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFAF"))
	trendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF"))
	accStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AF5F"))
	latStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F"))
)

// Model implements the Bubble Tea stats UI: three panes over the stored
// session history, a filter form, and a character picker for the curves.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	history stats.History
	loadErr string

	active    pane
	overview  viewport.Model
	curves    viewport.Model
	charTable table.Model

	width  int
	height int

	form   filterForm
	picker charPicker

	chars       []string
	customChars bool
	charBySess  map[int64]map[string]model.CharAggregate
	charErr     string
}

// NewModel constructs a stats UI model over the store.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:     st,
		cfg:       cfg,
		overview:  viewport.New(0, 0),
		curves:    viewport.New(0, 0),
		charTable: newCharTable(),
		form:      newFilterForm(),
		picker:    newCharPicker(),
	}
	m.chars = splitCharList(cfg.Chars)
	m.customChars = len(m.chars) > 0
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderPanes()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.form.active {
			return m.updateForm(msg)
		}
		if m.picker.active {
			return m.updatePicker(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.switchPane(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.switchPane(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = growWindow(m.cfg.CurveWindow)
		m.reload()
		m.resize()
		return m, nil
	case "-":
		m.cfg.CurveWindow = shrinkWindow(m.cfg.CurveWindow)
		m.reload()
		m.resize()
		return m, nil
	case "/":
		return m, m.openForm()
	case "enter":
		if m.active == paneCharCurves {
			return m, m.openPicker()
		}
		return m, nil
	case "g", "home":
		if m.active == paneCharacters {
			m.charTable.GotoTop()
		} else {
			m.activeViewport().GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.active == paneCharacters {
			m.charTable.GotoBottom()
		} else {
			m.activeViewport().GotoBottom()
		}
		return m, nil
	}
	if m.active == paneCharacters {
		var cmd tea.Cmd
		m.charTable, cmd = m.charTable.Update(msg)
		return m, cmd
	}
	vp := m.activeViewport()
	var cmd tea.Cmd
	*vp, cmd = vp.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.picker.active {
		return clipBox(m.renderPicker(), m.width, m.height)
	}
	headerH, bodyH, footerH := m.heights()
	header := clipBox(m.renderHeader(), m.width, headerH)
	body := clipBox(m.renderBody(), m.width, bodyH)
	footer := clipBox(m.renderFooter(), m.width, footerH)
	return header + "\n" + body + "\n" + footer
}

func (m *Model) activeViewport() *viewport.Model {
	if m.active == paneCharCurves {
		return &m.curves
	}
	return &m.overview
}

func (m *Model) switchPane(delta int) {
	m.active = pane((int(m.active) + delta + len(paneTitles)) % len(paneTitles))
	if m.active == paneCharacters {
		m.charTable.Focus()
	} else {
		m.charTable.Blur()
	}
}

func (m *Model) heights() (header, body, footer int) {
	header = lipgloss.Height(activeTabStyle.Render("X")) + 1
	footer = 1
	if !m.form.active && m.loadErr != "" {
		footer++
	}
	body = m.height - header - footer
	if body < 1 {
		body = 1
	}
	return header, body, footer
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyH, _ := m.heights()
	m.overview.Width = m.width
	m.overview.Height = bodyH
	m.curves.Width = m.width
	m.curves.Height = bodyH
	m.fitCharTable(m.width, bodyH)
	m.form.resize(m.width)
	m.picker.resize(m.width)
}

// reload requeries the store under the current filters and rebuilds every
// pane.
func (m *Model) reload() {
	history, err := stats.LoadHistory(context.Background(), m.store, m.cfg)
	if err != nil {
		m.loadErr = err.Error()
		m.charErr = ""
		m.overview.SetContent("Failed to load stats.")
		m.curves.SetContent("Failed to load stats.")
		return
	}
	m.loadErr = ""
	m.history = history
	if !m.customChars {
		m.chars = stats.TopCharsByFrequency(history.CharTotals, 5)
	}
	m.loadCharHistory()
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyH, _ := m.heights()
	m.charTable.SetRows(charRows(history.CharTotals))
	m.fitCharTable(width, bodyH)
	m.renderPanes()
}

// loadCharHistory fetches the per-session aggregates for the selected
// characters, used by the latency and accuracy curves.
func (m *Model) loadCharHistory() {
	m.charErr = ""
	m.charBySess = nil
	if len(m.history.Sessions) == 0 || len(m.chars) == 0 {
		return
	}
	ids := make([]int64, len(m.history.Sessions))
	for i, s := range m.history.Sessions {
		ids[i] = s.SessionID
	}
	perSession, err := m.store.ListCharStatsForSessions(context.Background(), ids, m.chars)
	if err != nil {
		m.charErr = err.Error()
		return
	}
	m.charBySess = perSession
}

func (m *Model) renderPanes() {
	if m.loadErr != "" {
		m.overview.SetContent("Failed to load stats.")
		m.curves.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.history, m.cfg.CurveWindow, width))
	m.curves.SetContent(m.renderCharCurves(width))
}

func (m *Model) renderHeader() string {
	parts := make([]string, len(paneTitles))
	for i, title := range paneTitles {
		if pane(i) == m.active {
			parts[i] = activeTabStyle.Render(title)
		} else {
			parts[i] = tabStyle.Render(title)
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return tabs + "\n" + dimStyle.Render(clipLine(m.filterSummary(), m.width))
}

func (m *Model) renderFooter() string {
	if m.form.active {
		return dimStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q"
	if m.active == paneCharCurves {
		help = "Nav: left/right  Edit chars: enter  Window: -/=  Filters: /  Quit: q"
	}
	if m.loadErr != "" {
		return dimStyle.Render(help) + "\n" + errStyle.Render(m.loadErr)
	}
	return dimStyle.Render(help)
}

func (m *Model) renderBody() string {
	if m.form.active {
		return m.form.view()
	}
	switch m.active {
	case paneCharacters:
		switch {
		case len(m.history.Sessions) == 0:
			return "No sessions found."
		case len(m.history.CharTotals) == 0:
			return "No character stats found."
		default:
			return m.charTable.View()
		}
	case paneCharCurves:
		return m.curves.View()
	default:
		return m.overview.View()
	}
}

// clipBox pads and clips a block to exactly width x height so the three
// view sections stack without drift.
func clipBox(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) < width {
			lines[i] = line + strings.Repeat(" ", width-lipgloss.Width(line))
		}
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func clipLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
