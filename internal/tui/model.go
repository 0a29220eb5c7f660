// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
	statsPkg "github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/store"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

// Model implements the Bubble Tea typing UI. It forwards key and resize
// events to the session engine and paints the frames the engine returns.
type Model struct {
	session  *session.Session
	store    *store.Store
	cfg      model.Config
	path     string
	language string

	width  int
	height int

	finished bool
	aborted  bool
	fatalErr error
	result   *model.SessionStats
}

// NewModel constructs a typing TUI model around a session engine.
func NewModel(sess *session.Session, st *store.Store, cfg model.Config, path, language string) *Model {
	return &Model{
		session:  sess,
		store:    st,
		cfg:      cfg,
		path:     path,
		language: language,
	}
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
		// One row is reserved for the footer.
		if err := m.session.Resize(msg.Width, msg.Height-1); err != nil {
			m.fatalErr = fmt.Errorf("failed to lay out text: %w", err)
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		default:
			return m.handleKey(msg.String())
		}
	default:
		return m, nil
	}
}

func (m *Model) handleKey(key string) (tea.Model, tea.Cmd) {
	outcome, err := m.session.HandleKey(key)
	if err != nil {
		m.fatalErr = err
		return m, tea.Quit
	}
	if outcome != session.OutcomeFinished {
		return m, nil
	}
	m.finished = true
	m.finishSession()
	return m, tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	rows := m.session.Frame()
	body := strings.Join(rows, "\n")
	bodyHeight := m.height - 1
	for i := len(rows); i < bodyHeight; i++ {
		body += "\n"
	}
	return body + "\n" + m.renderFooter()
}

// Err returns the fatal error that ended the program, if any.
func (m *Model) Err() error {
	return m.fatalErr
}

// Result returns the completed session stats, false when the session was
// aborted or never finished.
func (m *Model) Result() (model.SessionStats, bool) {
	if m.result == nil {
		return model.SessionStats{}, false
	}
	return *m.result, true
}

// Finished reports whether the session ran to completion.
func (m *Model) Finished() bool {
	return m.finished
}

func (m *Model) renderFooter() string {
	n := m.session.Text().Len()
	progress := 0
	if n > 0 {
		progress = m.session.Cursor() * 100 / n
		if progress > 100 {
			progress = 100
		}
	}
	segments := []string{
		fmt.Sprintf("%s · %s", m.path, m.language),
		fmt.Sprintf("Progress %d%%", progress),
	}
	if !m.session.StartedAt().IsZero() {
		segments = append(segments, fmt.Sprintf("%.1f WPM · %.1f%%", m.session.WPM(), m.session.Accuracy()*100))
	}
	if m.cfg.TargetWPM > 0 {
		segments = append(segments, fmt.Sprintf("Target %d WPM", m.cfg.TargetWPM))
	}
	footer := strings.Join(segments, "  ")
	return footerStyle.Render(footer)
}

func (m *Model) finishSession() {
	stats := model.SessionStats{
		StartedAt:    m.session.StartedAt(),
		EndedAt:      m.session.EndedAt(),
		Path:         m.path,
		Language:     m.language,
		Theme:        m.cfg.Theme,
		CorrectChars: m.session.NCorrectChars(),
		WrongChars:   m.session.NWrongChars(),
		Backspaces:   m.session.NBackspaceActions(),
		TotalActions: m.session.NActions(),
		DurationMs:   m.session.EndedAt().Sub(m.session.StartedAt()).Milliseconds(),
	}
	m.result = &stats

	if m.store == nil {
		return
	}
	charStats := statsPkg.CollectCharStats(m.session)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := m.store.InsertSession(ctx, stats, charStats); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
