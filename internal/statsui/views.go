package statsui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

// renderOverview builds the first pane: a summary line, per-language
// results, the most recently practiced files, and the progress chart.
func renderOverview(h stats.History, window, width int) string {
	if len(h.Sessions) == 0 {
		return "No sessions found."
	}
	sections := []string{
		renderSummaryLine(h.Sessions),
		renderLanguageTable(h.Languages),
		renderRecentFiles(h.Sessions),
		renderProgressChart(h.Sessions, window, width),
	}
	return strings.TrimRight(strings.Join(sections, "\n\n"), "\n")
}

func renderSummaryLine(sessions []model.SessionAggregate) string {
	var sumWPM, sumAcc, best float64
	var totalMs int64
	for _, s := range sessions {
		m := stats.Compute(s)
		sumWPM += m.WPM
		sumAcc += m.Accuracy
		if m.WPM > best {
			best = m.WPM
		}
		totalMs += s.DurationMs
	}
	n := float64(len(sessions))
	parts := []string{
		fmt.Sprintf("%s %d", dimStyle.Render("Sessions"), len(sessions)),
		fmt.Sprintf("%s %.1f", dimStyle.Render("Avg WPM"), sumWPM/n),
		fmt.Sprintf("%s %.1f", dimStyle.Render("Best WPM"), best),
		fmt.Sprintf("%s %.1f%%", dimStyle.Render("Avg Acc"), sumAcc/n*100),
		fmt.Sprintf("%s %.0fm", dimStyle.Render("Practiced"), float64(totalMs)/60000),
	}
	return strongStyle.Render("Summary") + "\n" + strings.Join(parts, "   ")
}

func renderLanguageTable(langs []stats.LanguageSummary) string {
	var b strings.Builder
	b.WriteString(strongStyle.Render("Languages"))
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render(fmt.Sprintf("%-14s %8s %8s %8s %8s", "Language", "Sessions", "Avg WPM", "Best", "Acc")))
	for _, l := range langs {
		b.WriteByte('\n')
		b.WriteString(fmt.Sprintf("%-14s %8d %8.1f %8.1f %7.1f%%",
			clipLine(l.Language, 14), l.Sessions, l.AvgWPM, l.BestWPM, l.AvgAccuracy*100))
	}
	return b.String()
}

// renderRecentFiles lists the last distinct practiced paths with the speed
// of their most recent session.
func renderRecentFiles(sessions []model.SessionAggregate) string {
	const maxFiles = 5
	seen := map[string]bool{}
	var b strings.Builder
	b.WriteString(strongStyle.Render("Recent files"))
	count := 0
	for i := len(sessions) - 1; i >= 0 && count < maxFiles; i-- {
		s := sessions[i]
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		count++
		m := stats.Compute(s)
		b.WriteByte('\n')
		b.WriteString(fmt.Sprintf("%s  %s", clipLine(s.Path, 40),
			dimStyle.Render(fmt.Sprintf("%.1f wpm  %.1f%%  %s", m.WPM, m.Accuracy*100, s.EndedAt.Format("2006-01-02")))))
	}
	return b.String()
}

// renderProgressChart plots raw WPM, its moving average over the curve
// window, and accuracy, one point per session.
func renderProgressChart(sessions []model.SessionAggregate, window, width int) string {
	wpm, acc := stats.CurveSeries(sessions)
	curves := []stats.Curve{
		{Label: "wpm", Values: wpm, Style: wpmStyle},
		{Label: fmt.Sprintf("wpm avg(%d)", window), Values: stats.MovingAverage(wpm, window), Style: trendStyle},
		{Label: "acc %", Values: acc, Style: accStyle},
	}
	return stats.RenderChart(strongStyle.Render("Progress"), curves, width, chartHeight)
}

func newCharTable() table.Model {
	columns := []table.Column{
		{Title: "Char", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Latency (ms)", Width: 13},
		{Title: "Correct", Width: 8},
		{Title: "Wrong", Width: 6},
		{Title: "Typed", Width: 6},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#3A3A3A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F5F5F5")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func charRows(aggs []model.CharAggregate) []table.Row {
	sorted := append([]model.CharAggregate(nil), aggs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti != tj {
			return ti > tj
		}
		return sorted[i].Char < sorted[j].Char
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total) * 100
		}
		label := agg.Char
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, table.Row{
			label,
			fmt.Sprintf("%.1f%%", acc),
			fmt.Sprintf("%.1f", stats.AvgLatencyMs(agg)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			fmt.Sprintf("%d", total),
		})
	}
	return rows
}

// fitCharTable sizes the table so its rendered view fills the body exactly.
// The bubbles table view can differ from the requested height by its
// header, so the height is corrected against the rendered result.
func (m *Model) fitCharTable(width, bodyHeight int) {
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.charTable.SetWidth(width)
	m.charTable.SetHeight(bodyHeight)
	diff := bodyHeight - lipgloss.Height(m.charTable.View())
	if diff != 0 {
		h := m.charTable.Height() + diff
		if h < 1 {
			h = 1
		}
		m.charTable.SetHeight(h)
	}
}

// renderCharCurves builds the third pane: per selected character, accuracy
// and inter-keystroke latency across the windowed sessions.
func (m *Model) renderCharCurves(width int) string {
	if len(m.history.Sessions) == 0 {
		return "No sessions found."
	}
	if m.charErr != "" {
		return fmt.Sprintf("Failed to load character curves: %s", m.charErr)
	}
	if len(m.chars) == 0 {
		return "No characters selected. Press Enter to set chars."
	}
	header := dimStyle.Render("Chars: " + strings.Join(m.chars, ", "))
	sections := []string{header}
	for _, ch := range m.chars {
		acc, lat := charSeries(m.history.Sessions, m.charBySess, ch, m.cfg.CurveWindow)
		label := ch
		if label == " " {
			label = "<space>"
		}
		chart := stats.RenderChart(strongStyle.Render(label), []stats.Curve{
			{Label: "acc %", Values: acc, Style: accStyle},
			{Label: "latency ms", Values: lat, Style: latStyle},
		}, width, chartHeight)
		if chart == "" {
			chart = strongStyle.Render(label) + "\n" + dimStyle.Render("no data")
		}
		sections = append(sections, chart)
	}
	return strings.TrimRight(strings.Join(sections, "\n\n"), "\n")
}

// charSeries extracts the per-session accuracy and latency of one character
// over the trailing window. Sessions where the character was not typed are
// skipped so the curves stay continuous.
func charSeries(sessions []model.SessionAggregate, bySess map[int64]map[string]model.CharAggregate, char string, window int) (acc, lat []float64) {
	if window > 0 && len(sessions) > window {
		sessions = sessions[len(sessions)-window:]
	}
	for _, s := range sessions {
		agg, ok := bySess[s.SessionID][char]
		if !ok {
			continue
		}
		total := agg.Correct + agg.Incorrect
		if total == 0 {
			continue
		}
		acc = append(acc, float64(agg.Correct)/float64(total)*100)
		lat = append(lat, stats.AvgLatencyMs(agg))
	}
	return acc, lat
}
