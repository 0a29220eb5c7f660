package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/codetype/internal/session"
)

// SessionReport carries the numbers printed after a finished session.
type SessionReport struct {
	Path           string
	Language       string
	Accuracy       float64
	WPM            float64
	CPM            float64
	ElapsedSeconds float64
	Correct        int
	Wrong          int
	Backspaced     int
	Untouched      int
	TargetWPM      int
}

// BuildSessionReport derives the final report from a session.
func BuildSessionReport(s *session.Session, path, language string, targetWPM int) SessionReport {
	return SessionReport{
		Path:           path,
		Language:       language,
		Accuracy:       s.Accuracy(),
		WPM:            s.WPM(),
		CPM:            s.CPM(),
		ElapsedSeconds: s.ElapsedSeconds(),
		Correct:        s.NCorrectChars(),
		Wrong:          s.NWrongChars(),
		Backspaced:     s.NBackspacedChars(),
		Untouched:      s.NUntouchedChars(),
		TargetWPM:      targetWPM,
	}
}

// RenderSessionReport prints the report inside a section framed by fill
// lines. The fill must be exactly one character; width 0 uses the terminal
// width.
func RenderSessionReport(w io.Writer, rep SessionReport, fill string, width int) error {
	if utf8.RuneCountInString(fill) != 1 {
		return fmt.Errorf("section fill must be exactly one character, got %q", fill)
	}
	if width <= 0 {
		width = terminalWidth()
	}

	if _, err := fmt.Fprintln(w, centerWithFill(" Statistics ", fill, width)); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("File: %s (%s)", rep.Path, rep.Language),
		fmt.Sprintf("Accuracy: %.1f%%", rep.Accuracy*100),
		fmt.Sprintf("WPM: %.1f", rep.WPM),
		fmt.Sprintf("CPM: %.1f", rep.CPM),
		fmt.Sprintf("Elapsed: %.1fs", rep.ElapsedSeconds),
		fmt.Sprintf("Characters: %d correct, %d wrong, %d backspaced, %d untouched",
			rep.Correct, rep.Wrong, rep.Backspaced, rep.Untouched),
	}
	if rep.TargetWPM > 0 {
		lines = append(lines, fmt.Sprintf("Target WPM: %d (%+.1f)", rep.TargetWPM, rep.WPM-float64(rep.TargetWPM)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, strings.Repeat(fill, width)); err != nil {
		return err
	}
	return nil
}

// terminalWidth reads the stdout width, 80 when stdout is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func centerWithFill(title, fill string, width int) string {
	titleWidth := utf8.RuneCountInString(title)
	if titleWidth >= width {
		return title
	}
	left := (width - titleWidth) / 2
	right := width - titleWidth - left
	return strings.Repeat(fill, left) + title + strings.Repeat(fill, right)
}
