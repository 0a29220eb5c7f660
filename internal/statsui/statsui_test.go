package statsui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/codetype/internal/model"
)

func TestSplitCharList(t *testing.T) {
	if got := splitCharList("abc"); len(got) != 3 || got[0] != "a" {
		t.Fatalf("unexpected per-rune split: %v", got)
	}
	if got := splitCharList("a, b ,c"); len(got) != 3 || got[1] != "b" {
		t.Fatalf("unexpected comma split: %v", got)
	}
	if got := splitCharList("  "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestStripCharInput(t *testing.T) {
	if got := stripCharInput("a, b c"); got != "abc" {
		t.Fatalf("unexpected cleaned input: %q", got)
	}
}

func TestWindowStepping(t *testing.T) {
	steps := []struct{ in, grown, shrunk int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, s := range steps {
		if got := growWindow(s.in); got != s.grown {
			t.Fatalf("growWindow(%d) = %d, want %d", s.in, got, s.grown)
		}
		if got := shrinkWindow(s.in); got != s.shrunk {
			t.Fatalf("shrinkWindow(%d) = %d, want %d", s.in, got, s.shrunk)
		}
	}
}

func TestCharRows(t *testing.T) {
	rows := charRows([]model.CharAggregate{
		{Char: "a", Correct: 1},
		{Char: " ", Correct: 8, Incorrect: 2, LatencySumMs: 1000, LatencyCount: 10},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// The space sorts first by volume and shows a readable label.
	if rows[0][0] != "<space>" || rows[0][1] != "80.0%" || rows[0][2] != "100.0" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1][0] != "a" || rows[1][5] != "1" {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
}

func TestCharSeriesSkipsMissingSessions(t *testing.T) {
	sessions := []model.SessionAggregate{
		{SessionID: 1}, {SessionID: 2}, {SessionID: 3},
	}
	bySess := map[int64]map[string]model.CharAggregate{
		1: {"a": {Char: "a", Correct: 9, Incorrect: 1, LatencySumMs: 300, LatencyCount: 3}},
		3: {"a": {Char: "a", Correct: 5, Incorrect: 5}},
	}
	acc, lat := charSeries(sessions, bySess, "a", 0)
	if len(acc) != 2 || acc[0] != 90 || acc[1] != 50 {
		t.Fatalf("unexpected accuracy series: %v", acc)
	}
	if len(lat) != 2 || lat[0] != 100 || lat[1] != 0 {
		t.Fatalf("unexpected latency series: %v", lat)
	}
}

func TestCharSeriesWindow(t *testing.T) {
	sessions := []model.SessionAggregate{{SessionID: 1}, {SessionID: 2}}
	bySess := map[int64]map[string]model.CharAggregate{
		1: {"a": {Char: "a", Correct: 1}},
		2: {"a": {Char: "a", Correct: 1, Incorrect: 1}},
	}
	acc, _ := charSeries(sessions, bySess, "a", 1)
	if len(acc) != 1 || acc[0] != 50 {
		t.Fatalf("expected only the trailing session, got %v", acc)
	}
}

func TestClipBox(t *testing.T) {
	got := clipBox("ab\ncdef", 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ab  " || lines[2] != "    " {
		t.Fatalf("unexpected padding: %q", got)
	}
}

func TestClipLine(t *testing.T) {
	if got := clipLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected clip: %q", got)
	}
	if got := clipLine("ab", 6); got != "ab" {
		t.Fatalf("short lines must pass through, got %q", got)
	}
}
