package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/store"
)

func seedStore(t *testing.T) (*store.Store, []int64) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "codetype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]int64, 0, 4)
	for i := 0; i < 4; i++ {
		language := "Go"
		if i == 3 {
			language = "Python"
		}
		ended := base.Add(time.Duration(i) * time.Hour)
		id, err := st.InsertSession(context.Background(), model.SessionStats{
			StartedAt:    ended.Add(-time.Minute),
			EndedAt:      ended,
			Path:         "main.go",
			Language:     language,
			Theme:        "monokai",
			CorrectChars: 100 + 10*i,
			WrongChars:   5,
			TotalActions: 110,
			DurationMs:   60000,
		}, []model.CharStats{
			{Char: "a", Correct: 10, Incorrect: 1, LatencySumMs: 500, LatencyCount: 5},
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}
	return st, ids
}

func TestLoadHistory(t *testing.T) {
	st, ids := seedStore(t)
	h, err := LoadHistory(context.Background(), st, model.StatsConfig{CurveWindow: 2})
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(h.Sessions) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(h.Sessions))
	}
	if len(h.WindowIDs) != 2 || h.WindowIDs[0] != ids[2] || h.WindowIDs[1] != ids[3] {
		t.Fatalf("unexpected window ids: %v", h.WindowIDs)
	}
	if len(h.Languages) != 2 || h.Languages[0].Language != "Go" || h.Languages[0].Sessions != 3 {
		t.Fatalf("unexpected language summaries: %+v", h.Languages)
	}
	if len(h.CharTotals) != 1 || h.CharTotals[0].Correct != 40 {
		t.Fatalf("unexpected char totals: %+v", h.CharTotals)
	}
	if len(h.CharWindow) != 1 || h.CharWindow[0].Correct != 20 {
		t.Fatalf("unexpected windowed char aggregates: %+v", h.CharWindow)
	}
}

func TestLoadHistoryLastFilter(t *testing.T) {
	st, ids := seedStore(t)
	h, err := LoadHistory(context.Background(), st, model.StatsConfig{Last: 2, CurveWindow: 10})
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(h.Sessions) != 2 || h.Sessions[0].SessionID != ids[2] {
		t.Fatalf("expected the last 2 sessions, got %+v", h.Sessions)
	}
	// A window larger than the list covers every remaining session.
	if len(h.WindowIDs) != 2 {
		t.Fatalf("unexpected window ids: %v", h.WindowIDs)
	}
}

func TestLoadHistoryLanguageFilter(t *testing.T) {
	st, _ := seedStore(t)
	h, err := LoadHistory(context.Background(), st, model.StatsConfig{Language: "Python", CurveWindow: 5})
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(h.Sessions) != 1 || h.Sessions[0].Language != "Python" {
		t.Fatalf("unexpected sessions: %+v", h.Sessions)
	}
	if len(h.Languages) != 1 || h.Languages[0].Language != "Python" {
		t.Fatalf("unexpected language summaries: %+v", h.Languages)
	}
}
