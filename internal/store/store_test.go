package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/codetype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "codetype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertTestSession(t *testing.T, st *Store, path, language string, endedAt time.Time) int64 {
	t.Helper()
	stats := model.SessionStats{
		StartedAt:    endedAt.Add(-30 * time.Second),
		EndedAt:      endedAt,
		Path:         path,
		Language:     language,
		Theme:        "monokai",
		CorrectChars: 20,
		WrongChars:   2,
		TotalActions: 22,
		DurationMs:   30000,
	}
	id, err := st.InsertSession(context.Background(), stats, []model.CharStats{
		{Char: "a", Correct: 10, Incorrect: 1, LatencySumMs: 900, LatencyCount: 9},
	})
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	goID := insertTestSession(t, st, "cmd/server/main.go", "Go", base)
	insertTestSession(t, st, "lib/app.py", "Python", base.Add(time.Hour))
	lateID := insertTestSession(t, st, "pkg/util/util.go", "Go", base.Add(2*time.Hour))

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx, model.StatsConfig{Language: "Go"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != goID || sessions[1].SessionID != lateID {
		t.Fatalf("unexpected language filter result: %+v", sessions)
	}

	sessions, err = st.ListSessions(ctx, model.StatsConfig{Path: "util"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != lateID {
		t.Fatalf("unexpected path filter result: %+v", sessions)
	}

	since := base.Add(30 * time.Minute)
	sessions, err = st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions after since, got %d", len(sessions))
	}
}

func TestListLanguages(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insertTestSession(t, st, "a.go", "Go", base)
	insertTestSession(t, st, "b.go", "Go", base.Add(time.Minute))
	insertTestSession(t, st, "c.py", "Python", base.Add(2*time.Minute))

	langs, err := st.ListLanguages(context.Background())
	if err != nil {
		t.Fatalf("list languages: %v", err)
	}
	if len(langs) != 2 || langs[0] != "Go" || langs[1] != "Python" {
		t.Fatalf("unexpected languages: %v", langs)
	}
}

func TestCharAggregates(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	id1 := insertTestSession(t, st, "a.go", "Go", base)
	id2 := insertTestSession(t, st, "b.go", "Go", base.Add(time.Minute))

	aggs, err := st.ListCharAggregatesForSessions(context.Background(), []int64{id1, id2})
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("expected one aggregated char, got %d", len(aggs))
	}
	if aggs[0].Char != "a" || aggs[0].Correct != 20 || aggs[0].Incorrect != 2 {
		t.Fatalf("unexpected aggregate: %+v", aggs[0])
	}

	perSession, err := st.ListCharStatsForSessions(context.Background(), []int64{id1}, []string{"a"})
	if err != nil {
		t.Fatalf("list per-session stats: %v", err)
	}
	if agg, ok := perSession[id1]["a"]; !ok || agg.Correct != 10 {
		t.Fatalf("unexpected per-session stats: %+v", perSession)
	}
}
