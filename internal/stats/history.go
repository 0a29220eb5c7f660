package stats

import (
	"context"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/store"
)

// History is a filtered slice of stored sessions plus the aggregates the
// stats UI renders from it.
type History struct {
	Sessions  []model.SessionAggregate
	Languages []LanguageSummary
	// CharTotals aggregates characters over every listed session,
	// CharWindow over only the sessions in WindowIDs.
	CharTotals []model.CharAggregate
	CharWindow []model.CharAggregate
	// WindowIDs are the trailing curve-window session ids.
	WindowIDs []int64
}

// LoadHistory queries the sessions matching cfg and precomputes the
// per-language and per-character aggregates.
func LoadHistory(ctx context.Context, st *store.Store, cfg model.StatsConfig) (History, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return History{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := trailingIDs(sessions, cfg.CurveWindow)
	charTotals, err := st.ListCharAggregatesForSessions(ctx, trailingIDs(sessions, 0))
	if err != nil {
		return History{}, err
	}
	charWindow, err := st.ListCharAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return History{}, err
	}

	return History{
		Sessions:   sessions,
		Languages:  SummarizeLanguages(sessions),
		CharTotals: charTotals,
		CharWindow: charWindow,
		WindowIDs:  windowIDs,
	}, nil
}

// trailingIDs returns the ids of the last window sessions; window 0 means
// all of them.
func trailingIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window > 0 && len(sessions) > window {
		sessions = sessions[len(sessions)-window:]
	}
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
