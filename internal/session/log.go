package session

import (
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
)

// OffsetAction pairs a recorded action with the logical offset it was
// recorded at, for export or replay.
type OffsetAction struct {
	Offset int
	Action model.Action
}

// actionLog keeps the per-offset action history for one layout epoch. Lists
// are append-only; the last entry defines the offset's display status.
type actionLog struct {
	perOffset [][]model.Action
}

func newActionLog(n int) *actionLog {
	return &actionLog{perOffset: make([][]model.Action, n)}
}

func (l *actionLog) record(offset int, a model.Action) {
	l.perOffset[offset] = append(l.perOffset[offset], a)
}

// last returns the display status of an offset, false if untouched.
func (l *actionLog) last(offset int) (model.Status, bool) {
	actions := l.perOffset[offset]
	if len(actions) == 0 {
		return 0, false
	}
	return actions[len(actions)-1].Status, true
}

// charsWithStatus counts offsets whose last recorded action has the status.
func (l *actionLog) charsWithStatus(status model.Status) int {
	count := 0
	for _, actions := range l.perOffset {
		if len(actions) > 0 && actions[len(actions)-1].Status == status {
			count++
		}
	}
	return count
}

func (l *actionLog) untouched() int {
	count := 0
	for _, actions := range l.perOffset {
		if len(actions) == 0 {
			count++
		}
	}
	return count
}

func (l *actionLog) totalActions() int {
	total := 0
	for _, actions := range l.perOffset {
		total += len(actions)
	}
	return total
}

func (l *actionLog) backspaceActions() int {
	total := 0
	for _, actions := range l.perOffset {
		for _, a := range actions {
			if a.Status == model.StatusBackspace {
				total++
			}
		}
	}
	return total
}

// unroll flattens the log into chronological order, independent of the
// per-offset storage order. The sort is stable for equal timestamps.
func (l *actionLog) unroll() []OffsetAction {
	out := make([]OffsetAction, 0, l.totalActions())
	for offset, actions := range l.perOffset {
		for _, a := range actions {
			out = append(out, OffsetAction{Offset: offset, Action: a})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Action.TS.Before(out[j].Action.TS)
	})
	return out
}
