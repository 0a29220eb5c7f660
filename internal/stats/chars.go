// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"
	"time"
	"unicode"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
)

// CollectCharStats aggregates per-character outcomes from a session's
// chronological action log. Whitespace and backspaces are skipped; latency
// is the gap between consecutive correct keystrokes, attributed to the
// later character.
func CollectCharStats(s *session.Session) []model.CharStats {
	type entry struct {
		correct      int
		incorrect    int
		latencySumMs int64
		latencyCount int64
	}
	byChar := map[rune]*entry{}
	var prevCorrectAt time.Time

	for _, oa := range s.Unroll() {
		if oa.Action.Status == model.StatusBackspace {
			continue
		}
		expected := s.Text().Rune(oa.Offset)
		if unicode.IsSpace(expected) {
			continue
		}
		e, ok := byChar[expected]
		if !ok {
			e = &entry{}
			byChar[expected] = e
		}
		if oa.Action.Status == model.StatusCorrect {
			e.correct++
			if !prevCorrectAt.IsZero() {
				e.latencySumMs += oa.Action.TS.Sub(prevCorrectAt).Milliseconds()
				e.latencyCount++
			}
			prevCorrectAt = oa.Action.TS
			continue
		}
		e.incorrect++
	}

	chars := make([]rune, 0, len(byChar))
	for ch := range byChar {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	out := make([]model.CharStats, 0, len(chars))
	for _, ch := range chars {
		e := byChar[ch]
		out = append(out, model.CharStats{
			Char:         string(ch),
			Correct:      e.correct,
			Incorrect:    e.incorrect,
			LatencySumMs: e.latencySumMs,
			LatencyCount: e.latencyCount,
		})
	}
	return out
}

// TopCharsByFrequency picks the n most typed characters across aggregates.
// Ties break alphabetically so the selection is deterministic.
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	sorted := append([]model.CharAggregate(nil), aggs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti != tj {
			return ti > tj
		}
		return sorted[i].Char < sorted[j].Char
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Char
	}
	return out
}
