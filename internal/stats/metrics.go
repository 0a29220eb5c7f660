package stats

import (
	"sort"

	"github.com/verte-zerg/codetype/internal/model"
)

// Metrics are the speed and accuracy numbers derived from one stored
// session.
type Metrics struct {
	WPM      float64
	CPM      float64
	Accuracy float64
}

// Compute derives metrics from a stored session. Speeds are zero without a
// positive duration; accuracy does not depend on it.
func Compute(s model.SessionAggregate) Metrics {
	var m Metrics
	if total := s.Correct + s.Incorrect; total > 0 {
		m.Accuracy = float64(s.Correct) / float64(total)
	}
	if s.DurationMs <= 0 {
		return m
	}
	minutes := float64(s.DurationMs) / 60000
	m.CPM = float64(s.Correct) / minutes
	m.WPM = m.CPM / 5
	return m
}

// CurveSeries extracts WPM and accuracy series in session order. Accuracy
// is scaled to percent so both series plot on readable ranges.
func CurveSeries(sessions []model.SessionAggregate) (wpm, accuracy []float64) {
	wpm = make([]float64, len(sessions))
	accuracy = make([]float64, len(sessions))
	for i, s := range sessions {
		m := Compute(s)
		wpm[i] = m.WPM
		accuracy[i] = m.Accuracy * 100
	}
	return wpm, accuracy
}

// MovingAverage smooths values with a trailing window mean. Early points
// average whatever is available so the curve starts without a gap.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		for _, v := range values[lo : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-lo)
	}
	return out
}

// LanguageSummary aggregates the sessions practiced in one language.
type LanguageSummary struct {
	Language    string
	Sessions    int
	AvgWPM      float64
	BestWPM     float64
	AvgAccuracy float64
}

// SummarizeLanguages groups sessions by language, most practiced first.
// Languages with equal session counts sort alphabetically.
func SummarizeLanguages(sessions []model.SessionAggregate) []LanguageSummary {
	byLang := map[string]*LanguageSummary{}
	order := make([]string, 0, 8)
	for _, s := range sessions {
		sum, ok := byLang[s.Language]
		if !ok {
			sum = &LanguageSummary{Language: s.Language}
			byLang[s.Language] = sum
			order = append(order, s.Language)
		}
		m := Compute(s)
		sum.Sessions++
		sum.AvgWPM += m.WPM
		sum.AvgAccuracy += m.Accuracy
		if m.WPM > sum.BestWPM {
			sum.BestWPM = m.WPM
		}
	}

	out := make([]LanguageSummary, 0, len(order))
	for _, lang := range order {
		sum := *byLang[lang]
		n := float64(sum.Sessions)
		sum.AvgWPM /= n
		sum.AvgAccuracy /= n
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sessions != out[j].Sessions {
			return out[i].Sessions > out[j].Sessions
		}
		return out[i].Language < out[j].Language
	})
	return out
}

// AvgLatencyMs is the mean inter-keystroke latency of an aggregate, 0
// without samples.
func AvgLatencyMs(agg model.CharAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}
