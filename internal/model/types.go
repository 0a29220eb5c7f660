// Package model defines shared data structures.
package model

import "time"

// Status classifies the outcome of a recorded keystroke.
type Status int

// Keystroke statuses. The last action recorded at a logical offset defines
// that offset's display status.
const (
	StatusBackspace Status = iota + 1
	StatusCorrect
	StatusWrong
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusBackspace:
		return "backspace"
	case StatusCorrect:
		return "correct"
	case StatusWrong:
		return "wrong"
	default:
		return "unknown"
	}
}

// Action records one keystroke at a logical offset.
type Action struct {
	Key    string
	Status Status
	TS     time.Time
}

// Config defines practice settings.
type Config struct {
	Theme        string
	WordSize     int
	TargetWPM    int
	KeepComments bool
	ForcePerfect bool
	InstantDeath bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Language    string
	Path        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Path         string
	Language     string
	Theme        string
	CorrectChars int
	WrongChars   int
	Backspaces   int
	TotalActions int
	DurationMs   int64
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Path       string
	Language   string
	Correct    int
	Incorrect  int
	DurationMs int64
}
