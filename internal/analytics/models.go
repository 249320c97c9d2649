package analytics

import "time"

type SessionStats struct {
	SessionID    string
	Code         string
	PlayerName   string
	Score        int
	TargetsTotal int
	Shots        int
	Hits         int
	Accuracy     float64 // percentage of shots that scored
	Duration     time.Duration
	ClearedIn    time.Duration // zero unless every target was hit
	StartedAt    time.Time
	EndedAt      *time.Time
	Badges       []Badge
}

// Cleared reports whether every target of the session was hit.
func (s SessionStats) Cleared() bool {
	return s.TargetsTotal > 0 && s.Hits >= s.TargetsTotal
}

type LeaderboardEntry struct {
	SessionID  string
	PlayerName string
	Value      float64
	Rank       int
}
