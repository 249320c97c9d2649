package analytics

import "time"

type BadgeID string

const (
	BadgeSharpshooter BadgeID = "sharpshooter"
	BadgeCleanSweep   BadgeID = "clean_sweep"
	BadgeTriggerHappy BadgeID = "trigger_happy"
	BadgeQuickDraw    BadgeID = "quick_draw"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeSharpshooter: {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "75%+ accuracy over at least 4 shots"},
	BadgeCleanSweep:   {ID: BadgeCleanSweep, Name: "Clean Sweep", Description: "Hit every target on the range"},
	BadgeTriggerHappy: {ID: BadgeTriggerHappy, Name: "Trigger Happy", Description: "Fired 50+ shots in one session"},
	BadgeQuickDraw:    {ID: BadgeQuickDraw, Name: "Quick Draw", Description: "Cleared the range within 10 seconds"},
}

const quickDrawLimit = 10 * time.Second

// EvaluateBadges checks which badges a session earned.
func EvaluateBadges(stats SessionStats) []Badge {
	var earned []Badge

	if stats.Shots >= 4 && stats.Accuracy >= 75 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	if stats.Cleared() {
		earned = append(earned, AllBadges[BadgeCleanSweep])
	}

	if stats.Shots >= 50 {
		earned = append(earned, AllBadges[BadgeTriggerHappy])
	}

	if stats.Cleared() && stats.ClearedIn > 0 && stats.ClearedIn <= quickDrawLimit {
		earned = append(earned, AllBadges[BadgeQuickDraw])
	}

	return earned
}

// Accuracy is hits as a percentage of shots. Hits picked without a recorded
// shot do not count, so the result never exceeds 100.
func Accuracy(shots, hits int) float64 {
	if shots == 0 {
		return 0
	}
	return float64(min(hits, shots)) / float64(shots) * 100
}
