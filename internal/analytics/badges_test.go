package analytics

import (
	"testing"
	"time"
)

func hasBadge(badges []Badge, id BadgeID) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

func TestEvaluateBadges_None(t *testing.T) {
	badges := EvaluateBadges(SessionStats{Shots: 3, Hits: 1, TargetsTotal: 3, Accuracy: Accuracy(3, 1)})
	if len(badges) != 0 {
		t.Errorf("got %d badges, want 0: %+v", len(badges), badges)
	}
}

func TestEvaluateBadges_Sharpshooter(t *testing.T) {
	stats := SessionStats{Shots: 4, Hits: 3, TargetsTotal: 5, Accuracy: Accuracy(4, 3)}
	if !hasBadge(EvaluateBadges(stats), BadgeSharpshooter) {
		t.Error("3/4 hits should earn Sharpshooter")
	}

	stats = SessionStats{Shots: 2, Hits: 2, TargetsTotal: 5, Accuracy: Accuracy(2, 2)}
	if hasBadge(EvaluateBadges(stats), BadgeSharpshooter) {
		t.Error("Sharpshooter needs at least 4 shots")
	}
}

func TestEvaluateBadges_CleanSweepAndQuickDraw(t *testing.T) {
	stats := SessionStats{Shots: 6, Hits: 3, TargetsTotal: 3, Accuracy: 50, ClearedIn: 8 * time.Second}
	badges := EvaluateBadges(stats)
	if !hasBadge(badges, BadgeCleanSweep) {
		t.Error("clearing every target should earn Clean Sweep")
	}
	if !hasBadge(badges, BadgeQuickDraw) {
		t.Error("clearing in 8s should earn Quick Draw")
	}

	stats.ClearedIn = 30 * time.Second
	if hasBadge(EvaluateBadges(stats), BadgeQuickDraw) {
		t.Error("clearing in 30s should not earn Quick Draw")
	}
}

func TestEvaluateBadges_TriggerHappy(t *testing.T) {
	stats := SessionStats{Shots: 50, TargetsTotal: 3}
	if !hasBadge(EvaluateBadges(stats), BadgeTriggerHappy) {
		t.Error("50 shots should earn Trigger Happy")
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(0, 0); got != 0 {
		t.Errorf("Accuracy(0, 0) = %v, want 0", got)
	}
	if got := Accuracy(4, 1); got != 25 {
		t.Errorf("Accuracy(4, 1) = %v, want 25", got)
	}
}

func TestAllBadges_Complete(t *testing.T) {
	for _, id := range []BadgeID{BadgeSharpshooter, BadgeCleanSweep, BadgeTriggerHappy, BadgeQuickDraw} {
		b, ok := AllBadges[id]
		if !ok || b.Name == "" || b.Description == "" {
			t.Errorf("badge %q is missing or incomplete", id)
		}
	}
}

func TestAccuracy_CappedAtShots(t *testing.T) {
	if got := Accuracy(2, 3); got != 100 {
		t.Errorf("Accuracy(2, 3) = %v, want 100", got)
	}
	if got := Accuracy(0, 3); got != 0 {
		t.Errorf("Accuracy(0, 3) = %v, want 0", got)
	}
}

func TestEvaluateBadges_PicksWithoutShots(t *testing.T) {
	stats := SessionStats{Shots: 0, Hits: 3, TargetsTotal: 3, Accuracy: Accuracy(0, 3)}
	for _, b := range EvaluateBadges(stats) {
		if b.ID == BadgeSharpshooter {
			t.Error("Sharpshooter awarded without any shots")
		}
	}
}
