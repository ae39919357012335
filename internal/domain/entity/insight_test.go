package entity

import (
	"testing"
	"time"
)

func TestInsight_CopyHelpers(t *testing.T) {
	now := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	original := NewInsight("rule", InsightCategoryStreak, InsightPriorityLow, "Title", "Message", "icon", now).
		SetExpiry(time.Hour).
		Set("count", 1)

	changed := original.WithTitle("Other").WithMessage("Other message").WithMetadata(map[string]any{"count": 2})

	if original.Title != "Title" || original.Message != "Message" {
		t.Error("expected original text to be unchanged")
	}
	if original.Metadata["count"] != 1 {
		t.Errorf("expected original metadata to be unchanged, got %v", original.Metadata["count"])
	}
	if changed.Metadata["count"] != 2 || changed.Title != "Other" {
		t.Error("expected copy to carry the changes")
	}

	*changed.ExpiresIn = 2 * time.Hour
	if *original.ExpiresIn != time.Hour {
		t.Error("expected expiry to be deep copied")
	}
}

func TestInsight_Expiry(t *testing.T) {
	now := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	insight := NewInsight("rule", InsightCategoryStreak, InsightPriorityLow, "Title", "Message", "icon", now)

	if insight.ExpiresAt() != nil || insight.IsExpired(now.Add(1000*time.Hour)) {
		t.Error("expected an insight without expiry to never expire")
	}

	insight.SetExpiry(24 * time.Hour)
	if insight.IsExpired(now.Add(23 * time.Hour)) {
		t.Error("expected insight to be fresh before its expiry")
	}
	if !insight.IsExpired(now.Add(24 * time.Hour)) {
		t.Error("expected insight to expire exactly at its expiry")
	}
}

func TestInsight_Signature(t *testing.T) {
	now := time.Now()
	a := NewInsight("rule", InsightCategoryStreak, InsightPriorityLow, "Title", "One message", "icon", now)
	b := NewInsight("rule", InsightCategoryStreak, InsightPriorityHigh, "Title", "Another message", "icon", now)
	c := NewInsight("rule", InsightCategoryStreak, InsightPriorityLow, "Other title", "One message", "icon", now)

	if a.Signature() != b.Signature() {
		t.Error("expected equal signatures for the same rule, category and title")
	}
	if a.Signature().String() == c.Signature().String() {
		t.Error("expected different signatures for different titles")
	}
}

func TestPriority_Rank(t *testing.T) {
	ordered := []InsightPriority{InsightPriorityCritical, InsightPriorityHigh, InsightPriorityMedium, InsightPriorityLow}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() <= ordered[i].Rank() {
			t.Errorf("expected %s to outrank %s", ordered[i-1], ordered[i])
		}
	}
	if InsightPriority("unknown").Rank() != 0 {
		t.Error("expected unknown priority to rank zero")
	}
}
