package rule

import (
	"testing"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

func renewal(daysAgo int, amount, category, note string) *entity.Transaction {
	return spendOn(testNow.AddDate(0, 0, -daysAgo), amount, category, note)
}

func TestSubscriptionRule_Detect(t *testing.T) {
	rule := NewSubscriptionRule(defaultConfig())

	t.Run("keyword and round amounts", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "15.99", "video", "Netflix"),
			renewal(31, "15.99", "video", "Netflix"),
			renewal(2, "1200.00", "rent", ""),
			renewal(32, "1200.00", "rent", ""),
		}, nil)

		subs := rule.Detect(rc)
		if len(subs) != 2 {
			t.Fatalf("expected 2 subscriptions, got %d", len(subs))
		}
		if subs[0].Category != "rent" || !subs[0].Amount.Equal(dec("1200")) || subs[0].Occurrences != 2 {
			t.Errorf("unexpected first subscription %+v", subs[0])
		}
		if subs[1].Category != "video" || subs[1].RenewalDay != 14 {
			t.Errorf("unexpected second subscription %+v", subs[1])
		}
	})

	t.Run("irregular amounts without keywords", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "83.17", "groceries", ""),
			renewal(8, "91.42", "groceries", ""),
		}, nil)
		if subs := rule.Detect(rc); len(subs) != 0 {
			t.Errorf("expected no subscriptions, got %+v", subs)
		}
	})

	t.Run("amounts too far apart", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "30.00", "gym", ""),
			renewal(31, "45.00", "gym", ""),
		}, nil)
		if subs := rule.Detect(rc); len(subs) != 0 {
			t.Errorf("expected no subscriptions, got %+v", subs)
		}
	})
}

func TestSubscriptionRule_Evaluate(t *testing.T) {
	rule := NewSubscriptionRule(defaultConfig())

	t.Run("annual cost over the limit", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "15.99", "video", "Netflix"),
			renewal(31, "15.99", "video", "Netflix"),
			renewal(3, "9.99", "music", "Spotify"),
			renewal(33, "9.99", "music", "Spotify"),
			renewal(20, "30.00", "gym", ""),
			renewal(50, "30.00", "gym", ""),
		}, nil)

		insight, err := rule.Evaluate(rc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if insight == nil || insight.Title != "Subscriptions add up" {
			t.Fatalf("expected annual cost insight, got %v", insight)
		}
		if insight.Priority != entity.InsightPriorityHigh {
			t.Errorf("expected high priority, got %s", insight.Priority)
		}
		if insight.Metadata["annual_total"] != "671.76" {
			t.Errorf("expected annual total 671.76, got %v", insight.Metadata["annual_total"])
		}
	})

	t.Run("renewals close together", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "15.99", "video", "Netflix"),
			renewal(31, "15.99", "video", "Netflix"),
			renewal(3, "9.99", "music", "Spotify"),
			renewal(33, "9.99", "music", "Spotify"),
		}, nil)

		insight, _ := rule.Evaluate(rc)
		if insight == nil || insight.Title != "Renewals bunch together" {
			t.Fatalf("expected clustered renewals insight, got %v", insight)
		}
		if insight.Metadata["clustered_renewals"] != 2 {
			t.Errorf("expected 2 clustered renewals, got %v", insight.Metadata["clustered_renewals"])
		}
	})

	t.Run("several spread out subscriptions", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "5.99", "video", "Netflix"),
			renewal(31, "5.99", "video", "Netflix"),
			renewal(10, "4.99", "music", "Spotify"),
			renewal(40, "4.99", "music", "Spotify"),
			renewal(20, "3.99", "storage", "iCloud"),
			renewal(50, "3.99", "storage", "iCloud"),
		}, nil)

		insight, _ := rule.Evaluate(rc)
		if insight == nil || insight.Title != "3 subscriptions detected" {
			t.Fatalf("expected subscription count insight, got %v", insight)
		}
		if insight.Priority != entity.InsightPriorityLow {
			t.Errorf("expected low priority, got %s", insight.Priority)
		}
	})

	t.Run("a single cheap subscription", func(t *testing.T) {
		rc := contextWith([]*entity.Transaction{
			renewal(1, "5.99", "video", "Netflix"),
			renewal(31, "5.99", "video", "Netflix"),
		}, nil)
		if insight, _ := rule.Evaluate(rc); insight != nil {
			t.Errorf("expected no insight, got %q", insight.Title)
		}
	})
}
