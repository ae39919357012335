// Package entity defines the core business entities for the domain layer.
package entity

// Trigger represents a scheduling event a rule may declare interest in.
type Trigger string

const (
	TriggerAppOpen         Trigger = "app_open"
	TriggerPostTransaction Trigger = "post_transaction"
	TriggerMorningDigest   Trigger = "morning_digest"
	TriggerWeeklySummary   Trigger = "weekly_summary"
	TriggerMonthlyDeepDive Trigger = "monthly_deep_dive"
	TriggerPreDecision     Trigger = "pre_decision"
	TriggerManual          Trigger = "manual"
)

// AllTriggers returns every valid trigger.
func AllTriggers() []Trigger {
	return []Trigger{
		TriggerAppOpen,
		TriggerPostTransaction,
		TriggerMorningDigest,
		TriggerWeeklySummary,
		TriggerMonthlyDeepDive,
		TriggerPreDecision,
		TriggerManual,
	}
}

// IsValid reports whether the trigger is one of the known scheduling events.
func (t Trigger) IsValid() bool {
	for _, known := range AllTriggers() {
		if t == known {
			return true
		}
	}
	return false
}
