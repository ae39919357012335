// Package valueobject contains domain value objects for the insight engine.
package valueobject

import "github.com/shopspring/decimal"

// RuleConfig contains the thresholds used by the behavioral rules.
// It is built once at startup and passed to every rule constructor.
type RuleConfig struct {
	// Anomaly detection
	AnomalyRatioThreshold float64         // 2.5x the category median
	AnomalyCriticalRatio  float64         // above 4x escalates to critical
	AnomalyMinHistory     int             // 3 past transactions in the category
	AnomalyMinAmount      decimal.Decimal // $50 floor

	// Safe to spend
	SafeToSpendCriticalRatio float64 // < 0.5
	SafeToSpendWarningRatio  float64 // < 0.8
	SafeToSpendSurplusRatio  float64 // > 1.2

	// Cash flow forecast
	ForecastDays      int // 30
	ForecastTrailing  int // days of history used for the daily average
	CautionBufferDays int // 7 days of budget
	WarningBufferDays int // 3 days of budget

	// Goal progress
	GoalMilestones         []float64 // 0.25, 0.5, 0.75, 0.8, 0.9, 1.0
	GoalMilestoneTolerance float64   // 1%
	GoalNearRatio          float64   // 0.8
	GoalOffTrackRatio      float64   // 0.25
	GoalOffTrackMonths     float64   // 12 months of runway

	// Spending velocity
	VelocityCriticalRatio  float64 // >= 1.5
	VelocityWarningRatio   float64 // >= 1.3
	VelocityExcellentRatio float64 // <= 0.5

	// Streaks
	StreakMilestones      []int // 3, 7, 14, 21, 30, 60, 90, 180, 365
	StreakNearWindow      int   // within 2 days
	StreakAtRiskMinStreak int   // streak of at least 3
	StreakAtRiskRatio     float64

	// Subscriptions
	SubscriptionKeywords        []string
	SubscriptionAmountTolerance float64         // 20%
	SubscriptionAnnualLimit     decimal.Decimal // $500
	SubscriptionMinCount        int             // 3
	SubscriptionClusterDays     int             // renewals within 5 days of each other

	// War mode
	WarModeRedDays    float64 // < 7 days of runway
	WarModeYellowDays float64 // < 14 days of runway

	// Scenarios
	ScenarioCategorySpikeRatio float64 // > 50% month over month
	ScenarioEarlyMonthDay      int     // first 10 days of the month
	ScenarioHighUtilization    float64 // 60% of the budget used early

	// Trends
	TrendUpThreshold   float64 // 1.2
	TrendDownThreshold float64 // 0.8
}

// DefaultRuleConfig returns the default rule thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		AnomalyRatioThreshold: 2.5,
		AnomalyCriticalRatio:  4.0,
		AnomalyMinHistory:     3,
		AnomalyMinAmount:      decimal.NewFromInt(50),

		SafeToSpendCriticalRatio: 0.5,
		SafeToSpendWarningRatio:  0.8,
		SafeToSpendSurplusRatio:  1.2,

		ForecastDays:      30,
		ForecastTrailing:  30,
		CautionBufferDays: 7,
		WarningBufferDays: 3,

		GoalMilestones:         []float64{0.25, 0.5, 0.75, 0.8, 0.9, 1.0},
		GoalMilestoneTolerance: 0.01,
		GoalNearRatio:          0.8,
		GoalOffTrackRatio:      0.25,
		GoalOffTrackMonths:     12,

		VelocityCriticalRatio:  1.5,
		VelocityWarningRatio:   1.3,
		VelocityExcellentRatio: 0.5,

		StreakMilestones:      []int{3, 7, 14, 21, 30, 60, 90, 180, 365},
		StreakNearWindow:      2,
		StreakAtRiskMinStreak: 3,
		StreakAtRiskRatio:     0.5,

		SubscriptionKeywords: []string{
			"subscription", "netflix", "spotify", "hulu", "disney", "prime",
			"youtube", "apple", "icloud", "gym", "membership", "patreon",
			"adobe", "dropbox", "hbo", "streaming",
		},
		SubscriptionAmountTolerance: 0.2,
		SubscriptionAnnualLimit:     decimal.NewFromInt(500),
		SubscriptionMinCount:        3,
		SubscriptionClusterDays:     5,

		WarModeRedDays:    7,
		WarModeYellowDays: 14,

		ScenarioCategorySpikeRatio: 1.5,
		ScenarioEarlyMonthDay:      10,
		ScenarioHighUtilization:    0.6,

		TrendUpThreshold:   1.2,
		TrendDownThreshold: 0.8,
	}
}
