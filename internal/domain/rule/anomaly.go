package rule

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// AnomalyRule flags the latest expense when it dwarfs the category's typical amount.
type AnomalyRule struct {
	Descriptor
	ratioThreshold float64
	criticalRatio  float64
	minHistory     int
	minAmount      decimal.Decimal
}

// NewAnomalyRule creates the anomaly detection rule.
func NewAnomalyRule(cfg valueobject.RuleConfig) *AnomalyRule {
	return &AnomalyRule{
		Descriptor: Descriptor{
			RuleID:       "anomaly_detection",
			RuleName:     "Unusual expense detection",
			RuleCategory: entity.InsightCategoryAnomaly,
			RuleTriggers: []entity.Trigger{
				entity.TriggerPostTransaction,
				entity.TriggerAppOpen,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityHigh,
		},
		ratioThreshold: cfg.AnomalyRatioThreshold,
		criticalRatio:  cfg.AnomalyCriticalRatio,
		minHistory:     cfg.AnomalyMinHistory,
		minAmount:      cfg.AnomalyMinAmount,
	}
}

// Evaluate compares the most recent expense to the median of earlier
// same-category expenses.
func (r *AnomalyRule) Evaluate(rc *Context) (*entity.Insight, error) {
	latest := latestExpense(rc.Expenses())
	if latest == nil {
		return nil, nil
	}

	amount := latest.Magnitude()
	if amount.LessThan(r.minAmount) {
		return nil, nil
	}

	today := rc.Today()
	var history []decimal.Decimal
	for _, t := range rc.TransactionsByCategory(latest.Category) {
		if t == latest || !t.IsExpense() {
			continue
		}
		if !startOfDay(t.Date, rc.Now.Location()).Before(today) {
			continue
		}
		history = append(history, t.Magnitude())
	}
	if len(history) < r.minHistory {
		return nil, nil
	}

	typical := median(history)
	if !typical.IsPositive() {
		return nil, nil
	}

	ratio := ratioOf(amount, typical)
	if ratio < r.ratioThreshold {
		return nil, nil
	}

	priority := r.Priority
	if ratio > r.criticalRatio {
		priority = entity.InsightPriorityCritical
	}

	title := fmt.Sprintf("Unusual %s expense", latest.Category)
	message := tones{
		entity.PersonalitySaver: fmt.Sprintf("You spent %s on %s, %.1fx your usual %s. Worth a second look before it becomes a habit.",
			money(amount), latest.Category, ratio, money(typical)),
		entity.PersonalitySpender: fmt.Sprintf("That %s %s purchase is %.1fx what you normally spend (%s). Treat yourself, but keep an eye on the rest of the month.",
			money(amount), latest.Category, ratio, money(typical)),
		entity.PersonalitySharer: fmt.Sprintf("%s on %s is %.1fx your usual %s. If this was for someone else, consider splitting it.",
			money(amount), latest.Category, ratio, money(typical)),
		entity.PersonalityInvestor: fmt.Sprintf("%s in %s is a %.1fx outlier against a median of %s. That capital could have been working for you.",
			money(amount), latest.Category, ratio, money(typical)),
		entity.PersonalityGambler: fmt.Sprintf("Big swing: %s on %s, %.1fx your usual %s. Make sure the odds were worth it.",
			money(amount), latest.Category, ratio, money(typical)),
	}.pick(rc.Profile)

	insight := r.newInsight(rc, priority, title, message, "alert_triangle").
		SetAction("Review transaction", "transactions/"+latest.ID.String()).
		SetExpiry(defaultExpiry)
	insight.Set("transaction_id", latest.ID.String()).
		Set("category", latest.Category).
		Set("amount", amount.StringFixed(2)).
		Set("median", typical.StringFixed(2)).
		Set("ratio", ratio)
	return insight, nil
}

// latestExpense returns the most recent expense; later entries win ties.
func latestExpense(expenses []*entity.Transaction) *entity.Transaction {
	var latest *entity.Transaction
	for _, t := range expenses {
		if latest == nil || !t.Date.Before(latest.Date) {
			latest = t
		}
	}
	return latest
}

func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}
