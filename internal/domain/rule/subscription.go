package rule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Subscription is a recurring charge inferred from similar transactions in one category.
type Subscription struct {
	Category    string
	Amount      decimal.Decimal
	Occurrences int
	RenewalDay  int
}

// SubscriptionRule finds recurring charges and reports on their total cost and timing.
type SubscriptionRule struct {
	Descriptor
	keywords    []string
	tolerance   float64
	annualLimit decimal.Decimal
	minCount    int
	clusterDays int
}

// NewSubscriptionRule creates the subscription clustering rule.
func NewSubscriptionRule(cfg valueobject.RuleConfig) *SubscriptionRule {
	keywords := make([]string, len(cfg.SubscriptionKeywords))
	for i, k := range cfg.SubscriptionKeywords {
		keywords[i] = strings.ToLower(k)
	}
	return &SubscriptionRule{
		Descriptor: Descriptor{
			RuleID:       "subscription_clustering",
			RuleName:     "Subscription clustering",
			RuleCategory: entity.InsightCategorySubscription,
			RuleTriggers: []entity.Trigger{
				entity.TriggerWeeklySummary,
				entity.TriggerMonthlyDeepDive,
				entity.TriggerManual,
			},
			Priority:      entity.InsightPriorityMedium,
			EstimatedTime: 3 * defaultEstimate,
		},
		keywords:    keywords,
		tolerance:   cfg.SubscriptionAmountTolerance,
		annualLimit: cfg.SubscriptionAnnualLimit,
		minCount:    cfg.SubscriptionMinCount,
		clusterDays: cfg.SubscriptionClusterDays,
	}
}

// Detect returns the inferred subscriptions ordered by category.
func (r *SubscriptionRule) Detect(rc *Context) []Subscription {
	candidates := make(map[string][]*entity.Transaction)
	for _, t := range rc.Expenses() {
		if r.looksLikeSubscription(t) {
			candidates[t.Category] = append(candidates[t.Category], t)
		}
	}

	categories := make([]string, 0, len(candidates))
	for category := range candidates {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var subs []Subscription
	for _, category := range categories {
		cluster := r.largestCluster(candidates[category])
		if len(cluster) < 2 {
			continue
		}

		total := decimal.Zero
		latest := cluster[0]
		for _, t := range cluster {
			total = total.Add(t.Magnitude())
			if t.Date.After(latest.Date) {
				latest = t
			}
		}
		subs = append(subs, Subscription{
			Category:    category,
			Amount:      total.Div(decimal.NewFromInt(int64(len(cluster)))),
			Occurrences: len(cluster),
			RenewalDay:  latest.Date.In(rc.Now.Location()).Day(),
		})
	}
	return subs
}

// Evaluate reports the costliest concern first: annual spend, then renewals
// bunched together, then the number of subscriptions.
func (r *SubscriptionRule) Evaluate(rc *Context) (*entity.Insight, error) {
	subs := r.Detect(rc)
	if len(subs) == 0 {
		return nil, nil
	}

	monthly := decimal.Zero
	for _, s := range subs {
		monthly = monthly.Add(s.Amount)
	}
	annual := monthly.Mul(decimal.NewFromInt(12))
	clustered := r.clusteredRenewals(subs)

	var insight *entity.Insight
	switch {
	case annual.GreaterThan(r.annualLimit):
		insight = r.newInsight(rc, entity.InsightPriorityHigh, "Subscriptions add up", tones{
			entity.PersonalitySaver:    fmt.Sprintf("Your %d subscriptions cost about %s a year. Cancel the ones you rarely use.", len(subs), money(annual)),
			entity.PersonalitySpender:  fmt.Sprintf("%s a year on %d subscriptions. Which ones still spark joy?", money(annual), len(subs)),
			entity.PersonalitySharer:   fmt.Sprintf("%d subscriptions run %s a year. Family plans could cut that down.", len(subs), money(annual)),
			entity.PersonalityInvestor: fmt.Sprintf("Recurring outflow of %s annually across %d services. Audit for return.", money(annual), len(subs)),
			entity.PersonalityGambler:  fmt.Sprintf("You're paying %s a year just to stay at %d tables. Cash out of a few.", money(annual), len(subs)),
		}.pick(rc.Profile), "repeat")

	case clustered >= 2:
		insight = r.newInsight(rc, entity.InsightPriorityMedium, "Renewals bunch together", tones{
			entity.PersonalitySaver:    fmt.Sprintf("%d subscriptions renew within %d days of each other. Plan for the dip.", clustered, r.clusterDays),
			entity.PersonalitySpender:  fmt.Sprintf("Heads up: %d renewals hit within a few days.", clustered),
			entity.PersonalitySharer:   fmt.Sprintf("%d subscriptions renew close together. Good time to review who uses what.", clustered),
			entity.PersonalityInvestor: fmt.Sprintf("%d recurring charges are concentrated in a %d-day window.", clustered, r.clusterDays),
			entity.PersonalityGambler:  fmt.Sprintf("%d bills land almost at once. Keep some chips back.", clustered),
		}.pick(rc.Profile), "calendar")

	case len(subs) >= r.minCount:
		insight = r.newInsight(rc, entity.InsightPriorityLow, fmt.Sprintf("%d subscriptions detected", len(subs)), tones{
			entity.PersonalitySaver:    fmt.Sprintf("You have %d subscriptions costing %s a month.", len(subs), money(monthly)),
			entity.PersonalitySpender:  fmt.Sprintf("%d subscriptions at %s a month. Still using all of them?", len(subs), money(monthly)),
			entity.PersonalitySharer:   fmt.Sprintf("%d subscriptions found. Some might be shareable.", len(subs)),
			entity.PersonalityInvestor: fmt.Sprintf("%d recurring services totalling %s monthly.", len(subs), money(monthly)),
			entity.PersonalityGambler:  fmt.Sprintf("%d subscriptions in play for %s a month.", len(subs), money(monthly)),
		}.pick(rc.Profile), "list")

	default:
		return nil, nil
	}

	categories := make([]string, len(subs))
	for i, s := range subs {
		categories[i] = s.Category
	}
	insight.SetAction("Review subscriptions", "subscriptions").SetExpiry(weeklyExpiry)
	insight.Set("subscription_count", len(subs)).
		Set("monthly_total", monthly.StringFixed(2)).
		Set("annual_total", annual.StringFixed(2)).
		Set("clustered_renewals", clustered).
		Set("categories", categories)
	return insight, nil
}

func (r *SubscriptionRule) looksLikeSubscription(t *entity.Transaction) bool {
	amount := t.Magnitude()
	if !amount.IsPositive() {
		return false
	}
	text := strings.ToLower(t.Note + " " + t.Category)
	for _, k := range r.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return amount.Equal(amount.Truncate(0))
}

// largestCluster returns the biggest group of transactions whose amounts are
// within tolerance of one of them. Earlier anchors win ties.
func (r *SubscriptionRule) largestCluster(txns []*entity.Transaction) []*entity.Transaction {
	var best []*entity.Transaction
	for _, anchor := range txns {
		base := anchor.Magnitude()
		var cluster []*entity.Transaction
		for _, t := range txns {
			diff := t.Magnitude().Sub(base).Abs()
			if ratioOf(diff, base) <= r.tolerance {
				cluster = append(cluster, t)
			}
		}
		if len(cluster) > len(best) {
			best = cluster
		}
	}
	return best
}

// clusteredRenewals returns the largest number of renewals falling within
// clusterDays of each other in the month.
func (r *SubscriptionRule) clusteredRenewals(subs []Subscription) int {
	days := make([]int, len(subs))
	for i, s := range subs {
		days[i] = s.RenewalDay
	}
	sort.Ints(days)

	best := 0
	for i := range days {
		count := 0
		for j := i; j < len(days) && days[j]-days[i] <= r.clusterDays; j++ {
			count++
		}
		if count > best {
			best = count
		}
	}
	return best
}
