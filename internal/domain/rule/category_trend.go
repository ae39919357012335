package rule

import (
	"fmt"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// CategoryTrendRule reports the week-over-week direction of category spending.
type CategoryTrendRule struct {
	Descriptor
	upThreshold   float64
	downThreshold float64
}

// NewCategoryTrendRule creates the category trend rule.
func NewCategoryTrendRule(cfg valueobject.RuleConfig) *CategoryTrendRule {
	return &CategoryTrendRule{
		Descriptor: Descriptor{
			RuleID:       "category_trend",
			RuleName:     "Category trend",
			RuleCategory: entity.InsightCategoryBudgetHealth,
			RuleTriggers: []entity.Trigger{
				entity.TriggerWeeklySummary,
				entity.TriggerAppOpen,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityMedium,
		},
		upThreshold:   cfg.TrendUpThreshold,
		downThreshold: cfg.TrendDownThreshold,
	}
}

// Evaluate warns when this week's top category is rising, otherwise praises
// the first category that is falling.
func (r *CategoryTrendRule) Evaluate(rc *Context) (*entity.Insight, error) {
	today := rc.Today()
	top, ok := rc.TopCategory(today.AddDate(0, 0, -(trendWindowDays-1)), today)
	if !ok {
		return nil, nil
	}

	if rc.IsCategoryTrendingUp(top, r.upThreshold) {
		ratio, hasPrevious := rc.CategoryTrendRatio(top)
		change := "a new expense this week"
		if hasPrevious {
			change = fmt.Sprintf("up %s from last week", percent(ratio-1))
		}
		insight := r.newInsight(rc, entity.InsightPriorityMedium, fmt.Sprintf("%s is trending up", top), tones{
			entity.PersonalitySaver:    fmt.Sprintf("%s is your biggest expense this week and %s.", top, change),
			entity.PersonalitySpender:  fmt.Sprintf("%s is leading your spending, %s.", top, change),
			entity.PersonalitySharer:   fmt.Sprintf("%s tops your week, %s. Shared costs creeping in?", top, change),
			entity.PersonalityInvestor: fmt.Sprintf("Largest allocation this week: %s, %s.", top, change),
			entity.PersonalityGambler:  fmt.Sprintf("%s is your biggest bet this week, %s.", top, change),
		}.pick(rc.Profile), "trending_up")
		insight.SetExpiry(weeklyExpiry)
		insight.Set("category", top).Set("direction", "up")
		if hasPrevious {
			insight.Set("ratio", ratio)
		}
		return insight, nil
	}

	for _, category := range rc.Categories() {
		if !rc.IsCategoryTrendingDown(category, r.downThreshold) {
			continue
		}
		ratio, _ := rc.CategoryTrendRatio(category)
		drop := percent(1 - ratio)
		insight := r.newInsight(rc, entity.InsightPriorityLow, fmt.Sprintf("%s spending is down", category), tones{
			entity.PersonalitySaver:    fmt.Sprintf("You cut %s spending by %s this week. Nicely done.", category, drop),
			entity.PersonalitySpender:  fmt.Sprintf("%s is down %s from last week. You still had fun, right?", category, drop),
			entity.PersonalitySharer:   fmt.Sprintf("%s fell %s this week. Share the tip that worked.", category, drop),
			entity.PersonalityInvestor: fmt.Sprintf("%s outflow reduced %s week over week.", category, drop),
			entity.PersonalityGambler:  fmt.Sprintf("You pulled back %s on %s. Smart play.", drop, category),
		}.pick(rc.Profile), "trending_down")
		insight.SetExpiry(weeklyExpiry)
		insight.Set("category", category).Set("direction", "down").Set("ratio", ratio)
		return insight, nil
	}
	return nil, nil
}
