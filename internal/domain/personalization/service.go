// Package personalization adapts generated insights to a user's money personality and stress level.
package personalization

import (
	"sort"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

const (
	urgentPrefix  = "Important: "
	encouragement = " You're doing great, keep it up!"
)

// titlePrefixes holds the personality-flavored title prefix per category.
var titlePrefixes = map[entity.PersonalityType]map[entity.InsightCategory]string{
	entity.PersonalitySaver: {
		entity.InsightCategoryBudgetHealth: "Budget check: ",
		entity.InsightCategoryAnomaly:      "Heads up: ",
		entity.InsightCategoryGoalProgress: "Savings win: ",
		entity.InsightCategoryCashFlow:     "Cash check: ",
		entity.InsightCategorySubscription: "Trim tip: ",
		entity.InsightCategoryScenario:     "Plan ahead: ",
		entity.InsightCategoryStreak:       "Discipline: ",
		entity.InsightCategoryWarMode:      "Protect your cash: ",
	},
	entity.PersonalitySpender: {
		entity.InsightCategoryBudgetHealth: "Quick check: ",
		entity.InsightCategoryAnomaly:      "Whoa: ",
		entity.InsightCategoryGoalProgress: "Nice: ",
		entity.InsightCategoryCashFlow:     "Cash vibe: ",
		entity.InsightCategorySubscription: "Subs alert: ",
		entity.InsightCategoryScenario:     "What if: ",
		entity.InsightCategoryStreak:       "On a roll: ",
		entity.InsightCategoryWarMode:      "Time out: ",
	},
	entity.PersonalitySharer: {
		entity.InsightCategoryBudgetHealth: "For you and yours: ",
		entity.InsightCategoryAnomaly:      "Worth a look: ",
		entity.InsightCategoryGoalProgress: "Shared win: ",
		entity.InsightCategoryCashFlow:     "Household cash: ",
		entity.InsightCategorySubscription: "Share and save: ",
		entity.InsightCategoryScenario:     "Plan together: ",
		entity.InsightCategoryStreak:       "Team streak: ",
		entity.InsightCategoryWarMode:      "Circle the wagons: ",
	},
	entity.PersonalityInvestor: {
		entity.InsightCategoryBudgetHealth: "Allocation: ",
		entity.InsightCategoryAnomaly:      "Outlier: ",
		entity.InsightCategoryGoalProgress: "Portfolio: ",
		entity.InsightCategoryCashFlow:     "Liquidity: ",
		entity.InsightCategorySubscription: "Recurring cost: ",
		entity.InsightCategoryScenario:     "Stress test: ",
		entity.InsightCategoryStreak:       "Compounding: ",
		entity.InsightCategoryWarMode:      "Capital preservation: ",
	},
	entity.PersonalityGambler: {
		entity.InsightCategoryBudgetHealth: "Check your stack: ",
		entity.InsightCategoryAnomaly:      "Big bet: ",
		entity.InsightCategoryGoalProgress: "Jackpot watch: ",
		entity.InsightCategoryCashFlow:     "Bankroll: ",
		entity.InsightCategorySubscription: "House edge: ",
		entity.InsightCategoryScenario:     "Odds check: ",
		entity.InsightCategoryStreak:       "Hot streak: ",
		entity.InsightCategoryWarMode:      "Fold now: ",
	},
}

// Service personalizes, filters and orders insights for a profile.
type Service struct{}

// NewService creates a personalization service.
func NewService() *Service {
	return &Service{}
}

// Personalize returns a copy of the insight adapted to the profile. An
// insight already personalized for the same user is returned unchanged.
func (s *Service) Personalize(insight *entity.Insight, profile *entity.Profile) *entity.Insight {
	if insight == nil || profile == nil {
		return insight
	}
	if IsPersonalizedFor(insight, profile) {
		return insight
	}

	result := insight.WithMetadata(map[string]any{
		entity.MetadataPersonalizedFor: profile.UserID.String(),
		entity.MetadataPersonality:     string(profile.Personality),
		entity.MetadataStressLevel:     string(profile.StressLevel),
	})

	if result.Priority != entity.InsightPriorityCritical {
		if prefix := titlePrefix(profile.Personality, result.Category); prefix != "" {
			result = result.WithTitle(prefix + result.Title)
		}
	}

	switch {
	case profile.IsHighStress():
		result = result.WithMessage(urgentPrefix + result.Message)
	case profile.IsLowStress() && encourages(result.Category):
		result = result.WithMessage(result.Message + encouragement)
	}

	return result
}

// IsPersonalizedFor reports whether the insight carries the profile's personalization stamp.
func IsPersonalizedFor(insight *entity.Insight, profile *entity.Profile) bool {
	stamp, ok := insight.Metadata[entity.MetadataPersonalizedFor].(string)
	return ok && stamp == profile.UserID.String()
}

// ShouldShowInsight hides disabled categories and, under high stress, low priority insights.
func (s *Service) ShouldShowInsight(insight *entity.Insight, profile *entity.Profile) bool {
	if insight == nil || profile == nil {
		return false
	}
	if !profile.IsCategoryEnabled(insight.Category) {
		return false
	}
	if profile.IsHighStress() && insight.Priority == entity.InsightPriorityLow {
		return false
	}
	return true
}

// SortByRelevance orders insights in place: higher priority first, then
// essential categories, then the most recently generated.
func (s *Service) SortByRelevance(insights []*entity.Insight, _ *entity.Profile) {
	sort.SliceStable(insights, func(i, j int) bool {
		a, b := insights[i], insights[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if a.Category.IsEssential() != b.Category.IsEssential() {
			return a.Category.IsEssential()
		}
		return a.GeneratedAt.After(b.GeneratedAt)
	})
}

// DailyRecommendations filters, personalizes and sorts the insights, then
// truncates them to the profile's daily cap.
func (s *Service) DailyRecommendations(insights []*entity.Insight, profile *entity.Profile) []*entity.Insight {
	if profile == nil {
		return []*entity.Insight{}
	}

	result := make([]*entity.Insight, 0, len(insights))
	for _, insight := range insights {
		if !s.ShouldShowInsight(insight, profile) {
			continue
		}
		result = append(result, s.Personalize(insight, profile))
	}

	s.SortByRelevance(result, profile)

	if limit := profile.EffectiveDailyCap(); len(result) > limit {
		result = result[:limit]
	}
	return result
}

func titlePrefix(personality entity.PersonalityType, category entity.InsightCategory) string {
	prefixes, ok := titlePrefixes[personality]
	if !ok {
		prefixes = titlePrefixes[entity.PersonalitySaver]
	}
	return prefixes[category]
}

func encourages(category entity.InsightCategory) bool {
	return category == entity.InsightCategoryGoalProgress || category == entity.InsightCategoryStreak
}
