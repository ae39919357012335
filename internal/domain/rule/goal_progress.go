package rule

import (
	"fmt"
	"math"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Goal progress kinds, stored in the insight metadata.
const (
	GoalKindAchieved  = "achieved"
	GoalKindMilestone = "milestone"
	GoalKindNear      = "near_goal"
	GoalKindOffTrack  = "off_track"
)

// GoalProgressRule tracks savings against the configured savings goal.
type GoalProgressRule struct {
	Descriptor
	milestones     []float64
	tolerance      float64
	nearRatio      float64
	offTrackRatio  float64
	offTrackMonths float64
}

// NewGoalProgressRule creates the goal progress rule.
func NewGoalProgressRule(cfg valueobject.RuleConfig) *GoalProgressRule {
	return &GoalProgressRule{
		Descriptor: Descriptor{
			RuleID:       "goal_progress",
			RuleName:     "Savings goal progress",
			RuleCategory: entity.InsightCategoryGoalProgress,
			RuleTriggers: []entity.Trigger{
				entity.TriggerAppOpen,
				entity.TriggerWeeklySummary,
				entity.TriggerMonthlyDeepDive,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityMedium,
		},
		milestones:     cfg.GoalMilestones,
		tolerance:      cfg.GoalMilestoneTolerance,
		nearRatio:      cfg.GoalNearRatio,
		offTrackRatio:  cfg.GoalOffTrackRatio,
		offTrackMonths: float64(cfg.GoalOffTrackMonths),
	}
}

// Evaluate checks, in order, achievement, an exact milestone, closeness to
// the goal and a pace that would take too long to finish.
func (r *GoalProgressRule) Evaluate(rc *Context) (*entity.Insight, error) {
	if rc.Budget == nil || !rc.Budget.HasSavingsGoal() {
		return nil, nil
	}
	goal := rc.Budget.SavingsGoal
	saved := rc.Budget.CurrentSavings
	progress := ratioOf(saved, goal)
	remaining := goal.Sub(saved)

	var insight *entity.Insight
	switch {
	case progress >= 1:
		insight = r.newInsight(rc, entity.InsightPriorityHigh, "Savings goal reached!", tones{
			entity.PersonalitySaver:    fmt.Sprintf("You saved %s and hit your %s goal. Discipline pays off.", money(saved), money(goal)),
			entity.PersonalitySpender:  fmt.Sprintf("You did it! %s saved. Celebrate with something small.", money(saved)),
			entity.PersonalitySharer:   fmt.Sprintf("Goal reached with %s saved. Share the win with the people who cheered you on.", money(saved)),
			entity.PersonalityInvestor: fmt.Sprintf("Target of %s achieved. Time to put that capital to work.", money(goal)),
			entity.PersonalityGambler:  fmt.Sprintf("Jackpot: %s saved, goal complete. This is the kind of win that lasts.", money(saved)),
		}.pick(rc.Profile), "trophy")
		insight.Set("kind", GoalKindAchieved)

	case r.matchMilestone(progress) > 0:
		milestone := r.matchMilestone(progress)
		pct := int(math.Round(milestone * 100))
		insight = r.newInsight(rc, entity.InsightPriorityMedium, fmt.Sprintf("%d%% of your savings goal", pct), tones{
			entity.PersonalitySaver:    fmt.Sprintf("You're %d%% of the way there with %s saved. %s to go.", pct, money(saved), money(remaining)),
			entity.PersonalitySpender:  fmt.Sprintf("Milestone unlocked: %d%% saved! Only %s left.", pct, money(remaining)),
			entity.PersonalitySharer:   fmt.Sprintf("%d%% done! Tell someone who's been supporting your goal.", pct),
			entity.PersonalityInvestor: fmt.Sprintf("Goal funded to %d%% (%s of %s).", pct, money(saved), money(goal)),
			entity.PersonalityGambler:  fmt.Sprintf("%d%% of the pot is secured. Keep the streak going.", pct),
		}.pick(rc.Profile), "flag")
		insight.Set("kind", GoalKindMilestone).Set("percentage", pct)

	case progress >= r.nearRatio:
		insight = r.newInsight(rc, entity.InsightPriorityMedium, "Almost at your goal", tones{
			entity.PersonalitySaver:    fmt.Sprintf("Just %s left to reach your savings goal.", money(remaining)),
			entity.PersonalitySpender:  fmt.Sprintf("So close! %s more and the goal is yours.", money(remaining)),
			entity.PersonalitySharer:   fmt.Sprintf("Only %s to go. Rally your people for the final stretch.", money(remaining)),
			entity.PersonalityInvestor: fmt.Sprintf("%s funded, %s outstanding.", percent(progress), money(remaining)),
			entity.PersonalityGambler:  fmt.Sprintf("Final hand: %s left to win it all.", money(remaining)),
		}.pick(rc.Profile), "target")
		insight.Set("kind", GoalKindNear)

	case progress < r.offTrackRatio:
		months, ok := r.monthsToGoal(rc)
		if ok && months <= r.offTrackMonths {
			return nil, nil
		}
		insight = r.newInsight(rc, entity.InsightPriorityMedium, "Savings goal is off track", tones{
			entity.PersonalitySaver:    fmt.Sprintf("At your current pace the remaining %s will take over a year. Consider an automatic transfer.", money(remaining)),
			entity.PersonalitySpender:  fmt.Sprintf("Your goal needs %s more and it's moving slowly. Try saving before you spend.", money(remaining)),
			entity.PersonalitySharer:   fmt.Sprintf("%s to go on your goal. A savings buddy might help you stay on it.", money(remaining)),
			entity.PersonalityInvestor: fmt.Sprintf("Contribution rate leaves %s unfunded for over %.0f months. Revisit your allocation.", money(remaining), r.offTrackMonths),
			entity.PersonalityGambler:  fmt.Sprintf("Long odds: %s still needed at this pace. Raise your stake each payday.", money(remaining)),
		}.pick(rc.Profile), "compass")
		insight.Set("kind", GoalKindOffTrack)
		if ok {
			insight.Set("months_to_goal", months)
		}

	default:
		return nil, nil
	}

	insight.SetAction("View goal", "goals").SetExpiry(weeklyExpiry)
	insight.Set("progress", progress).
		Set("current_savings", saved.StringFixed(2)).
		Set("savings_goal", goal.StringFixed(2))
	return insight, nil
}

// matchMilestone returns the milestone within tolerance of progress, or 0.
func (r *GoalProgressRule) matchMilestone(progress float64) float64 {
	for _, m := range r.milestones {
		if math.Abs(progress-m) <= r.tolerance {
			return m
		}
	}
	return 0
}

// monthsToGoal estimates months to finish at a pace of income minus budget.
// ok is false when the pace is not positive.
func (r *GoalProgressRule) monthsToGoal(rc *Context) (float64, bool) {
	pace := rc.Budget.MonthlyIncome.Sub(rc.Budget.MonthlyBudget)
	if !pace.IsPositive() {
		return 0, false
	}
	remaining := rc.Budget.SavingsGoal.Sub(rc.Budget.CurrentSavings)
	return remaining.Div(pace).InexactFloat64(), true
}
