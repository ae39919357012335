package rule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

const runwayTrailingDays = 30

// WarModeRule measures how many days the cash on hand lasts at the current burn rate.
type WarModeRule struct {
	Descriptor
	redDays    float64
	yellowDays float64
}

// NewWarModeRule creates the war mode alert rule.
func NewWarModeRule(cfg valueobject.RuleConfig) *WarModeRule {
	return &WarModeRule{
		Descriptor: Descriptor{
			RuleID:       "war_mode_alert",
			RuleName:     "War mode alert",
			RuleCategory: entity.InsightCategoryWarMode,
			RuleTriggers: []entity.Trigger{
				entity.TriggerAppOpen,
				entity.TriggerPostTransaction,
				entity.TriggerMorningDigest,
				entity.TriggerManual,
			},
			Priority: entity.InsightPriorityCritical,
		},
		redDays:    cfg.WarModeRedDays,
		yellowDays: cfg.WarModeYellowDays,
	}
}

// RunwayDays returns cash on hand divided by the 30-day average daily spend.
// ok is false when there is no cash figure or no spending.
func (r *WarModeRule) RunwayDays(rc *Context) (runway float64, cash decimal.Decimal, ok bool) {
	switch {
	case rc.WarMode != nil:
		cash = rc.WarMode.CashOnHand
	case rc.Budget != nil:
		cash = rc.Budget.CashBalance
	default:
		return 0, decimal.Zero, false
	}

	burn := rc.AverageDailySpend(runwayTrailingDays).Abs()
	if burn.IsZero() {
		return 0, cash, false
	}
	return cash.Div(burn).InexactFloat64(), cash, true
}

// Level maps a runway to a war mode level.
func (r *WarModeRule) Level(runway float64) entity.WarModeLevel {
	switch {
	case runway < r.redDays:
		return entity.WarModeLevelRed
	case runway < r.yellowDays:
		return entity.WarModeLevelYellow
	default:
		return entity.WarModeLevelGreen
	}
}

// Evaluate fires for the red and yellow levels.
func (r *WarModeRule) Evaluate(rc *Context) (*entity.Insight, error) {
	runway, cash, ok := r.RunwayDays(rc)
	if !ok {
		return nil, nil
	}
	level := r.Level(runway)

	var insight *entity.Insight
	switch level {
	case entity.WarModeLevelRed:
		insight = r.newInsight(rc, entity.InsightPriorityCritical, "Survival budgeting needed", tones{
			entity.PersonalitySaver:    fmt.Sprintf("Your %s covers only %.0f days at your current pace. Switch to essentials only.", money(cash), runway),
			entity.PersonalitySpender:  fmt.Sprintf("Only %.0f days of cash left. Freeze all non-essential spending now.", runway),
			entity.PersonalitySharer:   fmt.Sprintf("%.0f days of runway left. Let the people close to you know you need to cut back.", runway),
			entity.PersonalityInvestor: fmt.Sprintf("Liquidity runway is %.0f days on %s. Enter capital preservation mode.", runway, money(cash)),
			entity.PersonalityGambler:  fmt.Sprintf("You're all in with %.0f days of cash left. Stop playing until payday.", runway),
		}.pick(rc.Profile), "siren")
		insight.SetAction("Enter war mode", "war-mode")
	case entity.WarModeLevelYellow:
		insight = r.newInsight(rc, entity.InsightPriorityHigh, "Cash runway is short", tones{
			entity.PersonalitySaver:    fmt.Sprintf("%s lasts about %.0f days at this pace. Trim where you can.", money(cash), runway),
			entity.PersonalitySpender:  fmt.Sprintf("About %.0f days of cash left. Dial things back this week.", runway),
			entity.PersonalitySharer:   fmt.Sprintf("Roughly %.0f days of cash left. Suggest low-cost plans for a while.", runway),
			entity.PersonalityInvestor: fmt.Sprintf("Runway at %.0f days. Reduce burn before it becomes critical.", runway),
			entity.PersonalityGambler:  fmt.Sprintf("Chip stack covers %.0f days. Play tight.", runway),
		}.pick(rc.Profile), "shield")
	default:
		return nil, nil
	}

	insight.SetExpiry(defaultExpiry)
	insight.Set("level", string(level)).
		Set("runway_days", runway).
		Set("cash_on_hand", cash.StringFixed(2))
	return insight, nil
}
