package rule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// Insight lifetimes.
const (
	defaultExpiry = 24 * time.Hour
	weeklyExpiry  = 7 * 24 * time.Hour

	defaultEstimate = time.Millisecond
)

// Rule is a stateless evaluator mapping a Context to at most one Insight.
// Implementations must not mutate the context or any shared state.
type Rule interface {
	ID() string
	Name() string
	Category() entity.InsightCategory
	Triggers() []entity.Trigger
	DefaultPriority() entity.InsightPriority

	// EstimatedExecutionTime is informational only; the engine does not enforce it.
	EstimatedExecutionTime() time.Duration

	ShouldRunForProfile(profile *entity.Profile) bool
	ShouldRunForTrigger(trigger entity.Trigger) bool

	// Evaluate returns nil, nil when the rule's firing conditions are not met.
	Evaluate(rc *Context) (*entity.Insight, error)
}

// Descriptor holds the static identity of a rule and implements the
// bookkeeping half of the Rule interface. Concrete rules embed it.
type Descriptor struct {
	RuleID        string
	RuleName      string
	RuleCategory  entity.InsightCategory
	RuleTriggers  []entity.Trigger
	Priority      entity.InsightPriority
	EstimatedTime time.Duration
}

// ID returns the rule identifier.
func (d Descriptor) ID() string { return d.RuleID }

// Name returns the human readable rule name.
func (d Descriptor) Name() string { return d.RuleName }

// Category returns the insight category the rule produces.
func (d Descriptor) Category() entity.InsightCategory { return d.RuleCategory }

// Triggers returns the scheduling events the rule runs on.
func (d Descriptor) Triggers() []entity.Trigger { return d.RuleTriggers }

// DefaultPriority returns the priority used when the rule has no stronger signal.
func (d Descriptor) DefaultPriority() entity.InsightPriority { return d.Priority }

// EstimatedExecutionTime returns the nominal evaluation cost.
func (d Descriptor) EstimatedExecutionTime() time.Duration {
	if d.EstimatedTime == 0 {
		return defaultEstimate
	}
	return d.EstimatedTime
}

// ShouldRunForProfile gates on the user having the rule's category enabled.
func (d Descriptor) ShouldRunForProfile(profile *entity.Profile) bool {
	return profile != nil && profile.IsCategoryEnabled(d.RuleCategory)
}

// ShouldRunForTrigger reports whether the trigger is one the rule declared.
func (d Descriptor) ShouldRunForTrigger(trigger entity.Trigger) bool {
	for _, t := range d.RuleTriggers {
		if t == trigger {
			return true
		}
	}
	return false
}

// newInsight builds an insight stamped with the rule's identity.
func (d Descriptor) newInsight(rc *Context, priority entity.InsightPriority, title, message, icon string) *entity.Insight {
	return entity.NewInsight(d.RuleID, d.RuleCategory, priority, title, message, icon, rc.Now)
}

// EvaluateFunc is the pure evaluation half of a rule.
type EvaluateFunc func(rc *Context) (*entity.Insight, error)

// FuncRule adapts a descriptor and an evaluation function into a Rule.
type FuncRule struct {
	Descriptor
	Fn EvaluateFunc
}

// NewFuncRule creates a rule from a descriptor and an evaluation function.
func NewFuncRule(descriptor Descriptor, fn EvaluateFunc) *FuncRule {
	return &FuncRule{Descriptor: descriptor, Fn: fn}
}

// Evaluate calls the wrapped function.
func (r *FuncRule) Evaluate(rc *Context) (*entity.Insight, error) {
	return r.Fn(rc)
}

// DefaultRules returns the built-in rule set in registration order.
func DefaultRules(cfg valueobject.RuleConfig) []Rule {
	return []Rule{
		NewWarModeRule(cfg),
		NewAnomalyRule(cfg),
		NewSafeToSpendRule(cfg),
		NewCashFlowForecastRule(cfg),
		NewSpendingVelocityRule(cfg),
		NewCategoryTrendRule(cfg),
		NewGoalProgressRule(cfg),
		NewStreakRule(cfg),
		NewSubscriptionRule(cfg),
		NewScenarioRule(cfg),
	}
}

// tones holds one phrasing per personality type.
type tones map[entity.PersonalityType]string

// pick selects the phrasing for the profile, falling back to the saver tone.
func (t tones) pick(profile *entity.Profile) string {
	if profile != nil {
		if s, ok := t[profile.Personality]; ok {
			return s
		}
	}
	return t[entity.PersonalitySaver]
}

func money(d decimal.Decimal) string {
	return "$" + d.Abs().StringFixed(2)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

func ratioOf(numerator, denominator decimal.Decimal) float64 {
	if denominator.IsZero() {
		return 0
	}
	return numerator.Div(denominator).InexactFloat64()
}
