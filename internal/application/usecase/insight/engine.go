// Package insight contains the behavioral insight engine and insight-related use cases.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

// ContextProvider builds the rule context for a user at a point in time.
type ContextProvider interface {
	Load(ctx context.Context, profile *entity.Profile, now time.Time) (*rule.Context, error)
}

// EngineConfig holds the optional collaborators of the engine.
type EngineConfig struct {
	// Cooldown suppresses insights already emitted within CooldownTTL.
	// Nil keeps deduplication within a single batch only.
	Cooldown    adapter.InsightCooldown
	CooldownTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Engine owns the rule registry and runs evaluation batches.
// Registration is safe for concurrent use; each batch evaluates its rules
// sequentially against its own context.
type Engine struct {
	profiles adapter.ProfileRepository
	contexts ContextProvider
	store    adapter.InsightRepository
	cooldown adapter.InsightCooldown
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu         sync.RWMutex
	rules      map[string]rule.Rule
	order      []string
	byCategory map[entity.InsightCategory][]string
	byTrigger  map[entity.Trigger][]string
}

// NewEngine creates an engine with an empty registry.
func NewEngine(
	profiles adapter.ProfileRepository,
	contexts ContextProvider,
	store adapter.InsightRepository,
	config EngineConfig,
) *Engine {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		profiles:   profiles,
		contexts:   contexts,
		store:      store,
		cooldown:   config.Cooldown,
		ttl:        config.CooldownTTL,
		now:        now,
		logger:     logger,
		rules:      make(map[string]rule.Rule),
		byCategory: make(map[entity.InsightCategory][]string),
		byTrigger:  make(map[entity.Trigger][]string),
	}
}

// RegisterRule adds a rule to the registry and its category and trigger indexes.
func (e *Engine) RegisterRule(r rule.Rule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := r.ID()
	if _, exists := e.rules[id]; exists {
		return domainerror.NewInsightError(
			domainerror.ErrCodeRuleAlreadyExists,
			fmt.Sprintf("rule %q is already registered", id),
			domainerror.ErrRuleAlreadyRegistered,
		)
	}

	e.rules[id] = r
	e.order = append(e.order, id)
	e.byCategory[r.Category()] = append(e.byCategory[r.Category()], id)
	for _, trigger := range r.Triggers() {
		e.byTrigger[trigger] = append(e.byTrigger[trigger], id)
	}
	return nil
}

// RegisterRules registers each rule in order, stopping at the first error.
func (e *Engine) RegisterRules(rules ...rule.Rule) error {
	for _, r := range rules {
		if err := e.RegisterRule(r); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterRule removes a rule from the registry and every index.
func (e *Engine) UnregisterRule(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, exists := e.rules[id]
	if !exists {
		return domainerror.NewInsightError(
			domainerror.ErrCodeRuleNotFound,
			fmt.Sprintf("rule %q is not registered", id),
			domainerror.ErrRuleNotFound,
		)
	}

	delete(e.rules, id)
	e.order = removeID(e.order, id)

	category := r.Category()
	e.byCategory[category] = removeID(e.byCategory[category], id)
	if len(e.byCategory[category]) == 0 {
		delete(e.byCategory, category)
	}
	for _, trigger := range r.Triggers() {
		e.byTrigger[trigger] = removeID(e.byTrigger[trigger], id)
		if len(e.byTrigger[trigger]) == 0 {
			delete(e.byTrigger, trigger)
		}
	}
	return nil
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []rule.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lookup(e.order)
}

// RulesForTrigger returns the rules declaring the trigger, in registration order.
func (e *Engine) RulesForTrigger(trigger entity.Trigger) []rule.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lookup(e.byTrigger[trigger])
}

// RulesForCategory returns the rules producing the category, in registration order.
func (e *Engine) RulesForCategory(category entity.InsightCategory) []rule.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lookup(e.byCategory[category])
}

// EvaluateRules runs every eligible rule for the trigger and returns the
// deduplicated insights ordered by priority. When rc is nil the context is
// loaded for the user. A user without a profile gets an empty result.
func (e *Engine) EvaluateRules(
	ctx context.Context,
	userID uuid.UUID,
	trigger entity.Trigger,
	rc *rule.Context,
) (*entity.EvaluationResult, error) {
	start := time.Now()
	now := e.now()
	if rc != nil {
		now = rc.Now
	}

	if !trigger.IsValid() {
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeInvalidTrigger,
			fmt.Sprintf("unknown trigger %q", trigger),
			domainerror.ErrInvalidTrigger,
		)
	}

	logger := e.logger.With("user_id", userID, "trigger", trigger)

	profile, err := e.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerror.ErrProfileNotFound) {
			logger.Debug("No profile, skipping evaluation")
			return entity.NewEmptyEvaluationResult(userID, trigger, now), nil
		}
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodeProfileLookupFailed,
			"failed to load profile",
			err,
		)
	}

	eligible := e.eligibleRules(trigger, profile)
	if len(eligible) == 0 {
		logger.Debug("No eligible rules")
		return entity.NewEmptyEvaluationResult(userID, trigger, now), nil
	}

	if rc == nil {
		rc, err = e.contexts.Load(ctx, profile, now)
		if err != nil {
			return nil, domainerror.NewInsightError(
				domainerror.ErrCodeContextLoadFailed,
				"failed to load rule context",
				fmt.Errorf("%w: %w", domainerror.ErrContextUnavailable, err),
			)
		}
	} else if rc.Profile == nil {
		rc = rc.WithProfile(profile)
	}

	result := entity.NewEmptyEvaluationResult(userID, trigger, now)
	generated := make([]*entity.Insight, 0, len(eligible))

	for _, r := range eligible {
		ruleStart := time.Now()
		insight, err := evaluateSafely(r, rc)
		ruleResult := entity.RuleResult{
			RuleID:   r.ID(),
			Duration: time.Since(ruleStart),
		}

		switch {
		case err != nil:
			ruleResult.Outcome = entity.RuleOutcomeFailure
			ruleResult.Error = err.Error()
			logger.Warn("Rule evaluation failed", "rule_id", r.ID(), "error", err)
		case insight == nil:
			ruleResult.Outcome = entity.RuleOutcomeNoInsight
		default:
			ruleResult.Outcome = entity.RuleOutcomeSuccess
			insight.UserID = userID
			insight.Set(entity.MetadataTrigger, string(trigger))
			generated = append(generated, insight)
		}
		result.RuleResults = append(result.RuleResults, ruleResult)
	}

	result.RulesEvaluated = len(eligible)
	result.Insights = SortByPriority(Deduplicate(generated))
	result.Insights, result.Suppressed = e.applyCooldown(ctx, logger, userID, result.Insights)
	result.Duration = time.Since(start)

	logger.Info("Insight evaluation completed",
		"rules_evaluated", result.RulesEvaluated,
		"insights", len(result.Insights),
		"failures", result.FailureCount(),
		"suppressed", result.Suppressed,
		"duration", result.Duration,
	)
	return result, nil
}

// EvaluateAndSave evaluates the rules and stores a non-empty batch.
func (e *Engine) EvaluateAndSave(
	ctx context.Context,
	userID uuid.UUID,
	trigger entity.Trigger,
	rc *rule.Context,
) (*entity.EvaluationResult, error) {
	result, err := e.EvaluateRules(ctx, userID, trigger, rc)
	if err != nil {
		return nil, err
	}
	if result.IsEmpty() || e.store == nil {
		return result, nil
	}

	if err := e.store.SaveInsights(ctx, result.Insights); err != nil {
		e.releaseCooldown(ctx, userID, result.Insights)
		return nil, domainerror.NewInsightError(
			domainerror.ErrCodePersistFailed,
			"failed to save insights",
			err,
		)
	}
	return result, nil
}

// Deduplicate keeps the first insight of each (rule, title, category) signature.
func Deduplicate(insights []*entity.Insight) []*entity.Insight {
	seen := make(map[entity.InsightSignature]bool, len(insights))
	result := make([]*entity.Insight, 0, len(insights))
	for _, insight := range insights {
		signature := insight.Signature()
		if seen[signature] {
			continue
		}
		seen[signature] = true
		result = append(result, insight)
	}
	return result
}

// SortByPriority stable-sorts insights from critical to low in place and returns them.
func SortByPriority(insights []*entity.Insight) []*entity.Insight {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority.Rank() > insights[j].Priority.Rank()
	})
	return insights
}

func (e *Engine) eligibleRules(trigger entity.Trigger, profile *entity.Profile) []rule.Rule {
	var eligible []rule.Rule
	for _, r := range e.RulesForTrigger(trigger) {
		if r.ShouldRunForTrigger(trigger) && r.ShouldRunForProfile(profile) {
			eligible = append(eligible, r)
		}
	}
	return eligible
}

// applyCooldown drops insights whose signature is still cooling down.
// Store failures keep the insight.
func (e *Engine) applyCooldown(
	ctx context.Context,
	logger *slog.Logger,
	userID uuid.UUID,
	insights []*entity.Insight,
) ([]*entity.Insight, int) {
	if e.cooldown == nil || e.ttl <= 0 {
		return insights, 0
	}

	kept := make([]*entity.Insight, 0, len(insights))
	suppressed := 0
	for _, insight := range insights {
		acquired, err := e.cooldown.Acquire(ctx, userID, insight.Signature().String(), e.ttl)
		if err != nil {
			logger.Warn("Insight cooldown unavailable", "rule_id", insight.RuleID, "error", err)
			kept = append(kept, insight)
			continue
		}
		if !acquired {
			suppressed++
			continue
		}
		kept = append(kept, insight)
	}
	return kept, suppressed
}

// releaseCooldown frees the claims of a batch that was not stored.
func (e *Engine) releaseCooldown(ctx context.Context, userID uuid.UUID, insights []*entity.Insight) {
	if e.cooldown == nil || e.ttl <= 0 {
		return
	}
	for _, insight := range insights {
		if err := e.cooldown.Release(ctx, userID, insight.Signature().String()); err != nil {
			e.logger.Warn("Failed to release insight cooldown",
				"user_id", userID,
				"rule_id", insight.RuleID,
				"error", err,
			)
		}
	}
}

func (e *Engine) lookup(ids []string) []rule.Rule {
	result := make([]rule.Rule, 0, len(ids))
	for _, id := range ids {
		result = append(result, e.rules[id])
	}
	return result
}

// evaluateSafely turns a panicking rule into an error.
func evaluateSafely(r rule.Rule, rc *rule.Context) (insight *entity.Insight, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			insight = nil
			err = fmt.Errorf("%w: %v", domainerror.ErrRulePanicked, recovered)
		}
	}()
	return r.Evaluate(rc)
}

func removeID(ids []string, id string) []string {
	result := ids[:0]
	for _, existing := range ids {
		if existing != id {
			result = append(result, existing)
		}
	}
	return result
}
