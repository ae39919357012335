// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// InsightCategory represents the family an insight belongs to.
type InsightCategory string

const (
	InsightCategoryBudgetHealth InsightCategory = "budget_health"
	InsightCategoryAnomaly      InsightCategory = "anomaly"
	InsightCategoryGoalProgress InsightCategory = "goal_progress"
	InsightCategoryCashFlow     InsightCategory = "cash_flow"
	InsightCategorySubscription InsightCategory = "subscription"
	InsightCategoryScenario     InsightCategory = "scenario"
	InsightCategoryStreak       InsightCategory = "streak"
	InsightCategoryWarMode      InsightCategory = "war_mode"
)

// AllInsightCategories returns every known insight category.
func AllInsightCategories() []InsightCategory {
	return []InsightCategory{
		InsightCategoryBudgetHealth,
		InsightCategoryAnomaly,
		InsightCategoryGoalProgress,
		InsightCategoryCashFlow,
		InsightCategorySubscription,
		InsightCategoryScenario,
		InsightCategoryStreak,
		InsightCategoryWarMode,
	}
}

// IsValid reports whether the category is one of the known categories.
func (c InsightCategory) IsValid() bool {
	for _, known := range AllInsightCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// IsEssential reports whether insights of this category concern money at risk.
// Essential categories sort ahead of informational ones at equal priority.
func (c InsightCategory) IsEssential() bool {
	switch c {
	case InsightCategoryBudgetHealth, InsightCategoryAnomaly, InsightCategoryCashFlow, InsightCategoryWarMode:
		return true
	default:
		return false
	}
}

// InsightPriority represents how urgently an insight should be surfaced.
type InsightPriority string

const (
	InsightPriorityCritical InsightPriority = "critical"
	InsightPriorityHigh     InsightPriority = "high"
	InsightPriorityMedium   InsightPriority = "medium"
	InsightPriorityLow      InsightPriority = "low"
)

// Rank returns a comparable weight, higher is more urgent.
func (p InsightPriority) Rank() int {
	switch p {
	case InsightPriorityCritical:
		return 4
	case InsightPriorityHigh:
		return 3
	case InsightPriorityMedium:
		return 2
	case InsightPriorityLow:
		return 1
	default:
		return 0
	}
}

// Metadata keys shared between rules, the engine and personalization.
const (
	MetadataPersonalizedFor = "personalized_for"
	MetadataPersonality     = "personality"
	MetadataStressLevel     = "stress_level"
	MetadataTrigger         = "trigger"
)

// Insight represents a generated recommendation or alert.
// An Insight is treated as immutable once generated: the With* helpers return
// modified copies and never touch the receiver.
type Insight struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RuleID      string
	Category    InsightCategory
	Title       string
	Message     string
	Icon        string
	Priority    InsightPriority
	ActionLabel string
	ActionLink  string
	Metadata    map[string]any
	GeneratedAt time.Time
	ExpiresIn   *time.Duration
	DismissedAt *time.Time
}

// NewInsight creates a new Insight entity generated at the given time.
func NewInsight(
	ruleID string,
	category InsightCategory,
	priority InsightPriority,
	title string,
	message string,
	icon string,
	generatedAt time.Time,
) *Insight {
	return &Insight{
		ID:          uuid.New(),
		RuleID:      ruleID,
		Category:    category,
		Title:       title,
		Message:     message,
		Icon:        icon,
		Priority:    priority,
		Metadata:    make(map[string]any),
		GeneratedAt: generatedAt,
	}
}

// InsightSignature identifies equivalent insights within one evaluation batch.
type InsightSignature struct {
	RuleID   string
	Title    string
	Category InsightCategory
}

// String renders the signature as a stable key.
func (s InsightSignature) String() string {
	return s.RuleID + "|" + string(s.Category) + "|" + s.Title
}

// Signature returns the deduplication signature of the insight.
func (i *Insight) Signature() InsightSignature {
	return InsightSignature{
		RuleID:   i.RuleID,
		Title:    i.Title,
		Category: i.Category,
	}
}

// ExpiresAt returns the expiry instant, or nil when the insight never expires.
func (i *Insight) ExpiresAt() *time.Time {
	if i.ExpiresIn == nil {
		return nil
	}
	at := i.GeneratedAt.Add(*i.ExpiresIn)
	return &at
}

// IsExpired reports whether the insight is no longer relevant at now.
func (i *Insight) IsExpired(now time.Time) bool {
	at := i.ExpiresAt()
	return at != nil && !now.Before(*at)
}

// IsDismissed reports whether the user dismissed the insight.
func (i *Insight) IsDismissed() bool {
	return i.DismissedAt != nil
}

// Clone returns a deep copy of the insight.
func (i *Insight) Clone() *Insight {
	clone := *i
	clone.Metadata = make(map[string]any, len(i.Metadata))
	for k, v := range i.Metadata {
		clone.Metadata[k] = v
	}
	if i.ExpiresIn != nil {
		expires := *i.ExpiresIn
		clone.ExpiresIn = &expires
	}
	if i.DismissedAt != nil {
		dismissed := *i.DismissedAt
		clone.DismissedAt = &dismissed
	}
	return &clone
}

// WithTitle returns a copy of the insight with a different title.
func (i *Insight) WithTitle(title string) *Insight {
	clone := i.Clone()
	clone.Title = title
	return clone
}

// WithMessage returns a copy of the insight with a different message.
func (i *Insight) WithMessage(message string) *Insight {
	clone := i.Clone()
	clone.Message = message
	return clone
}

// WithMetadata returns a copy of the insight with the given metadata merged in.
func (i *Insight) WithMetadata(values map[string]any) *Insight {
	clone := i.Clone()
	for k, v := range values {
		clone.Metadata[k] = v
	}
	return clone
}

// SetAction sets the call to action on a freshly built insight.
// The Set* helpers mutate and are meant for rules while they assemble their result.
func (i *Insight) SetAction(label, link string) *Insight {
	i.ActionLabel = label
	i.ActionLink = link
	return i
}

// SetExpiry sets the expiry on a freshly built insight.
func (i *Insight) SetExpiry(d time.Duration) *Insight {
	i.ExpiresIn = &d
	return i
}

// Set stores a metadata value on a freshly built insight.
func (i *Insight) Set(key string, value any) *Insight {
	if i.Metadata == nil {
		i.Metadata = make(map[string]any)
	}
	i.Metadata[key] = value
	return i
}
