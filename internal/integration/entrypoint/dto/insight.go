// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/finance-tracker/insights/internal/application/usecase/insight"
	"github.com/finance-tracker/insights/internal/domain/entity"
)

// EvaluateInsightsRequest represents the request body for a manual evaluation.
type EvaluateInsightsRequest struct {
	Trigger string `json:"trigger,omitempty" binding:"omitempty,oneof=app_open post_transaction morning_digest weekly_summary monthly_deep_dive pre_decision manual"`
}

// InsightResponse represents a single insight in API responses.
type InsightResponse struct {
	ID          string         `json:"id"`
	RuleID      string         `json:"rule_id"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Icon        string         `json:"icon,omitempty"`
	Priority    string         `json:"priority"`
	ActionLabel string         `json:"action_label,omitempty"`
	ActionLink  string         `json:"action_link,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	GeneratedAt time.Time      `json:"generated_at"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	DismissedAt *time.Time     `json:"dismissed_at,omitempty"`
}

// InsightListResponse represents the response for listing recommendations.
type InsightListResponse struct {
	Insights []InsightResponse `json:"insights"`
	Total    int               `json:"total"`
}

// RuleResultResponse represents what one rule did during an evaluation.
type RuleResultResponse struct {
	RuleID     string `json:"rule_id"`
	Outcome    string `json:"outcome"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// EvaluationResponse represents the result of an evaluation batch.
type EvaluationResponse struct {
	UserID         string               `json:"user_id"`
	Trigger        string               `json:"trigger"`
	Insights       []InsightResponse    `json:"insights"`
	RuleResults    []RuleResultResponse `json:"rule_results"`
	RulesEvaluated int                  `json:"rules_evaluated"`
	Failures       int                  `json:"failures"`
	Suppressed     int                  `json:"suppressed"`
	DurationMs     int64                `json:"duration_ms"`
	EvaluatedAt    time.Time            `json:"evaluated_at"`
}

// RuleResponse describes a registered rule.
type RuleResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Triggers        []string `json:"triggers"`
	DefaultPriority string   `json:"default_priority"`
	EstimatedTimeMs float64  `json:"estimated_time_ms"`
}

// RuleListResponse represents the response for listing rules.
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// ToInsightResponse converts a domain Insight entity to an InsightResponse DTO.
func ToInsightResponse(i *entity.Insight) InsightResponse {
	metadata := i.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return InsightResponse{
		ID:          i.ID.String(),
		RuleID:      i.RuleID,
		Category:    string(i.Category),
		Title:       i.Title,
		Message:     i.Message,
		Icon:        i.Icon,
		Priority:    string(i.Priority),
		ActionLabel: i.ActionLabel,
		ActionLink:  i.ActionLink,
		Metadata:    metadata,
		GeneratedAt: i.GeneratedAt,
		ExpiresAt:   i.ExpiresAt(),
		DismissedAt: i.DismissedAt,
	}
}

// ToInsightResponses converts a slice of insights.
func ToInsightResponses(insights []*entity.Insight) []InsightResponse {
	responses := make([]InsightResponse, len(insights))
	for idx, i := range insights {
		responses[idx] = ToInsightResponse(i)
	}
	return responses
}

// ToEvaluationResponse converts an EvaluationResult to an EvaluationResponse DTO.
func ToEvaluationResponse(result *entity.EvaluationResult) EvaluationResponse {
	ruleResults := make([]RuleResultResponse, len(result.RuleResults))
	for idx, rr := range result.RuleResults {
		ruleResults[idx] = RuleResultResponse{
			RuleID:     rr.RuleID,
			Outcome:    string(rr.Outcome),
			DurationMs: rr.Duration.Milliseconds(),
			Error:      rr.Error,
		}
	}

	return EvaluationResponse{
		UserID:         result.UserID.String(),
		Trigger:        string(result.Trigger),
		Insights:       ToInsightResponses(result.Insights),
		RuleResults:    ruleResults,
		RulesEvaluated: result.RulesEvaluated,
		Failures:       result.FailureCount(),
		Suppressed:     result.Suppressed,
		DurationMs:     result.Duration.Milliseconds(),
		EvaluatedAt:    result.EvaluatedAt,
	}
}

// ToRuleListResponse converts the registered rules to a RuleListResponse DTO.
func ToRuleListResponse(rules []insight.RuleOutput) RuleListResponse {
	responses := make([]RuleResponse, len(rules))
	for idx, r := range rules {
		triggers := make([]string, len(r.Triggers))
		for t, trigger := range r.Triggers {
			triggers[t] = string(trigger)
		}
		responses[idx] = RuleResponse{
			ID:              r.ID,
			Name:            r.Name,
			Category:        string(r.Category),
			Triggers:        triggers,
			DefaultPriority: string(r.DefaultPriority),
			EstimatedTimeMs: float64(r.EstimatedTime) / float64(time.Millisecond),
		}
	}
	return RuleListResponse{Rules: responses}
}
