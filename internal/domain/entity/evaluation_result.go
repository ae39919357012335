// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RuleOutcome is the result of evaluating a single rule.
type RuleOutcome string

const (
	RuleOutcomeSuccess   RuleOutcome = "success"
	RuleOutcomeNoInsight RuleOutcome = "no_insight"
	RuleOutcomeFailure   RuleOutcome = "failure"
)

// RuleResult records what one rule did during an evaluation batch.
type RuleResult struct {
	RuleID   string
	Outcome  RuleOutcome
	Duration time.Duration
	Error    string
}

// EvaluationResult is the ephemeral aggregate of one engine run.
type EvaluationResult struct {
	UserID         uuid.UUID
	Trigger        Trigger
	Insights       []*Insight
	RuleResults    []RuleResult
	RulesEvaluated int
	Suppressed     int
	Duration       time.Duration
	EvaluatedAt    time.Time
}

// NewEmptyEvaluationResult creates a no-op result for a trigger.
func NewEmptyEvaluationResult(userID uuid.UUID, trigger Trigger, evaluatedAt time.Time) *EvaluationResult {
	return &EvaluationResult{
		UserID:      userID,
		Trigger:     trigger,
		Insights:    []*Insight{},
		RuleResults: []RuleResult{},
		EvaluatedAt: evaluatedAt,
	}
}

// FailureCount returns how many rules failed.
func (r *EvaluationResult) FailureCount() int {
	return r.countOutcome(RuleOutcomeFailure)
}

// SuccessCount returns how many rules produced an insight.
func (r *EvaluationResult) SuccessCount() int {
	return r.countOutcome(RuleOutcomeSuccess)
}

// IsEmpty reports whether the batch produced no insights.
func (r *EvaluationResult) IsEmpty() bool {
	return len(r.Insights) == 0
}

func (r *EvaluationResult) countOutcome(outcome RuleOutcome) int {
	count := 0
	for _, rr := range r.RuleResults {
		if rr.Outcome == outcome {
			count++
		}
	}
	return count
}
