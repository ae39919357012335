// Package scheduler runs the time-based insight triggers for every profile.
package scheduler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/personalization"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

// Evaluator runs the insight engine for a trigger and stores the result.
type Evaluator interface {
	EvaluateAndSave(ctx context.Context, userID uuid.UUID, trigger entity.Trigger, rc *rule.Context) (*entity.EvaluationResult, error)
}

// Purger removes expired insights.
type Purger interface {
	Execute(ctx context.Context, now time.Time) (int64, error)
}

// Config holds configuration for the scheduler worker.
type Config struct {
	Interval time.Duration
	// DigestHour is used for profiles without a valid preferred notification time.
	DigestHour int
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Interval:   time.Hour,
		DigestHour: 8,
	}
}

// RunSummary reports what one scheduler pass did.
type RunSummary struct {
	Profiles    int
	Evaluations int
	Failures    int
	Digests     int
	Purged      int64
}

// Worker fires morning_digest daily, weekly_summary on Mondays and
// monthly_deep_dive on the first of the month, each at most once per day per user.
type Worker struct {
	profiles        adapter.ProfileRepository
	evaluator       Evaluator
	purger          Purger
	emails          adapter.EmailService
	personalization *personalization.Service
	interval        time.Duration
	digestHour      int
	now             func() time.Time

	mu      sync.Mutex
	lastRun map[string]string
}

// NewWorker creates a new scheduler worker.
func NewWorker(
	profiles adapter.ProfileRepository,
	evaluator Evaluator,
	purger Purger,
	emails adapter.EmailService,
	personalizer *personalization.Service,
	config Config,
) *Worker {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Worker{
		profiles:        profiles,
		evaluator:       evaluator,
		purger:          purger,
		emails:          emails,
		personalization: personalizer,
		interval:        config.Interval,
		digestHour:      config.DigestHour,
		now:             func() time.Time { return time.Now().UTC() },
		lastRun:         make(map[string]string),
	}
}

// Start begins the scheduler loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Insight scheduler started", "interval", w.interval, "digest_hour", w.digestHour)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunNow(ctx, w.now())

	for {
		select {
		case <-ctx.Done():
			slog.Info("Insight scheduler shutting down")
			return
		case <-ticker.C:
			w.RunNow(ctx, w.now())
		}
	}
}

// RunNow performs one scheduler pass as of now.
func (w *Worker) RunNow(ctx context.Context, now time.Time) RunSummary {
	var summary RunSummary

	if w.purger != nil {
		purged, err := w.purger.Execute(ctx, now)
		if err != nil {
			slog.Error("Failed to purge expired insights", "error", err)
		}
		summary.Purged = purged
	}

	profiles, err := w.profiles.ListAll(ctx)
	if err != nil {
		slog.Error("Failed to list profiles", "error", err)
		return summary
	}
	summary.Profiles = len(profiles)

	for _, profile := range profiles {
		if ctx.Err() != nil {
			return summary
		}
		for _, trigger := range w.dueTriggers(profile, now) {
			w.runTrigger(ctx, profile, trigger, now, &summary)
		}
	}

	if summary.Evaluations > 0 {
		slog.Info("Scheduler pass completed",
			"profiles", summary.Profiles,
			"evaluations", summary.Evaluations,
			"failures", summary.Failures,
			"digests", summary.Digests,
			"purged", summary.Purged,
		)
	}
	return summary
}

func (w *Worker) runTrigger(ctx context.Context, profile *entity.Profile, trigger entity.Trigger, now time.Time, summary *RunSummary) {
	logger := slog.With("user_id", profile.UserID, "trigger", trigger)

	result, err := w.evaluator.EvaluateAndSave(ctx, profile.UserID, trigger, nil)
	summary.Evaluations++
	if err != nil {
		summary.Failures++
		logger.Warn("Scheduled evaluation failed", "error", err)
		return
	}
	w.markRun(profile.UserID, trigger, now.In(profile.Location()))

	if !profile.DigestEnabled || w.emails == nil || result.IsEmpty() {
		return
	}

	recommended := w.personalization.DailyRecommendations(result.Insights, profile)
	if len(recommended) == 0 {
		return
	}

	items := make([]adapter.DigestItem, len(recommended))
	for i, insight := range recommended {
		items[i] = adapter.DigestItem{
			Title:    insight.Title,
			Message:  insight.Message,
			Priority: string(insight.Priority),
		}
	}

	err = w.emails.QueueInsightDigestEmail(ctx, adapter.QueueInsightDigestInput{
		UserID:    profile.UserID,
		UserEmail: profile.Email,
		UserName:  profile.Name,
		Trigger:   string(trigger),
		Items:     items,
	})
	if err != nil {
		logger.Error("Failed to queue insight digest", "error", err)
		return
	}
	summary.Digests++
}

// dueTriggers returns the triggers that should fire for the profile at now.
// Hour, weekday and day of month are read in the profile's time zone.
func (w *Worker) dueTriggers(profile *entity.Profile, now time.Time) []entity.Trigger {
	now = now.In(profile.Location())
	if now.Hour() < w.notificationHour(profile) {
		return nil
	}

	candidates := []entity.Trigger{entity.TriggerMorningDigest}
	if now.Weekday() == time.Monday {
		candidates = append(candidates, entity.TriggerWeeklySummary)
	}
	if now.Day() == 1 {
		candidates = append(candidates, entity.TriggerMonthlyDeepDive)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	today := now.Format(time.DateOnly)
	due := make([]entity.Trigger, 0, len(candidates))
	for _, trigger := range candidates {
		if w.lastRun[runKey(profile.UserID, trigger)] != today {
			due = append(due, trigger)
		}
	}
	return due
}

func (w *Worker) markRun(userID uuid.UUID, trigger entity.Trigger, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastRun[runKey(userID, trigger)] = now.Format(time.DateOnly)
}

// notificationHour parses the hour of the profile's HH:MM preference.
func (w *Worker) notificationHour(profile *entity.Profile) int {
	hour, _, ok := strings.Cut(profile.PreferredNotificationTime, ":")
	if !ok {
		return w.digestHour
	}
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return w.digestHour
	}
	return h
}

func runKey(userID uuid.UUID, trigger entity.Trigger) string {
	return userID.String() + "|" + string(trigger)
}
