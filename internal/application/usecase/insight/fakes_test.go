package insight

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/rule"
)

var testNow = time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*entity.Profile
	err      error
}

func newFakeProfileRepo(profiles ...*entity.Profile) *fakeProfileRepo {
	repo := &fakeProfileRepo{profiles: make(map[uuid.UUID]*entity.Profile)}
	for _, p := range profiles {
		repo.profiles[p.UserID] = p
	}
	return repo
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Profile, error) {
	if r.err != nil {
		return nil, r.err
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, domainerror.ErrProfileNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *entity.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) ListAll(_ context.Context) ([]*entity.Profile, error) {
	result := make([]*entity.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		result = append(result, p)
	}
	return result, nil
}

type fakeInsightRepo struct {
	mu        sync.Mutex
	insights  map[uuid.UUID]*entity.Insight
	saveCalls int
	saveErr   error
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{insights: make(map[uuid.UUID]*entity.Insight)}
}

func (r *fakeInsightRepo) SaveInsights(_ context.Context, insights []*entity.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, i := range insights {
		r.insights[i.ID] = i
	}
	return nil
}

func (r *fakeInsightRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	insight, ok := r.insights[id]
	if !ok {
		return nil, domainerror.ErrInsightNotFound
	}
	return insight, nil
}

func (r *fakeInsightRepo) FindActiveByUserID(_ context.Context, userID uuid.UUID, now time.Time) ([]*entity.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Insight
	for _, i := range r.insights {
		if i.UserID == userID && !i.IsDismissed() && !i.IsExpired(now) {
			result = append(result, i)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].GeneratedAt.After(result[b].GeneratedAt) })
	return result, nil
}

func (r *fakeInsightRepo) MarkDismissed(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	insight, ok := r.insights[id]
	if !ok {
		return domainerror.ErrInsightNotFound
	}
	insight.DismissedAt = &at
	return nil
}

func (r *fakeInsightRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, i := range r.insights {
		if i.IsExpired(now) {
			delete(r.insights, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeContextProvider struct {
	calls int
	err   error
}

func (p *fakeContextProvider) Load(_ context.Context, profile *entity.Profile, now time.Time) (*rule.Context, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return rule.NewContext(profile, now, nil, nil, nil, nil), nil
}

type fakeCooldown struct {
	claimed map[string]bool
	err     error
}

func newFakeCooldown() *fakeCooldown {
	return &fakeCooldown{claimed: make(map[string]bool)}
}

func (c *fakeCooldown) Acquire(_ context.Context, userID uuid.UUID, signature string, _ time.Duration) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	key := userID.String() + ":" + signature
	if c.claimed[key] {
		return false, nil
	}
	c.claimed[key] = true
	return true, nil
}

func (c *fakeCooldown) Release(_ context.Context, userID uuid.UUID, signature string) error {
	if c.err != nil {
		return c.err
	}
	delete(c.claimed, userID.String()+":"+signature)
	return nil
}

func newTestProfile() *entity.Profile {
	return entity.NewProfile(uuid.New(), "lee@example.com", "Lee", entity.PersonalitySaver, entity.StressLevelMedium)
}

// stubRule builds a rule that always returns the given outcome.
func stubRule(id string, category entity.InsightCategory, priority entity.InsightPriority, title string, triggers ...entity.Trigger) rule.Rule {
	if len(triggers) == 0 {
		triggers = []entity.Trigger{entity.TriggerManual}
	}
	d := rule.Descriptor{
		RuleID:       id,
		RuleName:     id,
		RuleCategory: category,
		RuleTriggers: triggers,
		Priority:     priority,
	}
	return rule.NewFuncRule(d, func(rc *rule.Context) (*entity.Insight, error) {
		if title == "" {
			return nil, nil
		}
		return entity.NewInsight(id, category, priority, title, "message", "icon", rc.Now), nil
	})
}
