package mock

import (
	"sync"
	"time"
)

// Time is a clock that can be moved to a fixed instant and keeps ticking from there.
type Time struct {
	mu               sync.Mutex
	currentStartTime time.Time
	updatedAt        time.Time
}

func NewTime() *Time {
	now := time.Now().UTC()
	return &Time{
		currentStartTime: now,
		updatedAt:        now,
	}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentStartTime = currentTime.UTC()
	t.updatedAt = time.Now().UTC()
}

func (t *Time) Reset() {
	t.SetCurrentTime(time.Now())
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	elapsed := time.Since(t.updatedAt)
	return t.currentStartTime.Add(elapsed)
}
