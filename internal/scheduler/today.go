package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

// Snapshot is a value computed for one calendar date.
type Snapshot[T any] struct {
	Date        string    `json:"date"`
	Value       T         `json:"value"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Today caches a value for the current date in a fixed location. Readers
// never block on each other; a stale snapshot is rebuilt on read so the
// cache stays correct if the refresh job is late.
type Today[T any] struct {
	build   func(date time.Time) T
	loc     *time.Location
	now     func() time.Time
	current atomic.Pointer[Snapshot[T]]
}

// NewToday creates a cache that computes values with build.
func NewToday[T any](loc *time.Location, build func(date time.Time) T) *Today[T] {
	if loc == nil {
		loc = time.UTC
	}
	return &Today[T]{build: build, loc: loc, now: time.Now}
}

// Date returns today's date in the cache's location.
func (t *Today[T]) Date() time.Time {
	return calendar.DateOnly(t.now().In(t.loc))
}

// Refresh rebuilds the snapshot for today and stores it.
func (t *Today[T]) Refresh() Snapshot[T] {
	date := t.Date()
	snap := &Snapshot[T]{
		Date:        calendar.FormatDate(date),
		Value:       t.build(date),
		RefreshedAt: t.now().UTC(),
	}
	t.current.Store(snap)
	return *snap
}

// Get returns today's snapshot, building it if the cache is empty or holds
// an earlier date.
func (t *Today[T]) Get() Snapshot[T] {
	if snap := t.current.Load(); snap != nil && snap.Date == calendar.FormatDate(t.Date()) {
		return *snap
	}
	return t.Refresh()
}
