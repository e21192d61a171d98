// Package memory holds in-process repository implementations for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type ClockEventRepository struct {
	mu     sync.RWMutex
	events []attendance.ClockEvent
	locks  sync.Map // user id -> *sync.Mutex
}

func NewClockEventRepository(seed ...attendance.ClockEvent) *ClockEventRepository {
	r := &ClockEventRepository{}
	for _, e := range seed {
		r.add(e)
	}
	return r
}

func (r *ClockEventRepository) add(e attendance.ClockEvent) attendance.ClockEvent {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.events = append(r.events, e)
	return e
}

func (r *ClockEventRepository) Create(ctx context.Context, event attendance.ClockEvent) (attendance.ClockEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(event), nil
}

func (r *ClockEventRepository) GetLastByUser(ctx context.Context, userID string) (*attendance.ClockEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *attendance.ClockEvent
	for i := range r.events {
		e := r.events[i]
		if e.UserID != userID {
			continue
		}
		if last == nil || !e.Timestamp.Before(last.Timestamp) {
			last = &e
		}
	}
	return last, nil
}

func (r *ClockEventRepository) ListByUsersAndRange(ctx context.Context, userIDs []string, from, to time.Time) ([]attendance.ClockEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		ids[id] = struct{}{}
	}

	var out []attendance.ClockEvent
	for _, e := range r.events {
		if _, ok := ids[e.UserID]; !ok {
			continue
		}
		if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *ClockEventRepository) WithUserLock(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	l, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}

// All returns a copy of every stored event.
func (r *ClockEventRepository) All() []attendance.ClockEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]attendance.ClockEvent, len(r.events))
	copy(out, r.events)
	return out
}
