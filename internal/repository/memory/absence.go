package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/google/uuid"
)

type AbsenceRepository struct {
	mu    sync.Mutex
	byID  map[string]absence.Absence
	byKey map[string]string // user|date -> id
}

func NewAbsenceRepository(seed ...absence.Absence) *AbsenceRepository {
	r := &AbsenceRepository{
		byID:  make(map[string]absence.Absence),
		byKey: make(map[string]string),
	}
	for _, a := range seed {
		r.insert(a)
	}
	return r
}

func absenceKey(userID string, date time.Time) string {
	return userID + "|" + workday.Key(date)
}

func (r *AbsenceRepository) insert(a absence.Absence) absence.Absence {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = absence.StatusPending
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	r.byID[a.ID] = a
	r.byKey[absenceKey(a.UserID, a.Date)] = a.ID
	return a
}

func (r *AbsenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, nil
}

func (r *AbsenceRepository) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[string]struct{}, len(filter.UserIDs))
	for _, id := range filter.UserIDs {
		ids[id] = struct{}{}
	}
	from, to := workday.Key(filter.From), workday.Key(filter.To)

	var out []absence.Absence
	for _, a := range r.byID {
		if _, ok := ids[a.UserID]; !ok {
			continue
		}
		if k := workday.Key(a.Date); k < from || k > to {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := workday.Key(out[i].Date), workday.Key(out[j].Date)
		if ki != kj {
			return ki > kj
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *AbsenceRepository) Upsert(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[absenceKey(a.UserID, a.Date)]; ok {
		existing := r.byID[id]
		if existing.IsReviewed() {
			return absence.Absence{}, absence.ErrAbsenceAlreadyReviewed
		}
		existing.Type = a.Type
		existing.Reason = a.Reason
		existing.UpdatedAt = time.Now()
		r.byID[id] = existing
		return existing, nil
	}
	a.Status = absence.StatusPending
	return r.insert(a), nil
}

func (r *AbsenceRepository) CreateIfAbsent(ctx context.Context, a absence.Absence) (absence.Absence, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[absenceKey(a.UserID, a.Date)]; ok {
		return r.byID[id], false, nil
	}
	return r.insert(a), true, nil
}

func (r *AbsenceRepository) UpdateStatus(ctx context.Context, id string, status absence.Status, reviewerID string, reviewedAt time.Time) (absence.Absence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	if a.IsReviewed() {
		return absence.Absence{}, absence.ErrAbsenceAlreadyReviewed
	}
	a.Status = status
	a.ApprovedBy = &reviewerID
	a.ReviewedAt = &reviewedAt
	a.UpdatedAt = reviewedAt
	r.byID[id] = a
	return a, nil
}

// All returns every stored record, ordered by user then date.
func (r *AbsenceRepository) All() []absence.Absence {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]absence.Absence, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
