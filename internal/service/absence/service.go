package absence

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	attendancesvc "github.com/cmlabs-hris/attendance-tracker-go/internal/service/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
	"golang.org/x/sync/errgroup"
)

type AbsenceServiceImpl struct {
	absence.AbsenceRepository
	attendance.ClockEventRepository
	scope  *scope.Resolver
	policy attendancesvc.Policy
	now    func() time.Time
}

func NewAbsenceService(
	absenceRepo absence.AbsenceRepository,
	clockEventRepo attendance.ClockEventRepository,
	resolver *scope.Resolver,
	policy attendancesvc.Policy,
) absence.AbsenceService {
	return &AbsenceServiceImpl{
		AbsenceRepository:    absenceRepo,
		ClockEventRepository: clockEventRepo,
		scope:                resolver,
		policy:               policy,
		now:                  time.Now,
	}
}

// Declare implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Declare(ctx context.Context, req absence.DeclareAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	date, err := workday.Parse(req.Date, s.policy.Location)
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	rec, err := s.AbsenceRepository.Upsert(ctx, absence.Absence{
		UserID: id.UserID,
		Date:   date,
		Type:   absence.Type(req.Type),
		Reason: req.Reason,
		Status: absence.StatusPending,
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	slog.Info("absence declared", "user_id", id.UserID, "date", req.Date, "type", req.Type, "absence_id", rec.ID)
	return absence.NewAbsenceResponse(rec), nil
}

// List implements absence.AbsenceService.
func (s *AbsenceServiceImpl) List(ctx context.Context, filter absence.ListAbsenceFilter) (absence.ListAbsenceResponse, error) {
	if err := filter.Validate(); err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	rng, err := s.policy.ResolveRange(filter.StartDate, filter.EndDate, s.now())
	if err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	pop, err := s.scope.Resolve(ctx, id, filter.UserIDs)
	if err != nil {
		return absence.ListAbsenceResponse{}, err
	}

	repoFilter := absence.AbsenceFilter{UserIDs: pop.UserIDs, From: rng.Start, To: rng.End}
	if filter.Status != "" {
		status := absence.Status(filter.Status)
		repoFilter.Status = &status
	}

	records, err := s.AbsenceRepository.List(ctx, repoFilter)
	if err != nil {
		return absence.ListAbsenceResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	resp := absence.ListAbsenceResponse{
		StartDate: workday.Key(rng.Start),
		EndDate:   workday.Key(rng.End),
		Absences:  make([]absence.AbsenceResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Absences = append(resp.Absences, absence.NewAbsenceResponse(rec))
	}
	return resp, nil
}

// Approve implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Approve(ctx context.Context, req absence.ReviewAbsenceRequest) (absence.AbsenceResponse, error) {
	return s.review(ctx, req, absence.StatusApproved)
}

// Reject implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Reject(ctx context.Context, req absence.ReviewAbsenceRequest) (absence.AbsenceResponse, error) {
	return s.review(ctx, req, absence.StatusRejected)
}

// review moves a pending absence to a terminal status. Only a manager whose
// team owns the user, or an admin, may review, and never their own record.
func (s *AbsenceServiceImpl) review(ctx context.Context, req absence.ReviewAbsenceRequest, status absence.Status) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if !user.HasPermission(id.Role, user.PermissionAbsenceReview) {
		return absence.AbsenceResponse{}, user.ErrInsufficientPermission
	}

	rec, err := s.AbsenceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	if rec.UserID == id.UserID {
		return absence.AbsenceResponse{}, absence.ErrSelfReview
	}
	if err := s.scope.Authorize(ctx, id, rec.UserID); err != nil {
		return absence.AbsenceResponse{}, err
	}
	if rec.IsReviewed() {
		return absence.AbsenceResponse{}, absence.ErrAbsenceAlreadyReviewed
	}

	updated, err := s.AbsenceRepository.UpdateStatus(ctx, rec.ID, status, id.UserID, s.now().UTC())
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	metrics.AbsenceReviews.WithLabelValues(string(status)).Inc()
	slog.Info("absence reviewed", "absence_id", rec.ID, "user_id", rec.UserID, "status", status, "reviewer_id", id.UserID)

	return absence.NewAbsenceResponse(updated), nil
}

type reconcileInput struct {
	rng          workday.Range
	pop          scope.Population
	observations []attendance.DayObservation
	absences     []absence.Absence
}

func (s *AbsenceServiceImpl) load(ctx context.Context, query attendance.RangeQuery) (reconcileInput, error) {
	if err := query.Validate(); err != nil {
		return reconcileInput{}, err
	}

	id, err := identity.FromContext(ctx)
	if err != nil {
		return reconcileInput{}, err
	}

	rng, err := s.policy.ResolveRange(query.StartDate, query.EndDate, s.now())
	if err != nil {
		return reconcileInput{}, err
	}

	pop, err := s.scope.Resolve(ctx, id, query.UserIDs)
	if err != nil {
		return reconcileInput{}, err
	}

	var (
		events   []attendance.ClockEvent
		absences []absence.Absence
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.ClockEventRepository.ListByUsersAndRange(gCtx, pop.UserIDs, rng.From(), rng.To())
		if err != nil {
			return fmt.Errorf("failed to list clock events: %w", err)
		}
		events = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.AbsenceRepository.List(gCtx, absence.AbsenceFilter{UserIDs: pop.UserIDs, From: rng.Start, To: rng.End})
		if err != nil {
			return fmt.Errorf("failed to list absences: %w", err)
		}
		absences = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return reconcileInput{}, err
	}

	return reconcileInput{
		rng:          rng,
		pop:          pop,
		observations: attendancesvc.NormalizeEvents(events, s.policy.Location),
		absences:     absences,
	}, nil
}

// PotentialAbsences implements absence.AbsenceService.
func (s *AbsenceServiceImpl) PotentialAbsences(ctx context.Context, query attendance.RangeQuery) (absence.PotentialAbsencesResponse, error) {
	in, err := s.load(ctx, query)
	if err != nil {
		return absence.PotentialAbsencesResponse{}, err
	}

	today := s.policy.Today(s.now())
	gaps := DetectPotentialAbsences(in.pop.UserIDs, in.observations, in.absences, in.rng, today)

	resp := absence.PotentialAbsencesResponse{
		StartDate: workday.Key(in.rng.Start),
		EndDate:   workday.Key(in.rng.End),
		Users:     []absence.PotentialAbsence{},
	}
	for _, userID := range sortedByName(in.pop) {
		dates, ok := gaps[userID]
		if !ok {
			continue
		}
		person := in.pop.People[userID]
		entry := absence.PotentialAbsence{
			UserID:    userID,
			FirstName: person.FirstName,
			LastName:  person.LastName,
			Dates:     make([]string, 0, len(dates)),
		}
		for _, d := range dates {
			entry.Dates = append(entry.Dates, workday.Key(d))
		}
		resp.Total += len(dates)
		resp.Users = append(resp.Users, entry)
	}
	return resp, nil
}

// MissingCheckouts implements absence.AbsenceService.
func (s *AbsenceServiceImpl) MissingCheckouts(ctx context.Context, query attendance.RangeQuery) (absence.MissingCheckoutsResponse, error) {
	in, err := s.load(ctx, query)
	if err != nil {
		return absence.MissingCheckoutsResponse{}, err
	}

	missing := DetectMissingCheckouts(in.observations)
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Date.After(missing[j].Date)
	})

	resp := absence.MissingCheckoutsResponse{
		StartDate: workday.Key(in.rng.Start),
		EndDate:   workday.Key(in.rng.End),
		Days:      make([]absence.MissingCheckout, 0, len(missing)),
	}
	for _, obs := range missing {
		person := in.pop.People[obs.UserID]
		resp.Days = append(resp.Days, absence.MissingCheckout{
			UserID:    obs.UserID,
			FirstName: person.FirstName,
			LastName:  person.LastName,
			Date:      workday.Key(obs.Date),
			CheckIn:   obs.CheckIn.In(s.policy.Location).Format(time.RFC3339),
		})
	}
	return resp, nil
}

// AutoMark implements absence.AbsenceService.
func (s *AbsenceServiceImpl) AutoMark(ctx context.Context, query attendance.RangeQuery) (absence.AutoMarkResponse, error) {
	id, err := identity.FromContext(ctx)
	if err != nil {
		return absence.AutoMarkResponse{}, err
	}
	if !user.HasPermission(id.Role, user.PermissionAbsenceReconcile) {
		return absence.AutoMarkResponse{}, user.ErrInsufficientPermission
	}

	in, err := s.load(ctx, query)
	if err != nil {
		return absence.AutoMarkResponse{}, err
	}

	today := s.policy.Today(s.now())
	gaps := DetectPotentialAbsences(in.pop.UserIDs, in.observations, in.absences, in.rng, today)

	resp := absence.AutoMarkResponse{
		StartDate: workday.Key(in.rng.Start),
		EndDate:   workday.Key(in.rng.End),
		Absences:  []absence.AbsenceResponse{},
	}
	for _, userID := range in.pop.UserIDs {
		for _, d := range gaps[userID] {
			rec, created, err := s.AbsenceRepository.CreateIfAbsent(ctx, absence.Absence{
				UserID: userID,
				Date:   d,
				Type:   absence.TypeOther,
				Status: absence.StatusPending,
			})
			if err != nil {
				return absence.AutoMarkResponse{}, fmt.Errorf("failed to mark absence for %s on %s: %w", userID, workday.Key(d), err)
			}
			if created {
				resp.Created++
				metrics.AbsencesAutoMarked.Inc()
			} else {
				resp.Skipped++
			}
			resp.Absences = append(resp.Absences, absence.NewAbsenceResponse(rec))
		}
	}

	slog.Info("auto-marked absences",
		"start_date", resp.StartDate,
		"end_date", resp.EndDate,
		"population", in.pop.Size(),
		"created", resp.Created,
		"skipped", resp.Skipped,
		"actor_id", id.UserID,
	)
	return resp, nil
}

func sortedByName(pop scope.Population) []string {
	ids := make([]string, len(pop.UserIDs))
	copy(ids, pop.UserIDs)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := pop.People[ids[i]], pop.People[ids[j]]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return ids[i] < ids[j]
	})
	return ids
}
