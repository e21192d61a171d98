package absence

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/attendance-tracker-go/internal/service/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/service/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID    = "0190a000-0000-7000-8000-000000000001"
	managerID  = "0190a000-0000-7000-8000-000000000002"
	employee1  = "0190a000-0000-7000-8000-000000000011"
	employee2  = "0190a000-0000-7000-8000-000000000012"
	outsiderID = "0190a000-0000-7000-8000-000000000013"
	teamID     = "0190a000-0000-7000-8000-0000000000a1"
	otherTeam  = "0190a000-0000-7000-8000-0000000000a2"
)

// Friday 2024-01-12, midday UTC
var fixedNow = time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func as(userID string, role user.Role) context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{UserID: userID, Role: role})
}

func event(userID string, status attendance.EventStatus, at string) attendance.ClockEvent {
	ts, err := time.Parse(time.RFC3339, at)
	if err != nil {
		panic(err)
	}
	return attendance.ClockEvent{UserID: userID, Status: status, Timestamp: ts}
}

type fixture struct {
	svc      *AbsenceServiceImpl
	absences *memory.AbsenceRepository
	events   *memory.ClockEventRepository
}

func newFixture(seed ...absence.Absence) fixture {
	dir := memory.NewDirectory()
	dir.AddTeam(user.Team{ID: teamID, Name: "Platform", ManagerID: strPtr(managerID)})
	dir.AddTeam(user.Team{ID: otherTeam, Name: "Sales"})
	dir.AddUser(user.User{ID: adminID, FirstName: "Ada", LastName: "Admin", Role: user.RoleAdmin})
	dir.AddUser(user.User{ID: managerID, FirstName: "Mia", LastName: "Manager", Role: user.RoleManager})
	dir.AddUser(user.User{ID: employee1, FirstName: "Eka", LastName: "Putri", Role: user.RoleEmployee, TeamID: strPtr(teamID)})
	dir.AddUser(user.User{ID: employee2, FirstName: "Budi", LastName: "Santoso", Role: user.RoleEmployee, TeamID: strPtr(teamID)})
	dir.AddUser(user.User{ID: outsiderID, FirstName: "Oki", LastName: "Other", Role: user.RoleEmployee, TeamID: strPtr(otherTeam)})

	events := memory.NewClockEventRepository(
		event(employee1, attendance.StatusCheckIn, "2024-01-08T09:00:00Z"),
		event(employee1, attendance.StatusCheckOut, "2024-01-08T17:00:00Z"),
		event(employee1, attendance.StatusCheckIn, "2024-01-09T09:40:00Z"),
		event(employee1, attendance.StatusCheckIn, "2024-01-10T09:00:00Z"),
		event(employee1, attendance.StatusCheckOut, "2024-01-10T17:00:00Z"),
		event(employee1, attendance.StatusCheckIn, "2024-01-11T09:00:00Z"),
		event(employee1, attendance.StatusCheckOut, "2024-01-11T17:00:00Z"),
		event(employee2, attendance.StatusCheckIn, "2024-01-08T09:10:00Z"),
		event(employee2, attendance.StatusCheckOut, "2024-01-08T17:10:00Z"),
		event(employee2, attendance.StatusAbsent, "2024-01-10T08:00:00Z"),
		event(employee2, attendance.StatusCheckIn, "2024-01-12T09:00:00Z"), // today, still in
	)
	absences := memory.NewAbsenceRepository(seed...)

	svc := NewAbsenceService(absences, events, scope.NewResolver(dir, dir), attendancesvc.DefaultPolicy()).(*AbsenceServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, absences: absences, events: events}
}

var week = attendance.RangeQuery{StartDate: "2024-01-08", EndDate: "2024-01-14"}

func TestAbsenceService_PotentialAbsences(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.PotentialAbsences(as(managerID, user.RoleManager), week)
	require.NoError(t, err)

	// employee1 has a row every workday before today and is omitted
	require.Len(t, resp.Users, 1)
	assert.Equal(t, employee2, resp.Users[0].UserID)
	assert.Equal(t, "Santoso", resp.Users[0].LastName)
	assert.Equal(t, []string{"2024-01-09", "2024-01-11"}, resp.Users[0].Dates)
	assert.Equal(t, 2, resp.Total)
}

func TestAbsenceService_PotentialAbsences_SkipsRecordedAbsences(t *testing.T) {
	f := newFixture(absence.Absence{
		UserID: employee2,
		Date:   day("2024-01-09"),
		Type:   absence.TypeSick,
		Status: absence.StatusApproved,
	})

	resp, err := f.svc.PotentialAbsences(as(adminID, user.RoleAdmin), attendance.RangeQuery{
		StartDate: week.StartDate,
		EndDate:   week.EndDate,
		UserIDs:   []string{employee2},
	})
	require.NoError(t, err)

	require.Len(t, resp.Users, 1)
	assert.Equal(t, []string{"2024-01-11"}, resp.Users[0].Dates)
}

func TestAbsenceService_AutoMark_ClosesGapsOnce(t *testing.T) {
	f := newFixture()
	ctx := as(managerID, user.RoleManager)

	resp, err := f.svc.AutoMark(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 0, resp.Skipped)

	stored := f.absences.All()
	require.Len(t, stored, 2)
	for _, a := range stored {
		assert.Equal(t, employee2, a.UserID)
		assert.Equal(t, absence.TypeOther, a.Type)
		assert.Equal(t, absence.StatusPending, a.Status)
	}

	after, err := f.svc.PotentialAbsences(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Total)

	again, err := f.svc.AutoMark(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Len(t, f.absences.All(), 2)
}

func TestAbsenceService_AutoMark_RequiresReconcilePermission(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AutoMark(as(employee1, user.RoleEmployee), week)
	assert.ErrorIs(t, err, user.ErrInsufficientPermission)
	assert.Empty(t, f.absences.All())
}

func TestAbsenceService_AutoMark_SystemIdentity(t *testing.T) {
	f := newFixture()
	ctx := identity.WithIdentity(context.Background(), identity.System)

	resp, err := f.svc.AutoMark(ctx, week)
	require.NoError(t, err)

	// Admin scope covers every user, including the manager and admin themselves
	assert.Greater(t, resp.Created, 2)
}

func TestAbsenceService_MissingCheckouts(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.MissingCheckouts(as(managerID, user.RoleManager), week)
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, employee2, resp.Days[0].UserID)
	assert.Equal(t, "2024-01-12", resp.Days[0].Date)
	assert.Equal(t, employee1, resp.Days[1].UserID)
	assert.Equal(t, "2024-01-09", resp.Days[1].Date)
	assert.Equal(t, "2024-01-09T09:40:00Z", resp.Days[1].CheckIn)
}

func TestAbsenceService_Declare_UpsertsPending(t *testing.T) {
	f := newFixture()
	ctx := as(employee1, user.RoleEmployee)

	first, err := f.svc.Declare(ctx, absence.DeclareAbsenceRequest{Date: "2024-01-15", Type: "vacation"})
	require.NoError(t, err)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, employee1, first.UserID)

	second, err := f.svc.Declare(ctx, absence.DeclareAbsenceRequest{Date: "2024-01-15", Type: "sick", Reason: strPtr("flu")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "sick", second.Type)
	assert.Len(t, f.absences.All(), 1)
}

func TestAbsenceService_Declare_RejectsReviewedRecord(t *testing.T) {
	f := newFixture(absence.Absence{
		UserID: employee1,
		Date:   day("2024-01-15"),
		Type:   absence.TypeVacation,
		Status: absence.StatusApproved,
	})

	_, err := f.svc.Declare(as(employee1, user.RoleEmployee), absence.DeclareAbsenceRequest{Date: "2024-01-15", Type: "sick"})
	assert.ErrorIs(t, err, absence.ErrAbsenceAlreadyReviewed)
}

func TestAbsenceService_Declare_Invalid(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Declare(as(employee1, user.RoleEmployee), absence.DeclareAbsenceRequest{Date: "15/01/2024", Type: "holiday"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "date")
	assert.Contains(t, m, "type")
}

func TestAbsenceService_Review(t *testing.T) {
	pending := func(userID string) absence.Absence {
		return absence.Absence{
			ID:     "0190a000-0000-7000-8000-00000000ff01",
			UserID: userID,
			Date:   day("2024-01-09"),
			Type:   absence.TypeSick,
			Status: absence.StatusPending,
		}
	}
	req := absence.ReviewAbsenceRequest{ID: "0190a000-0000-7000-8000-00000000ff01"}

	t.Run("manager approves team member", func(t *testing.T) {
		f := newFixture(pending(employee1))

		resp, err := f.svc.Approve(as(managerID, user.RoleManager), req)
		require.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		require.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, managerID, *resp.ApprovedBy)
		require.NotNil(t, resp.ReviewedAt)
		assert.Equal(t, "2024-01-12T12:00:00Z", *resp.ReviewedAt)
	})

	t.Run("reviewed records are terminal", func(t *testing.T) {
		f := newFixture(pending(employee1))
		ctx := as(managerID, user.RoleManager)

		_, err := f.svc.Reject(ctx, req)
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, req)
		assert.ErrorIs(t, err, absence.ErrAbsenceAlreadyReviewed)
		_, err = f.svc.Reject(ctx, req)
		assert.ErrorIs(t, err, absence.ErrAbsenceAlreadyReviewed)
	})

	t.Run("manager cannot review outside team", func(t *testing.T) {
		f := newFixture(pending(outsiderID))

		_, err := f.svc.Approve(as(managerID, user.RoleManager), req)
		assert.ErrorIs(t, err, user.ErrUserOutsideScope)
	})

	t.Run("admin reviews anyone", func(t *testing.T) {
		f := newFixture(pending(outsiderID))

		resp, err := f.svc.Reject(as(adminID, user.RoleAdmin), req)
		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
	})

	t.Run("self review", func(t *testing.T) {
		f := newFixture(pending(managerID))

		_, err := f.svc.Approve(as(managerID, user.RoleManager), req)
		assert.ErrorIs(t, err, absence.ErrSelfReview)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		f := newFixture(pending(employee2))

		_, err := f.svc.Approve(as(employee1, user.RoleEmployee), req)
		assert.ErrorIs(t, err, user.ErrInsufficientPermission)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Approve(as(adminID, user.RoleAdmin), req)
		assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Approve(as(adminID, user.RoleAdmin), absence.ReviewAbsenceRequest{ID: "nope"})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestAbsenceService_List(t *testing.T) {
	f := newFixture(
		absence.Absence{UserID: employee1, Date: day("2024-01-09"), Type: absence.TypeSick, Status: absence.StatusApproved},
		absence.Absence{UserID: employee2, Date: day("2024-01-11"), Type: absence.TypeOther, Status: absence.StatusPending},
		absence.Absence{UserID: outsiderID, Date: day("2024-01-10"), Type: absence.TypeOther, Status: absence.StatusPending},
	)

	t.Run("employee sees own", func(t *testing.T) {
		resp, err := f.svc.List(as(employee1, user.RoleEmployee), absence.ListAbsenceFilter{StartDate: "2024-01-08", EndDate: "2024-01-14"})
		require.NoError(t, err)
		require.Len(t, resp.Absences, 1)
		assert.Equal(t, employee1, resp.Absences[0].UserID)
	})

	t.Run("manager filters by status", func(t *testing.T) {
		resp, err := f.svc.List(as(managerID, user.RoleManager), absence.ListAbsenceFilter{
			StartDate: "2024-01-08",
			EndDate:   "2024-01-14",
			Status:    "pending",
		})
		require.NoError(t, err)
		require.Len(t, resp.Absences, 1)
		assert.Equal(t, employee2, resp.Absences[0].UserID)
	})

	t.Run("admin sees all newest first", func(t *testing.T) {
		resp, err := f.svc.List(as(adminID, user.RoleAdmin), absence.ListAbsenceFilter{StartDate: "2024-01-08", EndDate: "2024-01-14"})
		require.NoError(t, err)
		require.Len(t, resp.Absences, 3)
		assert.Equal(t, "2024-01-11", resp.Absences[0].Date)
		assert.Equal(t, "2024-01-09", resp.Absences[2].Date)
	})

	t.Run("employee cannot ask for others", func(t *testing.T) {
		_, err := f.svc.List(as(employee1, user.RoleEmployee), absence.ListAbsenceFilter{UserIDs: []string{employee2}})
		assert.ErrorIs(t, err, user.ErrUserOutsideScope)
	})
}
