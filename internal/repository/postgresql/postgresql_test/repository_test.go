package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/workday"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	managerID = "0190a000-0000-7000-8000-000000000002"
	employee1 = "0190a000-0000-7000-8000-000000000011"
	employee2 = "0190a000-0000-7000-8000-000000000012"
	teamID    = "0190a000-0000-7000-8000-0000000000a1"
)

func seedDirectory(t *testing.T, setup *TestDatabaseSetup) {
	t.Helper()
	ctx := context.Background()

	_, err := setup.DB.Exec(ctx, `INSERT INTO teams (id, name) VALUES ($1, 'Platform')`, teamID)
	require.NoError(t, err)

	users := []struct {
		id, first, last, email, role string
		team                         *string
	}{
		{managerID, "Mia", "Manager", "mia@example.com", "manager", nil},
		{employee1, "Eka", "Putri", "eka@example.com", "employee", strPtr(teamID)},
		{employee2, "Budi", "Santoso", "budi@example.com", "employee", strPtr(teamID)},
	}
	for _, u := range users {
		_, err := setup.DB.Exec(ctx,
			`INSERT INTO users (id, first_name, last_name, email, role, team_id) VALUES ($1, $2, $3, $4, $5, $6)`,
			u.id, u.first, u.last, u.email, u.role, u.team,
		)
		require.NoError(t, err)
	}

	_, err = setup.DB.Exec(ctx, `UPDATE teams SET manager_id = $1 WHERE id = $2`, managerID, teamID)
	require.NoError(t, err)
}

func TestUserAndTeamRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	ctx := context.Background()

	users := postgresql.NewUserRepository(setup.DB)
	teams := postgresql.NewTeamRepository(setup.DB)

	u, err := users.GetByID(ctx, employee1)
	require.NoError(t, err)
	assert.Equal(t, "Putri", u.LastName)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.TeamID)
	assert.Equal(t, teamID, *u.TeamID)

	_, err = users.GetByID(ctx, "0190a000-0000-7000-8000-0000000000ff")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	ids, err := users.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{managerID, employee1, employee2}, ids)

	listed, err := users.ListByIDs(ctx, []string{employee2, managerID})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	team, err := teams.GetByManagerID(ctx, managerID)
	require.NoError(t, err)
	assert.Equal(t, teamID, team.ID)

	_, err = teams.GetByManagerID(ctx, employee1)
	assert.ErrorIs(t, err, user.ErrTeamNotFound)

	members, err := teams.ListMemberIDs(ctx, teamID)
	require.NoError(t, err)
	assert.Equal(t, []string{employee1, employee2}, members)
}

func TestClockEventRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	ctx := context.Background()

	repo := postgresql.NewClockEventRepository(setup.DB)

	last, err := repo.GetLastByUser(ctx, employee1)
	require.NoError(t, err)
	assert.Nil(t, last)

	base := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	for i, status := range []attendance.EventStatus{attendance.StatusCheckIn, attendance.StatusCheckOut} {
		_, err := repo.Create(ctx, attendance.ClockEvent{
			UserID:    employee1,
			Timestamp: base.Add(time.Duration(i) * 8 * time.Hour),
			Status:    status,
		})
		require.NoError(t, err)
	}

	last, err = repo.GetLastByUser(ctx, employee1)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, attendance.StatusCheckOut, last.Status)

	events, err := repo.ListByUsersAndRange(ctx, []string{employee1, employee2}, base, base.Add(8*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, attendance.StatusCheckIn, events[0].Status)
	assert.True(t, events[0].Timestamp.Equal(base))

	// Same user and instant violates the unique index
	_, err = repo.Create(ctx, attendance.ClockEvent{UserID: employee1, Timestamp: base, Status: attendance.StatusCheckIn})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestClockEventRepository_WithUserLock_Serializes(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	ctx := context.Background()

	repo := postgresql.NewClockEventRepository(setup.DB)
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithUserLock(ctx, employee1, func(ctx context.Context) error {
				last, err := repo.GetLastByUser(ctx, employee1)
				if err != nil {
					return err
				}
				if last != nil && last.Status == attendance.StatusCheckIn {
					return nil
				}
				if _, err := repo.Create(ctx, attendance.ClockEvent{UserID: employee1, Timestamp: now, Status: attendance.StatusCheckIn}); err != nil {
					return err
				}
				mu.Lock()
				created++
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestAbsenceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	ctx := context.Background()

	repo := postgresql.NewAbsenceRepository(setup.DB)
	date, err := workday.Parse("2024-01-09", time.UTC)
	require.NoError(t, err)

	stored, created, err := repo.CreateIfAbsent(ctx, absence.Absence{UserID: employee1, Date: date, Type: absence.TypeOther})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, absence.StatusPending, stored.Status)
	assert.Equal(t, "2024-01-09", workday.Key(stored.Date))

	again, created, err := repo.CreateIfAbsent(ctx, absence.Absence{UserID: employee1, Date: date, Type: absence.TypeOther})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.ID, again.ID)

	updated, err := repo.Upsert(ctx, absence.Absence{UserID: employee1, Date: date, Type: absence.TypeSick, Reason: strPtr("flu")})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, updated.ID)
	assert.Equal(t, absence.TypeSick, updated.Type)

	reviewedAt := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	approved, err := repo.UpdateStatus(ctx, stored.ID, absence.StatusApproved, managerID, reviewedAt)
	require.NoError(t, err)
	assert.Equal(t, absence.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, managerID, *approved.ApprovedBy)

	_, err = repo.UpdateStatus(ctx, stored.ID, absence.StatusRejected, managerID, reviewedAt)
	assert.ErrorIs(t, err, absence.ErrAbsenceAlreadyReviewed)

	_, err = repo.Upsert(ctx, absence.Absence{UserID: employee1, Date: date, Type: absence.TypeVacation})
	assert.ErrorIs(t, err, absence.ErrAbsenceAlreadyReviewed)

	_, err = repo.UpdateStatus(ctx, "0190a000-0000-7000-8000-0000000000ff", absence.StatusApproved, managerID, reviewedAt)
	assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)

	approvedStatus := absence.StatusApproved
	list, err := repo.List(ctx, absence.AbsenceFilter{
		UserIDs: []string{employee1, employee2},
		From:    date,
		To:      date,
		Status:  &approvedStatus,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stored.ID, list[0].ID)
}

func strPtr(s string) *string {
	return &s
}
