package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
)

// Directory implements both user.UserRepository and user.TeamRepository.
type Directory struct {
	mu    sync.RWMutex
	users map[string]user.User
	teams map[string]user.Team
}

func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]user.User),
		teams: make(map[string]user.Team),
	}
}

func (d *Directory) AddUser(u user.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *Directory) AddTeam(t user.Team) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teams[t.ID] = t
}

func (d *Directory) GetByID(ctx context.Context, id string) (user.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (d *Directory) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []user.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *Directory) ListIDs(ctx context.Context) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.users))
	for id := range d.users {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (d *Directory) GetByManagerID(ctx context.Context, managerID string) (user.Team, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.teams {
		if t.ManagerID != nil && *t.ManagerID == managerID {
			return t, nil
		}
	}
	return user.Team{}, user.ErrTeamNotFound
}

func (d *Directory) ListMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for _, u := range d.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			out = append(out, u.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}
