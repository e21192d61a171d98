// Package scope resolves which users a caller may report on or review.
package scope

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/identity"
)

// Population is a resolved set of users with their profiles.
type Population struct {
	UserIDs []string
	People  map[string]user.User
}

func (p Population) Size() int { return len(p.UserIDs) }

type Resolver struct {
	users user.UserRepository
	teams user.TeamRepository
}

func NewResolver(users user.UserRepository, teams user.TeamRepository) *Resolver {
	return &Resolver{users: users, teams: teams}
}

// Resolve returns the users visible to the caller, narrowed to requested when
// it is non-empty. Employees see themselves, managers their team, admins
// everyone. Asking for a user outside that set fails with ErrUserOutsideScope.
func (r *Resolver) Resolve(ctx context.Context, id identity.Identity, requested []string) (Population, error) {
	requested = dedupe(requested)

	var ids []string
	switch id.Role {
	case user.RoleAdmin:
		if len(requested) > 0 {
			ids = requested
			break
		}
		all, err := r.users.ListIDs(ctx)
		if err != nil {
			return Population{}, fmt.Errorf("failed to list users: %w", err)
		}
		ids = all

	case user.RoleManager:
		members, err := r.teamMembers(ctx, id.UserID)
		if err != nil {
			return Population{}, err
		}
		if len(requested) == 0 {
			ids = members
			break
		}
		if err := requireSubset(requested, members); err != nil {
			return Population{}, err
		}
		ids = requested

	case user.RoleEmployee:
		if err := requireSubset(requested, []string{id.UserID}); err != nil {
			return Population{}, err
		}
		ids = []string{id.UserID}

	default:
		return Population{}, user.ErrInsufficientPermission
	}

	if len(ids) == 0 {
		return Population{}, attendance.ErrEmptyPopulation
	}

	users, err := r.users.ListByIDs(ctx, ids)
	if err != nil {
		return Population{}, fmt.Errorf("failed to load users: %w", err)
	}

	pop := Population{People: make(map[string]user.User, len(users))}
	for _, u := range users {
		pop.People[u.ID] = u
		pop.UserIDs = append(pop.UserIDs, u.ID)
	}
	if len(pop.UserIDs) == 0 {
		return Population{}, attendance.ErrEmptyPopulation
	}
	sort.Strings(pop.UserIDs)

	return pop, nil
}

// Authorize checks that the caller may act on records owned by userID.
func (r *Resolver) Authorize(ctx context.Context, id identity.Identity, userID string) error {
	switch id.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleManager:
		members, err := r.teamMembers(ctx, id.UserID)
		if err != nil {
			return err
		}
		return requireSubset([]string{userID}, members)
	case user.RoleEmployee:
		if userID == id.UserID {
			return nil
		}
		return user.ErrUserOutsideScope
	default:
		return user.ErrInsufficientPermission
	}
}

func (r *Resolver) teamMembers(ctx context.Context, managerID string) ([]string, error) {
	team, err := r.teams.GetByManagerID(ctx, managerID)
	if err != nil {
		if errors.Is(err, user.ErrTeamNotFound) {
			return nil, user.ErrManagerHasNoTeam
		}
		return nil, fmt.Errorf("failed to get managed team: %w", err)
	}

	members, err := r.teams.ListMemberIDs(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func requireSubset(requested, allowed []string) error {
	set := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := set[id]; !ok {
			return user.ErrUserOutsideScope
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
