package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// ListByIDs returns the users that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []string) ([]User, error)

	// ListIDs returns every user id in the organisation.
	ListIDs(ctx context.Context) ([]string, error)
}

type TeamRepository interface {
	GetByManagerID(ctx context.Context, managerID string) (Team, error)
	ListMemberIDs(ctx context.Context, teamID string) ([]string, error)
}
