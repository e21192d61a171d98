package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type teamRepositoryImpl struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) user.TeamRepository {
	return &teamRepositoryImpl{db: db}
}

// GetByManagerID implements user.TeamRepository.
func (r *teamRepositoryImpl) GetByManagerID(ctx context.Context, managerID string) (user.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, manager_id, created_at
		FROM teams
		WHERE manager_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var t user.Team
	err := q.QueryRow(ctx, query, managerID).Scan(&t.ID, &t.Name, &t.ManagerID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Team{}, user.ErrTeamNotFound
		}
		return user.Team{}, fmt.Errorf("failed to get team by manager: %w", err)
	}

	return t, nil
}

// ListMemberIDs implements user.TeamRepository.
func (r *teamRepositoryImpl) ListMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM users WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan team members: %w", err)
	}
	return ids, nil
}
