package postgres

import (
	"context"

	"github.com/google/uuid"
)

const teamMemberSQL = `
SELECT 1
FROM team_user
WHERE team_id = $1::uuid
  AND user_id = $2::uuid
LIMIT 1`

// TeamAccessChecker answers canViewTeam from team membership.
type TeamAccessChecker struct {
	db DB
}

func NewTeamAccessChecker(db DB) *TeamAccessChecker {
	return &TeamAccessChecker{db: db}
}

func (c *TeamAccessChecker) CanViewTeam(ctx context.Context, userID, teamID string) (bool, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return false, nil
	}
	if _, err := uuid.Parse(teamID); err != nil {
		return false, nil
	}

	rows, err := c.db.QueryContext(ctx, teamMemberSQL, teamID, userID)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}
	return found, nil
}
