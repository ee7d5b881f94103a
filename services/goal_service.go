package services

import (
	"context"
	"errors"

	"codeGrindAPI/internal/apperr"
	"codeGrindAPI/internal/goal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GoalService struct {
	db    *pgxpool.Pool
	users *UserService
}

func NewGoalService(db *pgxpool.Pool, users *UserService) *GoalService {
	return &GoalService{db: db, users: users}
}

// GetUserGoals lists the user's active goals, newest first. Unknown users are
// created lazily like every other read entry point.
func (s *GoalService) GetUserGoals(ctx context.Context, clerkID string) ([]*goal.Goal, error) {
	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, title, description, type, target, current, active, created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND active = true
		ORDER BY created_at DESC
	`, u.ID)
	if err != nil {
		return nil, apperr.Storage("failed to fetch goals", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		g := &goal.Goal{}
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Title,
			&g.Description,
			&g.Type,
			&g.Target,
			&g.Current,
			&g.Active,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.Storage("failed to scan goal", err)
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Storage("error iterating goals", err)
	}

	return goals, nil
}

func (s *GoalService) CreateGoal(ctx context.Context, clerkID string, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	if req.Title == "" {
		return nil, apperr.Invalid("title is required")
	}
	if req.Target <= 0 {
		return nil, apperr.Invalid("target must be positive")
	}
	switch req.Type {
	case goal.TypeDaily, goal.TypeWeekly, goal.TypeMonthly:
	default:
		return nil, apperr.Invalid("type must be daily, weekly or monthly")
	}

	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	g := &goal.Goal{}
	err = s.db.QueryRow(ctx, `
		INSERT INTO goals (id, user_id, title, description, type, target, current, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, true, NOW(), NOW())
		RETURNING id, user_id, title, description, type, target, current, active, created_at, updated_at
	`, uuid.New(), u.ID, req.Title, req.Description, req.Type, req.Target).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Type,
		&g.Target,
		&g.Current,
		&g.Active,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.Storage("failed to create goal", err)
	}

	return g, nil
}

// UpdateGoal patches current progress and/or active state of one goal owned
// by the caller.
func (s *GoalService) UpdateGoal(ctx context.Context, clerkID, goalID string, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	goalUUID, err := uuid.Parse(goalID)
	if err != nil {
		return nil, apperr.Invalid("goalId must be a valid UUID")
	}

	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	g := &goal.Goal{}
	err = s.db.QueryRow(ctx, `
		UPDATE goals
		SET current = COALESCE($3, current),
			active = COALESCE($4, active),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, type, target, current, active, created_at, updated_at
	`, goalUUID, u.ID, req.Current, req.Active).Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Type,
		&g.Target,
		&g.Current,
		&g.Active,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("goal")
		}
		return nil, apperr.Storage("failed to update goal", err)
	}

	return g, nil
}
