package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeGrindAPI/internal/apperr"
	"codeGrindAPI/internal/progression"
	"codeGrindAPI/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultWeeklyGoal is the solve target assigned to users created without an
// explicit goal.
const DefaultWeeklyGoal = 5

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:         uuid.New().String(),
		ClerkID:    req.ClerkID,
		Email:      req.Email,
		Username:   req.Username,
		ImageURL:   req.ImageURL,
		Level:      progression.LevelBronze,
		WeeklyGoal: DefaultWeeklyGoal,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, image_url, level, weekly_goal, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (clerk_id) DO UPDATE SET
		email = EXCLUDED.email,
		username = COALESCE(NULLIF(EXCLUDED.username, ''), users.username),
		image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), users.image_url),
		updated_at = NOW()
	RETURNING id, clerk_id, email, username, image_url, email_verified, xp, level,
		current_streak, longest_streak, weekly_goal, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.ImageURL,
		u.Level,
		u.WeeklyGoal,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.ImageURL,
		&u.EmailVerified,
		&u.XP,
		&u.Level,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.WeeklyGoal,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.Storage("failed to create user", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, image_url, email_verified, xp, level,
		current_streak, longest_streak, weekly_goal, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.ImageURL,
		&u.EmailVerified,
		&u.XP,
		&u.Level,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.WeeklyGoal,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Storage("failed to get user", err)
	}

	return u, nil
}

// GetOrCreateUser resolves a clerk ID to the internal user row, creating it
// lazily on first contact. The synthesized placeholder email mirrors how the
// dashboard behaves when a profile shows up before the identity webhook does.
func (s *UserService) GetOrCreateUser(ctx context.Context, clerkID string) (*user.User, error) {
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err == nil {
		return u, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	return s.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID: clerkID,
		Email:   fmt.Sprintf("user-%s@placeholder.local", clerkID),
	})
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		image_url = COALESCE(NULLIF($3, ''), image_url),
		weekly_goal = CASE WHEN $4 > 0 THEN $4 ELSE weekly_goal END,
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, email, username, image_url, email_verified, xp, level,
		current_streak, longest_streak, weekly_goal, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Username,
		req.ImageURL,
		req.WeeklyGoal,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.ImageURL,
		&u.EmailVerified,
		&u.XP,
		&u.Level,
		&u.CurrentStreak,
		&u.LongestStreak,
		&u.WeeklyGoal,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Storage("failed to update user", err)
	}

	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return apperr.Storage("failed to delete user", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (s *UserService) UpdateEmailVerification(ctx context.Context, clerkID string, verified bool) error {
	query := `
	UPDATE users
	SET email_verified = $2, updated_at = NOW()
	WHERE clerk_id = $1
	`

	_, err := s.db.Exec(ctx, query, clerkID, verified)
	if err != nil {
		return apperr.Storage("failed to update email verification", err)
	}
	return nil
}
