package services

import (
	"context"
	"errors"
	"time"

	"codeGrindAPI/internal/apperr"
	"codeGrindAPI/internal/mastery"
	"codeGrindAPI/internal/progress"
	"codeGrindAPI/internal/progression"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressService is the single mutation entry point for solve state. A
// toggle and its side effects (XP, level, streak, pattern mastery) commit or
// roll back as one transaction.
type ProgressService struct {
	db    *pgxpool.Pool
	users *UserService
}

func NewProgressService(db *pgxpool.Pool, users *UserService) *ProgressService {
	return &ProgressService{db: db, users: users}
}

// Toggle flips the solved state for (user, problem). The upsert is idempotent:
// re-solving an already solved problem bumps updated_at but fires no side
// effects, so XP is granted exactly once per unsolved -> solved edge. Unsolving
// never retracts XP or streak credit.
func (s *ProgressService) Toggle(ctx context.Context, clerkID, problemID string, solved bool) (*progress.Record, error) {
	if problemID == "" {
		return nil, apperr.Invalid("problemId is required")
	}
	problemUUID, err := uuid.Parse(problemID)
	if err != nil {
		return nil, apperr.Invalid("problemId must be a valid UUID")
	}

	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	userUUID, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, apperr.Storage("invalid user ID from database", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Storage("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	// Lock the user row first so all toggles for one user serialize. The
	// progress pre-read below cannot see a row another transaction has not
	// committed yet, so without this lock two first-time toggles of the same
	// pair would both observe "not solved" and double-fire the side effects.
	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userUUID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Storage("failed to lock user", err)
	}

	// The problem must exist in the catalog; its pattern drives the mastery
	// recount below.
	var pattern *string
	err = tx.QueryRow(ctx, `SELECT pattern FROM problems WHERE id = $1`, problemUUID).Scan(&pattern)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("problem")
		}
		return nil, apperr.Storage("failed to get problem", err)
	}

	// Lock the existing row (if any) so concurrent toggles of the same pair
	// serialize and side effects are gated on the real prior state.
	wasSolved := false
	err = tx.QueryRow(ctx, `
		SELECT solved FROM user_progress
		WHERE user_id = $1 AND problem_id = $2
		FOR UPDATE
	`, userUUID, problemUUID).Scan(&wasSolved)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Storage("failed to read progress", err)
	}

	// Most recent prior solve, read before the upsert so the streak rule sees
	// history without the record being written now.
	var lastSolvedAt *time.Time
	err = tx.QueryRow(ctx, `
		SELECT MAX(solved_at) FROM user_progress
		WHERE user_id = $1 AND solved = true AND solved_at IS NOT NULL
	`, userUUID).Scan(&lastSolvedAt)
	if err != nil {
		return nil, apperr.Storage("failed to read solve history", err)
	}

	now := time.Now()
	var solvedAt *time.Time
	if solved {
		solvedAt = &now
	}

	record := &progress.Record{}
	err = tx.QueryRow(ctx, `
		INSERT INTO user_progress (id, user_id, problem_id, solved, solved_at, attempts, updated_at)
		VALUES ($1, $2, $3, $4, $5, CASE WHEN $4 THEN 1 ELSE 0 END, NOW())
		ON CONFLICT (user_id, problem_id) DO UPDATE SET
			solved = $4,
			solved_at = $5,
			attempts = user_progress.attempts + CASE WHEN $4 AND NOT user_progress.solved THEN 1 ELSE 0 END,
			updated_at = NOW()
		RETURNING id, user_id, problem_id, solved, solved_at, time_spent, attempts, updated_at
	`, uuid.New(), userUUID, problemUUID, solved, solvedAt).Scan(
		&record.ID,
		&record.UserID,
		&record.ProblemID,
		&record.Solved,
		&record.SolvedAt,
		&record.TimeSpent,
		&record.Attempts,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.Storage("failed to upsert progress", err)
	}

	if solved && !wasSolved {
		if err := s.applyGamification(ctx, tx, userUUID, lastSolvedAt, now); err != nil {
			return nil, err
		}
	}

	// The mastery row is a materialized view: recount it on every toggle that
	// touches a pattern, in either direction, so it never drifts.
	if pattern != nil {
		if err := s.recountPatternMastery(ctx, tx, userUUID, *pattern); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage("failed to commit toggle", err)
	}

	return record, nil
}

// applyGamification grants XP (with monotonic level promotion) and advances
// the streak state machine. Runs inside the toggle transaction.
func (s *ProgressService) applyGamification(ctx context.Context, tx pgx.Tx, userID uuid.UUID, lastSolvedAt *time.Time, now time.Time) error {
	var (
		xp            int
		level         progression.Level
		currentStreak int
		longestStreak int
	)
	err := tx.QueryRow(ctx, `
		SELECT xp, level, current_streak, longest_streak
		FROM users WHERE id = $1
		FOR UPDATE
	`, userID).Scan(&xp, &level, &currentStreak, &longestStreak)
	if err != nil {
		return apperr.Storage("failed to read user progression", err)
	}

	newLevel, newXP := progression.ApplyXP(level, xp, progression.XPPerSolve)

	newStreak := progression.NextStreak(currentStreak, lastSolvedAt, now)
	if newStreak > longestStreak {
		longestStreak = newStreak
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET xp = $2, level = $3, current_streak = $4, longest_streak = $5, updated_at = NOW()
		WHERE id = $1
	`, userID, newXP, newLevel, newStreak, longestStreak)
	if err != nil {
		return apperr.Storage("failed to update user progression", err)
	}
	return nil
}

// recountPatternMastery rebuilds the (user, pattern) mastery row from scratch.
func (s *ProgressService) recountPatternMastery(ctx context.Context, tx pgx.Tx, userID uuid.UUID, pattern string) error {
	var solvedCount, totalCount int

	err := tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM user_progress up
		JOIN problems p ON p.id = up.problem_id
		WHERE up.user_id = $1 AND up.solved = true AND p.pattern = $2
	`, userID, pattern).Scan(&solvedCount)
	if err != nil {
		return apperr.Storage("failed to count solved for pattern", err)
	}

	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM problems WHERE pattern = $1`, pattern).Scan(&totalCount)
	if err != nil {
		return apperr.Storage("failed to count problems for pattern", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO pattern_mastery (id, user_id, pattern, problems_solved, total_problems, mastery_percentage, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, pattern) DO UPDATE SET
			problems_solved = $4,
			total_problems = $5,
			mastery_percentage = $6,
			updated_at = NOW()
	`, uuid.New(), userID, pattern, solvedCount, totalCount, mastery.Percentage(solvedCount, totalCount))
	if err != nil {
		return apperr.Storage("failed to upsert pattern mastery", err)
	}
	return nil
}

// GetProgressMap returns problemID -> solved for every progress row the user
// has, the shape the dashboard's problem list keys off.
func (s *ProgressService) GetProgressMap(ctx context.Context, clerkID string) (map[string]bool, error) {
	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT problem_id, solved FROM user_progress WHERE user_id = $1
	`, u.ID)
	if err != nil {
		return nil, apperr.Storage("failed to fetch progress", err)
	}
	defer rows.Close()

	progressMap := make(map[string]bool)
	for rows.Next() {
		var problemID uuid.UUID
		var solved bool
		if err := rows.Scan(&problemID, &solved); err != nil {
			return nil, apperr.Storage("failed to scan progress", err)
		}
		progressMap[problemID.String()] = solved
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Storage("error iterating progress", err)
	}

	return progressMap, nil
}
