package services

import (
	"context"
	"log"
	"time"

	"codeGrindAPI/internal/analytics"
	"codeGrindAPI/internal/apperr"
	"codeGrindAPI/internal/mastery"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TrendMonths is how far back the difficulty trend reaches.
const TrendMonths = 6

// AnalyticsService derives the weekly activity histogram, pattern mastery
// list and difficulty trends served to the analytics page. Like stats, this
// is a read path: failures degrade to empty shapes and get logged.
type AnalyticsService struct {
	db    *pgxpool.Pool
	users *UserService
}

func NewAnalyticsService(db *pgxpool.Pool, users *UserService) *AnalyticsService {
	return &AnalyticsService{db: db, users: users}
}

func (s *AnalyticsService) GetAnalytics(ctx context.Context, clerkID string) *analytics.Analytics {
	now := time.Now()
	result := &analytics.Analytics{
		WeeklyActivity:   analytics.WeeklyActivity(nil, now),
		PatternProgress:  []analytics.PatternProgress{},
		DifficultyTrends: []analytics.DifficultyTrend{},
	}

	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		log.Printf("GetAnalytics: failed to resolve user %s: %v", clerkID, err)
		return result
	}

	solves, err := s.fetchSolves(ctx, u.ID)
	if err != nil {
		log.Printf("GetAnalytics: failed to fetch solves: %v", err)
	} else {
		result.WeeklyActivity = analytics.WeeklyActivity(solves, now)
		result.DifficultyTrends = analytics.DifficultyTrends(solves, now, TrendMonths)
	}

	patterns, err := s.ListPatternMastery(ctx, u.ID)
	if err != nil {
		log.Printf("GetAnalytics: failed to list pattern mastery: %v", err)
	} else {
		for _, m := range patterns {
			result.PatternProgress = append(result.PatternProgress, analytics.PatternProgress{
				Pattern:   m.Pattern,
				Completed: m.ProblemsSolved,
				Total:     m.TotalProblems,
			})
		}
	}

	return result
}

func (s *AnalyticsService) fetchSolves(ctx context.Context, userID string) ([]analytics.Solve, error) {
	rows, err := s.db.Query(ctx, `
		SELECT up.solved_at, p.difficulty
		FROM user_progress up
		JOIN problems p ON p.id = up.problem_id
		WHERE up.user_id = $1 AND up.solved = true
	`, userID)
	if err != nil {
		return nil, apperr.Storage("failed to fetch solves", err)
	}
	defer rows.Close()

	var solves []analytics.Solve
	for rows.Next() {
		var solve analytics.Solve
		if err := rows.Scan(&solve.SolvedAt, &solve.Difficulty); err != nil {
			return nil, apperr.Storage("failed to scan solve", err)
		}
		solves = append(solves, solve)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Storage("error iterating solves", err)
	}
	return solves, nil
}

// ListPatternMastery returns the user's mastery rows ordered by percentage
// descending, the order the analytics page renders them in.
func (s *AnalyticsService) ListPatternMastery(ctx context.Context, userID string) ([]*mastery.PatternMastery, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, pattern, problems_solved, total_problems, mastery_percentage, updated_at
		FROM pattern_mastery
		WHERE user_id = $1
		ORDER BY mastery_percentage DESC
	`, userID)
	if err != nil {
		return nil, apperr.Storage("failed to fetch pattern mastery", err)
	}
	defer rows.Close()

	var masteries []*mastery.PatternMastery
	for rows.Next() {
		m := &mastery.PatternMastery{}
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Pattern,
			&m.ProblemsSolved,
			&m.TotalProblems,
			&m.MasteryPercentage,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.Storage("failed to scan pattern mastery", err)
		}
		masteries = append(masteries, m)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Storage("error iterating pattern mastery", err)
	}
	return masteries, nil
}
