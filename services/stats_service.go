package services

import (
	"context"
	"log"
	"time"

	"codeGrindAPI/internal/problem"
	"codeGrindAPI/internal/progression"
	"codeGrindAPI/internal/stats"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsService aggregates the dashboard stats shape from the progress store,
// the catalog and the study-session log. Stats are advisory display data, so
// unlike the write path this service degrades to zeroed defaults instead of
// failing the request; every degradation is logged.
type StatsService struct {
	db       *pgxpool.Pool
	users    *UserService
	sessions *StudySessionService
}

func NewStatsService(db *pgxpool.Pool, users *UserService, sessions *StudySessionService) *StatsService {
	return &StatsService{db: db, users: users, sessions: sessions}
}

func (s *StatsService) GetUserStats(ctx context.Context, clerkID string) *stats.UserStats {
	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		log.Printf("GetUserStats: failed to resolve user %s: %v", clerkID, err)
		return stats.Default()
	}

	result := stats.Default()
	result.CurrentStreak = u.CurrentStreak
	result.LongestStreak = u.LongestStreak
	result.Level = u.Level
	result.XP = u.XP
	result.NextLevelXP = progression.NextLevelXP(u.Level)

	var totalProblems int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM problems`).Scan(&totalProblems); err != nil {
		log.Printf("GetUserStats: failed to count problems: %v", err)
		return result
	}
	result.TotalProblems = totalProblems

	// Empty catalog: nothing can be solved, skip the per-user queries.
	if totalProblems == 0 {
		return result
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_progress
		WHERE user_id = $1 AND solved = true
	`, u.ID).Scan(&result.TotalSolved)
	if err != nil {
		log.Printf("GetUserStats: failed to count solved: %v", err)
		return result
	}

	if result.TotalSolved > 0 {
		rows, err := s.db.Query(ctx, `
			SELECT p.difficulty, COUNT(*)
			FROM user_progress up
			JOIN problems p ON p.id = up.problem_id
			WHERE up.user_id = $1 AND up.solved = true
			GROUP BY p.difficulty
		`, u.ID)
		if err != nil {
			log.Printf("GetUserStats: failed to get difficulty breakdown: %v", err)
			return result
		}
		for rows.Next() {
			var difficulty problem.Difficulty
			var count int
			if err := rows.Scan(&difficulty, &count); err != nil {
				rows.Close()
				log.Printf("GetUserStats: failed to scan breakdown: %v", err)
				return result
			}
			switch difficulty {
			case problem.DifficultyEasy:
				result.EasyCompleted = count
			case problem.DifficultyMedium:
				result.MediumCompleted = count
			case problem.DifficultyHard:
				result.HardCompleted = count
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			log.Printf("GetUserStats: error iterating breakdown: %v", err)
		}
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	studyTime, err := s.sessions.SumDurationSince(ctx, u.ID, midnight)
	if err != nil {
		log.Printf("GetUserStats: failed to sum study time: %v", err)
		studyTime = 0
	}
	result.StudyTimeToday = studyTime

	// Week starts on the most recent Sunday midnight.
	weekStart := midnight.AddDate(0, 0, -int(now.Weekday()))
	var weeklySolved int
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_progress
		WHERE user_id = $1 AND solved = true AND solved_at >= $2
	`, u.ID, weekStart).Scan(&weeklySolved)
	if err != nil {
		log.Printf("GetUserStats: failed to count weekly solves: %v", err)
		weeklySolved = 0
	}
	if u.WeeklyGoal > 0 {
		progress := float64(weeklySolved) / float64(u.WeeklyGoal)
		if progress > 1 {
			progress = 1
		}
		result.WeeklyGoalProgress = progress
	}

	return result
}
