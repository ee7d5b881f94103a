package services

import (
	"context"
	"errors"
	"time"

	"codeGrindAPI/internal/apperr"
	"codeGrindAPI/internal/problem"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProblemService is the catalog reader. The catalog itself is seeded by an
// external importer and treated as immutable here.
type ProblemService struct {
	db *pgxpool.Pool
}

func NewProblemService(db *pgxpool.Pool) *ProblemService {
	return &ProblemService{db: db}
}

func (s *ProblemService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM problems`).Scan(&count); err != nil {
		return 0, apperr.Storage("failed to count problems", err)
	}
	return count, nil
}

func (s *ProblemService) FindByID(ctx context.Context, problemID uuid.UUID) (*problem.Problem, error) {
	query := `
	SELECT id, title, url, difficulty, pattern, topics, acceptance_rate, frequency,
		question_no, is_premium, created_at
	FROM problems
	WHERE id = $1
	`

	p := &problem.Problem{}
	err := s.db.QueryRow(ctx, query, problemID).Scan(
		&p.ID,
		&p.Title,
		&p.URL,
		&p.Difficulty,
		&p.Pattern,
		&p.Topics,
		&p.AcceptanceRate,
		&p.Frequency,
		&p.QuestionNo,
		&p.IsPremium,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("problem")
		}
		return nil, apperr.Storage("failed to get problem", err)
	}

	return p, nil
}

// FindWithProgress lists catalog problems matching the filters with the
// caller's progress row attached. The status filter (Solved/Unsolved) is
// applied after the join since it depends on per-user state.
func (s *ProblemService) FindWithProgress(ctx context.Context, userID uuid.UUID, filters problem.Filters) ([]*problem.WithProgress, error) {
	query := `
	SELECT p.id, p.title, p.url, p.difficulty, p.pattern, p.topics, p.acceptance_rate,
		p.frequency, p.question_no, p.is_premium, p.created_at,
		up.solved, up.solved_at, up.time_spent, up.attempts
	FROM problems p
	LEFT JOIN user_progress up ON up.problem_id = p.id AND up.user_id = $1
	WHERE ($2 = '' OR $2 = 'All' OR p.difficulty = $2)
		AND ($3 = '' OR $3 = 'All' OR p.pattern = $3)
		AND ($4 = '' OR p.title ILIKE '%' || $4 || '%' OR $4 = ANY(p.topics))
	ORDER BY p.question_no
	LIMIT 1000
	`

	rows, err := s.db.Query(ctx, query, userID, filters.Difficulty, filters.Pattern, filters.Search)
	if err != nil {
		return nil, apperr.Storage("failed to fetch problems", err)
	}
	defer rows.Close()

	var problems []*problem.WithProgress
	for rows.Next() {
		p := &problem.WithProgress{}
		var (
			solved    *bool
			solvedAt  *time.Time
			timeSpent *int
			attempts  *int
		)
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.URL,
			&p.Difficulty,
			&p.Pattern,
			&p.Topics,
			&p.AcceptanceRate,
			&p.Frequency,
			&p.QuestionNo,
			&p.IsPremium,
			&p.CreatedAt,
			&solved,
			&solvedAt,
			&timeSpent,
			&attempts,
		)
		if err != nil {
			return nil, apperr.Storage("failed to scan problem", err)
		}

		if solved != nil {
			prog := &problem.Progress{Solved: *solved, SolvedAt: solvedAt}
			if timeSpent != nil {
				prog.TimeSpent = *timeSpent
			}
			if attempts != nil {
				prog.Attempts = *attempts
			}
			p.Progress = prog
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, apperr.Storage("error iterating problems", err)
	}

	if filters.Status != "" && filters.Status != "All" {
		wantSolved := filters.Status == "Solved"
		filtered := problems[:0]
		for _, p := range problems {
			isSolved := p.Progress != nil && p.Progress.Solved
			if isSolved == wantSolved {
				filtered = append(filtered, p)
			}
		}
		problems = filtered
	}

	if problems == nil {
		problems = []*problem.WithProgress{}
	}
	return problems, nil
}
