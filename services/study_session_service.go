package services

import (
	"context"
	"time"

	"codeGrindAPI/internal/apperr"
	"codeGrindAPI/internal/studysession"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StudySessionService is the study-session log behind studyTimeToday.
type StudySessionService struct {
	db    *pgxpool.Pool
	users *UserService
}

func NewStudySessionService(db *pgxpool.Pool, users *UserService) *StudySessionService {
	return &StudySessionService{db: db, users: users}
}

func (s *StudySessionService) LogSession(ctx context.Context, clerkID string, req *studysession.LogRequest) (*studysession.Session, error) {
	if req.Duration <= 0 {
		return nil, apperr.Invalid("duration must be positive")
	}

	u, err := s.users.GetOrCreateUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	session := &studysession.Session{}
	err = s.db.QueryRow(ctx, `
		INSERT INTO study_sessions (id, user_id, duration, session_date, created_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, user_id, duration, session_date, created_at
	`, uuid.New(), u.ID, req.Duration).Scan(
		&session.ID,
		&session.UserID,
		&session.Duration,
		&session.SessionDate,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, apperr.Storage("failed to log study session", err)
	}

	return session, nil
}

// SumDurationSince totals logged seconds on or after since.
func (s *StudySessionService) SumDurationSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var total int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration), 0) FROM study_sessions
		WHERE user_id = $1 AND session_date >= $2
	`, userID, since).Scan(&total)
	if err != nil {
		return 0, apperr.Storage("failed to sum study time", err)
	}
	return total, nil
}
