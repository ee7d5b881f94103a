package studysession

import (
	"time"

	"github.com/google/uuid"
)

// Session is one logged block of study time. The stats aggregator sums
// today's durations into studyTimeToday.
type Session struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Duration    int       `json:"duration" db:"duration"` // seconds
	SessionDate time.Time `json:"session_date" db:"session_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type LogRequest struct {
	Duration int `json:"duration"`
}
