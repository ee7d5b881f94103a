package progress

import (
	"time"

	"github.com/google/uuid"
)

// Record is the persisted solved/unsolved fact for one (user, problem) pair.
// There is at most one row per pair (unique composite key); solved=false
// implies SolvedAt is nil.
type Record struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ProblemID uuid.UUID  `json:"problem_id" db:"problem_id"`
	Solved    bool       `json:"solved" db:"solved"`
	SolvedAt  *time.Time `json:"solved_at" db:"solved_at"`
	TimeSpent int        `json:"time_spent" db:"time_spent"`
	Attempts  int        `json:"attempts" db:"attempts"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type ToggleRequest struct {
	ProblemID string `json:"problemId"`
	Solved    bool   `json:"solved"`
}
