package mastery

import (
	"time"

	"github.com/google/uuid"
)

// PatternMastery is a materialized view row, fully recounted on every toggle
// that touches its pattern. Invariant: MasteryPercentage ==
// 100 * ProblemsSolved / TotalProblems (0 when TotalProblems == 0).
type PatternMastery struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Pattern           string    `json:"pattern" db:"pattern"`
	ProblemsSolved    int       `json:"problems_solved" db:"problems_solved"`
	TotalProblems     int       `json:"total_problems" db:"total_problems"`
	MasteryPercentage float64   `json:"mastery_percentage" db:"mastery_percentage"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Percentage computes the mastery invariant.
func Percentage(solved, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(solved) / float64(total) * 100
}
