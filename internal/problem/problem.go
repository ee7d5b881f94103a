package problem

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Problem struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	URL            string     `json:"url" db:"url"`
	Difficulty     Difficulty `json:"difficulty" db:"difficulty"`
	Pattern        *string    `json:"pattern" db:"pattern"`
	Topics         []string   `json:"topics" db:"topics"`
	AcceptanceRate float64    `json:"acceptance_rate" db:"acceptance_rate"`
	Frequency      float64    `json:"frequency" db:"frequency"`
	QuestionNo     int        `json:"question_no" db:"question_no"`
	IsPremium      bool       `json:"is_premium" db:"is_premium"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Progress is the per-user slice of a progress row that the problems list
// endpoint attaches to each catalog entry.
type Progress struct {
	Solved    bool       `json:"solved"`
	SolvedAt  *time.Time `json:"solved_at"`
	TimeSpent int        `json:"time_spent"`
	Attempts  int        `json:"attempts"`
}

type WithProgress struct {
	Problem
	Progress *Progress `json:"progress"`
}

// Filters narrows the catalog listing. Zero values (or "All") mean no filter.
type Filters struct {
	Search     string
	Difficulty string
	Pattern    string
	Status     string // "Solved", "Unsolved" or "All"
}
