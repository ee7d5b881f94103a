package goal

import (
	"time"

	"github.com/google/uuid"
)

type GoalType string

const (
	TypeDaily   GoalType = "daily"
	TypeWeekly  GoalType = "weekly"
	TypeMonthly GoalType = "monthly"
)

type Goal struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Type        GoalType  `json:"type" db:"type"`
	Target      int       `json:"target" db:"target"`
	Current     int       `json:"current" db:"current"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateGoalRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Type        GoalType `json:"type"`
	Target      int      `json:"target"`
}

type UpdateGoalRequest struct {
	Current *int  `json:"current,omitempty"`
	Active  *bool `json:"active,omitempty"`
}
