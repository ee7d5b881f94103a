package user

import (
	"time"

	"codeGrindAPI/internal/progression"
)

type User struct {
	ID            string            `json:"id"`
	ClerkID       string            `json:"clerkId"`
	Email         string            `json:"email"`
	Username      string            `json:"username"`
	ImageURL      string            `json:"imageUrl,omitempty"`
	EmailVerified bool              `json:"emailVerified"`
	XP            int               `json:"xp"`
	Level         progression.Level `json:"level"`
	CurrentStreak int               `json:"currentStreak"`
	LongestStreak int               `json:"longestStreak"`
	WeeklyGoal    int               `json:"weeklyGoal"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
