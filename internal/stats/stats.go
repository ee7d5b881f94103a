package stats

import "codeGrindAPI/internal/progression"

// UserStats is the dashboard stats shape. All counters are zero-valued when
// the catalog is empty or the read path degrades.
type UserStats struct {
	TotalSolved        int               `json:"totalSolved"`
	TotalProblems      int               `json:"totalProblems"`
	EasyCompleted      int               `json:"easyCompleted"`
	MediumCompleted    int               `json:"mediumCompleted"`
	HardCompleted      int               `json:"hardCompleted"`
	CurrentStreak      int               `json:"currentStreak"`
	LongestStreak      int               `json:"longestStreak"`
	StudyTimeToday     int               `json:"studyTimeToday"`
	WeeklyGoalProgress float64           `json:"weeklyGoalProgress"`
	Level              progression.Level `json:"level"`
	XP                 int               `json:"xp"`
	NextLevelXP        int               `json:"nextLevelXp"`
}

// Default returns the zeroed stats served when the read path degrades.
func Default() *UserStats {
	return &UserStats{
		Level:       progression.LevelBronze,
		NextLevelXP: progression.NextLevelXP(progression.LevelBronze),
	}
}
