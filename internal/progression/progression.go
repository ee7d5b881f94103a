// Package progression holds the pure leveling and streak rules so they can be
// tested without a database. Services apply the results inside their
// transactions.
package progression

import "time"

type Level string

const (
	LevelBronze   Level = "Bronze"
	LevelSilver   Level = "Silver"
	LevelGold     Level = "Gold"
	LevelPlatinum Level = "Platinum"
)

// XPPerSolve is granted once per problem on the unsolved -> solved edge.
const XPPerSolve = 10

// NextLevelXP returns the XP required to leave the given level.
func NextLevelXP(level Level) int {
	switch level {
	case LevelBronze:
		return 1000
	case LevelSilver:
		return 2500
	case LevelGold:
		return 5000
	default:
		return 1000
	}
}

// ApplyXP adds gain to xp and promotes the level when the new total crosses
// the current level's threshold. Promotion is one-directional: a user never
// demotes, and an already promoted user keeps the higher level.
func ApplyXP(level Level, xp, gain int) (Level, int) {
	newXP := xp + gain
	newLevel := level

	if level == LevelBronze && newXP >= 1000 {
		newLevel = LevelSilver
	} else if level == LevelSilver && newXP >= 2500 {
		newLevel = LevelGold
	} else if level == LevelGold && newXP >= 5000 {
		newLevel = LevelPlatinum
	}

	return newLevel, newXP
}

// Day strips the time-of-day portion in t's location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextStreak evaluates the streak transition at the moment a problem becomes
// solved. lastSolvedDay is the day of the most recent solve before the one
// being recorded; nil means no prior history.
//
//	same day as today  -> unchanged (today already counted)
//	yesterday          -> current + 1
//	older gap or none  -> reset to 1
func NextStreak(current int, lastSolvedDay *time.Time, today time.Time) int {
	if lastSolvedDay == nil {
		return 1
	}

	day := Day(*lastSolvedDay)
	todayDay := Day(today)
	yesterday := todayDay.AddDate(0, 0, -1)

	switch {
	case day.Equal(todayDay):
		if current < 1 {
			return 1
		}
		return current
	case day.Equal(yesterday):
		return current + 1
	default:
		return 1
	}
}
