package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeGrindAPI/internal/problem"
)

func ts(y int, m time.Month, d, h int) *time.Time {
	t := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return &t
}

func TestWeeklyActivityBucketsByWeekday(t *testing.T) {
	// 2025-03-14 is a Friday.
	now := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

	solves := []Solve{
		{SolvedAt: ts(2025, time.March, 10, 9), Difficulty: problem.DifficultyEasy},  // Mon
		{SolvedAt: ts(2025, time.March, 10, 21), Difficulty: problem.DifficultyHard}, // Mon again
		{SolvedAt: ts(2025, time.March, 12, 15), Difficulty: problem.DifficultyEasy}, // Wed
		{SolvedAt: ts(2025, time.March, 1, 10), Difficulty: problem.DifficultyEasy},  // too old
	}

	got := WeeklyActivity(solves, now)
	require.Len(t, got, 7)

	byDay := map[string]int{}
	for _, d := range got {
		byDay[d.Day] = d.Problems
	}
	assert.Equal(t, 2, byDay["Mon"])
	assert.Equal(t, 1, byDay["Wed"])
	assert.Equal(t, 0, byDay["Sun"])
	assert.Equal(t, 0, byDay["Fri"])

	// Order is fixed Sun..Sat regardless of data.
	assert.Equal(t, "Sun", got[0].Day)
	assert.Equal(t, "Sat", got[6].Day)
}

func TestWeeklyActivityEmptyInput(t *testing.T) {
	got := WeeklyActivity(nil, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 7)
	for _, d := range got {
		assert.Zero(t, d.Problems)
	}
}

func TestWeeklyActivityNilSolvedAtCountsAsNow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC) // Friday
	got := WeeklyActivity([]Solve{{SolvedAt: nil, Difficulty: problem.DifficultyEasy}}, now)

	byDay := map[string]int{}
	for _, d := range got {
		byDay[d.Day] = d.Problems
	}
	assert.Equal(t, 1, byDay["Fri"])
}

func TestDifficultyTrendsGroupsByMonth(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	solves := []Solve{
		{SolvedAt: ts(2025, time.April, 2, 10), Difficulty: problem.DifficultyEasy},
		{SolvedAt: ts(2025, time.April, 20, 10), Difficulty: problem.DifficultyMedium},
		{SolvedAt: ts(2025, time.May, 5, 10), Difficulty: problem.DifficultyHard},
		{SolvedAt: ts(2025, time.June, 1, 10), Difficulty: problem.DifficultyEasy},
	}

	got := DifficultyTrends(solves, now, 6)
	require.Len(t, got, 3)

	assert.Equal(t, "Apr 2025", got[0].Month)
	assert.Equal(t, 1, got[0].Easy)
	assert.Equal(t, 1, got[0].Medium)
	assert.Equal(t, 0, got[0].Hard)

	assert.Equal(t, "May 2025", got[1].Month)
	assert.Equal(t, 1, got[1].Hard)

	assert.Equal(t, "Jun 2025", got[2].Month)
	assert.Equal(t, 1, got[2].Easy)
}

func TestDifficultyTrendsTruncatesToRecentMonths(t *testing.T) {
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	var solves []Solve
	for m := time.January; m <= time.December; m++ {
		solves = append(solves, Solve{SolvedAt: ts(2025, m, 10, 10), Difficulty: problem.DifficultyEasy})
	}

	got := DifficultyTrends(solves, now, 6)
	require.Len(t, got, 6)
	assert.Equal(t, "Jul 2025", got[0].Month)
	assert.Equal(t, "Dec 2025", got[5].Month)
}

func TestDifficultyTrendsEmptyInput(t *testing.T) {
	got := DifficultyTrends(nil, time.Now(), 6)
	assert.Empty(t, got)
}
