// Package analytics holds the derived activity shapes and the pure bucketing
// logic behind the analytics endpoint. The service layer feeds it rows from
// user_progress; everything here is computable without a database.
package analytics

import (
	"sort"
	"time"

	"codeGrindAPI/internal/problem"
)

// Solve is one solved progress row as the aggregators see it. SolvedAt may be
// nil: old rows were written without a timestamp, and those are bucketed as
// "now" rather than dropped so the totals still add up.
type Solve struct {
	SolvedAt   *time.Time
	Difficulty problem.Difficulty
}

type DayActivity struct {
	Day      string `json:"day"`
	Problems int    `json:"problems"`
}

type PatternProgress struct {
	Pattern   string `json:"pattern"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

type DifficultyTrend struct {
	Month  string `json:"month"`
	Easy   int    `json:"easy"`
	Medium int    `json:"medium"`
	Hard   int    `json:"hard"`
}

type Analytics struct {
	WeeklyActivity   []DayActivity     `json:"weeklyActivity"`
	PatternProgress  []PatternProgress `json:"patternProgress"`
	DifficultyTrends []DifficultyTrend `json:"difficultyTrends"`
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeeklyActivity buckets solves from the trailing 7 days into one entry per
// weekday, Sun..Sat. Every weekday is present even when its count is zero.
func WeeklyActivity(solves []Solve, now time.Time) []DayActivity {
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -7)

	counts := make(map[string]int)
	for _, s := range solves {
		t := now
		if s.SolvedAt != nil {
			t = *s.SolvedAt
		}
		if t.Before(weekStart) {
			continue
		}
		counts[weekdays[int(t.Weekday())]]++
	}

	out := make([]DayActivity, 0, len(weekdays))
	for _, day := range weekdays {
		out = append(out, DayActivity{Day: day, Problems: counts[day]})
	}
	return out
}

// DifficultyTrends groups solves by the calendar month of their solve time,
// sorted chronologically and truncated to the most recent months buckets.
func DifficultyTrends(solves []Solve, now time.Time, months int) []DifficultyTrend {
	type bucket struct {
		start time.Time
		trend DifficultyTrend
	}
	buckets := make(map[string]*bucket)

	for _, s := range solves {
		t := now
		if s.SolvedAt != nil {
			t = *s.SolvedAt
		}
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		key := start.Format("Jan 2006")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: start, trend: DifficultyTrend{Month: key}}
			buckets[key] = b
		}
		switch s.Difficulty {
		case problem.DifficultyMedium:
			b.trend.Medium++
		case problem.DifficultyHard:
			b.trend.Hard++
		default:
			b.trend.Easy++
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start.Before(ordered[j].start) })

	if len(ordered) > months {
		ordered = ordered[len(ordered)-months:]
	}

	out := make([]DifficultyTrend, 0, len(ordered))
	for _, b := range ordered {
		out = append(out, b.trend)
	}
	return out
}
