package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeGrindAPI/services"
	"codeGrindAPI/tests/helpers"
)

// TestStatsWithEmptyCatalog pins the catalog-empty short circuit: with zero
// problems the stats come back all-zero without touching the per-user
// queries, but the user's own progression state is preserved.
func TestStatsWithEmptyCatalog(t *testing.T) {
	pool := helpers.SetupEmptySchemaDB(t)

	userService := services.NewUserService(pool)
	sessionService := services.NewStudySessionService(pool, userService)
	statsService := services.NewStatsService(pool, userService, sessionService)

	clerkID := "user_test_empty_" + time.Now().Format("20060102150405")
	ctx := context.Background()

	_, err := userService.GetOrCreateUser(ctx, clerkID)
	require.NoError(t, err)

	// Give the user visible progression state so the short circuit provably
	// keeps it rather than falling back to defaults.
	_, err = pool.Exec(ctx, `
		UPDATE users SET level = 'Silver', xp = 1200, current_streak = 3, longest_streak = 5
		WHERE clerk_id = $1
	`, clerkID)
	require.NoError(t, err)

	st := statsService.GetUserStats(ctx, clerkID)
	require.NotNil(t, st)

	assert.Equal(t, 0, st.TotalProblems)
	assert.Equal(t, 0, st.TotalSolved)
	assert.Equal(t, 0, st.EasyCompleted)
	assert.Equal(t, 0, st.MediumCompleted)
	assert.Equal(t, 0, st.HardCompleted)
	assert.Equal(t, 0, st.StudyTimeToday)
	assert.Equal(t, 0.0, st.WeeklyGoalProgress)

	assert.Equal(t, "Silver", string(st.Level))
	assert.Equal(t, 1200, st.XP)
	assert.Equal(t, 2500, st.NextLevelXP)
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 5, st.LongestStreak)
}
