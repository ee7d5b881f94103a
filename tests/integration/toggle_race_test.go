package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeGrindAPI/services"
	"codeGrindAPI/tests/helpers"
)

// TestConcurrentFirstToggleGrantsXPOnce races two toggles of a pair that has
// no progress row yet. The per-user lock inside the toggle transaction must
// serialize them so the second one sees the first one's row and skips the
// side effects.
func TestConcurrentFirstToggleGrantsXPOnce(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	progressService := services.NewProgressService(pool, userService)
	sessionService := services.NewStudySessionService(pool, userService)
	statsService := services.NewStatsService(pool, userService, sessionService)

	clerkID := "user_test_race_" + time.Now().Format("20060102150405")
	ctx := context.Background()

	// Resolve the user up front so both goroutines race on the toggle itself,
	// not on user creation.
	_, err := userService.GetOrCreateUser(ctx, clerkID)
	require.NoError(t, err)

	problemID := helpers.SeedProblem(t, pool, "Test Problem Race", "Medium", "Sliding Window")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := progressService.Toggle(ctx, clerkID, problemID.String(), true)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	st := statsService.GetUserStats(ctx, clerkID)
	assert.Equal(t, 1, st.TotalSolved)
	assert.Equal(t, 10, st.XP, "one solve grants XP exactly once under concurrent toggles")
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.LongestStreak)
}
