package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/participant"
	"github.com/bigeaze08-web/candy-group-app-v3/services"
	"github.com/bigeaze08-web/candy-group-app-v3/tests/helpers"
)

func fptr(v float64) *float64 { return &v }

// TestChallengeFlow walks the full loop: two registrations, a round of
// weigh-ins and attendance, then the computed leaderboard.
func TestChallengeFlow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()
	window := challenge.CurrentWindow()

	participantService := services.NewParticipantService(pool)
	weighInService := services.NewWeighInService(pool, window)
	attendanceService := services.NewAttendanceService(pool, window)
	leaderboardService := services.NewLeaderboardService(participantService, weighInService, attendanceService, window)

	alice, err := participantService.Register(ctx, "user_test_alice", "alice@example.com", &participant.RegisterRequest{
		Name:          "Alice",
		StartWeightKg: fptr(100),
		StartWaistCm:  fptr(90),
	})
	require.NoError(t, err)
	require.NotNil(t, alice)

	bob, err := participantService.Register(ctx, "user_test_bob", "bob@example.com", &participant.RegisterRequest{
		Name:          "Bob",
		StartWeightKg: fptr(90),
		StartWaistCm:  fptr(85),
	})
	require.NoError(t, err)

	// Registering the same Clerk user twice must fail.
	_, err = participantService.Register(ctx, "user_test_alice", "alice@example.com", &participant.RegisterRequest{Name: "Alice Again"})
	assert.Error(t, err)

	monday := window.Start // the window opens on a Monday
	require.Equal(t, time.Monday, monday.Weekday())

	// Alice drops 5kg and 3cm, Bob drops 1kg and stays flat on waist.
	_, err = weighInService.Record(ctx, alice.ID, monday, fptr(95), fptr(87), "user_test_admin")
	require.NoError(t, err)
	_, err = weighInService.Record(ctx, bob.ID, monday, fptr(89), fptr(85), "user_test_admin")
	require.NoError(t, err)

	// Re-recording the same date replaces the measurement.
	updated, err := weighInService.Record(ctx, alice.ID, monday, fptr(94), fptr(87), "user_test_admin")
	require.NoError(t, err)
	require.NotNil(t, updated.WeightKg)
	assert.InDelta(t, 94, *updated.WeightKg, 1e-9)

	history, err := weighInService.History(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	// A Saturday weigh-in is rejected.
	saturday := monday.AddDate(0, 0, 5)
	_, err = weighInService.Record(ctx, alice.ID, saturday, fptr(93), nil, "user_test_admin")
	assert.Error(t, err)

	// Both present Monday, only Alice on Tuesday.
	saved, err := attendanceService.Mark(ctx, monday, []uuid.UUID{alice.ID, bob.ID}, "user_test_admin")
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	tuesday := monday.AddDate(0, 0, 1)
	saved, err = attendanceService.Mark(ctx, tuesday, []uuid.UUID{alice.ID}, "user_test_admin")
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	// Marking the same day again saves nothing new.
	saved, err = attendanceService.Mark(ctx, monday, []uuid.UUID{alice.ID}, "user_test_admin")
	require.NoError(t, err)
	assert.Equal(t, 0, saved)

	// A weekend date is rejected outright.
	_, err = attendanceService.Mark(ctx, saturday, []uuid.UUID{alice.ID}, "user_test_admin")
	assert.Error(t, err)

	roster, err := attendanceService.Roster(ctx, tuesday)
	require.NoError(t, err)
	present := map[uuid.UUID]bool{}
	for _, row := range roster {
		present[row.ParticipantID] = row.Present
	}
	assert.True(t, present[alice.ID])
	assert.False(t, present[bob.ID])

	count, err := attendanceService.CountInWindow(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	board, err := leaderboardService.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, board.TotalParticipants, 2)

	var aliceRank, bobRank int
	for _, e := range board.Entries {
		switch e.ParticipantID {
		case alice.ID:
			aliceRank = e.Rank
			assert.InDelta(t, 6, e.WeightLossKg, 1e-9)
			assert.InDelta(t, 3, e.WaistLossCm, 1e-9)
			assert.Equal(t, 2, e.AttendanceCount)
		case bob.ID:
			bobRank = e.Rank
			assert.InDelta(t, 1, e.WeightLossKg, 1e-9)
			assert.InDelta(t, 0, e.WaistLossCm, 1e-9)
			assert.Equal(t, 1, e.AttendanceCount)
		}
	}
	require.NotZero(t, aliceRank)
	require.NotZero(t, bobRank)
	assert.Less(t, aliceRank, bobRank)
}

// TestParticipantLifecycle covers profile updates and admin deletion.
func TestParticipantLifecycle(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()
	window := challenge.CurrentWindow()

	participantService := services.NewParticipantService(pool)
	weighInService := services.NewWeighInService(pool, window)

	p, err := participantService.Register(ctx, "user_test_carol", "carol@example.com", &participant.RegisterRequest{
		Name:          "Carol",
		StartWeightKg: fptr(80),
	})
	require.NoError(t, err)

	newName := "Carol W"
	updated, err := participantService.UpdateByClerkID(ctx, "user_test_carol", &participant.UpdateProfileRequest{
		Name:         &newName,
		StartWaistCm: fptr(75),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol W", updated.Name)
	require.NotNil(t, updated.StartWaistCm)
	assert.InDelta(t, 75, *updated.StartWaistCm, 1e-9)
	require.NotNil(t, updated.StartWeightKg)
	assert.InDelta(t, 80, *updated.StartWeightKg, 1e-9)

	_, err = weighInService.Record(ctx, p.ID, window.Start, fptr(79), nil, "user_test_admin")
	require.NoError(t, err)

	// Deleting a participant takes their weigh-ins with them.
	require.NoError(t, participantService.Delete(ctx, p.ID))

	_, err = participantService.GetByClerkID(ctx, "user_test_carol")
	assert.ErrorIs(t, err, services.ErrParticipantNotFound)

	history, err := weighInService.History(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// TestAdminLookup exercises the admins table check used by the auth middleware.
func TestAdminLookup(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()
	participantService := services.NewParticipantService(pool)

	isAdmin, err := participantService.IsAdmin(ctx, "user_test_nobody")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	_, err = pool.Exec(ctx, "INSERT INTO admins (clerk_id) VALUES ($1) ON CONFLICT DO NOTHING", "user_test_admin")
	require.NoError(t, err)

	isAdmin, err = participantService.IsAdmin(ctx, "user_test_admin")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}
