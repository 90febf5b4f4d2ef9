package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/leaderboard"
)

type stubLeaderboard struct {
	board *leaderboard.Leaderboard
	err   error
}

func (s *stubLeaderboard) GetLeaderboard(ctx context.Context) (*leaderboard.Leaderboard, error) {
	return s.board, s.err
}

func TestGetLeaderboard(t *testing.T) {
	board := &leaderboard.Leaderboard{
		Entries: []*leaderboard.Entry{
			{Rank: 1, ParticipantID: uuid.New(), Name: "Alice", WeightLossKg: 10, AttendanceCount: 5, Score: 0.75},
			{Rank: 2, ParticipantID: uuid.New(), Name: "Bob", WeightLossKg: 2, AttendanceCount: 10, Score: 0.24},
		},
		TotalParticipants: 2,
	}
	handler := NewLeaderboardHandler(&stubLeaderboard{board: board})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	rr := httptest.NewRecorder()

	handler.GetLeaderboard(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response leaderboard.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

	assert.Equal(t, 2, response.TotalParticipants)
	require.Len(t, response.Entries, 2)
	assert.Equal(t, "Alice", response.Entries[0].Name)
	assert.Equal(t, 1, response.Entries[0].Rank)
	assert.Equal(t, "Bob", response.Entries[1].Name)
}

func TestGetLeaderboardEmpty(t *testing.T) {
	handler := NewLeaderboardHandler(&stubLeaderboard{board: &leaderboard.Leaderboard{Entries: []*leaderboard.Entry{}}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	rr := httptest.NewRecorder()

	handler.GetLeaderboard(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response leaderboard.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Empty(t, response.Entries)
}

func TestGetLeaderboardError(t *testing.T) {
	handler := NewLeaderboardHandler(&stubLeaderboard{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	rr := httptest.NewRecorder()

	handler.GetLeaderboard(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
