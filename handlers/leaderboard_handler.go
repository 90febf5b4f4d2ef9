package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/leaderboard"
	"github.com/bigeaze08-web/candy-group-app-v3/middleware"
)

// LeaderboardProvider is what this handler needs from the leaderboard
// service; an interface so tests can stub the board.
type LeaderboardProvider interface {
	GetLeaderboard(ctx context.Context) (*leaderboard.Leaderboard, error)
}

type LeaderboardHandler struct {
	leaderboardService LeaderboardProvider
}

func NewLeaderboardHandler(leaderboardService LeaderboardProvider) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard serves the scored board for the public dashboard.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	board, err := h.leaderboardService.GetLeaderboard(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error computing leaderboard")
		return
	}
	middleware.ObserveLeaderboardCompute(time.Since(start))

	respondWithJSON(w, http.StatusOK, board)
}
