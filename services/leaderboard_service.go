package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/scoring"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/attendance"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/leaderboard"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/participant"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/weighin"
)

// LeaderboardService joins the three source fetches and runs the scorer.
// A failed fetch degrades to an empty collection: the dashboard shows what it
// can rather than erroring, and unaffected participants keep correct scores.
type LeaderboardService struct {
	participants *ParticipantService
	weighIns     *WeighInService
	attendance   *AttendanceService
	window       challenge.Window
}

func NewLeaderboardService(participants *ParticipantService, weighIns *WeighInService, att *AttendanceService, window challenge.Window) *LeaderboardService {
	return &LeaderboardService{
		participants: participants,
		weighIns:     weighIns,
		attendance:   att,
		window:       window,
	}
}

// GetLeaderboard fetches participants, weigh-ins and attendance concurrently
// and returns the scored, ranked board. Recomputed on every call. The
// goroutines always return nil; each fetch error is logged and scored as an
// empty collection instead of failing the board.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) (*leaderboard.Leaderboard, error) {
	var (
		parts    []*participant.Participant
		weighIns []*weighin.WeighIn
		records  []*attendance.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if parts, err = s.participants.List(gctx); err != nil {
			log.Printf("Leaderboard: participants fetch failed, scoring empty cohort: %v", err)
			parts = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if weighIns, err = s.weighIns.All(gctx); err != nil {
			log.Printf("Leaderboard: weigh-in fetch failed, scoring without losses: %v", err)
			weighIns = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if records, err = s.attendance.InWindow(gctx); err != nil {
			log.Printf("Leaderboard: attendance fetch failed, scoring without attendance: %v", err)
			records = nil
		}
		return nil
	})
	g.Wait()

	entries := scoring.Rank(parts, weighIns, records, s.window)

	return &leaderboard.Leaderboard{
		Entries:           entries,
		TotalParticipants: len(entries),
	}, nil
}
