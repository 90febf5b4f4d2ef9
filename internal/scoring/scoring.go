// Package scoring ranks the challenge cohort. It is a pure computation over
// already-fetched rows; it never touches the database and is recomputed on
// every leaderboard read.
package scoring

import (
	"math"
	"sort"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/attendance"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/leaderboard"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/participant"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/weighin"
)

// Composite score weights. They sum to 1.0: weight loss dominates, waist loss
// and attendance keep people honest between weigh-ins.
const (
	weightLossWeight = 0.7
	waistLossWeight  = 0.2
	attendanceWeight = 0.1
)

// Rank scores and orders the cohort. Weigh-ins and attendance may arrive in
// any order and may be empty; a participant with no rows scores from their
// starting measurements (zero loss, zero attendance). Attendance outside the
// window is ignored. The result is fully materialized with 1-based ranks.
func Rank(parts []*participant.Participant, weighIns []*weighin.WeighIn, records []*attendance.Record, window challenge.Window) []*leaderboard.Entry {
	entries := make([]*leaderboard.Entry, 0, len(parts))
	if len(parts) == 0 {
		return entries
	}

	latest := latestWeighIns(weighIns)

	attended := make(map[string]int)
	for _, r := range records {
		if window.Contains(r.Date) {
			attended[r.ParticipantID.String()]++
		}
	}

	for _, p := range parts {
		e := &leaderboard.Entry{
			ParticipantID:   p.ID,
			Name:            p.Name,
			AttendanceCount: attended[p.ID.String()],
		}
		if w := latest[p.ID.String()]; w != nil {
			e.WeightLossKg = loss(p.StartWeightKg, w.WeightKg)
			e.WaistLossCm = loss(p.StartWaistCm, w.WaistCm)
		}
		entries = append(entries, e)
	}

	maxWeight, maxWaist, maxAtt := 1.0, 1.0, 1.0
	for _, e := range entries {
		maxWeight = math.Max(maxWeight, e.WeightLossKg)
		maxWaist = math.Max(maxWaist, e.WaistLossCm)
		maxAtt = math.Max(maxAtt, float64(e.AttendanceCount))
	}

	for _, e := range entries {
		e.Score = weightLossWeight*(e.WeightLossKg/maxWeight) +
			waistLossWeight*(e.WaistLossCm/maxWaist) +
			attendanceWeight*(float64(e.AttendanceCount)/maxAtt)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.WeightLossKg != b.WeightLossKg {
			return a.WeightLossKg > b.WeightLossKg
		}
		if a.WaistLossCm != b.WaistLossCm {
			return a.WaistLossCm > b.WaistLossCm
		}
		if a.AttendanceCount != b.AttendanceCount {
			return a.AttendanceCount > b.AttendanceCount
		}
		return a.Name < b.Name
	})

	for i, e := range entries {
		e.Rank = i + 1
	}

	return entries
}

// latestWeighIns picks each participant's weigh-in with the maximal date.
// Rows sharing that date are broken by CreatedAt, then by id, so the pick is
// deterministic regardless of input order.
func latestWeighIns(weighIns []*weighin.WeighIn) map[string]*weighin.WeighIn {
	latest := make(map[string]*weighin.WeighIn)
	for _, w := range weighIns {
		key := w.ParticipantID.String()
		cur, ok := latest[key]
		if !ok || newer(w, cur) {
			latest[key] = w
		}
	}
	return latest
}

func newer(a, b *weighin.WeighIn) bool {
	ad, bd := challenge.Day(a.Date), challenge.Day(b.Date)
	if !ad.Equal(bd) {
		return ad.After(bd)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

// loss clamps start-current to zero. A missing starting value or a weigh-in
// that skipped this measurement contributes no loss rather than a spurious
// negative.
func loss(start, current *float64) float64 {
	if start == nil || *start <= 0 || current == nil {
		return 0
	}
	return math.Max(0, *start-*current)
}
