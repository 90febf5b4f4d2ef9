package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/attendance"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/participant"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/weighin"
)

func fptr(v float64) *float64 { return &v }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newParticipant(name string, startWeight, startWaist *float64) *participant.Participant {
	return &participant.Participant{
		ID:            uuid.New(),
		Name:          name,
		StartWeightKg: startWeight,
		StartWaistCm:  startWaist,
	}
}

func weighInOn(p *participant.Participant, date string, weight, waist *float64) *weighin.WeighIn {
	return &weighin.WeighIn{
		ID:            uuid.New(),
		ParticipantID: p.ID,
		Date:          day(date),
		WeightKg:      weight,
		WaistCm:       waist,
		CreatedAt:     day(date),
	}
}

func attended(p *participant.Participant, dates ...string) []*attendance.Record {
	var records []*attendance.Record
	for _, d := range dates {
		records = append(records, &attendance.Record{
			ID:            uuid.New(),
			ParticipantID: p.ID,
			Date:          day(d),
		})
	}
	return records
}

func attendedN(p *participant.Participant, n int) []*attendance.Record {
	var records []*attendance.Record
	d := challenge.WindowStart
	for i := 0; i < n; i++ {
		for !challenge.IsSessionDay(d.Weekday()) {
			d = d.AddDate(0, 0, 1)
		}
		records = append(records, &attendance.Record{
			ID:            uuid.New(),
			ParticipantID: p.ID,
			Date:          d,
		})
		d = d.AddDate(0, 0, 1)
	}
	return records
}

func TestRankEmptyCohort(t *testing.T) {
	entries := Rank(nil, nil, nil, challenge.CurrentWindow())

	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRankTwoParticipantScenario(t *testing.T) {
	// A: 100kg -> 90kg, 5 sessions. B: 80kg -> 78kg, 10 sessions. No waist data.
	a := newParticipant("Alice", fptr(100), nil)
	b := newParticipant("Bob", fptr(80), nil)

	weighIns := []*weighin.WeighIn{
		weighInOn(a, "2025-10-17", fptr(95), nil),
		weighInOn(a, "2025-11-07", fptr(90), nil),
		weighInOn(b, "2025-11-07", fptr(78), nil),
	}

	records := append(attendedN(a, 5), attendedN(b, 10)...)

	entries := Rank([]*participant.Participant{a, b}, weighIns, records, challenge.CurrentWindow())
	require.Len(t, entries, 2)

	first, second := entries[0], entries[1]
	assert.Equal(t, "Alice", first.Name)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 10.0, first.WeightLossKg)
	assert.Equal(t, 5, first.AttendanceCount)
	assert.InDelta(t, 0.75, first.Score, 1e-9)

	assert.Equal(t, "Bob", second.Name)
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, 2.0, second.WeightLossKg)
	assert.Equal(t, 10, second.AttendanceCount)
	assert.InDelta(t, 0.24, second.Score, 1e-9)
}

func TestRankNoWeighInMeansZeroLoss(t *testing.T) {
	p := newParticipant("Cara", fptr(90), fptr(80))

	entries := Rank([]*participant.Participant{p}, nil, nil, challenge.CurrentWindow())
	require.Len(t, entries, 1)

	assert.Zero(t, entries[0].WeightLossKg)
	assert.Zero(t, entries[0].WaistLossCm)
	assert.Zero(t, entries[0].AttendanceCount)
	assert.Zero(t, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestRankClampsNegativeLoss(t *testing.T) {
	// Gained weight since the start: loss clamps to zero, never negative.
	p := newParticipant("Dan", fptr(85), fptr(90))
	weighIns := []*weighin.WeighIn{
		weighInOn(p, "2025-10-20", fptr(88), fptr(95)),
	}

	entries := Rank([]*participant.Participant{p}, weighIns, nil, challenge.CurrentWindow())
	require.Len(t, entries, 1)

	assert.Zero(t, entries[0].WeightLossKg)
	assert.Zero(t, entries[0].WaistLossCm)
}

func TestRankMissingStartValues(t *testing.T) {
	// No starting measurements at all: measurements on file contribute nothing.
	p := newParticipant("Eve", nil, nil)
	weighIns := []*weighin.WeighIn{
		weighInOn(p, "2025-10-20", fptr(75), fptr(70)),
	}

	entries := Rank([]*participant.Participant{p}, weighIns, nil, challenge.CurrentWindow())
	require.Len(t, entries, 1)

	assert.Zero(t, entries[0].WeightLossKg)
	assert.Zero(t, entries[0].WaistLossCm)
	assert.Zero(t, entries[0].Score)
}

func TestRankLatestWeighInWins(t *testing.T) {
	p := newParticipant("Finn", fptr(100), nil)
	weighIns := []*weighin.WeighIn{
		weighInOn(p, "2025-11-14", fptr(92), nil),
		weighInOn(p, "2025-10-17", fptr(85), nil), // older but bigger drop
	}

	entries := Rank([]*participant.Participant{p}, weighIns, nil, challenge.CurrentWindow())
	require.Len(t, entries, 1)

	assert.Equal(t, 8.0, entries[0].WeightLossKg)
}

func TestRankSameDateTieBreaksOnCreatedAt(t *testing.T) {
	p := newParticipant("Gail", fptr(100), nil)

	earlier := weighInOn(p, "2025-11-14", fptr(95), nil)
	earlier.CreatedAt = day("2025-11-14").Add(9 * time.Hour)
	later := weighInOn(p, "2025-11-14", fptr(93), nil)
	later.CreatedAt = day("2025-11-14").Add(17 * time.Hour)

	// Input order must not matter.
	for _, ins := range [][]*weighin.WeighIn{{earlier, later}, {later, earlier}} {
		entries := Rank([]*participant.Participant{p}, ins, nil, challenge.CurrentWindow())
		require.Len(t, entries, 1)
		assert.Equal(t, 7.0, entries[0].WeightLossKg)
	}
}

func TestRankIgnoresAttendanceOutsideWindow(t *testing.T) {
	p := newParticipant("Hana", nil, nil)

	records := attended(p,
		"2025-10-10", // before the window
		"2025-10-13",
		"2025-12-05",
		"2025-12-08", // after the window
	)

	entries := Rank([]*participant.Participant{p}, nil, records, challenge.CurrentWindow())
	require.Len(t, entries, 1)

	assert.Equal(t, 2, entries[0].AttendanceCount)
}

func TestRankSingleParticipantWithProgressScoresOne(t *testing.T) {
	p := newParticipant("Ivy", fptr(100), fptr(90))
	weighIns := []*weighin.WeighIn{
		weighInOn(p, "2025-11-03", fptr(95), fptr(85)),
	}
	records := attendedN(p, 3)

	entries := Rank([]*participant.Participant{p}, weighIns, records, challenge.CurrentWindow())
	require.Len(t, entries, 1)

	// Own the maximum of every metric, so every normalized term is 1.
	assert.InDelta(t, 1.0, entries[0].Score, 1e-9)
}

func TestRankNormalizedMetricsBounded(t *testing.T) {
	a := newParticipant("Ana", fptr(120), fptr(100))
	b := newParticipant("Ben", fptr(95), fptr(88))
	c := newParticipant("Cal", nil, nil)

	weighIns := []*weighin.WeighIn{
		weighInOn(a, "2025-11-21", fptr(110), fptr(92)),
		weighInOn(b, "2025-11-21", fptr(91), fptr(86)),
	}
	records := append(attendedN(a, 12), attendedN(b, 7)...)

	entries := Rank([]*participant.Participant{a, b, c}, weighIns, records, challenge.CurrentWindow())
	require.Len(t, entries, 3)

	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Score, 0.0)
		assert.LessOrEqual(t, e.Score, 1.0)
		assert.GreaterOrEqual(t, e.WeightLossKg, 0.0)
		assert.GreaterOrEqual(t, e.WaistLossCm, 0.0)
	}

	// A leads every metric, so A scores exactly 1 and ranks first.
	assert.Equal(t, "Ana", entries[0].Name)
	assert.InDelta(t, 1.0, entries[0].Score, 1e-9)
}

func TestRankTieBreaksOnNameAscending(t *testing.T) {
	// Identical (zero) metrics across the board: name decides the order.
	zoe := newParticipant("Zoe", nil, nil)
	amy := newParticipant("Amy", nil, nil)
	mia := newParticipant("Mia", nil, nil)

	entries := Rank([]*participant.Participant{zoe, amy, mia}, nil, nil, challenge.CurrentWindow())
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"Amy", "Mia", "Zoe"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestRankAttendanceBreaksEqualLosses(t *testing.T) {
	// Same losses, different attendance: more sessions ranks higher.
	a := newParticipant("Noa", fptr(100), nil)
	b := newParticipant("Ola", fptr(100), nil)

	weighIns := []*weighin.WeighIn{
		weighInOn(a, "2025-11-07", fptr(95), nil),
		weighInOn(b, "2025-11-07", fptr(95), nil),
	}
	records := append(attendedN(a, 8), attendedN(b, 3)...)

	entries := Rank([]*participant.Participant{a, b}, weighIns, records, challenge.CurrentWindow())
	require.Len(t, entries, 2)

	assert.Equal(t, "Noa", entries[0].Name)
	assert.Equal(t, "Ola", entries[1].Name)
}
