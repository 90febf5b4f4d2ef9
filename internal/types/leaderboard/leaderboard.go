package leaderboard

import "github.com/google/uuid"

type Entry struct {
	Rank            int       `json:"rank"`
	ParticipantID   uuid.UUID `json:"participant_id"`
	Name            string    `json:"name"`
	WeightLossKg    float64   `json:"weight_loss_kg"`
	WaistLossCm     float64   `json:"waist_loss_cm"`
	AttendanceCount int       `json:"attendance_count"`
	Score           float64   `json:"score"`
}

type Leaderboard struct {
	Entries           []*Entry `json:"entries"`
	TotalParticipants int      `json:"total_participants"`
}
