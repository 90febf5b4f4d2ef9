package weighin

import (
	"time"

	"github.com/google/uuid"
)

type WeighIn struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	Date          time.Time `json:"date" db:"weigh_date"`
	WeightKg      *float64  `json:"weight_kg" db:"weight_kg"`
	WaistCm       *float64  `json:"waist_cm" db:"waist_cm"`
	RecordedBy    string    `json:"recorded_by" db:"recorded_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type RecordRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Date          string    `json:"date"` // YYYY-MM-DD
	WeightKg      *float64  `json:"weight_kg"`
	WaistCm       *float64  `json:"waist_cm"`
}
