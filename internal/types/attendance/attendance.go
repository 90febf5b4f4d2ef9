package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	Date          time.Time `json:"date" db:"att_date"`
	MarkedBy      string    `json:"marked_by" db:"marked_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type MarkRequest struct {
	Date           string      `json:"date"` // YYYY-MM-DD
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

type MarkResponse struct {
	Date  string `json:"date"`
	Saved int    `json:"saved"`
}

// RosterRow is one participant with their present flag for a given date.
type RosterRow struct {
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	Name          string    `json:"name" db:"name"`
	Present       bool      `json:"present" db:"present"`
}
