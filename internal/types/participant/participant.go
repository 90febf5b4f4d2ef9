package participant

import (
	"time"

	"github.com/google/uuid"
)

type Participant struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ClerkID       string    `json:"clerk_id" db:"clerk_id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	StartWeightKg *float64  `json:"start_weight_kg" db:"start_weight_kg"`
	StartWaistCm  *float64  `json:"start_waist_cm" db:"start_waist_cm"`
	PhotoURL      *string   `json:"photo_url" db:"photo_url"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type RegisterRequest struct {
	Name          string   `json:"name"`
	StartWeightKg *float64 `json:"start_weight_kg"`
	StartWaistCm  *float64 `json:"start_waist_cm"`
}

type UpdateProfileRequest struct {
	Name          *string  `json:"name"`
	StartWeightKg *float64 `json:"start_weight_kg"`
	StartWaistCm  *float64 `json:"start_waist_cm"`
}

// RosterEntry is the public participant listing, id and name only.
type RosterEntry struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}
