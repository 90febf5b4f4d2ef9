package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationWeighInRecorded  NotificationType = "weigh_in_recorded"
	NotificationAttendanceMarked NotificationType = "attendance_marked"
	NotificationChallengeUpdate  NotificationType = "challenge_update"
)

type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	ParticipantID uuid.UUID        `json:"participant_id" db:"participant_id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Body          string           `json:"body" db:"body"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	Token    string `json:"token" db:"token"`
	Platform string `json:"platform" db:"platform"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
