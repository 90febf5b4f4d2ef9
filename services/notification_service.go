package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/notification"
)

type NotificationService struct {
	db         *pgxpool.Pool
	dispatcher *NotificationDispatcher
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	service := &NotificationService{db: db}
	service.dispatcher = NewNotificationDispatcher(service)
	return service
}

// SetPushProvider injects the real FCM provider from main.go. Without one,
// notifications are stored but not pushed.
func (s *NotificationService) SetPushProvider(provider PushNotificationProvider) {
	s.dispatcher.SetPushProvider(provider)
}

// Notify stores one notification per participant and queues the pushes.
func (s *NotificationService) Notify(ctx context.Context, participantIDs []uuid.UUID, typ notification.NotificationType, title, body string) error {
	query := `
	INSERT INTO notifications (id, participant_id, type, title, body, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, false, NOW())
	RETURNING id, participant_id, type, title, body, is_read, created_at
	`

	for _, pid := range participantIDs {
		n := &notification.Notification{}
		err := s.db.QueryRow(ctx, query, uuid.New(), pid, typ, title, body).Scan(
			&n.ID, &n.ParticipantID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		s.dispatcher.Enqueue(n)
	}

	return nil
}

// List returns a participant's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, clerkID string, limit int) ([]*notification.Notification, error) {
	pid, err := s.participantID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
	SELECT id, participant_id, type, title, body, is_read, created_at
	FROM notifications
	WHERE participant_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, pid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var list []*notification.Notification
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.ParticipantID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, n)
	}

	return list, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, clerkID string) error {
	pid, err := s.participantID(ctx, clerkID)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND participant_id = $2`,
		id, pid)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

// RegisterDevice upserts a push token for the caller.
func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID, token, platform string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	pid, err := s.participantID(ctx, clerkID)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO device_tokens (participant_id, token, platform, created_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token)
	DO UPDATE SET participant_id = $1, platform = $3
	`

	if _, err := s.db.Exec(ctx, query, pid, token, platform); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, participantID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx,
		`SELECT token, platform FROM device_tokens WHERE participant_id = $1`, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}

	return tokens, nil
}

func (s *NotificationService) participantID(ctx context.Context, clerkID string) (uuid.UUID, error) {
	var pid uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM participants WHERE clerk_id = $1`, clerkID).Scan(&pid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrParticipantNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return pid, nil
}
