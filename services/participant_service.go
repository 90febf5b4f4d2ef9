package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/participant"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantService struct {
	db *pgxpool.Pool
}

func NewParticipantService(db *pgxpool.Pool) *ParticipantService {
	return &ParticipantService{db: db}
}

// Register creates the caller's participant row. One row per Clerk user.
func (s *ParticipantService) Register(ctx context.Context, clerkID, email string, req *participant.RegisterRequest) (*participant.Participant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	p := &participant.Participant{
		ID:            uuid.New(),
		ClerkID:       clerkID,
		Name:          name,
		Email:         email,
		StartWeightKg: req.StartWeightKg,
		StartWaistCm:  req.StartWaistCm,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	query := `
	INSERT INTO participants (id, clerk_id, name, email, start_weight_kg, start_waist_cm, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (clerk_id) DO NOTHING
	RETURNING id, clerk_id, name, email, start_weight_kg, start_waist_cm, photo_url, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		p.ID,
		p.ClerkID,
		p.Name,
		p.Email,
		p.StartWeightKg,
		p.StartWaistCm,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(
		&p.ID,
		&p.ClerkID,
		&p.Name,
		&p.Email,
		&p.StartWeightKg,
		&p.StartWaistCm,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("already registered for the challenge")
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}

	return p, nil
}

func (s *ParticipantService) GetByClerkID(ctx context.Context, clerkID string) (*participant.Participant, error) {
	query := `
	SELECT id, clerk_id, name, email, start_weight_kg, start_waist_cm, photo_url, created_at, updated_at
	FROM participants
	WHERE clerk_id = $1
	`

	p := &participant.Participant{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&p.ID,
		&p.ClerkID,
		&p.Name,
		&p.Email,
		&p.StartWeightKg,
		&p.StartWaistCm,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return p, nil
}

// List returns the full cohort, ordered by name the way the roster page shows it.
func (s *ParticipantService) List(ctx context.Context) ([]*participant.Participant, error) {
	query := `
	SELECT id, clerk_id, name, email, start_weight_kg, start_waist_cm, photo_url, created_at, updated_at
	FROM participants
	ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var parts []*participant.Participant
	for rows.Next() {
		p := &participant.Participant{}
		err := rows.Scan(
			&p.ID,
			&p.ClerkID,
			&p.Name,
			&p.Email,
			&p.StartWeightKg,
			&p.StartWaistCm,
			&p.PhotoURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		parts = append(parts, p)
	}

	return parts, nil
}

// Roster returns id and name only, for the public participants page.
func (s *ParticipantService) Roster(ctx context.Context) ([]*participant.RosterEntry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM participants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var roster []*participant.RosterEntry
	for rows.Next() {
		e := &participant.RosterEntry{}
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		roster = append(roster, e)
	}

	return roster, nil
}

func (s *ParticipantService) UpdateByClerkID(ctx context.Context, clerkID string, req *participant.UpdateProfileRequest) (*participant.Participant, error) {
	query := `
	UPDATE participants
	SET name = COALESCE($2, name),
	    start_weight_kg = COALESCE($3, start_weight_kg),
	    start_waist_cm = COALESCE($4, start_waist_cm),
	    updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, name, email, start_weight_kg, start_waist_cm, photo_url, created_at, updated_at
	`

	p := &participant.Participant{}
	err := s.db.QueryRow(ctx, query, clerkID, req.Name, req.StartWeightKg, req.StartWaistCm).Scan(
		&p.ID,
		&p.ClerkID,
		&p.Name,
		&p.Email,
		&p.StartWeightKg,
		&p.StartWaistCm,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	return p, nil
}

func (s *ParticipantService) UpdateEmailByClerkID(ctx context.Context, clerkID, email string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE participants SET email = $2, updated_at = NOW() WHERE clerk_id = $1`,
		clerkID, email)
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	return nil
}

func (s *ParticipantService) SetPhotoURL(ctx context.Context, clerkID, url string) error {
	result, err := s.db.Exec(ctx,
		`UPDATE participants SET photo_url = $2, updated_at = NOW() WHERE clerk_id = $1`,
		clerkID, url)
	if err != nil {
		return fmt.Errorf("failed to set photo url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// Delete removes a participant and their weigh-ins, attendance, notifications
// and device tokens in one transaction.
func (s *ParticipantService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"weigh_ins", "attendance", "notifications", "device_tokens"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE participant_id = $1`, table), id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}

	return tx.Commit(ctx)
}

func (s *ParticipantService) DeleteByClerkID(ctx context.Context, clerkID string) error {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM participants WHERE clerk_id = $1`, clerkID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Clerk user never registered; nothing to clean up.
			return nil
		}
		return fmt.Errorf("failed to find participant: %w", err)
	}
	return s.Delete(ctx, id)
}

// IsAdmin reports whether this Clerk user is in the admins table. Satisfies
// middleware.AdminChecker.
func (s *ParticipantService) IsAdmin(ctx context.Context, clerkID string) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE clerk_id = $1)`, clerkID).Scan(&isAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check admin status: %w", err)
	}
	return isAdmin, nil
}
