package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/weighin"
)

type WeighInService struct {
	db     *pgxpool.Pool
	window challenge.Window
}

func NewWeighInService(db *pgxpool.Pool, window challenge.Window) *WeighInService {
	return &WeighInService{db: db, window: window}
}

// Record upserts one weigh-in. A second entry for the same participant and
// date replaces the first; the scale gets re-read, not appended.
func (s *WeighInService) Record(ctx context.Context, participantID uuid.UUID, date time.Time, weightKg, waistCm *float64, recordedBy string) (*weighin.WeighIn, error) {
	if !s.window.Contains(date) {
		return nil, fmt.Errorf("date %s is outside the challenge period", date.Format("2006-01-02"))
	}
	if !challenge.IsWeighInDay(date.Weekday()) {
		return nil, fmt.Errorf("weigh-ins happen on Mondays and Fridays only")
	}
	if weightKg == nil && waistCm == nil {
		return nil, fmt.Errorf("at least one of weight or waist is required")
	}

	query := `
	INSERT INTO weigh_ins (id, participant_id, weigh_date, weight_kg, waist_cm, recorded_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (participant_id, weigh_date)
	DO UPDATE SET
		weight_kg = $4,
		waist_cm = $5,
		recorded_by = $6,
		created_at = NOW()
	RETURNING id, participant_id, weigh_date, weight_kg, waist_cm, recorded_by, created_at
	`

	w := &weighin.WeighIn{}
	err := s.db.QueryRow(ctx, query,
		uuid.New(), participantID, challenge.Day(date), weightKg, waistCm, recordedBy,
	).Scan(&w.ID, &w.ParticipantID, &w.Date, &w.WeightKg, &w.WaistCm, &w.RecordedBy, &w.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to record weigh-in: %w", err)
	}

	return w, nil
}

// History returns one participant's weigh-ins, newest first.
func (s *WeighInService) History(ctx context.Context, participantID uuid.UUID) ([]*weighin.WeighIn, error) {
	query := `
	SELECT id, participant_id, weigh_date, weight_kg, waist_cm, recorded_by, created_at
	FROM weigh_ins
	WHERE participant_id = $1
	ORDER BY weigh_date DESC
	`

	rows, err := s.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weigh-in history: %w", err)
	}
	defer rows.Close()

	var history []*weighin.WeighIn
	for rows.Next() {
		w := &weighin.WeighIn{}
		if err := rows.Scan(&w.ID, &w.ParticipantID, &w.Date, &w.WeightKg, &w.WaistCm, &w.RecordedBy, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weigh-in: %w", err)
		}
		history = append(history, w)
	}

	return history, nil
}

// All returns every weigh-in for scoring, arbitrary order.
func (s *WeighInService) All(ctx context.Context) ([]*weighin.WeighIn, error) {
	query := `
	SELECT id, participant_id, weigh_date, weight_kg, waist_cm, recorded_by, created_at
	FROM weigh_ins
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weigh-ins: %w", err)
	}
	defer rows.Close()

	var all []*weighin.WeighIn
	for rows.Next() {
		w := &weighin.WeighIn{}
		if err := rows.Scan(&w.ID, &w.ParticipantID, &w.Date, &w.WeightKg, &w.WaistCm, &w.RecordedBy, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weigh-in: %w", err)
		}
		all = append(all, w)
	}

	return all, nil
}
