package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
	"github.com/bigeaze08-web/candy-group-app-v3/internal/types/attendance"
)

type AttendanceService struct {
	db     *pgxpool.Pool
	window challenge.Window
}

func NewAttendanceService(db *pgxpool.Pool, window challenge.Window) *AttendanceService {
	return &AttendanceService{db: db, window: window}
}

// Mark records the given participants present on date. Already-present rows
// are left untouched. Returns how many new rows were saved, matching what the
// admin screen reports back.
func (s *AttendanceService) Mark(ctx context.Context, date time.Time, ids []uuid.UUID, markedBy string) (int, error) {
	if !s.window.Contains(date) {
		return 0, fmt.Errorf("date %s is outside the challenge period", date.Format("2006-01-02"))
	}
	if !challenge.IsSessionDay(date.Weekday()) {
		return 0, fmt.Errorf("attendance is only taken Monday through Friday")
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("no participants marked present")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
	INSERT INTO attendance (id, participant_id, att_date, marked_by, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (participant_id, att_date) DO NOTHING
	`

	saved := 0
	for _, id := range ids {
		result, err := tx.Exec(ctx, query, uuid.New(), id, challenge.Day(date), markedBy)
		if err != nil {
			return 0, fmt.Errorf("failed to mark attendance for %s: %w", id, err)
		}
		saved += int(result.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit attendance: %w", err)
	}

	return saved, nil
}

// Roster lists every participant with their present flag for one date.
func (s *AttendanceService) Roster(ctx context.Context, date time.Time) ([]*attendance.RosterRow, error) {
	query := `
	SELECT
		p.id AS participant_id,
		p.name,
		(a.id IS NOT NULL) AS present
	FROM participants p
	LEFT JOIN attendance a
		ON a.participant_id = p.id
		AND a.att_date = $1
	ORDER BY p.name
	`

	rows, err := s.db.Query(ctx, query, challenge.Day(date))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance roster: %w", err)
	}
	defer rows.Close()

	var roster []*attendance.RosterRow
	for rows.Next() {
		row := &attendance.RosterRow{}
		if err := rows.Scan(&row.ParticipantID, &row.Name, &row.Present); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		roster = append(roster, row)
	}

	return roster, nil
}

// InWindow returns every attendance record inside the challenge period, for
// scoring.
func (s *AttendanceService) InWindow(ctx context.Context) ([]*attendance.Record, error) {
	query := `
	SELECT id, participant_id, att_date, marked_by, created_at
	FROM attendance
	WHERE att_date BETWEEN $1 AND $2
	`

	rows, err := s.db.Query(ctx, query, challenge.Day(s.window.Start), challenge.Day(s.window.End))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	defer rows.Close()

	var records []*attendance.Record
	for rows.Next() {
		r := &attendance.Record{}
		if err := rows.Scan(&r.ID, &r.ParticipantID, &r.Date, &r.MarkedBy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}

	return records, nil
}

// CountInWindow is one participant's attendance count for the profile page.
func (s *AttendanceService) CountInWindow(ctx context.Context, participantID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance WHERE participant_id = $1 AND att_date BETWEEN $2 AND $3`,
		participantID, challenge.Day(s.window.Start), challenge.Day(s.window.End)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}
