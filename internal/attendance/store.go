package attendance

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const recordCols = `id, user_id, day, check_in_time, check_out_time, status, total_hours, created_at`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var r recordRow
	err := row.Scan(&r.ID, &r.UserID, &r.Day, &r.CheckInTime, &r.CheckOutTime, &r.Status, &r.TotalHours, &r.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return r.toModel(), nil
}

// Insert creates the day's record. UNIQUE(user_id, day) turns a concurrent
// duplicate check-in into an error the service maps to ALREADY_CHECKED_IN.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	const q = `
	INSERT INTO attendance_records (id, user_id, day, check_in_time, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, rec.ID, rec.UserID, rec.Day, rec.CheckInTime, rec.Status, rec.CreatedAt)
	return err
}

// GetByUserAndDay returns (nil, nil) when the user has no record for day.
func (s *Store) GetByUserAndDay(ctx context.Context, userID, day string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+recordCols+` FROM attendance_records
	WHERE user_id = ? AND day = ? LIMIT 1`, userID, day)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+recordCols+` FROM attendance_records
	WHERE id = ? LIMIT 1`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Complete sets the checkout fields in one statement; single-row atomicity
// is all the store guarantees.
func (s *Store) Complete(ctx context.Context, id string, checkOut time.Time, hours float64, status string) error {
	const q = `
	UPDATE attendance_records
	SET check_out_time = ?, total_hours = ?, status = ?
	WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, checkOut, hours, status, id)
	return err
}

// ListByUser returns the user's full history, newest day first. Rows sharing
// a day come back in store order; no secondary sort key is applied.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+recordCols+` FROM attendance_records
	WHERE user_id = ?
	ORDER BY day DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *Store) ListRecentByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+recordCols+` FROM attendance_records
	WHERE user_id = ?
	ORDER BY day DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListByUserRange returns records with from <= day < to.
func (s *Store) ListByUserRange(ctx context.Context, userID, from, to string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+recordCols+` FROM attendance_records
	WHERE user_id = ? AND day >= ? AND day < ?
	ORDER BY day DESC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
