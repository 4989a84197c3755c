package reports

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"time"

	"ATS-backend/internal/attendance"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const teamCols = `
	r.id, r.user_id, r.day, r.check_in_time, r.check_out_time, r.status, r.total_hours, r.created_at,
	u.employee_id, u.name, u.email, u.department`

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// ListByUsersAndDay returns the bare records of the given users on one day.
func (s *Store) ListByUsersAndDay(ctx context.Context, userIDs []string, day string) ([]attendance.Record, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := `
	SELECT id, user_id, day, check_in_time, check_out_time, status, total_hours, created_at
	FROM attendance_records
	WHERE day = ? AND user_id IN (` + placeholders(len(userIDs)) + `)`
	args := append([]any{day}, idArgs(userIDs)...)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListByUsersRange returns records with from <= day < to for the given users.
func (s *Store) ListByUsersRange(ctx context.Context, userIDs []string, from, to string) ([]attendance.Record, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := `
	SELECT id, user_id, day, check_in_time, check_out_time, status, total_hours, created_at
	FROM attendance_records
	WHERE day >= ? AND day < ? AND user_id IN (` + placeholders(len(userIDs)) + `)`
	args := append([]any{from, to}, idArgs(userIDs)...)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// RecentTeam returns the newest limit records of the given users joined
// with their profiles, date descending.
func (s *Store) RecentTeam(ctx context.Context, userIDs []string, limit int) ([]TeamRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := `
	SELECT ` + teamCols + `
	FROM attendance_records r
	JOIN users u ON u.id = r.user_id
	WHERE r.user_id IN (` + placeholders(len(userIDs)) + `)
	ORDER BY r.day DESC LIMIT ?`
	args := append(idArgs(userIDs), limit)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectTeamRecords(rows)
}

// TeamRecordsRange returns joined records with from <= day < to.
func (s *Store) TeamRecordsRange(ctx context.Context, userIDs []string, from, to string) ([]TeamRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := `
	SELECT ` + teamCols + `
	FROM attendance_records r
	JOIN users u ON u.id = r.user_id
	WHERE r.day >= ? AND r.day < ? AND r.user_id IN (` + placeholders(len(userIDs)) + `)`
	args := append([]any{from, to}, idArgs(userIDs)...)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectTeamRecords(rows)
}

// ListFiltered applies the optional filters on top of the caller's scope:
// dynamic WHERE, date descending, same-date order left to the store.
func (s *Store) ListFiltered(ctx context.Context, userIDs []string, f Filters) ([]TeamRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)
	buf.WriteString(`
	SELECT ` + teamCols + `
	FROM attendance_records r
	JOIN users u ON u.id = r.user_id
	`)

	wheres = append(wheres, "r.user_id IN ("+placeholders(len(userIDs))+")")
	args = append(args, idArgs(userIDs)...)

	if f.Employee != "" {
		wheres = append(wheres, "(u.name LIKE ? OR u.employee_id LIKE ?)")
		needle := "%" + f.Employee + "%"
		args = append(args, needle, needle)
	}
	if f.Department != "" {
		wheres = append(wheres, "u.department LIKE ?")
		args = append(args, "%"+f.Department+"%")
	}
	if f.StartDate != "" {
		wheres = append(wheres, "r.day >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		wheres = append(wheres, "r.day <= ?")
		args = append(args, f.EndDate)
	}
	if f.Status != "" {
		wheres = append(wheres, "r.status = ?")
		args = append(args, f.Status)
	}

	buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	buf.WriteString(" ORDER BY r.day DESC")

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, err
	}
	return collectTeamRecords(rows)
}

// RecordPatch is the storage side of the administrative edit; only non-nil
// fields are written.
type RecordPatch struct {
	Day          *string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       *string
	TotalHours   *float64
}

func (s *Store) Update(ctx context.Context, recordID string, p RecordPatch) error {
	var (
		buf  bytes.Buffer
		sets []string
		args []any
	)
	buf.WriteString("UPDATE attendance_records SET ")
	if p.Day != nil {
		sets = append(sets, "day = ?")
		args = append(args, *p.Day)
	}
	if p.CheckInTime != nil {
		sets = append(sets, "check_in_time = ?")
		args = append(args, *p.CheckInTime)
	}
	if p.CheckOutTime != nil {
		sets = append(sets, "check_out_time = ?")
		args = append(args, *p.CheckOutTime)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.TotalHours != nil {
		sets = append(sets, "total_hours = ?")
		args = append(args, *p.TotalHours)
	}
	if len(sets) == 0 {
		return nil
	}
	buf.WriteString(strings.Join(sets, ", "))
	buf.WriteString(" WHERE id = ?")
	args = append(args, recordID)

	_, err := s.db.ExecContext(ctx, buf.String(), args...)
	return err
}

func collectRecords(rows *sql.Rows) ([]attendance.Record, error) {
	defer rows.Close()
	var out []attendance.Record
	for rows.Next() {
		var (
			rec      attendance.Record
			checkOut sql.NullTime
			hours    sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Day, &rec.CheckInTime, &checkOut, &rec.Status, &hours, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if checkOut.Valid {
			t := checkOut.Time.UTC()
			rec.CheckOutTime = &t
		}
		if hours.Valid {
			h := hours.Float64
			rec.TotalHours = &h
		}
		rec.CheckInTime = rec.CheckInTime.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func collectTeamRecords(rows *sql.Rows) ([]TeamRecord, error) {
	defer rows.Close()
	var out []TeamRecord
	for rows.Next() {
		var (
			tr       TeamRecord
			checkOut sql.NullTime
			hours    sql.NullFloat64
		)
		if err := rows.Scan(
			&tr.ID, &tr.UserID, &tr.Day, &tr.CheckInTime, &checkOut, &tr.Status, &hours, &tr.CreatedAt,
			&tr.EmployeeID, &tr.Name, &tr.Email, &tr.Department,
		); err != nil {
			return nil, err
		}
		if checkOut.Valid {
			t := checkOut.Time.UTC()
			tr.CheckOutTime = &t
		}
		if hours.Valid {
			h := hours.Float64
			tr.TotalHours = &h
		}
		tr.CheckInTime = tr.CheckInTime.UTC()
		out = append(out, tr)
	}
	return out, rows.Err()
}
