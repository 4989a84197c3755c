package attendance

import (
	"database/sql"
	"time"
)

// scan target for DB rows
type recordRow struct {
	ID           string
	UserID       string
	Day          string // DATE → "YYYY-MM-DD"
	CheckInTime  time.Time
	CheckOutTime sql.NullTime
	Status       string
	TotalHours   sql.NullFloat64
	CreatedAt    time.Time
}

// Record is the Service ↔ Store model: one row per (user, calendar day).
// Absence is never materialized as a Record; it is derived by callers from
// scope size minus records found.
type Record struct {
	ID           string
	UserID       string
	Day          string
	CheckInTime  time.Time
	CheckOutTime *time.Time
	Status       string
	TotalHours   *float64
	CreatedAt    time.Time
}

func (r recordRow) toModel() Record {
	m := Record{
		ID:          r.ID,
		UserID:      r.UserID,
		Day:         r.Day,
		CheckInTime: r.CheckInTime.UTC(),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.UTC(),
	}
	if r.CheckOutTime.Valid {
		t := r.CheckOutTime.Time.UTC()
		m.CheckOutTime = &t
	}
	if r.TotalHours.Valid {
		h := r.TotalHours.Float64
		m.TotalHours = &h
	}
	return m
}

func (m Record) ToDTO() RecordResponse {
	return RecordResponse{
		RecordID:     m.ID,
		UserID:       m.UserID,
		Date:         m.Day,
		CheckInTime:  m.CheckInTime,
		CheckOutTime: m.CheckOutTime,
		Status:       m.Status,
		TotalHours:   m.TotalHours,
		CreatedAt:    m.CreatedAt,
	}
}
