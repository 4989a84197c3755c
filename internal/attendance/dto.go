package attendance

import "time"

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half-day"

	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	TodayNotCheckedIn = "not_checked_in"
	TodayCheckedIn    = "checked_in"
	TodayDayComplete  = "day_complete"
)

// ValidStatus reports whether s is one of the four status enum values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Rules are the policy thresholds for status derivation. LateCutoff is the
// wall-clock offset from local midnight after which a check-in is late.
type Rules struct {
	LateCutoff   time.Duration
	HalfDayHours float64
	FullDayHours float64
	Loc          *time.Location
}

func DefaultRules() Rules {
	return Rules{
		LateCutoff:   9*time.Hour + 30*time.Minute,
		HalfDayHours: 4,
		FullDayHours: 8,
		Loc:          time.UTC,
	}
}

// ParseCutoff parses a "HH:MM" wall-clock string into an offset from midnight.
func ParseCutoff(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

type RecordResponse struct {
	RecordID     string     `json:"record_id"`
	UserID       string     `json:"user_id"`
	Date         string     `json:"date"` // YYYY-MM-DD
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       string     `json:"status"`
	TotalHours   *float64   `json:"total_hours,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CheckOutResponse struct {
	TotalHours float64 `json:"total_hours"`
	Status     string  `json:"status"`
}

type SummaryResponse struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	HalfDay int `json:"half-day"`
}

type TodayStatusResponse struct {
	Status string          `json:"status"` // not_checked_in | checked_in | day_complete
	Record *RecordResponse `json:"record,omitempty"`
}
