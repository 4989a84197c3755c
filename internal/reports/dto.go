package reports

import (
	"time"

	"ATS-backend/internal/attendance"
)

// Filters narrow a manager listing/export. The department scope of the
// caller is always applied before any of these.
type Filters struct {
	Employee   string // name or employee-id substring
	Department string // department substring
	StartDate  string // YYYY-MM-DD, inclusive
	EndDate    string // YYYY-MM-DD, inclusive
	Status     string
}

// TeamRecord is a record joined with its owner's profile.
type TeamRecord struct {
	attendance.Record
	EmployeeID string
	Name       string
	Email      string
	Department string
}

type TeamRecordResponse struct {
	RecordID     string     `json:"record_id"`
	EmployeeID   string     `json:"employee_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Department   string     `json:"department,omitempty"`
	Date         string     `json:"date"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       string     `json:"status"`
	TotalHours   *float64   `json:"total_hours,omitempty"`
}

func (r TeamRecord) toDTO() TeamRecordResponse {
	return TeamRecordResponse{
		RecordID:     r.ID,
		EmployeeID:   r.EmployeeID,
		Name:         r.Name,
		Email:        r.Email,
		Department:   r.Department,
		Date:         r.Day,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Status:       r.Status,
		TotalHours:   r.TotalHours,
	}
}

type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	HalfDay int `json:"half-day"`
}

type DepartmentStat struct {
	Department   string `json:"department"`
	Total        int    `json:"total"`
	PresentToday int    `json:"present_today"`
	AbsentToday  int    `json:"absent_today"`
}

type TrendDay struct {
	Date     string `json:"date"` // YYYY-MM-DD
	DayLabel string `json:"day_label"`
	Present  int    `json:"present"`
	Late     int    `json:"late"`
	HalfDay  int    `json:"half_day"`
	Absent   int    `json:"absent"`
	Total    int    `json:"total"`
}

type CalendarEntry struct {
	Name       string     `json:"name"`
	EmployeeID string     `json:"employee_id"`
	Department string     `json:"department,omitempty"`
	Status     string     `json:"status"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	TotalHours *float64   `json:"total_hours,omitempty"`
}

type CalendarDay struct {
	Present int             `json:"present"`
	Late    int             `json:"late"`
	Absent  int             `json:"absent"`
	HalfDay int             `json:"half-day"`
	Records []CalendarEntry `json:"records"`
}

type CalendarResponse struct {
	Calendar       map[string]*CalendarDay `json:"calendar"`
	TotalEmployees int                     `json:"total_employees"`
}

type EmployeeDashboard struct {
	TodayStatus      string                      `json:"today_status"`
	MonthlyPresent   int                         `json:"monthly_present"`
	MonthlyAbsent    int                         `json:"monthly_absent"`
	MonthlyLate      int                         `json:"monthly_late"`
	TotalHours       float64                     `json:"total_hours"`
	RecentAttendance []attendance.RecordResponse `json:"recent_attendance"`
}

type AbsentEmployee struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email"`
}

type ManagerDashboard struct {
	TotalEmployees  int     `json:"total_employees"`
	CheckedInToday  int     `json:"checked_in_today"`
	LateToday       int     `json:"late_today"`
	AbsentToday     int     `json:"absent_today"`
	MonthPresent    int     `json:"month_present"`
	MonthLate       int     `json:"month_late"`
	MonthAbsent     int     `json:"month_absent"`
	MonthHalfDay    int     `json:"month_half_day"`
	MonthTotalHours float64 `json:"month_total_hours"`

	DepartmentStats []DepartmentStat     `json:"department_stats"`
	RecentTeam      []TeamRecordResponse `json:"recent_team"`
	WeeklyTrend     []TrendDay           `json:"weekly_trend"`
	AbsentEmployees []AbsentEmployee     `json:"absent_employees"`
}

type EmployeeSummary struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department,omitempty"`
}

// UpdateRecordRequest is the administrative patch: any subset of fields may
// be set, bypassing the check-in/out state machine.
type UpdateRecordRequest struct {
	Date         *string  `json:"date,omitempty"`           // YYYY-MM-DD
	CheckInTime  *string  `json:"check_in_time,omitempty"`  // RFC3339
	CheckOutTime *string  `json:"check_out_time,omitempty"` // RFC3339
	Status       *string  `json:"status,omitempty"`
	TotalHours   *float64 `json:"total_hours,omitempty"`
}
