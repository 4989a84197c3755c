package reports

import (
	"time"

	"ATS-backend/internal/attendance"
	"ATS-backend/internal/platform/auth"
)

// Pure folds over already-fetched records. Absence is always derived from
// scope size minus records found, never read from storage.

func countStatuses(records []attendance.Record) StatusCounts {
	var c StatusCounts
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			c.Present++
		case attendance.StatusAbsent:
			c.Absent++
		case attendance.StatusLate:
			c.Late++
		case attendance.StatusHalfDay:
			c.HalfDay++
		}
	}
	return c
}

// dailySummary tallies one day's records for a population of scopeSize.
// Only valid when records are already scoped to a single day.
func dailySummary(records []attendance.Record, scopeSize int) StatusCounts {
	c := countStatuses(records)
	c.Absent = scopeSize - len(records)
	if c.Absent < 0 {
		c.Absent = 0
	}
	return c
}

// monthlyTotals returns status counts plus the hour sum, reading a missing
// total-hours as 0.
func monthlyTotals(records []attendance.Record) (StatusCounts, float64) {
	c := countStatuses(records)
	var hours float64
	for _, r := range records {
		if r.TotalHours != nil {
			hours += *r.TotalHours
		}
	}
	return c, attendance.RoundHours(hours)
}

// departmentBreakdown counts, per distinct department among users, members
// with and without a record today. checkedIn is keyed by user id.
func departmentBreakdown(users []auth.User, checkedIn map[string]bool) []DepartmentStat {
	order := make([]string, 0)
	byDept := make(map[string]*DepartmentStat)
	for _, u := range users {
		st, ok := byDept[u.Department]
		if !ok {
			st = &DepartmentStat{Department: u.Department}
			byDept[u.Department] = st
			order = append(order, u.Department)
		}
		st.Total++
		if checkedIn[u.ID] {
			st.PresentToday++
		} else {
			st.AbsentToday++
		}
	}
	out := make([]DepartmentStat, 0, len(order))
	for _, d := range order {
		out = append(out, *byDept[d])
	}
	return out
}

// weeklyTrend folds the window's records into per-day counts. days must be
// oldest to newest; records may span the whole window.
func weeklyTrend(days []string, records []attendance.Record, scopeSize int, loc *time.Location) []TrendDay {
	byDay := make(map[string][]attendance.Record)
	for _, r := range records {
		byDay[r.Day] = append(byDay[r.Day], r)
	}
	out := make([]TrendDay, 0, len(days))
	for _, day := range days {
		recs := byDay[day]
		c := dailySummary(recs, scopeSize)
		label := ""
		if t, err := time.ParseInLocation(attendance.DateLayout, day, loc); err == nil {
			label = t.Format("Mon")
		}
		out = append(out, TrendDay{
			Date:     day,
			DayLabel: label,
			Present:  c.Present,
			Late:     c.Late,
			HalfDay:  c.HalfDay,
			Absent:   c.Absent,
			Total:    len(recs),
		})
	}
	return out
}

// calendarGrouping groups team records by ISO date, tallying statuses and
// keeping the per-user detail rows for display.
func calendarGrouping(records []TeamRecord) map[string]*CalendarDay {
	out := make(map[string]*CalendarDay)
	for _, r := range records {
		day, ok := out[r.Day]
		if !ok {
			day = &CalendarDay{Records: []CalendarEntry{}}
			out[r.Day] = day
		}
		switch r.Status {
		case attendance.StatusPresent:
			day.Present++
		case attendance.StatusLate:
			day.Late++
		case attendance.StatusAbsent:
			day.Absent++
		case attendance.StatusHalfDay:
			day.HalfDay++
		}
		day.Records = append(day.Records, CalendarEntry{
			Name:       r.Name,
			EmployeeID: r.EmployeeID,
			Department: r.Department,
			Status:     r.Status,
			CheckIn:    r.CheckInTime,
			CheckOut:   r.CheckOutTime,
			TotalHours: r.TotalHours,
		})
	}
	return out
}
