package reports

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ATS-backend/internal/attendance"
	"ATS-backend/internal/platform/auth"
)

func rec(userID, day, status string, hours float64) attendance.Record {
	r := attendance.Record{
		ID:          userID + "-" + day,
		UserID:      userID,
		Day:         day,
		CheckInTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Status:      status,
	}
	if hours > 0 {
		r.TotalHours = &hours
	}
	return r
}

func TestDailySummary(t *testing.T) {
	records := []attendance.Record{
		rec("u1", "2025-03-10", attendance.StatusPresent, 8),
		rec("u2", "2025-03-10", attendance.StatusLate, 0),
	}

	got := dailySummary(records, 5)
	want := StatusCounts{Present: 1, Late: 1, Absent: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	// more records than scope members must not go negative
	got = dailySummary(records, 1)
	if got.Absent != 0 {
		t.Fatalf("absent = %d, want 0", got.Absent)
	}
}

func TestMonthlyTotals(t *testing.T) {
	records := []attendance.Record{
		rec("u1", "2025-03-10", attendance.StatusPresent, 8.25),
		rec("u1", "2025-03-11", attendance.StatusHalfDay, 3.5),
		rec("u1", "2025-03-12", attendance.StatusLate, 0), // still checked in
	}

	counts, hours := monthlyTotals(records)
	want := StatusCounts{Present: 1, Late: 1, HalfDay: 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if hours != 11.75 {
		t.Fatalf("hours = %v, want 11.75", hours)
	}
}

func TestDepartmentBreakdown(t *testing.T) {
	users := []auth.User{
		{ID: "u1", Department: "Engineering"},
		{ID: "u2", Department: "Sales"},
		{ID: "u3", Department: "Engineering"},
	}
	checkedIn := map[string]bool{"u1": true, "u2": true}

	got := departmentBreakdown(users, checkedIn)
	want := []DepartmentStat{
		{Department: "Engineering", Total: 2, PresentToday: 1, AbsentToday: 1},
		{Department: "Sales", Total: 1, PresentToday: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyTrend(t *testing.T) {
	days := []string{"2025-03-09", "2025-03-10"}
	records := []attendance.Record{
		rec("u1", "2025-03-10", attendance.StatusPresent, 8),
		rec("u2", "2025-03-10", attendance.StatusLate, 0),
	}

	got := weeklyTrend(days, records, 2, time.UTC)
	want := []TrendDay{
		{Date: "2025-03-09", DayLabel: "Sun", Absent: 2},
		{Date: "2025-03-10", DayLabel: "Mon", Present: 1, Late: 1, Total: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trend mismatch (-want +got):\n%s", diff)
	}
}

func TestCalendarGrouping(t *testing.T) {
	hours := 8.0
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []TeamRecord{
		{
			Record:     attendance.Record{Day: "2025-03-10", CheckInTime: in, Status: attendance.StatusPresent, TotalHours: &hours},
			EmployeeID: "EMP002", Name: "Alice", Department: "Engineering",
		},
		{
			Record:     attendance.Record{Day: "2025-03-10", CheckInTime: in.Add(time.Hour), Status: attendance.StatusLate},
			EmployeeID: "EMP003", Name: "Bob", Department: "Engineering",
		},
		{
			Record:     attendance.Record{Day: "2025-03-11", CheckInTime: in.AddDate(0, 0, 1), Status: attendance.StatusHalfDay},
			EmployeeID: "EMP002", Name: "Alice", Department: "Engineering",
		},
	}

	got := calendarGrouping(records)
	if len(got) != 2 {
		t.Fatalf("days = %d, want 2", len(got))
	}
	day := got["2025-03-10"]
	if day == nil || day.Present != 1 || day.Late != 1 || len(day.Records) != 2 {
		t.Fatalf("unexpected 2025-03-10 group: %+v", day)
	}
	if day.Records[0].Name != "Alice" || day.Records[0].TotalHours == nil {
		t.Fatalf("entry detail lost: %+v", day.Records[0])
	}
	if d := got["2025-03-11"]; d == nil || d.HalfDay != 1 || len(d.Records) != 1 {
		t.Fatalf("unexpected 2025-03-11 group: %+v", d)
	}
}
