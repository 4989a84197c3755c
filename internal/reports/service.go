package reports

import (
	"context"
	"database/sql"
	"log"
	"time"

	"ATS-backend/internal/attendance"
	"ATS-backend/internal/platform/auth"
	platformdb "ATS-backend/internal/platform/db"
)

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service builds the dashboards, listings, calendar and export, and owns
// the manager-side scoping: every operation resolves the caller first and
// never touches records outside the caller's department.
type Service struct {
	db    *sql.DB
	store *Store
	att   *attendance.Store
	users auth.UserStore
	rules attendance.Rules
	clock attendance.Clock
}

func NewService(db *sql.DB, users auth.UserStore, rules attendance.Rules) *Service {
	if rules.Loc == nil {
		rules.Loc = time.UTC
	}
	return &Service{
		db:    db,
		store: NewStore(db),
		att:   attendance.NewStore(db),
		users: users,
		rules: rules,
		clock: realClock{},
	}
}

// managerScope resolves the caller and the set of employees the caller may
// see: role employee, same department. The superseded global-manager scope
// is intentionally not implemented.
func (s *Service) managerScope(ctx context.Context, managerID string) (*auth.User, []auth.User, error) {
	mgr, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return nil, nil, attendance.StoreErr(err)
	}
	if mgr == nil {
		return nil, nil, attendance.ErrUnauthenticated("unknown caller")
	}
	if mgr.Role != auth.RoleManager {
		return nil, nil, attendance.ErrForbidden("manager role required")
	}
	members, err := s.users.ListByRoleAndDepartment(ctx, auth.RoleEmployee, mgr.Department)
	if err != nil {
		return nil, nil, attendance.StoreErr(err)
	}
	return mgr, members, nil
}

func memberIDs(members []auth.User) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// GET /dashboard/employee
func (s *Service) EmployeeDashboard(ctx context.Context, userID string) (EmployeeDashboard, error) {
	if userID == "" {
		return EmployeeDashboard{}, attendance.ErrUnauthenticated("unknown caller")
	}
	now := s.clock.Now().In(s.rules.Loc)
	today := now.Format(attendance.DateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.rules.Loc)
	from := monthStart.Format(attendance.DateLayout)
	to := monthStart.AddDate(0, 1, 0).Format(attendance.DateLayout)

	todayRec, err := s.att.GetByUserAndDay(ctx, userID, today)
	if err != nil {
		return EmployeeDashboard{}, attendance.StoreErr(err)
	}
	todayStatus := attendance.TodayNotCheckedIn
	if todayRec != nil {
		if todayRec.CheckOutTime != nil {
			todayStatus = attendance.TodayDayComplete
		} else {
			todayStatus = attendance.TodayCheckedIn
		}
	}

	monthRecords, err := s.att.ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return EmployeeDashboard{}, attendance.StoreErr(err)
	}
	counts, hours := monthlyTotals(monthRecords)

	recent, err := s.att.ListRecentByUser(ctx, userID, 7)
	if err != nil {
		return EmployeeDashboard{}, attendance.StoreErr(err)
	}
	recentDTO := make([]attendance.RecordResponse, 0, len(recent))
	for _, rec := range recent {
		recentDTO = append(recentDTO, rec.ToDTO())
	}

	return EmployeeDashboard{
		TodayStatus:      todayStatus,
		MonthlyPresent:   counts.Present,
		MonthlyAbsent:    counts.Absent,
		MonthlyLate:      counts.Late,
		TotalHours:       hours,
		RecentAttendance: recentDTO,
	}, nil
}

// GET /dashboard/manager
func (s *Service) ManagerDashboard(ctx context.Context, managerID string) (ManagerDashboard, error) {
	_, members, err := s.managerScope(ctx, managerID)
	if err != nil {
		return ManagerDashboard{}, err
	}
	ids := memberIDs(members)

	now := s.clock.Now().In(s.rules.Loc)
	today := now.Format(attendance.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(attendance.DateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.rules.Loc)
	monthFrom := monthStart.Format(attendance.DateLayout)
	monthTo := monthStart.AddDate(0, 1, 0).Format(attendance.DateLayout)

	weekDays := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		weekDays = append(weekDays, now.AddDate(0, 0, -i).Format(attendance.DateLayout))
	}

	var (
		todayRecords []attendance.Record
		monthRecords []attendance.Record
		weekRecords  []attendance.Record
		recentTeam   []TeamRecord
	)
	// one consistent snapshot for the whole dashboard
	err = platformdb.Snapshot(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		st := NewStore(tx)
		var err error
		if todayRecords, err = st.ListByUsersAndDay(ctx, ids, today); err != nil {
			return err
		}
		if monthRecords, err = st.ListByUsersRange(ctx, ids, monthFrom, monthTo); err != nil {
			return err
		}
		if weekRecords, err = st.ListByUsersRange(ctx, ids, weekDays[0], tomorrow); err != nil {
			return err
		}
		recentTeam, err = st.RecentTeam(ctx, ids, 10)
		return err
	})
	if err != nil {
		return ManagerDashboard{}, attendance.StoreErr(err)
	}

	todayCounts := dailySummary(todayRecords, len(members))
	monthCounts, monthHours := monthlyTotals(monthRecords)

	checkedIn := make(map[string]bool, len(todayRecords))
	for _, r := range todayRecords {
		checkedIn[r.UserID] = true
	}

	var absent []AbsentEmployee
	for _, m := range members {
		if checkedIn[m.ID] {
			continue
		}
		absent = append(absent, AbsentEmployee{
			Name:       m.Name,
			EmployeeID: m.EmployeeID,
			Department: m.Department,
			Email:      m.Email,
		})
	}

	recentDTO := make([]TeamRecordResponse, 0, len(recentTeam))
	for _, tr := range recentTeam {
		recentDTO = append(recentDTO, tr.toDTO())
	}

	return ManagerDashboard{
		TotalEmployees:  len(members),
		CheckedInToday:  len(todayRecords),
		LateToday:       todayCounts.Late,
		AbsentToday:     todayCounts.Absent,
		MonthPresent:    monthCounts.Present,
		MonthLate:       monthCounts.Late,
		MonthAbsent:     monthCounts.Absent,
		MonthHalfDay:    monthCounts.HalfDay,
		MonthTotalHours: monthHours,
		DepartmentStats: departmentBreakdown(members, checkedIn),
		RecentTeam:      recentDTO,
		WeeklyTrend:     weeklyTrend(weekDays, weekRecords, len(members), s.rules.Loc),
		AbsentEmployees: absent,
	}, nil
}

// GET /manager/records
func (s *Service) AllRecords(ctx context.Context, managerID string, f Filters) ([]TeamRecordResponse, error) {
	if err := validateFilters(f); err != nil {
		return nil, err
	}
	_, members, err := s.managerScope(ctx, managerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListFiltered(ctx, memberIDs(members), f)
	if err != nil {
		return nil, attendance.StoreErr(err)
	}
	out := make([]TeamRecordResponse, 0, len(rows))
	for _, tr := range rows {
		out = append(out, tr.toDTO())
	}
	return out, nil
}

// GET /manager/calendar/:month
func (s *Service) Calendar(ctx context.Context, managerID, month string) (CalendarResponse, error) {
	start, err := time.ParseInLocation(attendance.MonthLayout, month, s.rules.Loc)
	if err != nil {
		return CalendarResponse{}, attendance.ErrInvalid("month must be YYYY-MM")
	}
	_, members, err := s.managerScope(ctx, managerID)
	if err != nil {
		return CalendarResponse{}, err
	}
	from := start.Format(attendance.DateLayout)
	to := start.AddDate(0, 1, 0).Format(attendance.DateLayout)

	rows, err := s.store.TeamRecordsRange(ctx, memberIDs(members), from, to)
	if err != nil {
		return CalendarResponse{}, attendance.StoreErr(err)
	}
	return CalendarResponse{
		Calendar:       calendarGrouping(rows),
		TotalEmployees: len(members),
	}, nil
}

// GET /manager/export
func (s *Service) ExportCSV(ctx context.Context, managerID string, f Filters, encoding string) ([]byte, error) {
	if encoding != "" && encoding != EncodingUTF8 && encoding != EncodingShiftJIS {
		return nil, attendance.ErrInvalid("encoding must be utf-8 or sjis")
	}
	if err := validateFilters(f); err != nil {
		return nil, err
	}
	_, members, err := s.managerScope(ctx, managerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListFiltered(ctx, memberIDs(members), f)
	if err != nil {
		return nil, attendance.StoreErr(err)
	}
	out, err := buildCSV(rows, s.rules.Loc)
	if err != nil {
		return nil, attendance.ErrInternal("csv build failed")
	}
	if encoding == EncodingShiftJIS {
		if out, err = encodeCP932(out); err != nil {
			return nil, attendance.ErrInternal("csv transcode failed")
		}
	}
	return out, nil
}

// GET /manager/employees
func (s *Service) Employees(ctx context.Context, managerID string) ([]EmployeeSummary, error) {
	_, members, err := s.managerScope(ctx, managerID)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeSummary, 0, len(members))
	for _, m := range members {
		out = append(out, EmployeeSummary{
			Name:       m.Name,
			Email:      m.Email,
			EmployeeID: m.EmployeeID,
			Department: m.Department,
		})
	}
	return out, nil
}

// PUT /manager/records/:record_id
//
// The administrative patch bypasses the check-in/out state machine. It has
// its own authorization (record owner must be in the manager's department)
// and every applied patch is audit-logged.
func (s *Service) UpdateRecord(ctx context.Context, managerID, recordID string, req UpdateRecordRequest) (TeamRecordResponse, error) {
	mgr, _, err := s.managerScope(ctx, managerID)
	if err != nil {
		return TeamRecordResponse{}, err
	}

	rec, err := s.att.GetByID(ctx, recordID)
	if err != nil {
		return TeamRecordResponse{}, attendance.StoreErr(err)
	}
	if rec == nil {
		return TeamRecordResponse{}, attendance.ErrNotFound("record not found")
	}
	owner, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return TeamRecordResponse{}, attendance.StoreErr(err)
	}
	if owner == nil {
		return TeamRecordResponse{}, attendance.ErrNotFound("record owner not found")
	}
	if owner.Department != mgr.Department {
		return TeamRecordResponse{}, attendance.ErrForbidden("record outside your department")
	}

	patch, err := s.buildPatch(rec, req)
	if err != nil {
		return TeamRecordResponse{}, err
	}
	if err := s.store.Update(ctx, recordID, patch); err != nil {
		return TeamRecordResponse{}, attendance.StoreErr(err)
	}
	log.Printf("[AUDIT] manager %s patched record %s (employee %s)", mgr.EmployeeID, recordID, owner.EmployeeID)

	updated, err := s.att.GetByID(ctx, recordID)
	if err != nil || updated == nil {
		return TeamRecordResponse{}, attendance.StoreErr(err)
	}
	return TeamRecord{
		Record:     *updated,
		EmployeeID: owner.EmployeeID,
		Name:       owner.Name,
		Email:      owner.Email,
		Department: owner.Department,
	}.toDTO(), nil
}

func (s *Service) buildPatch(rec *attendance.Record, req UpdateRecordRequest) (RecordPatch, error) {
	var p RecordPatch

	if req.Date != nil {
		if _, err := time.ParseInLocation(attendance.DateLayout, *req.Date, s.rules.Loc); err != nil {
			return p, attendance.ErrInvalid("date must be YYYY-MM-DD")
		}
		p.Day = req.Date
	}
	if req.Status != nil {
		if !attendance.ValidStatus(*req.Status) {
			return p, attendance.ErrInvalid("unknown status")
		}
		p.Status = req.Status
	}
	if req.CheckInTime != nil {
		t, err := time.Parse(time.RFC3339, *req.CheckInTime)
		if err != nil {
			return p, attendance.ErrInvalid("check_in_time must be RFC3339")
		}
		p.CheckInTime = &t
	}
	if req.CheckOutTime != nil {
		t, err := time.Parse(time.RFC3339, *req.CheckOutTime)
		if err != nil {
			return p, attendance.ErrInvalid("check_out_time must be RFC3339")
		}
		p.CheckOutTime = &t
	}
	if req.TotalHours != nil {
		h := attendance.RoundHours(*req.TotalHours)
		p.TotalHours = &h
	}

	// effective times after the patch must still satisfy out >= in
	in := rec.CheckInTime
	if p.CheckInTime != nil {
		in = *p.CheckInTime
	}
	out := rec.CheckOutTime
	if p.CheckOutTime != nil {
		out = p.CheckOutTime
	}
	if out != nil && out.Before(in) {
		return p, attendance.ErrInvalid("check_out_time must not be before check_in_time")
	}
	return p, nil
}

func validateFilters(f Filters) error {
	if f.StartDate != "" {
		if _, err := time.Parse(attendance.DateLayout, f.StartDate); err != nil {
			return attendance.ErrInvalid("start_date must be YYYY-MM-DD")
		}
	}
	if f.EndDate != "" {
		if _, err := time.Parse(attendance.DateLayout, f.EndDate); err != nil {
			return attendance.ErrInvalid("end_date must be YYYY-MM-DD")
		}
	}
	if f.Status != "" && !attendance.ValidStatus(f.Status) {
		return attendance.ErrInvalid("unknown status")
	}
	return nil
}
