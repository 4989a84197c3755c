package attendance

import (
	"context"
	"testing"
	"time"

	"ATS-backend/internal/testutil"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	d := testutil.OpenDB(t)
	testutil.SeedUser(t, d, "u1", "EMP001", "Alice", "alice@example.com", "employee", "Engineering")
	clk := &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc := NewService(d, DefaultRules())
	svc.clock = clk
	return svc, clk
}

func errCode(t *testing.T, err error) Code {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	return APIErrFrom(err).Code
}

func TestCheckInBeforeCutoff(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.CheckIn(context.Background(), "u1")
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if rec.Status != StatusPresent {
		t.Fatalf("status = %s, want present", rec.Status)
	}
	if rec.Date != "2025-03-10" {
		t.Fatalf("date = %s, want 2025-03-10", rec.Date)
	}
	if rec.CheckOutTime != nil || rec.TotalHours != nil {
		t.Fatalf("fresh record must have no checkout fields: %+v", rec)
	}
}

func TestCheckInCutoffBoundary(t *testing.T) {
	t.Run("exactly 09:30 is present", func(t *testing.T) {
		svc, clk := newTestService(t)
		clk.now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
		rec, err := svc.CheckIn(context.Background(), "u1")
		if err != nil {
			t.Fatalf("checkin: %v", err)
		}
		if rec.Status != StatusPresent {
			t.Fatalf("status = %s, want present", rec.Status)
		}
	})

	t.Run("one millisecond past 09:30 is late", func(t *testing.T) {
		svc, clk := newTestService(t)
		clk.now = time.Date(2025, 3, 10, 9, 30, 0, int(time.Millisecond), time.UTC)
		rec, err := svc.CheckIn(context.Background(), "u1")
		if err != nil {
			t.Fatalf("checkin: %v", err)
		}
		if rec.Status != StatusLate {
			t.Fatalf("status = %s, want late", rec.Status)
		}
	})
}

func TestCheckInTwiceSameDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("first checkin: %v", err)
	}
	_, err := svc.CheckIn(ctx, "u1")
	if code := errCode(t, err); code != CodeAlreadyCheckedIn {
		t.Fatalf("code = %s, want %s", code, CodeAlreadyCheckedIn)
	}
}

func TestCheckInDuplicateRace(t *testing.T) {
	// two requests can pass the existence check before either writes; the
	// unique key converts the loser into the same error
	svc, clk := newTestService(t)
	ctx := context.Background()

	rec := Record{
		ID: "ID1", UserID: "u1", Day: "2025-03-10",
		CheckInTime: clk.now, Status: StatusPresent, CreatedAt: clk.now,
	}
	if err := svc.store.Insert(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rec.ID = "ID2"
	err := svc.store.Insert(ctx, rec)
	if !isDuplicate(err) {
		t.Fatalf("expected duplicate-key error, got %v", err)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CheckOut(context.Background(), "u1")
	if code := errCode(t, err); code != CodeNoCheckIn {
		t.Fatalf("code = %s, want %s", code, CodeNoCheckIn)
	}
}

func TestCheckOutTwice(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	clk.now = clk.now.Add(8 * time.Hour)
	if _, err := svc.CheckOut(ctx, "u1"); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	_, err := svc.CheckOut(ctx, "u1")
	if code := errCode(t, err); code != CodeAlreadyCheckedOut {
		t.Fatalf("code = %s, want %s", code, CodeAlreadyCheckedOut)
	}
}

func TestCheckOutRevisionPolicy(t *testing.T) {
	cases := []struct {
		name       string
		checkIn    time.Time
		worked     time.Duration
		wantHours  float64
		wantStatus string
	}{
		{
			name:       "under four hours overrides late",
			checkIn:    time.Date(2025, 3, 10, 10, 15, 0, 0, time.UTC),
			worked:     3 * time.Hour,
			wantHours:  3.00,
			wantStatus: StatusHalfDay,
		},
		{
			name:       "3.99 hours is still a half-day",
			checkIn:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			worked:     3*time.Hour + 59*time.Minute + 24*time.Second,
			wantHours:  3.99,
			wantStatus: StatusHalfDay,
		},
		{
			name:       "exactly four hours does not trigger the override",
			checkIn:    time.Date(2025, 3, 10, 10, 15, 0, 0, time.UTC),
			worked:     4 * time.Hour,
			wantHours:  4.00,
			wantStatus: StatusLate,
		},
		{
			name:       "mid-length day keeps present",
			checkIn:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			worked:     5*time.Hour + 30*time.Minute,
			wantHours:  5.50,
			wantStatus: StatusPresent,
		},
		{
			name:       "eight hours keeps present",
			checkIn:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			worked:     8 * time.Hour,
			wantHours:  8.00,
			wantStatus: StatusPresent,
		},
		{
			name:       "eight hours never clears late",
			checkIn:    time.Date(2025, 3, 10, 10, 15, 0, 0, time.UTC),
			worked:     8 * time.Hour,
			wantHours:  8.00,
			wantStatus: StatusLate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, clk := newTestService(t)
			ctx := context.Background()

			clk.now = tc.checkIn
			if _, err := svc.CheckIn(ctx, "u1"); err != nil {
				t.Fatalf("checkin: %v", err)
			}
			clk.now = tc.checkIn.Add(tc.worked)
			res, err := svc.CheckOut(ctx, "u1")
			if err != nil {
				t.Fatalf("checkout: %v", err)
			}
			if res.TotalHours != tc.wantHours {
				t.Fatalf("hours = %v, want %v", res.TotalHours, tc.wantHours)
			}
			if res.Status != tc.wantStatus {
				t.Fatalf("status = %s, want %s", res.Status, tc.wantStatus)
			}
		})
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("checkin day 1: %v", err)
	}
	clk.now = clk.now.Add(8 * time.Hour)
	out, err := svc.CheckOut(ctx, "u1")
	if err != nil {
		t.Fatalf("checkout day 1: %v", err)
	}

	clk.now = time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("checkin day 2: %v", err)
	}

	items, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Date != "2025-03-11" || items[1].Date != "2025-03-10" {
		t.Fatalf("dates not descending: %s, %s", items[0].Date, items[1].Date)
	}

	// the completed record re-reads with identical values
	day1 := items[1]
	if day1.Status != out.Status {
		t.Fatalf("status = %s, want %s", day1.Status, out.Status)
	}
	if day1.TotalHours == nil || *day1.TotalHours != out.TotalHours {
		t.Fatalf("total hours = %v, want %v", day1.TotalHours, out.TotalHours)
	}
	if !day1.CheckInTime.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("check-in time drifted: %v", day1.CheckInTime)
	}
	if day1.CheckOutTime == nil || !day1.CheckOutTime.Equal(time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)) {
		t.Fatalf("check-out time drifted: %v", day1.CheckOutTime)
	}
}

func TestMonthlySummary(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	empty, err := svc.MonthlySummary(ctx, "u1", "2025-03")
	if err != nil {
		t.Fatalf("summary over zero records: %v", err)
	}
	if empty != (SummaryResponse{}) {
		t.Fatalf("want all-zero summary, got %+v", empty)
	}

	if _, err := svc.CheckIn(ctx, "u1"); err != nil { // 09:00, present
		t.Fatalf("checkin: %v", err)
	}
	clk.now = time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	if _, err := svc.CheckIn(ctx, "u1"); err != nil { // late
		t.Fatalf("checkin: %v", err)
	}
	clk.now = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	if _, err := svc.CheckIn(ctx, "u1"); err != nil { // next month
		t.Fatalf("checkin: %v", err)
	}

	sum, err := svc.MonthlySummary(ctx, "u1", "2025-03")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Present != 1 || sum.Late != 1 || sum.HalfDay != 0 || sum.Absent != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	if _, err := svc.MonthlySummary(ctx, "u1", "March 2025"); err == nil {
		t.Fatal("expected invalid month to fail")
	} else if code := APIErrFrom(err).Code; code != CodeInvalidArgument {
		t.Fatalf("code = %s, want %s", code, CodeInvalidArgument)
	}
}

func TestTodayStatusTransitions(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	st, err := svc.TodayStatus(ctx, "u1")
	if err != nil || st.Status != TodayNotCheckedIn || st.Record != nil {
		t.Fatalf("want not_checked_in with no record, got %+v err=%v", st, err)
	}

	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	st, err = svc.TodayStatus(ctx, "u1")
	if err != nil || st.Status != TodayCheckedIn || st.Record == nil {
		t.Fatalf("want checked_in with record, got %+v err=%v", st, err)
	}

	clk.now = clk.now.Add(8 * time.Hour)
	if _, err := svc.CheckOut(ctx, "u1"); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	st, err = svc.TodayStatus(ctx, "u1")
	if err != nil || st.Status != TodayDayComplete || st.Record == nil {
		t.Fatalf("want day_complete with record, got %+v err=%v", st, err)
	}
}

func TestParseCutoff(t *testing.T) {
	d, err := ParseCutoff("09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != 9*time.Hour+30*time.Minute {
		t.Fatalf("cutoff = %v", d)
	}
	if _, err := ParseCutoff("half past nine"); err == nil {
		t.Fatal("expected parse failure")
	}
}
