package attendance

import (
	"context"
	"crypto/rand"
	"math"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== Injected collaborators =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service =====

// Service is the rules engine: it decides the outcome of check-in/check-out
// requests and serves the caller's own read operations. The reference clock
// and timezone are injected so every decision is deterministic under test.
type Service struct {
	store *Store
	rules Rules
	clock Clock
	id    IDGen
}

func NewService(db DBTX, rules Rules) *Service {
	if rules.Loc == nil {
		rules.Loc = time.UTC
	}
	return &Service{
		store: NewStore(db),
		rules: rules,
		clock: realClock{},
		id:    ulidGen{},
	}
}

// POST /attendance/checkin
func (s *Service) CheckIn(ctx context.Context, userID string) (RecordResponse, error) {
	if userID == "" {
		return RecordResponse{}, ErrInvalid("user id is required")
	}
	now := s.clock.Now().In(s.rules.Loc)
	day := now.Format(DateLayout)

	existing, err := s.store.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return RecordResponse{}, StoreErr(err)
	}
	if existing != nil {
		return RecordResponse{}, ErrAlreadyCheckedIn()
	}

	// late iff strictly after the cutoff; exactly on it is present
	status := StatusPresent
	if now.After(dayStart(now).Add(s.rules.LateCutoff)) {
		status = StatusLate
	}

	id, err := s.id.New()
	if err != nil {
		return RecordResponse{}, ErrInternal("id generation failed")
	}
	rec := Record{
		ID:          id,
		UserID:      userID,
		Day:         day,
		CheckInTime: now,
		Status:      status,
		CreatedAt:   now,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		if isDuplicate(err) {
			// lost the race against a concurrent check-in for the same day
			return RecordResponse{}, ErrAlreadyCheckedIn()
		}
		return RecordResponse{}, StoreErr(err)
	}
	return rec.ToDTO(), nil
}

// POST /attendance/checkout
func (s *Service) CheckOut(ctx context.Context, userID string) (CheckOutResponse, error) {
	if userID == "" {
		return CheckOutResponse{}, ErrInvalid("user id is required")
	}
	now := s.clock.Now().In(s.rules.Loc)
	day := now.Format(DateLayout)

	rec, err := s.store.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return CheckOutResponse{}, StoreErr(err)
	}
	if rec == nil {
		return CheckOutResponse{}, ErrNoCheckIn()
	}
	if rec.CheckOutTime != nil {
		return CheckOutResponse{}, ErrAlreadyCheckedOut()
	}

	hours := RoundHours(now.Sub(rec.CheckInTime).Hours())

	// revision policy, first match wins; comparisons use the rounded value
	status := rec.Status
	switch {
	case hours < s.rules.HalfDayHours:
		status = StatusHalfDay
	case hours >= s.rules.FullDayHours && status != StatusLate:
		status = StatusPresent
	}

	if err := s.store.Complete(ctx, rec.ID, now, hours, status); err != nil {
		return CheckOutResponse{}, StoreErr(err)
	}
	return CheckOutResponse{TotalHours: hours, Status: status}, nil
}

// GET /attendance/history
func (s *Service) History(ctx context.Context, userID string) ([]RecordResponse, error) {
	if userID == "" {
		return nil, ErrInvalid("user id is required")
	}
	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, StoreErr(err)
	}
	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToDTO())
	}
	return out, nil
}

// GET /attendance/summary/:month
func (s *Service) MonthlySummary(ctx context.Context, userID, month string) (SummaryResponse, error) {
	if userID == "" {
		return SummaryResponse{}, ErrInvalid("user id is required")
	}
	start, err := time.ParseInLocation(MonthLayout, month, s.rules.Loc)
	if err != nil {
		return SummaryResponse{}, ErrInvalid("month must be YYYY-MM")
	}
	from := start.Format(DateLayout)
	to := start.AddDate(0, 1, 0).Format(DateLayout)

	records, err := s.store.ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return SummaryResponse{}, StoreErr(err)
	}
	var sum SummaryResponse
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLate:
			sum.Late++
		case StatusHalfDay:
			sum.HalfDay++
		}
	}
	return sum, nil
}

// GET /attendance/today
func (s *Service) TodayStatus(ctx context.Context, userID string) (TodayStatusResponse, error) {
	if userID == "" {
		return TodayStatusResponse{}, ErrInvalid("user id is required")
	}
	now := s.clock.Now().In(s.rules.Loc)
	rec, err := s.store.GetByUserAndDay(ctx, userID, now.Format(DateLayout))
	if err != nil {
		return TodayStatusResponse{}, StoreErr(err)
	}
	if rec == nil {
		return TodayStatusResponse{Status: TodayNotCheckedIn}, nil
	}
	dto := rec.ToDTO()
	if rec.CheckOutTime != nil {
		return TodayStatusResponse{Status: TodayDayComplete, Record: &dto}, nil
	}
	return TodayStatusResponse{Status: TodayCheckedIn, Record: &dto}, nil
}

// RoundHours rounds to 2 decimal places, half away from zero.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
