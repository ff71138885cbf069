package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubBookingRepo struct {
	bookings []*domain.Booking
}

func (s *stubBookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return s.bookings, nil
}

type stubServiceRepo struct {
	names map[int64]string
}

func (s *stubServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return &domain.Service{ID: id, Name: s.names[id], DurationMinutes: 60, Active: true}, nil
}

func onDate(year int, month time.Month, day int, serviceID int64, status domain.BookingStatus, durationMinutes int) *domain.Booking {
	start := time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ServiceID:   serviceID,
		UserID:      7,
		BookingDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		StartTime:   start,
		EndTime:     start.Add(time.Duration(durationMinutes) * time.Minute),
		Status:      status,
	}
}

func newTestService(bookings []*domain.Booking, names map[int64]string) *Service {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	return NewService(
		&stubBookingRepo{bookings: bookings},
		&stubServiceRepo{names: names},
		fixedClock{now: now},
		noopLogger{},
	)
}

func TestGetOverallStats(t *testing.T) {
	bookings := []*domain.Booking{
		onDate(2025, time.June, 2, 1, domain.StatusCompleted, 60),
		onDate(2025, time.June, 3, 1, domain.StatusCompleted, 60),
		onDate(2025, time.June, 4, 1, domain.StatusCancelled, 60),
		onDate(2025, time.June, 5, 1, domain.StatusPending, 60),
		onDate(2025, time.June, 6, 1, domain.StatusConfirmed, 60),
		onDate(2025, time.June, 9, 1, domain.StatusNoShow, 60),
	}
	svc := newTestService(bookings, nil)

	stats, err := svc.GetOverallStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), stats.Total)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(1), stats.NoShow)

	// 1/6 и 2/6 в процентах с округлением до сотых
	assert.InDelta(t, 16.67, stats.CancellationRate, 0.001)
	assert.InDelta(t, 33.33, stats.CompletionRate, 0.001)
}

func TestGetOverallStats_EmptySet(t *testing.T) {
	svc := newTestService(nil, nil)

	stats, err := svc.GetOverallStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Total)
	assert.Zero(t, stats.CancellationRate)
	assert.Zero(t, stats.CompletionRate)
}

func TestGetBookingsByDayOfWeek_AllSevenDaysPresent(t *testing.T) {
	bookings := []*domain.Booking{
		// 2025-06-02 понедельник, 2025-06-03 вторник
		onDate(2025, time.June, 2, 1, domain.StatusCompleted, 60),
		onDate(2025, time.June, 2, 1, domain.StatusPending, 60),
		onDate(2025, time.June, 3, 1, domain.StatusConfirmed, 60),
	}
	svc := newTestService(bookings, nil)

	counts, err := svc.GetBookingsByDayOfWeek(context.Background())
	require.NoError(t, err)

	require.Len(t, counts, 7)
	assert.Equal(t, "Monday", counts[0].Day)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.Equal(t, "Tuesday", counts[1].Day)
	assert.Equal(t, int64(1), counts[1].Count)
	assert.Equal(t, "Sunday", counts[6].Day)
	assert.Equal(t, int64(0), counts[6].Count)
}

func TestGetMonthlyTrend_IncludesEmptyMonths(t *testing.T) {
	bookings := []*domain.Booking{
		onDate(2025, time.June, 2, 1, domain.StatusCompleted, 60),
		onDate(2025, time.April, 10, 1, domain.StatusCompleted, 60),
	}
	svc := newTestService(bookings, nil)

	trend, err := svc.GetMonthlyTrend(context.Background(), 4)
	require.NoError(t, err)

	require.Len(t, trend, 4)
	assert.Equal(t, "2025-03", trend[0].Month)
	assert.Equal(t, int64(0), trend[0].Count)
	assert.Equal(t, "2025-04", trend[1].Month)
	assert.Equal(t, int64(1), trend[1].Count)
	assert.Equal(t, "2025-05", trend[2].Month)
	assert.Equal(t, int64(0), trend[2].Count)
	assert.Equal(t, "2025-06", trend[3].Month)
	assert.Equal(t, int64(1), trend[3].Count)
}

func TestGetMonthlyTrend_InvalidMonths(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.GetMonthlyTrend(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTopServices(t *testing.T) {
	bookings := []*domain.Booking{
		onDate(2025, time.June, 2, 2, domain.StatusCompleted, 60),
		onDate(2025, time.June, 3, 1, domain.StatusCompleted, 60),
		onDate(2025, time.June, 4, 2, domain.StatusPending, 60),
		onDate(2025, time.June, 5, 3, domain.StatusConfirmed, 60),
	}
	names := map[int64]string{1: "Haircut", 2: "Massage", 3: "Manicure"}
	svc := newTestService(bookings, names)

	top, err := svc.GetTopServices(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].ServiceID)
	assert.Equal(t, "Massage", top[0].ServiceName)
	assert.Equal(t, int64(2), top[0].Count)

	// При равных счётчиках побеждает услуга, встреченная раньше
	assert.Equal(t, int64(1), top[1].ServiceID)
	assert.Equal(t, int64(1), top[1].Count)
}

func TestGetTopServices_InvalidLimit(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.GetTopServices(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetAverageDurationMinutes(t *testing.T) {
	bookings := []*domain.Booking{
		onDate(2025, time.June, 2, 1, domain.StatusCompleted, 60),
		onDate(2025, time.June, 3, 1, domain.StatusCompleted, 90),
	}
	svc := newTestService(bookings, nil)

	avg, err := svc.GetAverageDurationMinutes(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 75.0, avg, 0.001)
}

func TestGetAverageDurationMinutes_SkipsInvalidRanges(t *testing.T) {
	broken := onDate(2025, time.June, 2, 1, domain.StatusCompleted, 60)
	broken.EndTime = broken.StartTime

	bookings := []*domain.Booking{
		broken,
		onDate(2025, time.June, 3, 1, domain.StatusCompleted, 30),
	}
	svc := newTestService(bookings, nil)

	avg, err := svc.GetAverageDurationMinutes(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 30.0, avg, 0.001)
}

func TestGetAverageDurationMinutes_EmptySet(t *testing.T) {
	svc := newTestService(nil, nil)

	avg, err := svc.GetAverageDurationMinutes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, avg)
}
