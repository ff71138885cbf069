package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/internal/domain"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type stubBookingRepo struct {
	bookings []*domain.Booking
}

func (s *stubBookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return s.bookings, nil
}

type stubServiceRepo struct {
	err error
}

func (s *stubServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Service{ID: id, DurationMinutes: 60, Active: true}, nil
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.June, 2, hour, min, 0, 0, time.UTC)
}

func TestExecute_FreeWindowIsAvailable(t *testing.T) {
	uc := NewUseCase(&stubBookingRepo{}, &stubServiceRepo{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1, StartTime: at(10, 0), EndTime: at(11, 0),
	})
	require.NoError(t, err)
	assert.True(t, resp.Available)
}

func TestExecute_ConflictingWindowIsUnavailable(t *testing.T) {
	repo := &stubBookingRepo{bookings: []*domain.Booking{
		{Status: domain.StatusPending, StartTime: at(10, 30), EndTime: at(11, 30)},
	}}
	uc := NewUseCase(repo, &stubServiceRepo{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1, StartTime: at(10, 0), EndTime: at(11, 0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
}

func TestExecute_OutsideBusinessHoursIsUnavailableNotError(t *testing.T) {
	uc := NewUseCase(&stubBookingRepo{}, &stubServiceRepo{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1, StartTime: at(7, 0), EndTime: at(8, 0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
}

func TestExecute_InvalidTimeRange(t *testing.T) {
	uc := NewUseCase(&stubBookingRepo{}, &stubServiceRepo{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 1, StartTime: at(11, 0), EndTime: at(10, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := NewUseCase(&stubBookingRepo{}, &stubServiceRepo{err: serviceRepo.ErrServiceNotFound}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ServiceID: 9, StartTime: at(10, 0), EndTime: at(11, 0),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
