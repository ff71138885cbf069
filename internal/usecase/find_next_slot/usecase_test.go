package find_next_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/internal/usecase/get_available_slots"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// stubSlotsProvider отдаёт слоты по дате и запоминает запрошенные дни
type stubSlotsProvider struct {
	slotsByDate map[string][]domain.TimeSlot
	err         error
	requested   []time.Time
}

func (s *stubSlotsProvider) Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requested = append(s.requested, req.Date)
	return &get_available_slots.Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     s.slotsByDate[req.Date.Format(domain.DateFormat)],
	}, nil
}

func TestExecute_FindsSlotOnFirstFreeDay(t *testing.T) {
	// 2025-06-02 понедельник
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	slot := domain.NewTimeSlot(monday.Add(9*time.Hour), 60)

	provider := &stubSlotsProvider{slotsByDate: map[string][]domain.TimeSlot{
		"2025-06-02": {slot},
	}}
	uc := NewUseCase(provider, fixedClock{now: monday}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, From: monday})
	require.NoError(t, err)

	require.NotNil(t, resp.Slot)
	assert.True(t, resp.Slot.StartTime.Equal(slot.StartTime))
}

func TestExecute_SkipsWeekends(t *testing.T) {
	// 2025-06-07 суббота, первый рабочий день — понедельник 09.06
	saturday := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, time.June, 9, 9, 0, 0, 0, time.UTC)

	provider := &stubSlotsProvider{slotsByDate: map[string][]domain.TimeSlot{
		"2025-06-09": {domain.NewTimeSlot(monday, 60)},
	}}
	uc := NewUseCase(provider, fixedClock{now: saturday}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, From: saturday})
	require.NoError(t, err)

	require.NotNil(t, resp.Slot)
	assert.True(t, resp.Slot.StartTime.Equal(monday))
	for _, d := range provider.requested {
		assert.False(t, domain.IsWeekend(d), "weekend day %s was queried", d.Format(domain.DateFormat))
	}
}

func TestExecute_DefaultsFromToNow(t *testing.T) {
	monday := time.Date(2025, time.June, 2, 14, 30, 0, 0, time.UTC)
	slot := domain.NewTimeSlot(monday.Add(time.Hour), 60)

	provider := &stubSlotsProvider{slotsByDate: map[string][]domain.TimeSlot{
		"2025-06-02": {slot},
	}}
	uc := NewUseCase(provider, fixedClock{now: monday}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1})
	require.NoError(t, err)

	require.NotEmpty(t, provider.requested)
	assert.Equal(t, "2025-06-02", provider.requested[0].Format(domain.DateFormat))
	require.NotNil(t, resp.Slot)
}

func TestExecute_ExhaustedHorizonReturnsNilSlot(t *testing.T) {
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	provider := &stubSlotsProvider{}
	uc := NewUseCase(provider, fixedClock{now: monday}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 1, From: monday})
	require.NoError(t, err)

	assert.Nil(t, resp.Slot)
	assert.NotEmpty(t, provider.requested)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	provider := &stubSlotsProvider{err: get_available_slots.ErrServiceNotFound}
	uc := NewUseCase(provider, fixedClock{now: monday}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, From: monday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidServiceID(t *testing.T) {
	uc := NewUseCase(&stubSlotsProvider{}, fixedClock{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
