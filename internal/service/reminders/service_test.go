package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/internal/integrations/userservice"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, v ...interface{}) {}
func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// memBookingRepo моделирует захват флага напоминания в памяти
type memBookingRepo struct {
	due       []*domain.Booking
	cancelled []*domain.Booking
	claimed   map[int64]bool
	cleared   []int64
}

func newMemRepo() *memBookingRepo {
	return &memBookingRepo{claimed: make(map[int64]bool)}
}

func (m *memBookingRepo) GetDueForReminder(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	return m.due, nil
}

func (m *memBookingRepo) GetCancelledSince(ctx context.Context, since time.Time) ([]*domain.Booking, error) {
	return m.cancelled, nil
}

func (m *memBookingRepo) ClaimReminder(ctx context.Context, id int64) (bool, error) {
	if m.claimed[id] {
		return false, nil
	}
	m.claimed[id] = true
	return true, nil
}

func (m *memBookingRepo) ClearReminderClaim(ctx context.Context, id int64) error {
	delete(m.claimed, id)
	m.cleared = append(m.cleared, id)
	return nil
}

func (m *memBookingRepo) ResetReminderFlags(ctx context.Context, cutoff time.Time) (int64, error) {
	return int64(len(m.claimed)), nil
}

func (m *memBookingRepo) IsReminderSent(ctx context.Context, id int64) (bool, error) {
	return m.claimed[id], nil
}

type stubServiceRepo struct{}

func (stubServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return &domain.Service{ID: id, Name: "Haircut", DurationMinutes: 60, Active: true}, nil
}

type stubUserClient struct {
	contact *userservice.Contact
	err     error
}

func (s *stubUserClient) GetContact(ctx context.Context, userID int64) (*userservice.Contact, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contact, nil
}

// recordingNotifier запоминает отправленные сообщения
type recordingNotifier struct {
	emails   []string
	sms      []string
	emailErr error
	smsErr   error
}

func (n *recordingNotifier) SendEmail(ctx context.Context, address, subject, body string) error {
	if n.emailErr != nil {
		return n.emailErr
	}
	n.emails = append(n.emails, address)
	return nil
}

func (n *recordingNotifier) SendSms(ctx context.Context, number, body string) error {
	if n.smsErr != nil {
		return n.smsErr
	}
	n.sms = append(n.sms, number)
	return nil
}

func upcomingBooking(id int64) *domain.Booking {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:        id,
		ServiceID: 1,
		UserID:    7,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    domain.StatusConfirmed,
	}
}

func contact() *userservice.Contact {
	return &userservice.Contact{UserID: 7, Email: "user@example.com", Phone: "+15550001122"}
}

func newTestService(repo *memBookingRepo, users *stubUserClient, notifier *recordingNotifier) *Service {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	return NewService(repo, stubServiceRepo{}, users, notifier, fixedClock{now: now}, noopLogger{})
}

func TestSendUpcomingReminders_SendsEmailAndSms(t *testing.T) {
	repo := newMemRepo()
	repo.due = []*domain.Booking{upcomingBooking(1), upcomingBooking(2)}
	notifier := &recordingNotifier{}

	svc := newTestService(repo, &stubUserClient{contact: contact()}, notifier)

	sent, err := svc.SendUpcomingReminders(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Len(t, notifier.emails, 2)
	assert.Len(t, notifier.sms, 2)
}

func TestSendUpcomingReminders_SkipsAlreadyClaimed(t *testing.T) {
	repo := newMemRepo()
	repo.due = []*domain.Booking{upcomingBooking(1)}
	repo.claimed[1] = true
	notifier := &recordingNotifier{}

	svc := newTestService(repo, &stubUserClient{contact: contact()}, notifier)

	sent, err := svc.SendUpcomingReminders(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 0, sent)
	assert.Empty(t, notifier.emails)
}

func TestSendUpcomingReminders_EmailFailureReleasesClaim(t *testing.T) {
	repo := newMemRepo()
	repo.due = []*domain.Booking{upcomingBooking(1)}
	notifier := &recordingNotifier{emailErr: errors.New("smtp down")}

	svc := newTestService(repo, &stubUserClient{contact: contact()}, notifier)

	sent, err := svc.SendUpcomingReminders(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 0, sent)
	assert.Contains(t, repo.cleared, int64(1), "claim must be released after failed delivery")
	assert.False(t, repo.claimed[1])
}

func TestSendUpcomingReminders_SmsFailureStillCountsAsSent(t *testing.T) {
	repo := newMemRepo()
	repo.due = []*domain.Booking{upcomingBooking(1)}
	notifier := &recordingNotifier{smsErr: errors.New("gateway timeout")}

	svc := newTestService(repo, &stubUserClient{contact: contact()}, notifier)

	sent, err := svc.SendUpcomingReminders(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Len(t, notifier.emails, 1)
	assert.True(t, repo.claimed[1], "claim stays after successful email")
}

func TestSendUpcomingReminders_NoSmsWithoutPhone(t *testing.T) {
	repo := newMemRepo()
	repo.due = []*domain.Booking{upcomingBooking(1)}
	notifier := &recordingNotifier{}

	emailOnly := &userservice.Contact{UserID: 7, Email: "user@example.com"}
	svc := newTestService(repo, &stubUserClient{contact: emailOnly}, notifier)

	sent, err := svc.SendUpcomingReminders(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Empty(t, notifier.sms)
}

func TestSendUpcomingReminders_ContactFailureDoesNotStopBatch(t *testing.T) {
	repo := newMemRepo()
	repo.due = []*domain.Booking{upcomingBooking(1), upcomingBooking(2)}
	notifier := &recordingNotifier{}

	svc := newTestService(repo, &stubUserClient{err: userservice.ErrContactNotFound}, notifier)

	sent, err := svc.SendUpcomingReminders(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestSendUpcomingReminders_InvalidHoursAhead(t *testing.T) {
	svc := newTestService(newMemRepo(), &stubUserClient{contact: contact()}, &recordingNotifier{})

	_, err := svc.SendUpcomingReminders(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidHoursAhead)

	_, err = svc.SendUpcomingReminders(context.Background(), -5)
	assert.ErrorIs(t, err, ErrInvalidHoursAhead)
}

func TestSendCancellationFollowUps(t *testing.T) {
	repo := newMemRepo()
	repo.cancelled = []*domain.Booking{upcomingBooking(1), upcomingBooking(2)}
	notifier := &recordingNotifier{}

	svc := newTestService(repo, &stubUserClient{contact: contact()}, notifier)

	sent, err := svc.SendCancellationFollowUps(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sent)
	assert.Len(t, notifier.emails, 2)
}

func TestSendCancellationFollowUps_ContinuesAfterFailure(t *testing.T) {
	repo := newMemRepo()
	repo.cancelled = []*domain.Booking{upcomingBooking(1)}
	notifier := &recordingNotifier{emailErr: errors.New("smtp down")}

	svc := newTestService(repo, &stubUserClient{contact: contact()}, notifier)

	sent, err := svc.SendCancellationFollowUps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestIsReminderSent(t *testing.T) {
	repo := newMemRepo()
	repo.claimed[5] = true

	svc := newTestService(repo, &stubUserClient{contact: contact()}, &recordingNotifier{})

	sent, err := svc.IsReminderSent(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = svc.IsReminderSent(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, sent)
}
