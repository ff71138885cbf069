package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/pkg/ptr"
	"github.com/avilkin/AppointmentService/pkg/txmanager"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func bookingColumns() []string {
	return []string{
		"id", "service_id", "user_id", "booking_date", "start_time", "end_time",
		"status", "notes", "reminder_sent", "cancelled_at", "created_at", "updated_at",
	}
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.June, 2, hour, min, 0, 0, time.UTC)
}

func TestCreate_ReturnsGeneratedFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(10), now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		ServiceID:   1,
		UserID:      7,
		BookingDate: at(0, 0),
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
		Status:      domain.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), created.ID)
	assert.True(t, created.CreatedAt.Equal(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ExclusionViolationMapsToSlotTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23P01"})

	_, err := repo.Create(context.Background(), &domain.Booking{
		ServiceID: 1, UserID: 7,
		BookingDate: at(0, 0), StartTime: at(10, 0), EndTime: at(11, 0),
		Status: domain.StatusPending,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestGetByID_Found(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).AddRow(
			int64(5), int64(1), int64(7), at(0, 0), at(10, 0), at(11, 0),
			"confirmed", nil, false, nil, at(0, 0), at(0, 0),
		))

	booking, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), booking.ID)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.True(t, booking.StartTime.Equal(at(10, 0)))
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_BlockingOnlyFiltersByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	date := at(0, 0)
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE service_id = \$1 AND booking_date >= \$2 AND booking_date <= \$3 AND status IN \(\$4,\$5\) ORDER BY start_time ASC, id ASC`).
		WithArgs(int64(1), date, date, "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows(bookingColumns()).AddRow(
			int64(2), int64(1), int64(7), date, at(10, 0), at(11, 0),
			"pending", nil, false, nil, date, date,
		))

	bookings, err := repo.List(context.Background(), domain.BookingsFilter{
		ServiceID:    ptr.Ptr(int64(1)),
		StartDate:    &date,
		EndDate:      &date,
		BlockingOnly: true,
	})
	require.NoError(t, err)

	require.Len(t, bookings, 1)
	assert.Equal(t, int64(2), bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_SerializationFailureKeepsErrorChain(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings`).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.List(context.Background(), domain.BookingsFilter{
		ServiceID: ptr.Ptr(int64(1)),
	})
	require.Error(t, err)

	// Менеджер транзакций должен видеть код 40001 сквозь обёртку,
	// иначе сериализуемая транзакция не будет повторена
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsSerializationFailure(err))

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	bookings, err := repo.List(context.Background(), domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestUpdateStatus_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("confirmed", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 5, domain.StatusConfirmed)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_CancelledSetsCancelledAt(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\), cancelled_at = NOW\(\) WHERE id = \$2`).
		WithArgs("cancelled", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 5, domain.StatusCancelled)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateTimes_ExclusionViolationMapsToSlotTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WillReturnError(&pq.Error{Code: "23P01"})

	err := repo.UpdateTimes(context.Background(), &domain.Booking{
		ID: 5, ServiceID: 1,
		BookingDate: at(0, 0), StartTime: at(14, 0), EndTime: at(15, 0),
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestClaimReminder_FirstClaimWins(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings SET reminder_sent = \$1, updated_at = NOW\(\) WHERE id = \$2 AND reminder_sent = \$3`).
		WithArgs(true, int64(5), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.ClaimReminder(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestClaimReminder_AlreadySent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.ClaimReminder(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestResetReminderFlags_ReturnsAffectedCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	cutoff := at(0, 0).AddDate(0, 0, -30)
	mock.ExpectExec(`UPDATE bookings SET reminder_sent = \$1, updated_at = NOW\(\) WHERE reminder_sent = \$2 AND start_time < \$3`).
		WithArgs(false, true, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	reset, err := repo.ResetReminderFlags(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reset)
}

func TestIsReminderSent_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT reminder_sent FROM bookings WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.IsReminderSent(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
