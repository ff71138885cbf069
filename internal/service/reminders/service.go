package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

const (
	// DefaultReminderHours окно напоминаний по умолчанию
	DefaultReminderHours = 24

	// followUpLookbackHours глубина выборки отменённых бронирований для follow-up писем
	followUpLookbackHours = 24
)

// Service сервис координации напоминаний.
//
// Гарантия at-most-once строится на персистентном флаге reminder_sent:
// перед отправкой флаг атомарно захватывается (CAS в базе), при неудачной
// отправке захват снимается. Ошибка отправки по одному бронированию не
// прерывает обход остальных.
type Service struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	userClient  UserServiceClient
	notifier    NotifierClient
	timeSource  TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса напоминаний
func NewService(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	userClient UserServiceClient,
	notifier NotifierClient,
	timeSource TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userClient:  userClient,
		notifier:    notifier,
		timeSource:  timeSource,
		logger:      logger,
	}
}

// SendUpcomingReminders отправляет напоминания по подтверждённым бронированиям,
// начинающимся в ближайшие hoursAhead часов. Возвращает число отправленных.
func (s *Service) SendUpcomingReminders(ctx context.Context, hoursAhead int) (int, error) {
	if hoursAhead <= 0 {
		return 0, ErrInvalidHoursAhead
	}

	now := s.timeSource.Now()
	cutoff := now.Add(time.Duration(hoursAhead) * time.Hour)

	bookings, err := s.bookingRepo.GetDueForReminder(ctx, now, cutoff)
	if err != nil {
		s.logger.Error("SendUpcomingReminders: failed to get due bookings: %v", err)
		return 0, fmt.Errorf("%w: failed to get due bookings: %v", ErrInternal, err)
	}

	sentCount := 0
	for _, booking := range bookings {
		sent, err := s.sendReminderForBooking(ctx, booking)
		if err != nil {
			s.logger.Error("SendUpcomingReminders: failed to send reminder for booking %d: %v",
				booking.ID, err)
			continue
		}
		if sent {
			sentCount++
		}
	}

	s.logger.Info("SendUpcomingReminders: sent %d reminders out of %d upcoming bookings (%dh window)",
		sentCount, len(bookings), hoursAhead)

	return sentCount, nil
}

// IsReminderSent сообщает, отправлено ли напоминание по бронированию
func (s *Service) IsReminderSent(ctx context.Context, bookingID int64) (bool, error) {
	sent, err := s.bookingRepo.IsReminderSent(ctx, bookingID)
	if err != nil {
		s.logger.Error("IsReminderSent: repository error for booking id=%d: %v", bookingID, err)
		return false, fmt.Errorf("%w: IsReminderSent - repository error: %v", ErrInternal, err)
	}
	return sent, nil
}

// ResetReminderFlags сбрасывает флаги напоминаний по бронированиям старше
// периода хранения. Возвращает число сброшенных флагов.
func (s *Service) ResetReminderFlags(ctx context.Context) (int64, error) {
	cutoff := s.timeSource.Now().AddDate(0, 0, -domain.ReminderRetentionDays)

	reset, err := s.bookingRepo.ResetReminderFlags(ctx, cutoff)
	if err != nil {
		s.logger.Error("ResetReminderFlags: repository error: %v", err)
		return 0, fmt.Errorf("%w: ResetReminderFlags - repository error: %v", ErrInternal, err)
	}

	if reset > 0 {
		s.logger.Info("ResetReminderFlags: cleared %d reminder flags older than %s",
			reset, cutoff.Format(domain.DateFormat))
	}

	return reset, nil
}

// SendCancellationFollowUps отправляет follow-up письма по бронированиям,
// отменённым за последние сутки. Возвращает число отправленных.
func (s *Service) SendCancellationFollowUps(ctx context.Context) (int, error) {
	since := s.timeSource.Now().Add(-followUpLookbackHours * time.Hour)

	cancelled, err := s.bookingRepo.GetCancelledSince(ctx, since)
	if err != nil {
		s.logger.Error("SendCancellationFollowUps: failed to get cancelled bookings: %v", err)
		return 0, fmt.Errorf("%w: failed to get cancelled bookings: %v", ErrInternal, err)
	}

	sentCount := 0
	for _, booking := range cancelled {
		contact, err := s.userClient.GetContact(ctx, booking.UserID)
		if err != nil {
			s.logger.Error("SendCancellationFollowUps: failed to get contact for user=%d: %v",
				booking.UserID, err)
			continue
		}

		serviceName := s.lookupServiceName(ctx, booking.ServiceID)
		subject := "Booking Cancelled - " + serviceNameOrDefault(serviceName)
		body := buildFollowUpMessage(booking, serviceNameOrDefault(serviceName))

		if err := s.notifier.SendEmail(ctx, contact.Email, subject, body); err != nil {
			s.logger.Error("SendCancellationFollowUps: failed to send email for booking %d: %v",
				booking.ID, err)
			continue
		}
		sentCount++
	}

	s.logger.Info("SendCancellationFollowUps: sent %d follow-ups out of %d cancelled bookings",
		sentCount, len(cancelled))

	return sentCount, nil
}

// sendReminderForBooking захватывает флаг и отправляет напоминание по одному
// бронированию. Возвращает false без ошибки, если флаг уже захвачен.
func (s *Service) sendReminderForBooking(ctx context.Context, booking *domain.Booking) (bool, error) {
	claimed, err := s.bookingRepo.ClaimReminder(ctx, booking.ID)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	if !claimed {
		s.logger.Debug("sendReminderForBooking: reminder already sent for booking %d, skipping", booking.ID)
		return false, nil
	}

	if err := s.dispatchReminder(ctx, booking); err != nil {
		if clearErr := s.bookingRepo.ClearReminderClaim(ctx, booking.ID); clearErr != nil {
			s.logger.Error("sendReminderForBooking: failed to clear claim for booking %d: %v",
				booking.ID, clearErr)
		}
		return false, err
	}

	s.logger.Info("sendReminderForBooking: reminder sent for booking %d: start=%s",
		booking.ID, booking.StartTime.Format(time.RFC3339))

	return true, nil
}

// dispatchReminder доставляет напоминание по доступным каналам.
// Email обязателен, sms отправляется дополнительно при наличии номера.
func (s *Service) dispatchReminder(ctx context.Context, booking *domain.Booking) error {
	contact, err := s.userClient.GetContact(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to get contact for user=%d: %w", booking.UserID, err)
	}

	serviceName := s.lookupServiceName(ctx, booking.ServiceID)
	subject := "Upcoming Booking Reminder - " + serviceNameOrDefault(serviceName)
	body := buildReminderMessage(booking, serviceName)

	if err := s.notifier.SendEmail(ctx, contact.Email, subject, body); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if contact.Phone != "" {
		if err := s.notifier.SendSms(ctx, contact.Phone, body); err != nil {
			s.logger.Warn("dispatchReminder: sms delivery failed for booking %d: %v", booking.ID, err)
		}
	}

	return nil
}

// lookupServiceName возвращает имя услуги, пустую строку при любой ошибке
func (s *Service) lookupServiceName(ctx context.Context, serviceID int64) string {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		s.logger.Warn("lookupServiceName: failed to get service id=%d: %v", serviceID, err)
		return ""
	}
	return service.Name
}
