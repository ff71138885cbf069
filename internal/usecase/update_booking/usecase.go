package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/avilkin/AppointmentService/internal/domain"
	bookingRepo "github.com/avilkin/AppointmentService/internal/infra/storage/booking"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
	"github.com/avilkin/AppointmentService/pkg/ptr"
	"github.com/avilkin/AppointmentService/pkg/txmanager"
)

// UseCase use case переноса бронирования на новое время и, опционально,
// на другую услугу.
//
// Перенос разрешен только для pending и confirmed бронирований. Конфликт
// проверяется против остальных блокирующих бронирований целевой услуги,
// собственное бронирование из проверки исключается.
type UseCase struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	txManager   TxManager
	timeSource  TimeProvider
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	txManager TxManager,
	timeSource TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		txManager:   txManager,
		timeSource:  timeSource,
		logger:      logger,
	}
}

// Execute выполняет перенос бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	if req.ServiceID != nil {
		service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("UpdateBooking: target service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
		}
		if !service.IsBookable() {
			uc.logger.Warn("UpdateBooking: target service id=%d is not active", *req.ServiceID)
			return nil, ErrServiceInactive
		}
	}

	var updated *domain.Booking

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if !booking.CanBeUpdated() {
			return fmt.Errorf("%w: status=%s", ErrNotUpdatable, booking.Status)
		}

		targetServiceID := booking.ServiceID
		if req.ServiceID != nil {
			targetServiceID = *req.ServiceID
		}

		date := domain.DateOnly(req.StartTime)

		// При смене услуги конфликт проверяется против целевой услуги
		existing, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			ServiceID:    ptr.Ptr(targetServiceID),
			StartDate:    &date,
			EndDate:      &date,
			BlockingOnly: true,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		for _, other := range existing {
			if other.ID == booking.ID {
				continue
			}
			if other.Overlaps(req.StartTime, req.EndTime) {
				return ErrSlotNotAvailable
			}
		}

		booking.ServiceID = targetServiceID
		booking.BookingDate = date
		booking.StartTime = req.StartTime
		booking.EndTime = req.EndTime
		if req.Notes != nil {
			booking.Notes = req.Notes
		}
		booking.UpdatedAt = uc.timeSource.Now()

		if err := uc.bookingRepo.UpdateTimes(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		updated = booking
		return nil
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrBookingNotFound),
			errors.Is(txErr, ErrNotUpdatable),
			errors.Is(txErr, ErrSlotNotAvailable):
			uc.logger.Warn("UpdateBooking: booking id=%d rejected: %v", req.BookingID, txErr)
			return nil, txErr
		case errors.Is(txErr, ErrInternal):
			uc.logger.Error("UpdateBooking: %v", txErr)
			return nil, txErr
		case txmanager.IsSerializationFailure(txErr):
			// Ретрай не спас от конфликта сериализации: окно занял конкурент
			uc.logger.Warn("UpdateBooking: serialization conflict for booking id=%d: %v", req.BookingID, txErr)
			return nil, ErrSlotNotAvailable
		default:
			uc.logger.Error("UpdateBooking: transaction failed: %v", txErr)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, txErr)
		}
	}

	uc.logger.Info("UpdateBooking: booking id=%d rescheduled to [%s, %s)",
		updated.ID, updated.StartTime, updated.EndTime)

	return &Response{Booking: updated}, nil
}
