package create_booking

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

// UseCase use case создания бронирования.
//
// Проверка конфликта и вставка выполняются в одной сериализуемой транзакции:
// List внутри транзакции блокирует строки конкурирующих бронирований той же
// услуги на ту же дату, а exclusion constraint в базе добивает гонки, которые
// успели проскочить проверку.
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

// Execute выполняет создание бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	var created *domain.Booking

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		date := domain.DateOnly(req.StartTime)

		existing, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			ServiceID:    ptr.Ptr(req.ServiceID),
			StartDate:    &date,
			EndDate:      &date,
			BlockingOnly: true,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if domain.HasConflict(req.StartTime, req.EndTime, existing) {
			return ErrSlotNotAvailable
		}

		now := uc.timeSource.Now()
		created, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			ServiceID:   req.ServiceID,
			UserID:      req.UserID,
			BookingDate: date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Status:      domain.StatusPending,
			Notes:       req.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: slot [%s, %s) for service=%d is not available",
				req.StartTime, req.EndTime, req.ServiceID)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(txErr, ErrInternal) {
			uc.logger.Error("CreateBooking: %v", txErr)
			return nil, txErr
		}
		if txmanager.IsSerializationFailure(txErr) {
			// Ретрай не спас от конфликта сериализации: окно занял конкурент
			uc.logger.Warn("CreateBooking: serialization conflict for service=%d: %v", req.ServiceID, txErr)
			return nil, ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", txErr)
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, txErr)
	}

	uc.logger.Info("CreateBooking: created booking id=%d service=%d user=%d",
		created.ID, created.ServiceID, created.UserID)

	return &Response{Booking: created}, nil
}
