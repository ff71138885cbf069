package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/avilkin/AppointmentService/internal/domain"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
	"github.com/avilkin/AppointmentService/pkg/ptr"
)

// UseCase use case для получения доступных слотов на день.
// Конфликты каждый раз пересчитываются по живому состоянию хранилища —
// результат корректен при конкурентных записях, кэша нет намеренно.
type UseCase struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	date := domain.DateOnly(req.Date)

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		ServiceID:    ptr.Ptr(req.ServiceID),
		StartDate:    &date,
		EndDate:      &date,
		BlockingOnly: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots := generateSlots(date, svc.DurationMinutes, bookings)

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d on %s",
		len(slots), req.ServiceID, date.Format(domain.DateFormat))

	return &Response{
		ServiceID: req.ServiceID,
		Date:      date,
		Slots:     slots,
	}, nil
}
