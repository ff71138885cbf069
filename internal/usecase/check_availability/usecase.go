package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
	"github.com/avilkin/AppointmentService/pkg/ptr"
)

// Request модель запроса проверки доступности окна
type Request struct {
	ServiceID int64
	StartTime time.Time
	EndTime   time.Time
}

// Response модель ответа проверки доступности
type Response struct {
	Available bool
}

// UseCase use case проверки доступности конкретного временного окна.
// Окно вне рабочих часов считается недоступным, но не ошибкой.
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

// Execute выполняет проверку доступности окна [StartTime, EndTime)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if !req.StartTime.Before(req.EndTime) {
		uc.logger.Warn("CheckAvailability: invalid range start=%s end=%s",
			req.StartTime, req.EndTime)
		return nil, ErrInvalidTimeRange
	}

	if _, err := uc.serviceRepo.GetByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CheckAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !domain.WithinBusinessHours(req.StartTime, req.EndTime) {
		return &Response{Available: false}, nil
	}

	date := domain.DateOnly(req.StartTime)
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		ServiceID:    ptr.Ptr(req.ServiceID),
		StartDate:    &date,
		EndDate:      &date,
		BlockingOnly: true,
	})
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	available := !domain.HasConflict(req.StartTime, req.EndTime, bookings)

	uc.logger.Info("CheckAvailability: service=%d window=[%s, %s) available=%t",
		req.ServiceID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339), available)

	return &Response{Available: available}, nil
}
