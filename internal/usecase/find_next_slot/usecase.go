package find_next_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/internal/usecase/get_available_slots"
)

// Request модель запроса поиска ближайшего свободного слота
type Request struct {
	ServiceID int64
	From      time.Time
}

// Response модель ответа поиска ближайшего свободного слота.
// Slot равен nil, если в горизонте поиска свободных слотов нет.
type Response struct {
	ServiceID int64
	Slot      *domain.TimeSlot
}

// UseCase use case поиска ближайшего свободного слота.
//
// Дни перебираются по порядку начиная с запрошенной даты, выходные
// пропускаются. Горизонт поиска ограничен MaxLookaheadDays, после него
// поиск завершается без результата.
type UseCase struct {
	slotsProvider SlotsProvider
	timeSource    TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotsProvider SlotsProvider,
	timeSource TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotsProvider: slotsProvider,
		timeSource:    timeSource,
		logger:        logger,
	}
}

// Execute выполняет поиск ближайшего свободного слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	from := req.From
	if from.IsZero() {
		from = uc.timeSource.Now()
	}
	date := domain.DateOnly(from)

	for day := 0; day < domain.MaxLookaheadDays; day++ {
		current := date.AddDate(0, 0, day)
		if domain.IsWeekend(current) {
			continue
		}

		resp, err := uc.slotsProvider.Execute(ctx, &get_available_slots.Request{
			ServiceID: req.ServiceID,
			Date:      current,
		})
		if err != nil {
			if errors.Is(err, get_available_slots.ErrServiceNotFound) {
				uc.logger.Warn("FindNextSlot: service id=%d not found", req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("FindNextSlot: failed to get slots for %s: %v",
				current.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
		}

		if len(resp.Slots) > 0 {
			slot := resp.Slots[0]
			uc.logger.Info("FindNextSlot: service=%d next slot at %s",
				req.ServiceID, slot.StartTime.Format(time.RFC3339))
			return &Response{ServiceID: req.ServiceID, Slot: &slot}, nil
		}
	}

	uc.logger.Info("FindNextSlot: service=%d has no free slots within %d days",
		req.ServiceID, domain.MaxLookaheadDays)

	return &Response{ServiceID: req.ServiceID, Slot: nil}, nil
}
