package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/avilkin/AppointmentService/internal/domain"
)

// Service сервис агрегации статистики по бронированиям.
//
// Агрегация выполняется в памяти поверх полного списка бронирований:
// объёмы в этом домене измеряются тысячами записей, отдельные SQL-агрегаты
// не окупаются.
type Service struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	timeSource  TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса статистики
func NewService(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	timeSource TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		timeSource:  timeSource,
		logger:      logger,
	}
}

// GetOverallStats возвращает сводную статистику по всем бронированиям.
// Доли отмен и завершений считаются в процентах от общего числа.
func (s *Service) GetOverallStats(ctx context.Context) (*domain.BookingStats, error) {
	bookings, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.BookingStats{Total: int64(len(bookings))}
	for _, b := range bookings {
		switch b.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusNoShow:
			stats.NoShow++
		}
	}

	if stats.Total > 0 {
		stats.CancellationRate = round2(float64(stats.Cancelled) / float64(stats.Total) * 100)
		stats.CompletionRate = round2(float64(stats.Completed) / float64(stats.Total) * 100)
	}

	s.logger.Info("GetOverallStats: total=%d completed=%d cancelled=%d cancellationRate=%.2f%%",
		stats.Total, stats.Completed, stats.Cancelled, stats.CancellationRate)

	return stats, nil
}

// GetBookingsByDayOfWeek возвращает число бронирований по дням недели.
// В выдаче присутствуют все семь дней начиная с понедельника.
func (s *Service) GetBookingsByDayOfWeek(ctx context.Context) ([]domain.DayCount, error) {
	bookings, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Weekday]int64, 7)
	for _, b := range bookings {
		if b.BookingDate.IsZero() {
			continue
		}
		counts[b.BookingDate.Weekday()]++
	}

	week := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	result := make([]domain.DayCount, 0, len(week))
	for _, day := range week {
		result = append(result, domain.DayCount{
			Day:   day.String(),
			Count: counts[day],
		})
	}

	return result, nil
}

// GetMonthlyTrend возвращает число бронирований по месяцам за последние
// months месяцев, от старых к новым. Месяцы без бронирований включаются
// с нулевым счётчиком.
func (s *Service) GetMonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyCount, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive", ErrInvalidInput)
	}

	bookings, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, b := range bookings {
		if b.BookingDate.IsZero() {
			continue
		}
		counts[b.BookingDate.Format("2006-01")]++
	}

	now := s.timeSource.Now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trend := make([]domain.MonthlyCount, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := currentMonth.AddDate(0, -i, 0)
		label := month.Format("2006-01")
		trend = append(trend, domain.MonthlyCount{
			Month: label,
			Count: counts[label],
		})
	}

	return trend, nil
}

// GetTopServices возвращает limit самых бронируемых услуг по убыванию
// числа бронирований. При равенстве счётчиков порядок определяется
// первым появлением услуги в выборке.
func (s *Service) GetTopServices(ctx context.Context, limit int) ([]domain.ServiceBookingCount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	bookings, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64)
	order := make([]int64, 0)
	for _, b := range bookings {
		if _, seen := counts[b.ServiceID]; !seen {
			order = append(order, b.ServiceID)
		}
		counts[b.ServiceID]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	top := make([]domain.ServiceBookingCount, 0, len(order))
	for _, serviceID := range order {
		top = append(top, domain.ServiceBookingCount{
			ServiceID:   serviceID,
			ServiceName: s.lookupServiceName(ctx, serviceID),
			Count:       counts[serviceID],
		})
	}

	return top, nil
}

// GetAverageDurationMinutes возвращает среднюю длительность бронирования
// в минутах. Бронирования с некорректными временными границами пропускаются.
func (s *Service) GetAverageDurationMinutes(ctx context.Context) (float64, error) {
	bookings, err := s.listAll(ctx)
	if err != nil {
		return 0, err
	}

	var totalMinutes int64
	var counted int64
	for _, b := range bookings {
		if b.StartTime.IsZero() || b.EndTime.IsZero() || !b.EndTime.After(b.StartTime) {
			continue
		}
		totalMinutes += int64(b.DurationMinutes())
		counted++
	}

	if counted == 0 {
		return 0, nil
	}

	return round2(float64(totalMinutes) / float64(counted)), nil
}

func (s *Service) listAll(ctx context.Context) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{})
	if err != nil {
		s.logger.Error("stats: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	return bookings, nil
}

func (s *Service) lookupServiceName(ctx context.Context, serviceID int64) string {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		s.logger.Warn("stats: failed to get service id=%d: %v", serviceID, err)
		return ""
	}
	return service.Name
}

// round2 округляет до 2 знаков, средняя точка уходит вверх
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
