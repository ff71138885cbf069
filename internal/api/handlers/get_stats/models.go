package get_stats

import "github.com/avilkin/AppointmentService/internal/domain"

// OverallStatsResponse HTTP модель сводной статистики
type OverallStatsResponse struct {
	Total            int64   `json:"total"`
	Pending          int64   `json:"pending"`
	Confirmed        int64   `json:"confirmed"`
	Completed        int64   `json:"completed"`
	Cancelled        int64   `json:"cancelled"`
	NoShow           int64   `json:"noShow"`
	CancellationRate float64 `json:"cancellationRate"`
	CompletionRate   float64 `json:"completionRate"`
}

// DayCountResponse HTTP модель счётчика по дню недели
type DayCountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// MonthlyCountResponse HTTP модель счётчика по месяцу
type MonthlyCountResponse struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// TopServiceResponse HTTP модель счётчика по услуге
type TopServiceResponse struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName,omitempty"`
	Count       int64  `json:"count"`
}

// AverageDurationResponse HTTP модель средней длительности
type AverageDurationResponse struct {
	AverageDurationMinutes float64 `json:"averageDurationMinutes"`
}

// FromDomainStats конвертирует domain.BookingStats в HTTP response
func FromDomainStats(s *domain.BookingStats) *OverallStatsResponse {
	return &OverallStatsResponse{
		Total:            s.Total,
		Pending:          s.Pending,
		Confirmed:        s.Confirmed,
		Completed:        s.Completed,
		Cancelled:        s.Cancelled,
		NoShow:           s.NoShow,
		CancellationRate: s.CancellationRate,
		CompletionRate:   s.CompletionRate,
	}
}
