package list_services

import (
	"net/http"
	"time"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
	"github.com/avilkin/AppointmentService/internal/domain"
)

// ServiceResponse HTTP модель услуги каталога
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"createdAt"`
}

// ServiceListResponse HTTP модель списка услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
		Total:    len(services),
	}
	for _, service := range services {
		response.Services = append(response.Services, FromDomainService(service))
	}

	h.logger.Info("GET /services - Retrieved %d services", response.Total)
	handlers.RespondJSON(w, http.StatusOK, response)
}

// FromDomainService конвертирует domain.Service в HTTP модель
func FromDomainService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price.StringFixed(2),
		Active:          s.Active,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
}
