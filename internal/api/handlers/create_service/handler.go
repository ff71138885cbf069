package create_service

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilkin/AppointmentService/internal/api/handlers"
	"github.com/avilkin/AppointmentService/internal/service/catalog"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPrice       = "некорректная цена услуги"
	msgInvalidInput       = "некорректные данные услуги"
)

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"` // "100.00"
}

// ServiceResponse HTTP response model
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"createdAt"`
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

// Handle POST /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.logger.Warn("POST /services - Invalid price: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPrice)
		return
	}

	created, err := h.service.Create(r.Context(), req.Name, req.DurationMinutes, price)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("POST /services - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /services - Failed to create service: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /services - Service created successfully: service_id=%d", created.ID)
	handlers.RespondJSON(w, http.StatusCreated, &ServiceResponse{
		ID:              created.ID,
		Name:            created.Name,
		DurationMinutes: created.DurationMinutes,
		Price:           created.Price.StringFixed(2),
		Active:          created.Active,
		CreatedAt:       created.CreatedAt.Format(time.RFC3339),
	})
}
