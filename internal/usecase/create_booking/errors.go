package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается при попытке бронирования неактивной услуги
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrSlotNotAvailable возвращается, когда окно пересекается с существующим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: time slot is not available")

	// ErrOutsideBusinessHours возвращается, когда окно выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("create_booking: time slot is outside business hours")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
