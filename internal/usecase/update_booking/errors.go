package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrServiceNotFound возвращается, когда целевая услуга не найдена
	ErrServiceNotFound = errors.New("update_booking: service not found")

	// ErrServiceInactive возвращается при попытке переноса на неактивную услугу
	ErrServiceInactive = errors.New("update_booking: service is not active")

	// ErrNotUpdatable возвращается, когда бронирование нельзя перенести в текущем статусе
	ErrNotUpdatable = errors.New("update_booking: booking cannot be rescheduled in its current status")

	// ErrSlotNotAvailable возвращается, когда новое окно пересекается с другим бронированием
	ErrSlotNotAvailable = errors.New("update_booking: time slot is not available")

	// ErrOutsideBusinessHours возвращается, когда новое окно выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("update_booking: time slot is outside business hours")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
