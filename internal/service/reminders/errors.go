package reminders

import "errors"

var (
	// ErrInvalidHoursAhead возвращается при неположительном окне напоминаний
	ErrInvalidHoursAhead = errors.New("hours ahead must be a positive number")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reminders: internal error")
)
