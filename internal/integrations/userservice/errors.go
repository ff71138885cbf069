package userservice

import "errors"

var (
	// ErrContactNotFound возвращается, когда у пользователя нет контактных данных
	ErrContactNotFound = errors.New("user contact not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
