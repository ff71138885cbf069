package notifier

import "errors"

var (
	// ErrSendFailed возвращается, когда шлюз не принял уведомление
	ErrSendFailed = errors.New("notifier client: failed to send notification")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("notifier client: invalid response")
)
