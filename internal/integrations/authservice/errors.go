package authservice

import "errors"

var (
	// ErrForbidden возвращается, когда действие запрещено для субъекта
	ErrForbidden = errors.New("action is forbidden")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("authservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("authservice client: invalid response")
)
