package terminalservice

import "errors"

var (
	// ErrTerminalNotFound возвращается, когда терминал не найден
	ErrTerminalNotFound = errors.New("terminal not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("terminalservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("terminalservice client: invalid response")
)
