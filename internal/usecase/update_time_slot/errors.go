package update_time_slot

import "errors"

var (
	// ErrTerminalNotFound возвращается, когда терминал не найден
	ErrTerminalNotFound = errors.New("update_time_slot: terminal not found")

	// ErrCapacityBelowBookings возвращается при попытке установить ёмкость
	// ниже текущего числа броней слота
	ErrCapacityBelowBookings = errors.New("update_time_slot: max capacity below current bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_time_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_time_slot: internal error")
)
