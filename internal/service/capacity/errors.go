package capacity

import "errors"

var (
	// ErrSlotFull возвращается, когда вся ёмкость слота занята
	// Ожидаемый бизнес-исход, не системный сбой
	ErrSlotFull = errors.New("capacity: slot is full")

	// ErrSlotUnavailable возвращается, когда слот деактивирован
	ErrSlotUnavailable = errors.New("capacity: slot is not available")

	// ErrSlotNotFound возвращается, когда слот не найден по ID
	ErrSlotNotFound = errors.New("capacity: slot not found")

	// ErrCapacityBelowBookings возвращается при попытке установить ёмкость слота
	// ниже текущего числа броней
	ErrCapacityBelowBookings = errors.New("capacity: max capacity below current bookings")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("capacity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках ledger
	ErrInternal = errors.New("capacity: internal error")
)
