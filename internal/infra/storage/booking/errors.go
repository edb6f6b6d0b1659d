package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStaleStatus возвращается, когда условный переход статуса не применился:
	// текущий статус бронирования не входит в допустимые исходные статусы перехода
	ErrStaleStatus = errors.New("booking.repository: status changed concurrently or transition not allowed")

	// ErrDuplicateReference возвращается при коллизии кода бронирования
	ErrDuplicateReference = errors.New("booking.repository: duplicate reference code")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
