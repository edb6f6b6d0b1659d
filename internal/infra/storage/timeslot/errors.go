package timeslot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("timeslot.repository: slot not found")

	// ErrNoCapacity возвращается, когда условный инкремент не применился:
	// слот неактивен или все места заняты
	ErrNoCapacity = errors.New("timeslot.repository: no free capacity")

	// ErrAlreadyReleased возвращается при попытке декремента слота с нулевым счетчиком
	// Не фатальна: ledger логирует аномалию двойного освобождения
	ErrAlreadyReleased = errors.New("timeslot.repository: counter already at zero")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslot.repository: failed to scan row")
)
