package create_booking

import "errors"

var (
	// ErrTerminalNotFound возвращается, когда терминал не найден
	ErrTerminalNotFound = errors.New("create_booking: terminal not found")

	// ErrTerminalInactive возвращается, когда терминал деактивирован
	ErrTerminalInactive = errors.New("create_booking: terminal is inactive")

	// ErrTerminalClosed возвращается, когда терминал не работает в указанную дату
	ErrTerminalClosed = errors.New("create_booking: terminal is closed on this date")

	// ErrTruckNotFound возвращается, когда грузовик не найден у перевозчика
	ErrTruckNotFound = errors.New("create_booking: truck not found")

	// ErrTruckInactive возвращается, когда грузовик выведен из эксплуатации
	ErrTruckInactive = errors.New("create_booking: truck is inactive")

	// ErrContainerNotFound возвращается, когда контейнер не найден у перевозчика
	ErrContainerNotFound = errors.New("create_booking: container not found")

	// ErrAccessDenied возвращается, когда у субъекта нет права создавать бронирования
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidTimeSlot возвращается, когда время начала не попадает в сетку
	// слотов рабочих часов терминала
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotFull возвращается, когда вся ёмкость слота занята
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrSlotUnavailable возвращается, когда слот деактивирован
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
