package fleetservice

import "errors"

var (
	// ErrTruckNotFound возвращается, когда грузовик не найден у перевозчика
	ErrTruckNotFound = errors.New("truck not found")

	// ErrContainerNotFound возвращается, когда контейнер не найден у перевозчика
	ErrContainerNotFound = errors.New("container not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("fleetservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("fleetservice client: invalid response")
)
