package create_booking

import (
	"time"

	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ActorID          int64            // ID субъекта, выполняющего запрос
	CarrierID        int64            // ID перевозчика
	TerminalID       int64            // ID терминала
	TruckID          int64            // ID грузовика перевозчика
	ContainerNumbers []string         // Номера контейнеров ISO 6346 (опционально, не более 4)
	Date             time.Time        // Дата прибытия (без времени)
	StartTime        types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64            // ID созданного бронирования
	ReferenceCode string           // Уникальный код брони, например "PKT-20251015-a3f9c1d2"
	TerminalID    int64            // ID терминала
	SlotID        int64            // ID слота с зарезервированной ёмкостью
	BookingDate   time.Time        // Дата прибытия
	StartTime     types.TimeString // Время начала слота
	EndTime       types.TimeString // Время конца слота

	Status           string // pending или confirmed
	WasAutoValidated bool   // Бронь прошла автоподтверждение

	CarrierID        int64    // ID перевозчика
	TruckID          int64    // ID грузовика
	ContainerNumbers []string // Номера контейнеров

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
