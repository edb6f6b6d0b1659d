package domain

import (
	"time"

	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// BookingStatus represents the status of a truck arrival booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusConsumed  BookingStatus = "consumed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// Booking represents a truck arrival reservation at a terminal
type Booking struct {
	ID            int64
	ReferenceCode string // Уникальный код брони с префиксом терминала, например "PKT-20251015-a3f9c1d2"

	TerminalID  int64
	SlotID      int64 // ID слота, у которого зарезервирована единица ёмкости
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	Status           BookingStatus
	WasAutoValidated bool // Бронь прошла автоподтверждение без ручной проверки оператором

	CarrierID        int64
	TruckID          int64
	ContainerNumbers []string

	StatusReason *string // Причина отклонения/отмены (опционально)

	// Временные метки переходов статусов
	ConfirmedAt *time.Time
	RejectedAt  *time.Time
	CancelledAt *time.Time
	ConsumedAt  *time.Time
	ExpiredAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoldsCapacity returns true if the booking currently holds a reserved capacity unit
func (b *Booking) HoldsCapacity() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsFinal returns true if the booking is in a terminal status (no outgoing transitions)
func (b *Booking) IsFinal() bool {
	return b.Status == StatusRejected ||
		b.Status == StatusConsumed ||
		b.Status == StatusCancelled ||
		b.Status == StatusExpired
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// TerminalBookingsFilter фильтр для получения бронирований терминала
type TerminalBookingsFilter struct {
	TerminalID   int64             // Обязательный параметр
	StartDate    *time.Time        // Начало периода (опционально)
	EndDate      *time.Time        // Конец периода (опционально)
	StartTime    *types.TimeString // Фильтр по времени начала слота (опционально)
	Status       *BookingStatus    // Фильтр по статусу (опционально)
	CarrierID    *int64            // Фильтр по перевозчику (опционально)
	IncludeFinal bool              // Включать ли бронирования в финальных статусах
}
