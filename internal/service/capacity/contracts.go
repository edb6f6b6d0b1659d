package capacity

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
// Единственная точка записи счетчика current_bookings во всем сервисе
type SlotRepository interface {
	GetBySlotKey(ctx context.Context, terminalID int64, date time.Time, startTime string) (*domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	CreateIfAbsent(ctx context.Context, slot *domain.TimeSlot) error
	Upsert(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	IncrementBookings(ctx context.Context, id int64) error
	DecrementBookings(ctx context.Context, id int64) error
	ListByTerminalAndDate(ctx context.Context, terminalID int64, date time.Time) ([]*domain.TimeSlot, error)
	RecalculateForDate(ctx context.Context, terminalID int64, date time.Time) (int64, error)
}

// TemplateRepository интерфейс репозитория недельных шаблонов слотов
type TemplateRepository interface {
	ListByTerminalAndDay(ctx context.Context, terminalID int64, dayOfWeek int) ([]*domain.SlotTemplate, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
