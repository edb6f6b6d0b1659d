package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	"github.com/m04kA/TAS-BookingService/internal/integrations/fleetservice"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CapacityLedger интерфейс учетной книги ёмкости слотов
type CapacityLedger interface {
	Reserve(ctx context.Context, terminal *terminalservice.Terminal, date time.Time, startTime, endTime types.TimeString) (*domain.TimeSlot, error)
}

// AutoValidator интерфейс движка автоподтверждения
type AutoValidator interface {
	Decide(ctx context.Context, slot *domain.TimeSlot, terminalDefaultThreshold int) (bool, error)
}

// TerminalServiceClient интерфейс клиента для TerminalService
type TerminalServiceClient interface {
	GetTerminal(ctx context.Context, terminalID int64) (*terminalservice.Terminal, error)
}

// FleetServiceClient интерфейс клиента для FleetService
type FleetServiceClient interface {
	GetTruck(ctx context.Context, carrierID, truckID int64) (*fleetservice.Truck, error)
	GetContainers(ctx context.Context, carrierID int64, numbers []string) ([]*fleetservice.Container, error)
}

// AuthServiceClient интерфейс клиента для AuthService
type AuthServiceClient interface {
	CanCreateBooking(ctx context.Context, actorID int64, terminalID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditRecorder интерфейс издателя событий аудита
type AuditRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// SnapshotInvalidator интерфейс инвалидации кэша снапшотов ёмкости
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, terminalID int64, date string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
