package bookings

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReferenceCode(ctx context.Context, code string) (*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, reason *string) error
	ListByCarrier(ctx context.Context, carrierID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListByTerminalWithFilter(ctx context.Context, filter domain.TerminalBookingsFilter) ([]*domain.Booking, error)
	ListExpiryCandidates(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error)
}

// CapacityLedger интерфейс учетной книги ёмкости слотов
type CapacityLedger interface {
	Release(ctx context.Context, slotID int64) error
}

// AuthServiceClient интерфейс клиента для AuthService
type AuthServiceClient interface {
	CanTransition(ctx context.Context, actorID int64, bookingID int64, target string) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
