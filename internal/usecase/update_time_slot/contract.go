package update_time_slot

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// CapacityLedger интерфейс учетной книги ёмкости слотов
type CapacityLedger interface {
	ConfigureSlot(ctx context.Context, terminal *terminalservice.Terminal, date time.Time, startTime types.TimeString, maxCapacity int, isActive bool, threshold *int) (*domain.TimeSlot, error)
}

// TerminalServiceClient интерфейс клиента для TerminalService
type TerminalServiceClient interface {
	GetTerminal(ctx context.Context, terminalID int64) (*terminalservice.Terminal, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
