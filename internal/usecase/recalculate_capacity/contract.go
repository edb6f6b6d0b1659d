package recalculate_capacity

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
)

// CapacityLedger интерфейс учетной книги ёмкости слотов
type CapacityLedger interface {
	Recalculate(ctx context.Context, terminalID int64, date time.Time) (int64, error)
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
