package get_slot_capacity

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/internal/service/autovalidation"
)

// CapacityLedger интерфейс учетной книги ёмкости слотов
type CapacityLedger interface {
	SnapshotForDate(ctx context.Context, terminal *terminalservice.Terminal, date time.Time) ([]domain.EffectiveSlot, error)
}

// AutoValidator интерфейс движка автоподтверждения
type AutoValidator interface {
	Status(ctx context.Context, slot domain.EffectiveSlot, terminalDefaultThreshold int) (*autovalidation.BudgetStatus, error)
}

// TerminalServiceClient интерфейс клиента для TerminalService
type TerminalServiceClient interface {
	GetTerminal(ctx context.Context, terminalID int64) (*terminalservice.Terminal, error)
}

// SnapshotCache интерфейс кэша снапшотов ёмкости
type SnapshotCache interface {
	Get(ctx context.Context, terminalID int64, date string) ([]byte, error)
	Set(ctx context.Context, terminalID int64, date string, data []byte)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
