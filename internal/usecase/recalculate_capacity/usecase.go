package recalculate_capacity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
)

// Request модель запроса на пересчет счетчиков ёмкости терминала на дату
type Request struct {
	ActorID    int64     // ID субъекта, выполняющего запрос
	TerminalID int64     // ID терминала
	Date       time.Time // Дата (без времени)
}

// Response итог пересчета
type Response struct {
	UpdatedSlots int64 `json:"updatedSlots"` // Слотов с исправленным счетчиком
}

// UseCase use case reconciliation-пересчета счетчиков слотов
// Восстанавливает инвариант current_bookings = числу броней, удерживающих
// ёмкость; применяется при подозрении на дрейф, не на горячем пути
type UseCase struct {
	ledger    CapacityLedger
	txManager TransactionManager
	auditor   AuditRecorder
	cache     SnapshotInvalidator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger CapacityLedger,
	txManager TransactionManager,
	auditor AuditRecorder,
	cache SnapshotInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:    ledger,
		txManager: txManager,
		auditor:   auditor,
		cache:     cache,
		logger:    logger,
	}
}

// Execute выполняет use case пересчета
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}
	if req.TerminalID <= 0 {
		return nil, fmt.Errorf("%w: terminalID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	dateStr := req.Date.Format(domain.DateFormat)

	uc.logger.Info("RecalculateCapacity: actor=%d terminal=%d date=%s", req.ActorID, req.TerminalID, dateStr)

	var updated int64

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		n, err := uc.ledger.Recalculate(txCtx, req.TerminalID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to recalculate: %v", ErrInternal, err)
		}
		updated = n
		return nil
	})

	if err != nil {
		uc.logger.Error("RecalculateCapacity: %v", err)
		uc.recordAudit(ctx, req.ActorID, req.TerminalID, audit.OutcomeFailed, err.Error())
		return nil, err
	}

	uc.recordAudit(ctx, req.ActorID, req.TerminalID, audit.OutcomeSuccess, fmt.Sprintf("updated %d slots", updated))
	uc.cache.Invalidate(ctx, req.TerminalID, dateStr)

	return &Response{UpdatedSlots: updated}, nil
}

// recordAudit публикует событие аудита пересчета
func (uc *UseCase) recordAudit(ctx context.Context, actorID, terminalID int64, outcome, detail string) {
	uc.auditor.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionCapacityRecalc,
		ResourceID: strconv.FormatInt(terminalID, 10),
		Outcome:    outcome,
		Detail:     detail,
	})
}
