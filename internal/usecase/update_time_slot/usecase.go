package update_time_slot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	terminalClient "github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/internal/service/capacity"
)

// UseCase use case административного изменения слота
// Редактирование виртуального слота материализует его; занятые места
// при изменении ёмкости сохраняются и не могут оказаться выше новой ёмкости
type UseCase struct {
	ledger         CapacityLedger
	terminalClient TerminalServiceClient
	txManager      TransactionManager
	auditor        AuditRecorder
	cache          SnapshotInvalidator
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger CapacityLedger,
	terminalClient TerminalServiceClient,
	txManager TransactionManager,
	auditor AuditRecorder,
	cache SnapshotInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:         ledger,
		terminalClient: terminalClient,
		txManager:      txManager,
		auditor:        auditor,
		cache:          cache,
		logger:         logger,
	}
}

// Execute выполняет use case изменения слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateTimeSlot: actor=%d terminal=%d date=%s time=%s capacity=%d active=%t",
		req.ActorID, req.TerminalID, req.Date.Format(domain.DateFormat), req.StartTime, req.MaxCapacity, req.IsActive)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateTimeSlot: validation failed: %v", err)
		return nil, err
	}

	terminal, err := uc.terminalClient.GetTerminal(ctx, req.TerminalID)
	if err != nil {
		if errors.Is(err, terminalClient.ErrTerminalNotFound) {
			uc.logger.Warn("UpdateTimeSlot: terminal id=%d not found", req.TerminalID)
			return nil, ErrTerminalNotFound
		}
		uc.logger.Error("UpdateTimeSlot: failed to get terminal id=%d: %v", req.TerminalID, err)
		return nil, fmt.Errorf("%w: failed to get terminal: %v", ErrInternal, err)
	}

	var slot *domain.TimeSlot

	// Проверка ёмкости против занятых мест и upsert атомарны:
	// конкурирующая резервация либо ждет на блокировке строки, либо видит
	// уже измененную ёмкость
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		updated, err := uc.ledger.ConfigureSlot(txCtx, terminal, req.Date, req.StartTime,
			req.MaxCapacity, req.IsActive, req.Threshold)
		if err != nil {
			switch {
			case errors.Is(err, capacity.ErrCapacityBelowBookings):
				return ErrCapacityBelowBookings
			case errors.Is(err, capacity.ErrInvalidInput):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			default:
				return fmt.Errorf("%w: failed to configure slot: %v", ErrInternal, err)
			}
		}
		slot = updated
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrCapacityBelowBookings) || errors.Is(err, ErrInvalidInput) {
			uc.logger.Warn("UpdateTimeSlot: %v", err)
			return nil, err
		}
		uc.logger.Error("UpdateTimeSlot: %v", err)
		uc.recordAudit(ctx, req.ActorID, 0, audit.OutcomeFailed, err.Error())
		return nil, err
	}

	uc.logger.Info("UpdateTimeSlot: slot id=%d updated, capacity=%d active=%t",
		slot.ID, slot.MaxCapacity, slot.IsActive)

	uc.recordAudit(ctx, req.ActorID, slot.ID, audit.OutcomeSuccess, "")
	uc.cache.Invalidate(ctx, req.TerminalID, req.Date.Format(domain.DateFormat))

	return &Response{
		SlotID:          slot.ID,
		TerminalID:      slot.TerminalID,
		Date:            slot.SlotDate,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		MaxCapacity:     slot.MaxCapacity,
		CurrentBookings: slot.CurrentBookings,
		IsActive:        slot.IsActive,
		Threshold:       slot.AutoValidationThreshold,
		CreatedAt:       slot.CreatedAt,
		UpdatedAt:       slot.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.TerminalID <= 0 {
		return fmt.Errorf("%w: terminalID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// recordAudit публикует событие аудита изменения слота
func (uc *UseCase) recordAudit(ctx context.Context, actorID, slotID int64, outcome, detail string) {
	resourceID := ""
	if slotID > 0 {
		resourceID = strconv.FormatInt(slotID, 10)
	}

	uc.auditor.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionSlotUpdate,
		ResourceID: resourceID,
		Outcome:    outcome,
		Detail:     detail,
	})
}
