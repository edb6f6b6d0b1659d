package get_slot_capacity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	terminalClient "github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
)

// UseCase use case публичной витрины ёмкости терминала на дату
// Единственный потребитель кэша снапшотов: горячий путь резервации
// всегда работает с БД и кэш не читает
type UseCase struct {
	ledger         CapacityLedger
	validator      AutoValidator
	terminalClient TerminalServiceClient
	cache          SnapshotCache
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger CapacityLedger,
	validator AutoValidator,
	terminalClient TerminalServiceClient,
	cache SnapshotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:         ledger,
		validator:      validator,
		terminalClient: terminalClient,
		cache:          cache,
		logger:         logger,
	}
}

// Execute выполняет use case получения снапшота ёмкости
// Снапшот покрывает всю сетку рабочих часов, включая виртуальные слоты,
// и для каждого слота содержит остаток бюджета автоподтверждения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.TerminalID <= 0 {
		return nil, fmt.Errorf("%w: terminalID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	dateStr := req.Date.Format(domain.DateFormat)

	uc.logger.Info("GetSlotCapacity: terminal=%d date=%s", req.TerminalID, dateStr)

	// Кэш best-effort: любой сбой чтения прозрачно уходит в пересчет
	if data, err := uc.cache.Get(ctx, req.TerminalID, dateStr); err == nil {
		var cached Response
		if err := json.Unmarshal(data, &cached); err == nil {
			uc.logger.Info("GetSlotCapacity: cache hit terminal=%d date=%s", req.TerminalID, dateStr)
			return &cached, nil
		}
		uc.logger.Warn("GetSlotCapacity: corrupt cached snapshot terminal=%d date=%s", req.TerminalID, dateStr)
	}

	terminal, err := uc.terminalClient.GetTerminal(ctx, req.TerminalID)
	if err != nil {
		if errors.Is(err, terminalClient.ErrTerminalNotFound) {
			uc.logger.Warn("GetSlotCapacity: terminal id=%d not found", req.TerminalID)
			return nil, ErrTerminalNotFound
		}
		uc.logger.Error("GetSlotCapacity: failed to get terminal id=%d: %v", req.TerminalID, err)
		return nil, fmt.Errorf("%w: failed to get terminal: %v", ErrInternal, err)
	}

	snapshot, err := uc.ledger.SnapshotForDate(ctx, terminal, req.Date)
	if err != nil {
		uc.logger.Error("GetSlotCapacity: failed to build snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to build snapshot: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(snapshot))
	for _, effective := range snapshot {
		budget, err := uc.validator.Status(ctx, effective, terminal.DefaultAutoValidationThreshold)
		if err != nil {
			uc.logger.Error("GetSlotCapacity: failed to get budget status: %v", err)
			return nil, fmt.Errorf("%w: failed to get budget status: %v", ErrInternal, err)
		}

		slots = append(slots, Slot{
			StartTime:          effective.StartTime.String(),
			EndTime:            effective.EndTime.String(),
			MaxCapacity:        effective.MaxCapacity,
			CurrentBookings:    effective.CurrentBookings,
			AvailableSpots:     effective.Available(),
			UtilizationPercent: budget.UtilizationPercent,
			IsActive:           effective.IsActive,
			Materialized:       effective.Materialized,
			AutoValidation: AutoValidationBudget{
				Threshold:        budget.Threshold,
				MaxAutoValidated: budget.MaxAutoValidated,
				Used:             budget.UsedAutoValidated,
				Remaining:        budget.RemainingBudget,
			},
		})
	}

	resp := &Response{
		TerminalID: req.TerminalID,
		Date:       dateStr,
		Slots:      slots,
	}

	if data, err := json.Marshal(resp); err == nil {
		uc.cache.Set(ctx, req.TerminalID, dateStr, data)
	}

	uc.logger.Info("GetSlotCapacity: built snapshot terminal=%d date=%s slots=%d",
		req.TerminalID, dateStr, len(slots))

	return resp, nil
}
