package autovalidation

import (
	"context"
	"fmt"

	"github.com/m04kA/TAS-BookingService/internal/domain"
)

// Engine движок автоподтверждения бронирований
// Решает, может ли новая бронь миновать ручную проверку оператора:
// бюджет автоподтверждения - процент от ёмкости слота, занятый живыми
// и успешно завершенными автоподтвержденными бронями
type Engine struct {
	bookingCounter BookingCounter
	logger         Logger
}

// NewEngine создает новый экземпляр движка автоподтверждения
func NewEngine(bookingCounter BookingCounter, logger Logger) *Engine {
	return &Engine{
		bookingCounter: bookingCounter,
		logger:         logger,
	}
}

// BudgetStatus read-only картина бюджета автоподтверждения слота
type BudgetStatus struct {
	Threshold          int // Действующий порог, процент 0-100
	MaxAutoValidated   int // Размер бюджета: floor(capacity * threshold / 100)
	UsedAutoValidated  int // Занято живыми/завершенными автоподтвержденными бронями
	RemainingBudget    int // Остаток бюджета (не меньше 0)
	UtilizationPercent float64
}

// Decide решает, автоподтверждается ли следующая бронь слота
// Чистая функция состояния слота на момент вызова; обязана выполняться строго
// после успешной резервации ёмкости в той же транзакции - строка слота уже
// заблокирована, поэтому подсчет не видит устаревших данных и порядок решений
// совпадает с порядком сериализации резерваций
//
// Порог 0 всегда дает false: бюджет floor(capacity*0/100) = 0 пуст
func (e *Engine) Decide(ctx context.Context, slot *domain.TimeSlot, terminalDefaultThreshold int) (bool, error) {
	threshold := effectiveThreshold(slot.AutoValidationThreshold, terminalDefaultThreshold)
	maxAutoValidated := budgetSize(slot.MaxCapacity, threshold)

	if maxAutoValidated == 0 {
		return false, nil
	}

	used, err := e.bookingCounter.CountAutoValidatedBySlot(ctx, slot.ID)
	if err != nil {
		return false, fmt.Errorf("%w: Decide - count auto-validated: %v", ErrInternal, err)
	}

	decision := used < maxAutoValidated

	e.logger.Info("Decide: slot id=%d threshold=%d%% budget=%d used=%d -> auto=%t",
		slot.ID, threshold, maxAutoValidated, used, decision)

	return decision, nil
}

// Status возвращает read-only состояние бюджета автоподтверждения слота
// Та же арифметика, что у Decide, без побочных эффектов; для виртуального
// слота бюджет не тронут - броней у слота еще нет
func (e *Engine) Status(ctx context.Context, slot domain.EffectiveSlot, terminalDefaultThreshold int) (*BudgetStatus, error) {
	threshold := slot.EffectiveThreshold(terminalDefaultThreshold)
	maxAutoValidated := budgetSize(slot.MaxCapacity, threshold)

	used := 0
	if slot.Materialized && maxAutoValidated > 0 {
		var err error
		used, err = e.bookingCounter.CountAutoValidatedBySlot(ctx, slot.Slot.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: Status - count auto-validated: %v", ErrInternal, err)
		}
	}

	remaining := maxAutoValidated - used
	if remaining < 0 {
		remaining = 0
	}

	return &BudgetStatus{
		Threshold:          threshold,
		MaxAutoValidated:   maxAutoValidated,
		UsedAutoValidated:  used,
		RemainingBudget:    remaining,
		UtilizationPercent: slot.UtilizationPercent(),
	}, nil
}

// effectiveThreshold возвращает действующий порог: переопределение слота,
// если задано, иначе дефолт терминала
func effectiveThreshold(override *int, terminalDefault int) int {
	if override != nil {
		return *override
	}
	return terminalDefault
}

// budgetSize вычисляет размер бюджета автоподтверждения
// Целочисленное деление дает floor: capacity=10, threshold=30 -> 3
func budgetSize(capacity, threshold int) int {
	if capacity <= 0 || threshold <= 0 {
		return 0
	}
	return capacity * threshold / 100
}
