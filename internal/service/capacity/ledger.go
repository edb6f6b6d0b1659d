package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/storage/timeslot"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// Ledger учетная книга ёмкости слотов
// Гарантирует, что у одного слота никогда не будет больше maxCapacity броней,
// материализуя запись слота по требованию. Счетчик занятых мест изменяется
// только операциями Reserve/Release - никакой другой код слот не трогает
type Ledger struct {
	slotRepo     SlotRepository
	templateRepo TemplateRepository
	logger       Logger
}

// NewLedger создает новый экземпляр capacity ledger
func NewLedger(slotRepo SlotRepository, templateRepo TemplateRepository, logger Logger) *Ledger {
	return &Ledger{
		slotRepo:     slotRepo,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// Reserve резервирует единицу ёмкости слота (терминал, дата, время начала)
// Вызывается только внутри сериализуемой транзакции создания брони: чтение слота
// с блокировкой строки и условный инкремент образуют единое атомарное целое,
// конкурирующие резервации того же слота сериализуются на блокировке
//
// Если записи слота еще нет, она материализуется из дефолтов: ёмкость из
// недельного шаблона для часа слота, иначе из конфигурации терминала
func (l *Ledger) Reserve(
	ctx context.Context,
	terminal *terminalservice.Terminal,
	date time.Time,
	startTime types.TimeString,
	endTime types.TimeString,
) (*domain.TimeSlot, error) {
	slot, err := l.slotRepo.GetBySlotKey(ctx, terminal.ID, date, startTime.String())
	if err != nil && !errors.Is(err, timeslot.ErrSlotNotFound) {
		return nil, fmt.Errorf("%w: Reserve - get slot: %v", ErrInternal, err)
	}

	// Слот еще не материализован - создаем из дефолтов
	if slot == nil {
		slot, err = l.materialize(ctx, terminal, date, startTime, endTime)
		if err != nil {
			return nil, err
		}
	}

	if !slot.IsActive {
		l.logger.Warn("Reserve: slot id=%d terminal=%d %s %s is inactive",
			slot.ID, terminal.ID, date.Format(domain.DateFormat), startTime)
		return nil, ErrSlotUnavailable
	}

	if slot.IsFull() {
		l.logger.Warn("Reserve: slot id=%d is full, %d/%d taken",
			slot.ID, slot.CurrentBookings, slot.MaxCapacity)
		return nil, ErrSlotFull
	}

	if err := l.slotRepo.IncrementBookings(ctx, slot.ID); err != nil {
		// Строка слота заблокирована текущей транзакцией, условный инкремент
		// может не примениться только при гонке вне транзакции
		if errors.Is(err, timeslot.ErrNoCapacity) {
			l.logger.Warn("Reserve: slot id=%d lost capacity between check and increment", slot.ID)
			return nil, ErrSlotFull
		}
		return nil, fmt.Errorf("%w: Reserve - increment bookings: %v", ErrInternal, err)
	}

	slot.CurrentBookings++

	l.logger.Info("Reserve: slot id=%d reserved, %d/%d taken",
		slot.ID, slot.CurrentBookings, slot.MaxCapacity)

	return slot, nil
}

// Release освобождает ранее зарезервированную единицу ёмкости слота
// Идемпотентна по эффекту: счетчик никогда не уходит ниже нуля, повторное
// освобождение логируется как аномалия, но не считается ошибкой
func (l *Ledger) Release(ctx context.Context, slotID int64) error {
	err := l.slotRepo.DecrementBookings(ctx, slotID)
	if err == nil {
		l.logger.Info("Release: slot id=%d released one unit", slotID)
		return nil
	}

	if errors.Is(err, timeslot.ErrAlreadyReleased) {
		l.logger.Warn("Release: double release detected for slot id=%d, counter already at zero", slotID)
		return nil
	}

	return fmt.Errorf("%w: Release - decrement bookings: %v", ErrInternal, err)
}

// SnapshotForDate возвращает упорядоченную картину ёмкости терминала на дату
// по всей сетке рабочих часов, включая виртуальные (никогда не бронировавшиеся)
// слоты с ёмкостью из шаблона/дефолтов терминала
func (l *Ledger) SnapshotForDate(
	ctx context.Context,
	terminal *terminalservice.Terminal,
	date time.Time,
) ([]domain.EffectiveSlot, error) {
	grid, err := buildSlotGrid(terminal.ScheduleForDate(date), terminal.SlotDurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: SnapshotForDate - build slot grid: %v", ErrInternal, err)
	}

	if len(grid) == 0 {
		return []domain.EffectiveSlot{}, nil
	}

	materialized, err := l.slotRepo.ListByTerminalAndDate(ctx, terminal.ID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: SnapshotForDate - list slots: %v", ErrInternal, err)
	}

	byStart := make(map[string]*domain.TimeSlot, len(materialized))
	for _, s := range materialized {
		byStart[s.StartTime.String()] = s
	}

	templates, err := l.templateRepo.ListByTerminalAndDay(ctx, terminal.ID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("%w: SnapshotForDate - list templates: %v", ErrInternal, err)
	}

	snapshot := make([]domain.EffectiveSlot, 0, len(grid))

	for _, window := range grid {
		if s, ok := byStart[window.start.String()]; ok {
			snapshot = append(snapshot, domain.MaterializedSlot(s))
			continue
		}

		defaultCapacity, defaultActive := slotDefaults(terminal, templates, window.start)
		snapshot = append(snapshot, domain.VirtualSlot(
			terminal.ID, date, window.start, window.end, defaultCapacity, defaultActive,
		))
	}

	return snapshot, nil
}

// Recalculate пересчитывает счетчики слотов терминала на дату из авторитетного
// количества броней, удерживающих ёмкость
// Reconciliation для устранения дрейфа, не вызывается на горячем пути бронирования
func (l *Ledger) Recalculate(ctx context.Context, terminalID int64, date time.Time) (int64, error) {
	updated, err := l.slotRepo.RecalculateForDate(ctx, terminalID, date)
	if err != nil {
		return 0, fmt.Errorf("%w: Recalculate - recalculate for date: %v", ErrInternal, err)
	}

	l.logger.Info("Recalculate: terminal=%d date=%s updated %d slots",
		terminalID, date.Format(domain.DateFormat), updated)

	return updated, nil
}

// ConfigureSlot создает или изменяет слот административно: ёмкость, активность,
// переопределение порога автоподтверждения
// Редактирование материализует виртуальный слот
func (l *Ledger) ConfigureSlot(
	ctx context.Context,
	terminal *terminalservice.Terminal,
	date time.Time,
	startTime types.TimeString,
	maxCapacity int,
	isActive bool,
	threshold *int,
) (*domain.TimeSlot, error) {
	if maxCapacity < domain.MinSlotCapacity || maxCapacity > domain.MaxSlotCapacity {
		return nil, fmt.Errorf("%w: maxCapacity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}
	if threshold != nil && (*threshold < domain.MinAutoValidationThreshold || *threshold > domain.MaxAutoValidationThreshold) {
		return nil, fmt.Errorf("%w: threshold must be between %d and %d",
			ErrInvalidInput, domain.MinAutoValidationThreshold, domain.MaxAutoValidationThreshold)
	}

	// Ёмкость нельзя опустить ниже уже выданных броней
	existing, err := l.slotRepo.GetBySlotKey(ctx, terminal.ID, date, startTime.String())
	if err != nil && !errors.Is(err, timeslot.ErrSlotNotFound) {
		return nil, fmt.Errorf("%w: ConfigureSlot - get slot: %v", ErrInternal, err)
	}
	if existing != nil && maxCapacity < existing.CurrentBookings {
		l.logger.Warn("ConfigureSlot: slot id=%d capacity %d below current bookings %d",
			existing.ID, maxCapacity, existing.CurrentBookings)
		return nil, ErrCapacityBelowBookings
	}

	endTime, err := startTime.AddMinutes(terminal.SlotDurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: ConfigureSlot - compute end time: %v", ErrInvalidInput, err)
	}

	slot := &domain.TimeSlot{
		TerminalID:              terminal.ID,
		SlotDate:                date,
		StartTime:               startTime,
		EndTime:                 endTime,
		MaxCapacity:             maxCapacity,
		CurrentBookings:         0, // Для существующего слота счетчик сохраняется upsert-ом
		IsActive:                isActive,
		AutoValidationThreshold: threshold,
	}

	updated, err := l.slotRepo.Upsert(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("%w: ConfigureSlot - upsert slot: %v", ErrInternal, err)
	}

	l.logger.Info("ConfigureSlot: terminal=%d date=%s time=%s capacity=%d active=%t",
		terminal.ID, date.Format(domain.DateFormat), startTime, maxCapacity, isActive)

	return updated, nil
}

// GetSlot получает слот по ID
func (l *Ledger) GetSlot(ctx context.Context, slotID int64) (*domain.TimeSlot, error) {
	slot, err := l.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, timeslot.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: GetSlot - get by id: %v", ErrInternal, err)
	}
	return slot, nil
}

// materialize создает запись слота из дефолтов шаблона/терминала
// При конкурентной материализации выигрывает одна вставка (ON CONFLICT DO NOTHING),
// повторное чтение возвращает победителя с блокировкой строки
func (l *Ledger) materialize(
	ctx context.Context,
	terminal *terminalservice.Terminal,
	date time.Time,
	startTime types.TimeString,
	endTime types.TimeString,
) (*domain.TimeSlot, error) {
	templates, err := l.templateRepo.ListByTerminalAndDay(ctx, terminal.ID, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("%w: materialize - list templates: %v", ErrInternal, err)
	}

	defaultCapacity, defaultActive := slotDefaults(terminal, templates, startTime)

	candidate := &domain.TimeSlot{
		TerminalID:      terminal.ID,
		SlotDate:        date,
		StartTime:       startTime,
		EndTime:         endTime,
		MaxCapacity:     defaultCapacity,
		CurrentBookings: 0,
		IsActive:        defaultActive,
	}

	if err := l.slotRepo.CreateIfAbsent(ctx, candidate); err != nil {
		return nil, fmt.Errorf("%w: materialize - create slot: %v", ErrInternal, err)
	}

	slot, err := l.slotRepo.GetBySlotKey(ctx, terminal.ID, date, startTime.String())
	if err != nil {
		return nil, fmt.Errorf("%w: materialize - reread slot: %v", ErrInternal, err)
	}

	l.logger.Info("materialize: slot id=%d created for terminal=%d date=%s time=%s capacity=%d",
		slot.ID, terminal.ID, date.Format(domain.DateFormat), startTime, slot.MaxCapacity)

	return slot, nil
}

// slotDefaults возвращает дефолтную ёмкость и активность слота:
// шаблон недели для часа слота приоритетнее конфигурации терминала
func slotDefaults(terminal *terminalservice.Terminal, templates []*domain.SlotTemplate, startTime types.TimeString) (int, bool) {
	hour := slotHour(startTime)

	for _, t := range templates {
		if t.Hour == hour {
			return t.DefaultCapacity, t.IsActive
		}
	}

	return terminal.DefaultSlotCapacity, true
}

// slotHour извлекает час из времени начала слота
func slotHour(startTime types.TimeString) int {
	parsed, err := time.Parse(domain.TimeFormat, startTime.String())
	if err != nil {
		return -1
	}
	return parsed.Hour()
}
