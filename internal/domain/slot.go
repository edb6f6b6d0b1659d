package domain

import (
	"time"

	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// TimeSlot is the persisted capacity record for one terminal, date and start time
type TimeSlot struct {
	ID          int64
	TerminalID  int64
	SlotDate    time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	MaxCapacity int
	// CurrentBookings инвариант: 0 <= CurrentBookings <= MaxCapacity
	// Изменяется только операциями Reserve/Release capacity ledger
	CurrentBookings int
	IsActive        bool
	// AutoValidationThreshold переопределение порога автоподтверждения для слота (0-100%)
	// nil = используется порог терминала по умолчанию
	AutoValidationThreshold *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull returns true if the slot has no free capacity
func (s *TimeSlot) IsFull() bool {
	return s.CurrentBookings >= s.MaxCapacity
}

// Available returns the number of free capacity units (0 for inactive slots)
func (s *TimeSlot) Available() int {
	if !s.IsActive {
		return 0
	}
	free := s.MaxCapacity - s.CurrentBookings
	if free < 0 {
		return 0
	}
	return free
}

// UtilizationPercent returns the occupancy rate as a percentage (0-100)
func (s *TimeSlot) UtilizationPercent() float64 {
	if s.MaxCapacity == 0 {
		return 0
	}
	return float64(s.CurrentBookings) / float64(s.MaxCapacity) * 100
}

// EffectiveSlot слот с точки зрения планирования ёмкости на дату
// Либо материализованный (persisted TimeSlot), либо виртуальный -
// ещё не существующий в БД и вычисленный из шаблона/дефолтов терминала.
// Явный тег Materialized не позволяет забыть обработать виртуальный случай
type EffectiveSlot struct {
	Materialized bool
	// Slot заполнен только для материализованного слота
	Slot *TimeSlot

	TerminalID      int64
	SlotDate        time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	MaxCapacity     int
	CurrentBookings int
	IsActive        bool
	// ThresholdOverride переопределение порога слота; nil = дефолт терминала
	ThresholdOverride *int
}

// MaterializedSlot создает EffectiveSlot из persisted-записи
func MaterializedSlot(s *TimeSlot) EffectiveSlot {
	return EffectiveSlot{
		Materialized:      true,
		Slot:              s,
		TerminalID:        s.TerminalID,
		SlotDate:          s.SlotDate,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		MaxCapacity:       s.MaxCapacity,
		CurrentBookings:   s.CurrentBookings,
		IsActive:          s.IsActive,
		ThresholdOverride: s.AutoValidationThreshold,
	}
}

// VirtualSlot создает EffectiveSlot для слота без persisted-записи
// Ёмкость берется из дефолтов (шаблон недели либо конфигурация терминала),
// занятых мест нет
func VirtualSlot(terminalID int64, date time.Time, start, end types.TimeString, capacity int, isActive bool) EffectiveSlot {
	return EffectiveSlot{
		Materialized:    false,
		TerminalID:      terminalID,
		SlotDate:        date,
		StartTime:       start,
		EndTime:         end,
		MaxCapacity:     capacity,
		CurrentBookings: 0,
		IsActive:        isActive,
	}
}

// Available returns the number of free capacity units (0 for inactive slots)
func (s *EffectiveSlot) Available() int {
	if !s.IsActive {
		return 0
	}
	free := s.MaxCapacity - s.CurrentBookings
	if free < 0 {
		return 0
	}
	return free
}

// UtilizationPercent returns the occupancy rate as a percentage (0-100)
func (s *EffectiveSlot) UtilizationPercent() float64 {
	if s.MaxCapacity == 0 {
		return 0
	}
	return float64(s.CurrentBookings) / float64(s.MaxCapacity) * 100
}

// EffectiveThreshold возвращает действующий порог автоподтверждения:
// переопределение слота, если задано, иначе дефолт терминала
func (s *EffectiveSlot) EffectiveThreshold(terminalDefault int) int {
	if s.ThresholdOverride != nil {
		return *s.ThresholdOverride
	}
	return terminalDefault
}
