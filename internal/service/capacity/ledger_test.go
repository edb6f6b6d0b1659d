package capacity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/storage/timeslot"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/pkg/ptr"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC) // среда

type fakeSlotRepo struct {
	slots      map[string]*domain.TimeSlot
	nextID     int64
	incErr     error
	decErr     error
	increments []int64
	decrements []int64
	recalced   int64
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*domain.TimeSlot), nextID: 1}
}

func slotKey(terminalID int64, date time.Time, startTime string) string {
	return fmt.Sprintf("%d/%s/%s", terminalID, date.Format(domain.DateFormat), startTime)
}

func (f *fakeSlotRepo) GetBySlotKey(ctx context.Context, terminalID int64, date time.Time, startTime string) (*domain.TimeSlot, error) {
	if s, ok := f.slots[slotKey(terminalID, date, startTime)]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, timeslot.ErrSlotNotFound
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, timeslot.ErrSlotNotFound
}

func (f *fakeSlotRepo) CreateIfAbsent(ctx context.Context, slot *domain.TimeSlot) error {
	key := slotKey(slot.TerminalID, slot.SlotDate, slot.StartTime.String())
	if _, ok := f.slots[key]; ok {
		return nil
	}
	clone := *slot
	clone.ID = f.nextID
	f.nextID++
	f.slots[key] = &clone
	return nil
}

func (f *fakeSlotRepo) Upsert(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	key := slotKey(slot.TerminalID, slot.SlotDate, slot.StartTime.String())
	if existing, ok := f.slots[key]; ok {
		existing.MaxCapacity = slot.MaxCapacity
		existing.IsActive = slot.IsActive
		existing.AutoValidationThreshold = slot.AutoValidationThreshold
		clone := *existing
		return &clone, nil
	}
	clone := *slot
	clone.ID = f.nextID
	f.nextID++
	f.slots[key] = &clone
	result := clone
	return &result, nil
}

func (f *fakeSlotRepo) IncrementBookings(ctx context.Context, id int64) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments = append(f.increments, id)
	for _, s := range f.slots {
		if s.ID == id {
			s.CurrentBookings++
		}
	}
	return nil
}

func (f *fakeSlotRepo) DecrementBookings(ctx context.Context, id int64) error {
	if f.decErr != nil {
		return f.decErr
	}
	f.decrements = append(f.decrements, id)
	for _, s := range f.slots {
		if s.ID == id {
			s.CurrentBookings--
		}
	}
	return nil
}

func (f *fakeSlotRepo) ListByTerminalAndDate(ctx context.Context, terminalID int64, date time.Time) ([]*domain.TimeSlot, error) {
	result := make([]*domain.TimeSlot, 0)
	for _, s := range f.slots {
		if s.TerminalID == terminalID && s.SlotDate.Equal(date) {
			clone := *s
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeSlotRepo) RecalculateForDate(ctx context.Context, terminalID int64, date time.Time) (int64, error) {
	return f.recalced, nil
}

type fakeTemplateRepo struct {
	templates []*domain.SlotTemplate
	err       error
}

func (f *fakeTemplateRepo) ListByTerminalAndDay(ctx context.Context, terminalID int64, dayOfWeek int) ([]*domain.SlotTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.templates, nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func openTerminal() *terminalservice.Terminal {
	open := "06:00"
	closeTime := "22:00"
	day := terminalservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &closeTime}
	return &terminalservice.Terminal{
		ID:                             10,
		Name:                           "Port Kraken Terminal",
		Code:                           "PKT",
		IsActive:                       true,
		DefaultSlotCapacity:            4,
		DefaultAutoValidationThreshold: 50,
		SlotDurationMinutes:            60,
		OperatingHours: terminalservice.WeekSchedule{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
			Friday: day, Saturday: day, Sunday: day,
		},
	}
}

func mustTime(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestLedger_Reserve_MaterializesFromTerminalDefaults(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})
	terminal := openTerminal()

	slot, err := ledger.Reserve(context.Background(), terminal, testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))

	require.NoError(t, err)
	assert.Equal(t, terminal.DefaultSlotCapacity, slot.MaxCapacity)
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.True(t, slot.IsActive)
	assert.Len(t, slotRepo.increments, 1)
}

func TestLedger_Reserve_MaterializesFromTemplate(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	templateRepo := &fakeTemplateRepo{
		templates: []*domain.SlotTemplate{
			{TerminalID: 10, DayOfWeek: int(time.Wednesday), Hour: 10, DefaultCapacity: 12, IsActive: true},
		},
	}
	ledger := NewLedger(slotRepo, templateRepo, noopLogger{})

	slot, err := ledger.Reserve(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))

	require.NoError(t, err)
	assert.Equal(t, 12, slot.MaxCapacity)
}

func TestLedger_Reserve_ExistingSlotNotMaterializedTwice(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})
	terminal := openTerminal()

	first, err := ledger.Reserve(context.Background(), terminal, testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))
	require.NoError(t, err)

	second, err := ledger.Reserve(context.Background(), terminal, testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.CurrentBookings)
}

func TestLedger_Reserve_FullSlot(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	require.NoError(t, slotRepo.CreateIfAbsent(context.Background(), &domain.TimeSlot{
		TerminalID: 10, SlotDate: testDate, StartTime: "10:00", EndTime: "11:00",
		MaxCapacity: 2, CurrentBookings: 2, IsActive: true,
	}))
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	_, err := ledger.Reserve(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))

	assert.ErrorIs(t, err, ErrSlotFull)
	assert.Empty(t, slotRepo.increments)
}

func TestLedger_Reserve_InactiveSlot(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	require.NoError(t, slotRepo.CreateIfAbsent(context.Background(), &domain.TimeSlot{
		TerminalID: 10, SlotDate: testDate, StartTime: "10:00", EndTime: "11:00",
		MaxCapacity: 2, CurrentBookings: 0, IsActive: false,
	}))
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	_, err := ledger.Reserve(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestLedger_Reserve_IncrementRaceMapsToSlotFull(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	require.NoError(t, slotRepo.CreateIfAbsent(context.Background(), &domain.TimeSlot{
		TerminalID: 10, SlotDate: testDate, StartTime: "10:00", EndTime: "11:00",
		MaxCapacity: 2, CurrentBookings: 1, IsActive: true,
	}))
	slotRepo.incErr = timeslot.ErrNoCapacity
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	_, err := ledger.Reserve(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), mustTime(t, "11:00"))

	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestLedger_Release(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	require.NoError(t, slotRepo.CreateIfAbsent(context.Background(), &domain.TimeSlot{
		TerminalID: 10, SlotDate: testDate, StartTime: "10:00", EndTime: "11:00",
		MaxCapacity: 2, CurrentBookings: 1, IsActive: true,
	}))
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	err := ledger.Release(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, slotRepo.decrements)
}

func TestLedger_Release_DoubleReleaseIsNotAnError(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	slotRepo.decErr = timeslot.ErrAlreadyReleased
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	err := ledger.Release(context.Background(), 1)

	assert.NoError(t, err)
}

func TestLedger_Release_RepositoryError(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	slotRepo.decErr = errors.New("connection lost")
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	err := ledger.Release(context.Background(), 1)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestLedger_SnapshotForDate_MixesMaterializedAndVirtual(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	require.NoError(t, slotRepo.CreateIfAbsent(context.Background(), &domain.TimeSlot{
		TerminalID: 10, SlotDate: testDate, StartTime: "10:00", EndTime: "11:00",
		MaxCapacity: 3, CurrentBookings: 2, IsActive: true,
	}))
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})
	terminal := openTerminal()

	snapshot, err := ledger.SnapshotForDate(context.Background(), terminal, testDate)

	require.NoError(t, err)
	// 06:00-22:00 при шаге 60 минут = 16 слотов
	require.Len(t, snapshot, 16)

	var materialized, virtual int
	for _, s := range snapshot {
		if s.Materialized {
			materialized++
			assert.Equal(t, "10:00", s.StartTime.String())
			assert.Equal(t, 2, s.CurrentBookings)
		} else {
			virtual++
			assert.Equal(t, terminal.DefaultSlotCapacity, s.MaxCapacity)
			assert.Zero(t, s.CurrentBookings)
		}
	}
	assert.Equal(t, 1, materialized)
	assert.Equal(t, 15, virtual)
}

func TestLedger_SnapshotForDate_ClosedDay(t *testing.T) {
	ledger := NewLedger(newFakeSlotRepo(), &fakeTemplateRepo{}, noopLogger{})
	terminal := openTerminal()
	terminal.OperatingHours.Wednesday = terminalservice.DaySchedule{IsOpen: false}

	snapshot, err := ledger.SnapshotForDate(context.Background(), terminal, testDate)

	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestLedger_ConfigureSlot_MaterializesVirtualSlot(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	slot, err := ledger.ConfigureSlot(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), 8, true, ptr.Ptr(25))

	require.NoError(t, err)
	assert.NotZero(t, slot.ID)
	assert.Equal(t, 8, slot.MaxCapacity)
	assert.Equal(t, "11:00", slot.EndTime.String())
	require.NotNil(t, slot.AutoValidationThreshold)
	assert.Equal(t, 25, *slot.AutoValidationThreshold)
}

func TestLedger_ConfigureSlot_CapacityBelowBookings(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	require.NoError(t, slotRepo.CreateIfAbsent(context.Background(), &domain.TimeSlot{
		TerminalID: 10, SlotDate: testDate, StartTime: "10:00", EndTime: "11:00",
		MaxCapacity: 5, CurrentBookings: 3, IsActive: true,
	}))
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	_, err := ledger.ConfigureSlot(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), 2, true, nil)

	assert.ErrorIs(t, err, ErrCapacityBelowBookings)
}

func TestLedger_ConfigureSlot_Validation(t *testing.T) {
	ledger := NewLedger(newFakeSlotRepo(), &fakeTemplateRepo{}, noopLogger{})

	tests := []struct {
		name      string
		capacity  int
		threshold *int
	}{
		{"zero capacity", 0, nil},
		{"capacity above limit", domain.MaxSlotCapacity + 1, nil},
		{"negative threshold", 5, ptr.Ptr(-1)},
		{"threshold above 100", 5, ptr.Ptr(101)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.ConfigureSlot(context.Background(), openTerminal(), testDate, mustTime(t, "10:00"), tt.capacity, true, tt.threshold)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLedger_Recalculate(t *testing.T) {
	slotRepo := newFakeSlotRepo()
	slotRepo.recalced = 3
	ledger := NewLedger(slotRepo, &fakeTemplateRepo{}, noopLogger{})

	updated, err := ledger.Recalculate(context.Background(), 10, testDate)

	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
}
