package create_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	"github.com/m04kA/TAS-BookingService/internal/integrations/authservice"
	"github.com/m04kA/TAS-BookingService/internal/integrations/fleetservice"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/internal/service/capacity"
	"github.com/m04kA/TAS-BookingService/pkg/ptr"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

// Боевые клиенты интеграций обязаны удовлетворять контрактам use case
var (
	_ TerminalServiceClient = (*terminalservice.Client)(nil)
	_ FleetServiceClient    = (*fleetservice.Client)(nil)
	_ AuthServiceClient     = (*authservice.Client)(nil)
)

// fakeLedger стейтфул-имитация слота с фиксированной ёмкостью
type fakeLedger struct {
	slot *domain.TimeSlot
	err  error
}

func (f *fakeLedger) Reserve(_ context.Context, _ *terminalservice.Terminal, _ time.Time, _, _ types.TimeString) (*domain.TimeSlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.slot.IsFull() {
		return nil, capacity.ErrSlotFull
	}
	f.slot.CurrentBookings++
	clone := *f.slot
	return &clone, nil
}

// fakeValidator воспроизводит арифметику бюджета: floor(capacity * threshold / 100)
type fakeValidator struct {
	threshold int
	autoUsed  int
	err       error
}

func (f *fakeValidator) Decide(_ context.Context, slot *domain.TimeSlot, terminalDefault int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	threshold := f.threshold
	if threshold < 0 {
		threshold = terminalDefault
	}
	budget := slot.MaxCapacity * threshold / 100
	if f.autoUsed < budget {
		f.autoUsed++
		return true, nil
	}
	return false, nil
}

type fakeBookingRepo struct {
	created []*domain.Booking
	err     error
	nextID  int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	booking.ID = f.nextID
	f.created = append(f.created, booking)
	return booking, nil
}

type fakeTerminalClient struct {
	terminal *terminalservice.Terminal
	err      error
}

func (f *fakeTerminalClient) GetTerminal(_ context.Context, _ int64) (*terminalservice.Terminal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.terminal, nil
}

type fakeFleetClient struct {
	truck         *fleetservice.Truck
	truckErr      error
	containersErr error
}

func (f *fakeFleetClient) GetTruck(_ context.Context, _, _ int64) (*fleetservice.Truck, error) {
	if f.truckErr != nil {
		return nil, f.truckErr
	}
	return f.truck, nil
}

func (f *fakeFleetClient) GetContainers(_ context.Context, carrierID int64, numbers []string) ([]*fleetservice.Container, error) {
	if f.containersErr != nil {
		return nil, f.containersErr
	}
	containers := make([]*fleetservice.Container, len(numbers))
	for i, n := range numbers {
		containers[i] = &fleetservice.Container{Number: n, CarrierID: carrierID}
	}
	return containers, nil
}

type fakeAuth struct {
	allowed bool
	err     error
}

func (f *fakeAuth) CanCreateBooking(_ context.Context, _, _ int64) (bool, error) {
	return f.allowed, f.err
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditor struct {
	events []audit.Event
}

func (f *fakeAuditor) Record(_ context.Context, event audit.Event) {
	f.events = append(f.events, event)
}

type fakeCache struct {
	invalidated int
}

func (f *fakeCache) Invalidate(_ context.Context, _ int64, _ string) {
	f.invalidated++
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func openTerminal() *terminalservice.Terminal {
	schedule := terminalservice.DaySchedule{
		IsOpen:    true,
		OpenTime:  ptr.Ptr("06:00"),
		CloseTime: ptr.Ptr("22:00"),
	}

	return &terminalservice.Terminal{
		ID:                             1,
		Name:                           "Pakhta Terminal",
		Code:                           "PKT",
		IsActive:                       true,
		DefaultSlotCapacity:            2,
		DefaultAutoValidationThreshold: 50,
		SlotDurationMinutes:            60,
		OperatingHours: terminalservice.WeekSchedule{
			Monday:    schedule,
			Tuesday:   schedule,
			Wednesday: schedule,
			Thursday:  schedule,
			Friday:    schedule,
			Saturday:  schedule,
			Sunday:    schedule,
		},
	}
}

type fixture struct {
	repo      *fakeBookingRepo
	ledger    *fakeLedger
	validator *fakeValidator
	auth      *fakeAuth
	auditor   *fakeAuditor
	cache     *fakeCache
	usecase   *UseCase
}

func newFixture(maxCapacity int) *fixture {
	start, _ := types.NewTimeStringFromString("10:00")
	end, _ := types.NewTimeStringFromString("11:00")

	repo := &fakeBookingRepo{}
	ledger := &fakeLedger{
		slot: &domain.TimeSlot{
			ID:          100,
			TerminalID:  1,
			SlotDate:    testDate,
			StartTime:   start,
			EndTime:     end,
			MaxCapacity: maxCapacity,
			IsActive:    true,
		},
	}
	validator := &fakeValidator{threshold: -1}
	auth := &fakeAuth{allowed: true}
	auditor := &fakeAuditor{}
	cache := &fakeCache{}

	uc := NewUseCase(
		repo,
		ledger,
		validator,
		&fakeTerminalClient{terminal: openTerminal()},
		&fakeFleetClient{truck: &fleetservice.Truck{ID: 33, CarrierID: 7, IsActive: true}},
		auth,
		fakeTxManager{},
		auditor,
		cache,
		nil,
		noopLogger{},
	)
	uc.timeProvider = fixedTimeProvider{now: testDate.Add(8 * time.Hour)}

	return &fixture{
		repo:      repo,
		ledger:    ledger,
		validator: validator,
		auth:      auth,
		auditor:   auditor,
		cache:     cache,
		usecase:   uc,
	}
}

func validRequest() *Request {
	start, _ := types.NewTimeStringFromString("10:00")
	return &Request{
		ActorID:    5,
		CarrierID:  7,
		TerminalID: 1,
		TruckID:    33,
		Date:       testDate,
		StartTime:  start,
	}
}

func TestUseCase_Execute_AutoValidated(t *testing.T) {
	f := newFixture(2)

	resp, err := f.usecase.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.True(t, resp.WasAutoValidated)
	assert.True(t, strings.HasPrefix(resp.ReferenceCode, "PKT-20251015-"))
	assert.Equal(t, int64(100), resp.SlotID)
	assert.Equal(t, "11:00", resp.EndTime.String())
	assert.Equal(t, 1, f.cache.invalidated)

	require.Len(t, f.repo.created, 1)
	assert.NotNil(t, f.repo.created[0].ConfirmedAt)

	require.Len(t, f.auditor.events, 1)
	assert.Equal(t, audit.ActionBookingCreate, f.auditor.events[0].Action)
	assert.Equal(t, audit.OutcomeSuccess, f.auditor.events[0].Outcome)
}

// Capacity 2, threshold 50%: бюджет автоподтверждения 1
// Первая бронь проходит автоматически, вторая уходит на ручную проверку,
// третья упирается в полный слот
func TestUseCase_Execute_BudgetAndCapacityScenario(t *testing.T) {
	f := newFixture(2)

	first, err := f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), first.Status)
	assert.True(t, first.WasAutoValidated)

	second, err := f.usecase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), second.Status)
	assert.False(t, second.WasAutoValidated)
	assert.Nil(t, f.repo.created[1].ConfirmedAt)

	_, err = f.usecase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.Len(t, f.repo.created, 2, "failed reservation must not create a booking")
}

func TestUseCase_Execute_ThresholdZeroAlwaysPending(t *testing.T) {
	f := newFixture(5)
	f.validator.threshold = 0

	for i := 0; i < 3; i++ {
		resp, err := f.usecase.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusPending), resp.Status)
		assert.False(t, resp.WasAutoValidated)
	}
}

func TestUseCase_Execute_PermissionDenied(t *testing.T) {
	f := newFixture(2)
	f.auth.allowed = false

	_, err := f.usecase.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.repo.created)

	require.Len(t, f.auditor.events, 1)
	assert.Equal(t, audit.OutcomeDenied, f.auditor.events[0].Outcome)
}

func TestUseCase_Execute_TerminalNotFound(t *testing.T) {
	f := newFixture(2)
	uc := f.usecase
	uc.terminalClient = &fakeTerminalClient{err: terminalservice.ErrTerminalNotFound}

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTerminalNotFound)
}

func TestUseCase_Execute_TerminalInactive(t *testing.T) {
	f := newFixture(2)
	terminal := openTerminal()
	terminal.IsActive = false
	f.usecase.terminalClient = &fakeTerminalClient{terminal: terminal}

	_, err := f.usecase.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTerminalInactive)
}

func TestUseCase_Execute_TerminalClosedOnDate(t *testing.T) {
	f := newFixture(2)
	terminal := openTerminal()
	terminal.OperatingHours.Wednesday = terminalservice.DaySchedule{IsOpen: false}
	f.usecase.terminalClient = &fakeTerminalClient{terminal: terminal}

	// 2025-10-15 - среда
	_, err := f.usecase.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTerminalClosed)
}

func TestUseCase_Execute_MisalignedStartTime(t *testing.T) {
	f := newFixture(2)

	req := validRequest()
	start, _ := types.NewTimeStringFromString("10:30")
	req.StartTime = start

	_, err := f.usecase.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestUseCase_Execute_SlotAfterClosing(t *testing.T) {
	f := newFixture(2)

	req := validRequest()
	start, _ := types.NewTimeStringFromString("22:00")
	req.StartTime = start

	_, err := f.usecase.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestUseCase_Execute_DateInPast(t *testing.T) {
	f := newFixture(2)

	req := validRequest()
	req.Date = testDate.AddDate(0, 0, -2)

	_, err := f.usecase.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUseCase_Execute_TruckChecks(t *testing.T) {
	t.Run("truck not found", func(t *testing.T) {
		f := newFixture(2)
		f.usecase.fleetClient = &fakeFleetClient{truckErr: fleetservice.ErrTruckNotFound}

		_, err := f.usecase.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrTruckNotFound)
	})

	t.Run("truck inactive", func(t *testing.T) {
		f := newFixture(2)
		f.usecase.fleetClient = &fakeFleetClient{truck: &fleetservice.Truck{ID: 33, IsActive: false}}

		_, err := f.usecase.Execute(context.Background(), validRequest())

		assert.ErrorIs(t, err, ErrTruckInactive)
	})
}

func TestUseCase_Execute_ContainerChecks(t *testing.T) {
	t.Run("container not found", func(t *testing.T) {
		f := newFixture(2)
		f.usecase.fleetClient = &fakeFleetClient{
			truck:         &fleetservice.Truck{ID: 33, CarrierID: 7, IsActive: true},
			containersErr: fleetservice.ErrContainerNotFound,
		}

		req := validRequest()
		req.ContainerNumbers = []string{"MSKU1234565"}

		_, err := f.usecase.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrContainerNotFound)
	})

	t.Run("too many containers", func(t *testing.T) {
		f := newFixture(2)

		req := validRequest()
		req.ContainerNumbers = []string{"A", "B", "C", "D", "E"}

		_, err := f.usecase.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUseCase_Execute_SlotUnavailable(t *testing.T) {
	f := newFixture(2)
	f.ledger.err = capacity.ErrSlotUnavailable

	_, err := f.usecase.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, f.repo.created)
}
