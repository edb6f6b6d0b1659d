package autovalidation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/pkg/ptr"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

type fakeCounter struct {
	count int
	err   error
	calls int
}

func (f *fakeCounter) CountAutoValidatedBySlot(_ context.Context, _ int64) (int, error) {
	f.calls++
	return f.count, f.err
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func slotWithCapacity(capacity int, threshold *int) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:                      42,
		TerminalID:              1,
		MaxCapacity:             capacity,
		AutoValidationThreshold: threshold,
		IsActive:                true,
	}
}

func TestEngine_Decide(t *testing.T) {
	tests := []struct {
		name             string
		capacity         int
		slotThreshold    *int
		terminalDefault  int
		usedAutoApproved int
		wantAuto         bool
		wantCounterCalls int
	}{
		{
			name:             "budget free - auto approve",
			capacity:         10,
			terminalDefault:  50,
			usedAutoApproved: 4,
			wantAuto:         true,
			wantCounterCalls: 1,
		},
		{
			name:             "budget exhausted - manual review",
			capacity:         10,
			terminalDefault:  50,
			usedAutoApproved: 5,
			wantAuto:         false,
			wantCounterCalls: 1,
		},
		{
			name:             "threshold zero - always manual, counter not queried",
			capacity:         10,
			terminalDefault:  0,
			usedAutoApproved: 0,
			wantAuto:         false,
			wantCounterCalls: 0,
		},
		{
			name:             "threshold 100 - budget equals capacity",
			capacity:         3,
			terminalDefault:  100,
			usedAutoApproved: 2,
			wantAuto:         true,
			wantCounterCalls: 1,
		},
		{
			name:             "slot override beats terminal default",
			capacity:         10,
			slotThreshold:    ptr.Ptr(30),
			terminalDefault:  100,
			usedAutoApproved: 3,
			wantAuto:         false,
			wantCounterCalls: 1,
		},
		{
			name:             "integer floor - capacity 3 threshold 50 gives budget 1",
			capacity:         3,
			terminalDefault:  50,
			usedAutoApproved: 1,
			wantAuto:         false,
			wantCounterCalls: 1,
		},
		{
			name:             "budget rounds to zero - manual without counting",
			capacity:         1,
			terminalDefault:  50,
			usedAutoApproved: 0,
			wantAuto:         false,
			wantCounterCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &fakeCounter{count: tt.usedAutoApproved}
			engine := NewEngine(counter, noopLogger{})

			got, err := engine.Decide(context.Background(), slotWithCapacity(tt.capacity, tt.slotThreshold), tt.terminalDefault)

			require.NoError(t, err)
			assert.Equal(t, tt.wantAuto, got)
			assert.Equal(t, tt.wantCounterCalls, counter.calls)
		})
	}
}

func TestEngine_Decide_CounterError(t *testing.T) {
	counter := &fakeCounter{err: errors.New("db down")}
	engine := NewEngine(counter, noopLogger{})

	got, err := engine.Decide(context.Background(), slotWithCapacity(10, nil), 50)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, got)
}

func TestEngine_Status_MaterializedSlot(t *testing.T) {
	counter := &fakeCounter{count: 2}
	engine := NewEngine(counter, noopLogger{})

	slot := slotWithCapacity(10, nil)
	slot.CurrentBookings = 5

	status, err := engine.Status(context.Background(), domain.MaterializedSlot(slot), 50)

	require.NoError(t, err)
	assert.Equal(t, 50, status.Threshold)
	assert.Equal(t, 5, status.MaxAutoValidated)
	assert.Equal(t, 2, status.UsedAutoValidated)
	assert.Equal(t, 3, status.RemainingBudget)
	assert.InDelta(t, 50.0, status.UtilizationPercent, 0.001)
}

func TestEngine_Status_VirtualSlot(t *testing.T) {
	counter := &fakeCounter{count: 99}
	engine := NewEngine(counter, noopLogger{})

	start, _ := types.NewTimeStringFromString("08:00")
	end, _ := types.NewTimeStringFromString("09:00")
	virtual := domain.VirtualSlot(1, testDate, start, end, 10, true)

	status, err := engine.Status(context.Background(), virtual, 40)

	require.NoError(t, err)
	assert.Equal(t, 40, status.Threshold)
	assert.Equal(t, 4, status.MaxAutoValidated)
	assert.Equal(t, 0, status.UsedAutoValidated, "virtual slot has no bookings")
	assert.Equal(t, 4, status.RemainingBudget)
	assert.Equal(t, 0, counter.calls, "virtual slot must not hit the repository")
}

func TestEngine_Status_UsedAboveBudget(t *testing.T) {
	// Порог снизили после того, как бюджет уже был выбран
	counter := &fakeCounter{count: 5}
	engine := NewEngine(counter, noopLogger{})

	slot := slotWithCapacity(10, ptr.Ptr(20))

	status, err := engine.Status(context.Background(), domain.MaterializedSlot(slot), 50)

	require.NoError(t, err)
	assert.Equal(t, 2, status.MaxAutoValidated)
	assert.Equal(t, 5, status.UsedAutoValidated)
	assert.Equal(t, 0, status.RemainingBudget)
}
