package get_slot_capacity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/infra/cache"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/internal/service/autovalidation"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

type fakeLedger struct {
	snapshot []domain.EffectiveSlot
	calls    int
}

func (f *fakeLedger) SnapshotForDate(_ context.Context, _ *terminalservice.Terminal, _ time.Time) ([]domain.EffectiveSlot, error) {
	f.calls++
	return f.snapshot, nil
}

type fakeValidator struct{}

func (fakeValidator) Status(_ context.Context, slot domain.EffectiveSlot, terminalDefault int) (*autovalidation.BudgetStatus, error) {
	threshold := slot.EffectiveThreshold(terminalDefault)
	budget := slot.MaxCapacity * threshold / 100
	return &autovalidation.BudgetStatus{
		Threshold:          threshold,
		MaxAutoValidated:   budget,
		RemainingBudget:    budget,
		UtilizationPercent: slot.UtilizationPercent(),
	}, nil
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

type fakeCache struct {
	store map[string][]byte
	sets  int
}

func (f *fakeCache) Get(_ context.Context, _ int64, date string) ([]byte, error) {
	if data, ok := f.store[date]; ok {
		return data, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakeCache) Set(_ context.Context, _ int64, date string, data []byte) {
	f.sets++
	f.store[date] = data
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestUseCase_Execute_MixedSnapshot(t *testing.T) {
	materialized := &domain.TimeSlot{
		ID:              100,
		TerminalID:      1,
		SlotDate:        testDate,
		StartTime:       mustTime(t, "10:00"),
		EndTime:         mustTime(t, "11:00"),
		MaxCapacity:     4,
		CurrentBookings: 3,
		IsActive:        true,
	}

	ledger := &fakeLedger{
		snapshot: []domain.EffectiveSlot{
			domain.MaterializedSlot(materialized),
			domain.VirtualSlot(1, testDate, mustTime(t, "11:00"), mustTime(t, "12:00"), 10, true),
		},
	}
	snapshotCache := &fakeCache{store: make(map[string][]byte)}

	uc := NewUseCase(ledger, fakeValidator{}, &fakeTerminalClient{
		terminal: &terminalservice.Terminal{ID: 1, IsActive: true, DefaultAutoValidationThreshold: 50},
	}, snapshotCache, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TerminalID: 1, Date: testDate})

	require.NoError(t, err)
	assert.Equal(t, "2025-10-15", resp.Date)
	require.Len(t, resp.Slots, 2)

	assert.True(t, resp.Slots[0].Materialized)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.InDelta(t, 75.0, resp.Slots[0].UtilizationPercent, 0.001)
	assert.Equal(t, 2, resp.Slots[0].AutoValidation.MaxAutoValidated)

	assert.False(t, resp.Slots[1].Materialized)
	assert.Equal(t, 10, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 0, resp.Slots[1].CurrentBookings)
	assert.Zero(t, resp.Slots[1].UtilizationPercent)

	assert.Equal(t, 1, snapshotCache.sets, "snapshot must be cached after computation")
}

func TestUseCase_Execute_CacheHit(t *testing.T) {
	cached := &Response{TerminalID: 1, Date: "2025-10-15", Slots: []Slot{}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	snapshotCache := &fakeCache{store: map[string][]byte{"2025-10-15": data}}
	ledger := &fakeLedger{}

	uc := NewUseCase(ledger, fakeValidator{}, &fakeTerminalClient{}, snapshotCache, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TerminalID: 1, Date: testDate})

	require.NoError(t, err)
	assert.Equal(t, cached.Date, resp.Date)
	assert.Equal(t, 0, ledger.calls, "cache hit must not rebuild the snapshot")
}

func TestUseCase_Execute_TerminalNotFound(t *testing.T) {
	snapshotCache := &fakeCache{store: make(map[string][]byte)}
	uc := NewUseCase(&fakeLedger{}, fakeValidator{}, &fakeTerminalClient{
		err: terminalservice.ErrTerminalNotFound,
	}, snapshotCache, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{TerminalID: 404, Date: testDate})

	assert.ErrorIs(t, err, ErrTerminalNotFound)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	snapshotCache := &fakeCache{store: make(map[string][]byte)}
	uc := NewUseCase(&fakeLedger{}, fakeValidator{}, &fakeTerminalClient{}, snapshotCache, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{TerminalID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{TerminalID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
