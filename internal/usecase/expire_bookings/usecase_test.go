package expire_bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	bookingService "github.com/m04kA/TAS-BookingService/internal/service/bookings"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

type fakeRepo struct {
	candidates []*domain.Booking
	err        error
	gotLimit   uint64
}

func (f *fakeRepo) ListExpiryCandidates(_ context.Context, _ time.Time, limit uint64) ([]*domain.Booking, error) {
	f.gotLimit = limit
	return f.candidates, f.err
}

type fakeLifecycle struct {
	errByID map[int64]error
	expired []int64
	reasons []string
}

func (f *fakeLifecycle) Expire(_ context.Context, bookingID int64, reason *string) (*models.BookingResponse, error) {
	if err, ok := f.errByID[bookingID]; ok {
		return nil, err
	}
	f.expired = append(f.expired, bookingID)
	if reason != nil {
		f.reasons = append(f.reasons, *reason)
	}
	return &models.BookingResponse{ID: bookingID, Status: string(domain.StatusExpired)}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func candidates(ids ...int64) []*domain.Booking {
	result := make([]*domain.Booking, len(ids))
	for i, id := range ids {
		result[i] = &domain.Booking{ID: id, Status: domain.StatusPending}
	}
	return result
}

func TestUseCase_Execute_ExpiresAllCandidates(t *testing.T) {
	repo := &fakeRepo{candidates: candidates(1, 2, 3)}
	lifecycle := &fakeLifecycle{}

	uc := NewUseCase(repo, lifecycle, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Scanned)
	assert.Equal(t, 3, resp.Expired)
	assert.Equal(t, 0, resp.Skipped)
	assert.Equal(t, 0, resp.Failed)
	assert.Equal(t, []int64{1, 2, 3}, lifecycle.expired)
	assert.Equal(t, uint64(defaultBatchLimit), repo.gotLimit)

	require.NotEmpty(t, lifecycle.reasons)
	assert.Equal(t, expiryReason, lifecycle.reasons[0])
}

func TestUseCase_Execute_SkipsRacedCandidates(t *testing.T) {
	repo := &fakeRepo{candidates: candidates(1, 2, 3)}
	lifecycle := &fakeLifecycle{
		errByID: map[int64]error{
			2: bookingService.ErrInvalidTransition,
		},
	}

	uc := NewUseCase(repo, lifecycle, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Expired)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 0, resp.Failed)
}

func TestUseCase_Execute_CountsFailures(t *testing.T) {
	repo := &fakeRepo{candidates: candidates(1, 2)}
	lifecycle := &fakeLifecycle{
		errByID: map[int64]error{
			1: errors.New("db down"),
		},
	}

	uc := NewUseCase(repo, lifecycle, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{})

	require.NoError(t, err, "a failed candidate must not abort the sweep")
	assert.Equal(t, 1, resp.Expired)
	assert.Equal(t, 1, resp.Failed)
}

func TestUseCase_Execute_LimitValidation(t *testing.T) {
	uc := NewUseCase(&fakeRepo{}, &fakeLifecycle{}, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Limit: maxBatchLimit + 1})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_CustomLimit(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUseCase(repo, &fakeLifecycle{}, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Scanned)
	assert.Equal(t, uint64(10), repo.gotLimit)
}
