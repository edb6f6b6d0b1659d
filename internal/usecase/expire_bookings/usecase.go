package expire_bookings

import (
	"context"
	"errors"
	"fmt"

	bookingService "github.com/m04kA/TAS-BookingService/internal/service/bookings"
	"github.com/m04kA/TAS-BookingService/pkg/ptr"
)

// expiryReason причина, записываемая в status_reason просроченной брони
const expiryReason = "slot window passed without arrival"

// UseCase use case прохода по просроченным бронированиям
// Сервис не владеет планировщиком: внешний sweep дергает endpoint, usecase
// применяет переход expired к каждому кандидату по отдельности - гонка
// с конкурирующим consume/cancel решается машиной статусов, а не sweep-ом
type UseCase struct {
	bookingRepo  BookingRepository
	lifecycle    BookingLifecycle
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	lifecycle BookingLifecycle,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		lifecycle:    lifecycle,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет один проход sweep
// Ошибка одного кандидата не прерывает проход: остальные просроченные брони
// все равно должны освободить свою ёмкость
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultBatchLimit
	}
	if limit > maxBatchLimit {
		return nil, fmt.Errorf("%w: limit must not exceed %d", ErrInvalidInput, maxBatchLimit)
	}

	now := uc.timeProvider.Now()

	candidates, err := uc.bookingRepo.ListExpiryCandidates(ctx, now, limit)
	if err != nil {
		uc.logger.Error("ExpireBookings: failed to list candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}

	resp := &Response{Scanned: len(candidates)}

	for _, candidate := range candidates {
		_, err := uc.lifecycle.Expire(ctx, candidate.ID, ptr.Ptr(expiryReason))
		switch {
		case err == nil:
			resp.Expired++
		case errors.Is(err, bookingService.ErrInvalidTransition), errors.Is(err, bookingService.ErrBookingNotFound):
			// Кандидат успел уйти в финальный статус между выборкой и переходом
			uc.logger.Info("ExpireBookings: booking id=%d already transitioned, skipping", candidate.ID)
			resp.Skipped++
		default:
			uc.logger.Error("ExpireBookings: failed to expire booking id=%d: %v", candidate.ID, err)
			resp.Failed++
		}
	}

	uc.logger.Info("ExpireBookings: sweep done scanned=%d expired=%d skipped=%d failed=%d",
		resp.Scanned, resp.Expired, resp.Skipped, resp.Failed)

	return resp, nil
}
