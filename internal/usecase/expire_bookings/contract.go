package expire_bookings

import (
	"context"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiryCandidates(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error)
}

// BookingLifecycle интерфейс сервиса жизненного цикла бронирований
type BookingLifecycle interface {
	Expire(ctx context.Context, bookingID int64, reason *string) (*models.BookingResponse, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
