package get_terminal_bookings

import (
	"context"

	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetTerminalBookings(ctx context.Context, req *models.GetTerminalBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
