package get_carrier_bookings

import (
	"context"

	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetCarrierBookings(ctx context.Context, req *models.GetCarrierBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
