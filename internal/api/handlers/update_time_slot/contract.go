package update_time_slot

import (
	"context"

	updateTimeSlot "github.com/m04kA/TAS-BookingService/internal/usecase/update_time_slot"
)

type UpdateTimeSlotUseCase interface {
	Execute(ctx context.Context, req *updateTimeSlot.Request) (*updateTimeSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
