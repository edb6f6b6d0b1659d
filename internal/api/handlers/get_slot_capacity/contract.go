package get_slot_capacity

import (
	"context"

	getSlotCapacity "github.com/m04kA/TAS-BookingService/internal/usecase/get_slot_capacity"
)

type GetSlotCapacityUseCase interface {
	Execute(ctx context.Context, req *getSlotCapacity.Request) (*getSlotCapacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
