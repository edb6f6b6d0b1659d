package recalculate_capacity

import (
	"context"

	recalculateCapacity "github.com/m04kA/TAS-BookingService/internal/usecase/recalculate_capacity"
)

type RecalculateCapacityUseCase interface {
	Execute(ctx context.Context, req *recalculateCapacity.Request) (*recalculateCapacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
