package autovalidation

import "context"

// BookingCounter интерфейс подсчета автоподтвержденных бронирований слота
type BookingCounter interface {
	CountAutoValidatedBySlot(ctx context.Context, slotID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
