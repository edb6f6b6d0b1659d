package domain

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 500

	MinAutoValidationThreshold = 0
	MaxAutoValidationThreshold = 100

	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240

	MaxContainersPerBooking = 4
	MaxStatusReasonLength   = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityHoldingStatuses статусы, удерживающие единицу ёмкости слота
// Используется reconciliation-пересчетом current_bookings
var CapacityHoldingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// LiveAutoValidatedStatuses статусы, в которых автоподтвержденная бронь
// учитывается при подсчете использованного бюджета автоподтверждения
// (живые и успешно завершенные; rejected/cancelled/expired бюджет не занимают)
var LiveAutoValidatedStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusConsumed,
}

// FinalStatuses финальные статусы бронирования (без исходящих переходов)
var FinalStatuses = []BookingStatus{
	StatusRejected,
	StatusConsumed,
	StatusCancelled,
	StatusExpired,
}
