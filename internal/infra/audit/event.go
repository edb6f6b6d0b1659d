package audit

// Event событие аудита бизнес-операции
// Содержит достаточно данных для compliance-разбора без обращения к основной БД
type Event struct {
	ActorID     int64  `json:"actor_id"`
	Action      string `json:"action"` // booking.create, booking.confirm, booking.reject, ...
	ResourceID  string `json:"resource_id"`
	Outcome     string `json:"outcome"` // success | denied | failed
	Detail      string `json:"detail,omitempty"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// Действия, публикуемые сервисом
const (
	ActionBookingCreate      = "booking.create"
	ActionBookingConfirm     = "booking.confirm"
	ActionBookingReject      = "booking.reject"
	ActionBookingCancel      = "booking.cancel"
	ActionBookingConsume     = "booking.consume"
	ActionBookingExpire      = "booking.expire"
	ActionCapacityRecalc     = "capacity.recalculate"
	ActionSlotUpdate         = "slot.update"
	ActionSlotTemplateUpdate = "slot_template.update"
)

// Исходы операций
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailed  = "failed"
)
