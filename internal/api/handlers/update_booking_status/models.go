package update_booking_status

import (
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

// UpdateBookingStatusRequest HTTP request model
type UpdateBookingStatusRequest struct {
	Status string  `json:"status"` // "confirmed" | "rejected" | "consumed"
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBookingStatusRequest) ToServiceRequest(actorID int64) *models.TransitionRequest {
	return &models.TransitionRequest{
		ActorID: actorID,
		Reason:  r.Reason,
	}
}
