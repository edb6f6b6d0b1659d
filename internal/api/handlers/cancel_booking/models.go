package cancel_booking

import (
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actorID int64) *models.TransitionRequest {
	return &models.TransitionRequest{
		ActorID: actorID,
		Reason:  r.Reason,
	}
}
