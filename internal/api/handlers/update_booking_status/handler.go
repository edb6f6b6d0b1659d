package update_booking_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/api/middleware"
	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTarget      = "недопустимый целевой статус, ожидается confirmed, rejected или consumed"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidTransition  = "перевод бронирования в указанный статус невозможен"
	msgAccessDenied       = "нет прав на изменение статуса бронирования"
	msgUnauthorized       = "не удалось определить пользователя"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	serviceReq := req.ToServiceRequest(actorID)

	var result *models.BookingResponse
	switch domain.BookingStatus(req.Status) {
	case domain.StatusConfirmed:
		result, err = h.service.Confirm(r.Context(), bookingID, serviceReq)
	case domain.StatusRejected:
		result, err = h.service.Reject(r.Context(), bookingID, serviceReq)
	case domain.StatusConsumed:
		result, err = h.service.Consume(r.Context(), bookingID, serviceReq)
	default:
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid target status: booking_id=%d, status=%s",
			bookingID, req.Status)
		handlers.RespondBadRequest(w, msgInvalidTarget)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, target=%s",
				bookingID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: actor_id=%d, booking_id=%d", actorID, bookingID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, target=%s, error=%v",
				bookingID, req.Status, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated: booking_id=%d, status=%s", result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
