package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings/models"
)

const (
	msgBookingNotFound = "бронирование не найдено"
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

// Handle GET /api/v1/bookings/{bookingId}
// Путь принимает числовой ID либо референс-код бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	pathID := mux.Vars(r)["bookingId"]

	var result *models.BookingResponse
	var err error

	if bookingID, parseErr := strconv.ParseInt(pathID, 10, 64); parseErr == nil {
		result, err = h.service.GetByID(r.Context(), bookingID)
	} else {
		result, err = h.service.GetByReferenceCode(r.Context(), pathID)
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: id=%s", pathID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: id=%s, error=%v", pathID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d, status=%s", result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
