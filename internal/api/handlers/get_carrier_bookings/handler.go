package get_carrier_bookings

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
	msgInvalidCarrierID = "некорректный ID перевозчика"
	msgInvalidStatus    = "некорректный статус бронирования"
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

// Handle GET /api/v1/carriers/{carrierId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	carrierID, err := strconv.ParseInt(mux.Vars(r)["carrierId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /carriers/{id}/bookings - Invalid carrier ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCarrierID)
		return
	}

	req := &models.GetCarrierBookingsRequest{
		CarrierID: carrierID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetCarrierBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /carriers/{id}/bookings - Invalid input: carrier_id=%d, error=%v", carrierID, err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /carriers/{id}/bookings - Failed to list bookings: carrier_id=%d, error=%v",
				carrierID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /carriers/{id}/bookings - Bookings retrieved: carrier_id=%d, count=%d",
		carrierID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
