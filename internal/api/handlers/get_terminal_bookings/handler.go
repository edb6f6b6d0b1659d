package get_terminal_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/service/bookings"
)

const (
	msgInvalidTerminalID = "некорректный ID терминала"
	msgInvalidFilter     = "некорректные параметры фильтра"
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

// Handle GET /api/v1/terminals/{terminalId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	terminalID, err := strconv.ParseInt(mux.Vars(r)["terminalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /terminals/{id}/bookings - Invalid terminal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTerminalID)
		return
	}

	req, err := parseQuery(terminalID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /terminals/{id}/bookings - Invalid filter: terminal_id=%d, error=%v", terminalID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetTerminalBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /terminals/{id}/bookings - Invalid input: terminal_id=%d, error=%v", terminalID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /terminals/{id}/bookings - Failed to list bookings: terminal_id=%d, error=%v",
				terminalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /terminals/{id}/bookings - Bookings retrieved: terminal_id=%d, count=%d",
		terminalID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
