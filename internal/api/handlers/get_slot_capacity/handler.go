package get_slot_capacity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/domain"
	getSlotCapacity "github.com/m04kA/TAS-BookingService/internal/usecase/get_slot_capacity"
)

const (
	msgInvalidTerminalID = "некорректный ID терминала"
	msgInvalidDate       = "некорректная дата, ожидается параметр date в формате YYYY-MM-DD"
	msgTerminalNotFound  = "терминал не найден"
)

type Handler struct {
	useCase GetSlotCapacityUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/terminals/{terminalId}/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	terminalID, err := strconv.ParseInt(mux.Vars(r)["terminalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /terminals/{id}/capacity - Invalid terminal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTerminalID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /terminals/{id}/capacity - Invalid date: terminal_id=%d, error=%v", terminalID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlotCapacity.Request{
		TerminalID: terminalID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlotCapacity.ErrTerminalNotFound):
			h.logger.Warn("GET /terminals/{id}/capacity - Terminal not found: terminal_id=%d", terminalID)
			handlers.RespondNotFound(w, msgTerminalNotFound)

		case errors.Is(err, getSlotCapacity.ErrInvalidInput):
			h.logger.Warn("GET /terminals/{id}/capacity - Invalid input: terminal_id=%d, error=%v", terminalID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /terminals/{id}/capacity - Failed to build snapshot: terminal_id=%d, error=%v",
				terminalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /terminals/{id}/capacity - Snapshot built: terminal_id=%d, date=%s, slots=%d",
		terminalID, result.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
