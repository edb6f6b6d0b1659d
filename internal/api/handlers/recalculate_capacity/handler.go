package recalculate_capacity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/api/middleware"
	"github.com/m04kA/TAS-BookingService/internal/domain"
	recalculateCapacity "github.com/m04kA/TAS-BookingService/internal/usecase/recalculate_capacity"
)

const (
	msgInvalidTerminalID = "некорректный ID терминала"
	msgInvalidDate       = "некорректная дата, ожидается параметр date в формате YYYY-MM-DD"
	msgInvalidInput      = "некорректные данные запроса"
	msgUnauthorized      = "не удалось определить пользователя"
)

type Handler struct {
	useCase RecalculateCapacityUseCase
	logger  Logger
}

func NewHandler(useCase RecalculateCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/terminals/{terminalId}/capacity/recalculate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	terminalID, err := strconv.ParseInt(mux.Vars(r)["terminalId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /terminals/{id}/capacity/recalculate - Invalid terminal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTerminalID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("POST /terminals/{id}/capacity/recalculate - Invalid date: terminal_id=%d, error=%v",
			terminalID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /terminals/{id}/capacity/recalculate - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &recalculateCapacity.Request{
		ActorID:    actorID,
		TerminalID: terminalID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, recalculateCapacity.ErrInvalidInput):
			h.logger.Warn("POST /terminals/{id}/capacity/recalculate - Invalid input: terminal_id=%d, error=%v",
				terminalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /terminals/{id}/capacity/recalculate - Failed to recalculate: terminal_id=%d, error=%v",
				terminalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /terminals/{id}/capacity/recalculate - Recalculated: terminal_id=%d, updated_slots=%d",
		terminalID, result.UpdatedSlots)
	handlers.RespondJSON(w, http.StatusOK, result)
}
