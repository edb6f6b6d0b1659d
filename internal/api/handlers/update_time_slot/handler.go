package update_time_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/api/middleware"
	updateTimeSlot "github.com/m04kA/TAS-BookingService/internal/usecase/update_time_slot"
)

const (
	msgInvalidTerminalID     = "некорректный ID терминала"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDateOrTime     = "некорректная дата или время начала слота"
	msgTerminalNotFound      = "терминал не найден"
	msgCapacityBelowBookings = "ёмкость не может быть ниже текущего числа броней"
	msgInvalidInput          = "некорректные данные запроса"
	msgUnauthorized          = "не удалось определить пользователя"
)

type Handler struct {
	useCase UpdateTimeSlotUseCase
	logger  Logger
}

func NewHandler(useCase UpdateTimeSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/terminals/{terminalId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	terminalID, err := strconv.ParseInt(mux.Vars(r)["terminalId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /terminals/{id}/slots - Invalid terminal ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTerminalID)
		return
	}

	var req UpdateTimeSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /terminals/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /terminals/{id}/slots - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorID, terminalID)
	if err != nil {
		h.logger.Warn("PUT /terminals/{id}/slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateTimeSlot.ErrTerminalNotFound):
			h.logger.Warn("PUT /terminals/{id}/slots - Terminal not found: terminal_id=%d", terminalID)
			handlers.RespondNotFound(w, msgTerminalNotFound)

		case errors.Is(err, updateTimeSlot.ErrCapacityBelowBookings):
			h.logger.Warn("PUT /terminals/{id}/slots - Capacity below bookings: terminal_id=%d, date=%s, time=%s",
				terminalID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgCapacityBelowBookings)

		case errors.Is(err, updateTimeSlot.ErrInvalidInput):
			h.logger.Warn("PUT /terminals/{id}/slots - Invalid input: terminal_id=%d, error=%v", terminalID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /terminals/{id}/slots - Failed to update slot: terminal_id=%d, error=%v",
				terminalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /terminals/{id}/slots - Slot updated: terminal_id=%d, slot_id=%d, capacity=%d",
		terminalID, result.SlotID, result.MaxCapacity)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
