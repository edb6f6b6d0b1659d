package expire_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	expireBookings "github.com/m04kA/TAS-BookingService/internal/usecase/expire_bookings"
)

const (
	msgInvalidLimit = "некорректный параметр limit"
)

type Handler struct {
	useCase ExpireBookingsUseCase
	logger  Logger
}

func NewHandler(useCase ExpireBookingsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/bookings/expire
// Служебный эндпоинт для планировщика, без пользовательской аутентификации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var limit uint64
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			h.logger.Warn("POST /internal/bookings/expire - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	result, err := h.useCase.Execute(r.Context(), &expireBookings.Request{Limit: limit})
	if err != nil {
		switch {
		case errors.Is(err, expireBookings.ErrInvalidInput):
			h.logger.Warn("POST /internal/bookings/expire - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)

		default:
			h.logger.Error("POST /internal/bookings/expire - Sweep failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /internal/bookings/expire - Sweep finished: scanned=%d, expired=%d, skipped=%d, failed=%d",
		result.Scanned, result.Expired, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
