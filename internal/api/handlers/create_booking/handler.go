package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/TAS-BookingService/internal/api/handlers"
	"github.com/m04kA/TAS-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/TAS-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSlotFull           = "в выбранном слоте нет свободных мест"
	msgSlotUnavailable    = "выбранный слот недоступен"
	msgTerminalNotFound   = "терминал не найден"
	msgTerminalInactive   = "терминал не принимает бронирования"
	msgTerminalClosed     = "терминал не работает в выбранную дату"
	msgTruckNotFound      = "грузовик не найден"
	msgTruckInactive      = "грузовик выведен из эксплуатации"
	msgContainerNotFound  = "контейнер не найден у перевозчика"
	msgAccessDenied       = "нет прав на создание бронирования"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgInvalidTimeSlot    = "время начала не попадает в сетку слотов терминала"
	msgInvalidInput       = "некорректные данные запроса"
	msgUnauthorized       = "не удалось определить пользователя"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: terminal_id=%d, date=%s, time=%s",
				req.TerminalID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: terminal_id=%d, date=%s, time=%s",
				req.TerminalID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrTerminalNotFound):
			h.logger.Warn("POST /bookings - Terminal not found: terminal_id=%d", req.TerminalID)
			handlers.RespondNotFound(w, msgTerminalNotFound)

		case errors.Is(err, createBooking.ErrTerminalInactive):
			h.logger.Warn("POST /bookings - Terminal inactive: terminal_id=%d", req.TerminalID)
			handlers.RespondConflict(w, msgTerminalInactive)

		case errors.Is(err, createBooking.ErrTerminalClosed):
			h.logger.Warn("POST /bookings - Terminal closed: terminal_id=%d, date=%s", req.TerminalID, req.BookingDate)
			handlers.RespondBadRequest(w, msgTerminalClosed)

		case errors.Is(err, createBooking.ErrTruckNotFound):
			h.logger.Warn("POST /bookings - Truck not found: carrier_id=%d, truck_id=%d", req.CarrierID, req.TruckID)
			handlers.RespondNotFound(w, msgTruckNotFound)

		case errors.Is(err, createBooking.ErrTruckInactive):
			h.logger.Warn("POST /bookings - Truck inactive: truck_id=%d", req.TruckID)
			handlers.RespondConflict(w, msgTruckInactive)

		case errors.Is(err, createBooking.ErrContainerNotFound):
			h.logger.Warn("POST /bookings - Container not found: carrier_id=%d", req.CarrierID)
			handlers.RespondNotFound(w, msgContainerNotFound)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: actor_id=%d, terminal_id=%d", actorID, req.TerminalID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: date=%s", req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: time=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: terminal_id=%d, error=%v",
				req.TerminalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, code=%s, status=%s",
		result.ID, result.ReferenceCode, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
