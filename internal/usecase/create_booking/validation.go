package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/TAS-BookingService/internal/domain"
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if req.CarrierID <= 0 {
		return fmt.Errorf("%w: carrierID must be positive", ErrInvalidInput)
	}

	if req.TerminalID <= 0 {
		return fmt.Errorf("%w: terminalID must be positive", ErrInvalidInput)
	}

	if req.TruckID <= 0 {
		return fmt.Errorf("%w: truckID must be positive", ErrInvalidInput)
	}

	if len(req.ContainerNumbers) > domain.MaxContainersPerBooking {
		return fmt.Errorf("%w: at most %d containers per booking", ErrInvalidInput, domain.MaxContainersPerBooking)
	}

	for _, number := range req.ContainerNumbers {
		if number == "" {
			return fmt.Errorf("%w: container number must not be empty", ErrInvalidInput)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	return nil
}

// validateSlotTime проверяет, что время начала попадает в сетку слотов:
// внутри рабочих часов, кратно длительности слота от открытия,
// и слот целиком помещается до закрытия
func validateSlotTime(schedule terminalservice.DaySchedule, startTime types.TimeString, slotDuration int) (types.TimeString, error) {
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return "", ErrTerminalClosed
	}

	openTime, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return "", fmt.Errorf("%w: invalid terminal open time: %v", ErrInternal, err)
	}

	closeTime, err := types.NewTimeStringFromString(*schedule.CloseTime)
	if err != nil {
		return "", fmt.Errorf("%w: invalid terminal close time: %v", ErrInternal, err)
	}

	if startTime.IsBefore(openTime) {
		return "", fmt.Errorf("%w: slot starts before opening", ErrInvalidTimeSlot)
	}

	minutesFromOpen, err := openTime.MinutesUntil(startTime)
	if err != nil {
		return "", fmt.Errorf("%w: failed to align slot: %v", ErrInternal, err)
	}

	if slotDuration <= 0 || minutesFromOpen%slotDuration != 0 {
		return "", fmt.Errorf("%w: slot start is not aligned to the %d-minute grid", ErrInvalidTimeSlot, slotDuration)
	}

	endTime, err := startTime.AddMinutes(slotDuration)
	if err != nil {
		return "", fmt.Errorf("%w: failed to compute slot end: %v", ErrInternal, err)
	}

	if endTime.IsAfter(closeTime) {
		return "", fmt.Errorf("%w: slot does not fit before closing", ErrInvalidTimeSlot)
	}

	return endTime, nil
}
