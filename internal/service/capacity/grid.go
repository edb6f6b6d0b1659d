package capacity

import (
	"github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// slotWindow временное окно одного слота внутри рабочего дня
type slotWindow struct {
	start types.TimeString
	end   types.TimeString
}

// buildSlotGrid строит сетку слотов на день из расписания работы терминала
// Слоты идут подряд от открытия с фиксированным шагом slotDuration;
// неполный хвост перед закрытием в сетку не попадает
func buildSlotGrid(schedule terminalservice.DaySchedule, slotDuration int) ([]slotWindow, error) {
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return []slotWindow{}, nil
	}
	if slotDuration <= 0 {
		return []slotWindow{}, nil
	}

	openTime, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(*schedule.CloseTime)
	if err != nil {
		return nil, err
	}

	grid := make([]slotWindow, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		end, err := current.AddMinutes(slotDuration)
		if err != nil {
			return nil, err
		}

		// Слот должен целиком помещаться в рабочие часы
		if end.IsAfter(closeTime) {
			break
		}

		grid = append(grid, slotWindow{start: current, end: end})

		if end == current {
			// Защита от зацикливания на границе суток
			break
		}
		current = end
	}

	return grid, nil
}
