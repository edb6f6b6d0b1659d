package update_time_slot

import (
	"time"

	"github.com/m04kA/TAS-BookingService/pkg/types"
)

// Request модель запроса на административное изменение слота
type Request struct {
	ActorID     int64            // ID субъекта, выполняющего запрос
	TerminalID  int64            // ID терминала
	Date        time.Time        // Дата слота (без времени)
	StartTime   types.TimeString // Время начала слота
	MaxCapacity int              // Новая ёмкость слота
	IsActive    bool             // Активность слота
	Threshold   *int             // Переопределение порога автоподтверждения (nil = дефолт терминала)
}

// Response модель ответа с измененным слотом
type Response struct {
	SlotID          int64            // ID слота (виртуальный слот материализуется)
	TerminalID      int64            // ID терминала
	Date            time.Time        // Дата слота
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время конца
	MaxCapacity     int              // Ёмкость
	CurrentBookings int              // Занято мест (сохраняется при изменении)
	IsActive        bool             // Активность
	Threshold       *int             // Переопределение порога, если задано

	CreatedAt time.Time // Время создания записи слота
	UpdatedAt time.Time // Время обновления
}
