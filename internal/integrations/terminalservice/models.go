package terminalservice

// Terminal конфигурация терминала из TerminalService
// Якорь дефолтов: ёмкость слота, порог автоподтверждения, рабочие часы
type Terminal struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"` // Короткий код терминала, префикс кодов бронирований (например "PKT")
	IsActive bool   `json:"is_active"`

	DefaultSlotCapacity            int `json:"default_slot_capacity"`
	DefaultAutoValidationThreshold int `json:"default_auto_validation_threshold"` // Процент 0-100
	SlotDurationMinutes            int `json:"slot_duration_minutes"`

	OperatingHours WeekSchedule `json:"operating_hours"`
}

// WeekSchedule расписание работы терминала по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание работы на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "06:00"
	CloseTime *string `json:"close_time,omitempty"` // "22:00"
}

// ErrorResponse модель ошибки от TerminalService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
