package get_slot_capacity

import "time"

// Request модель запроса снапшота ёмкости терминала на дату
type Request struct {
	TerminalID int64     // ID терминала
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со снапшотом ёмкости
type Response struct {
	TerminalID int64  `json:"terminalId"`
	Date       string `json:"date"` // "2025-10-15"
	Slots      []Slot `json:"slots"`
}

// Slot картина одного слота сетки рабочих часов
type Slot struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"

	MaxCapacity        int     `json:"maxCapacity"`
	CurrentBookings    int     `json:"currentBookings"`
	AvailableSpots     int     `json:"availableSpots"`
	UtilizationPercent float64 `json:"utilizationPercent"`
	IsActive           bool    `json:"isActive"`
	// Materialized false для виртуального слота: записи в БД еще нет,
	// ёмкость взята из шаблона недели или дефолтов терминала
	Materialized bool `json:"materialized"`

	AutoValidation AutoValidationBudget `json:"autoValidation"`
}

// AutoValidationBudget картина бюджета автоподтверждения слота
type AutoValidationBudget struct {
	Threshold        int `json:"threshold"` // Действующий порог, процент 0-100
	MaxAutoValidated int `json:"maxAutoValidated"`
	Used             int `json:"used"`
	Remaining        int `json:"remaining"`
}
