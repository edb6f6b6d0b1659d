package domain

import "time"

// SlotTemplate недельный шаблон ёмкости слотов терминала
// Задает дефолтную ёмкость и активность для пары (день недели, час);
// используется только как источник дефолтов при материализации слота
// и построении виртуальных слотов, сам по себе ёмкость не резервирует
type SlotTemplate struct {
	ID              int64
	TerminalID      int64
	DayOfWeek       int // 0 = воскресенье ... 6 = суббота, как time.Weekday
	Hour            int // 0-23, час начала слота
	DefaultCapacity int
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches returns true if the template covers the given date and hour
func (t *SlotTemplate) Matches(date time.Time, hour int) bool {
	return int(date.Weekday()) == t.DayOfWeek && t.Hour == hour
}
