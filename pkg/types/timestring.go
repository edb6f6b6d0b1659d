package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeFormat формат времени HH:MM
const timeFormat = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате строки времени
	ErrInvalidTimeString = errors.New("invalid time string format")
)

// TimeString строковое представление времени в формате HH:MM
// Используется для времени начала/конца слота без привязки к дате и таймзоне
type TimeString string

// NewTimeString создает TimeString из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeFormat))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет, что строка соответствует формату HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// parse парсит TimeString в time.Time (дата игнорируется)
func (t TimeString) parse() (time.Time, error) {
	parsed, err := time.Parse(timeFormat, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed, nil
}

// IsBefore возвращает true, если время раньше other
// Невалидные значения считаются равными (сравнение невозможно)
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.parse()
	if err != nil {
		return false
	}
	b, err := other.parse()
	if err != nil {
		return false
	}
	return a.Before(b)
}

// IsAfter возвращает true, если время позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err := t.parse()
	if err != nil {
		return false
	}
	b, err := other.parse()
	if err != nil {
		return false
	}
	return a.After(b)
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед
// Переход через полночь не поддерживается: результат ограничен 23:59
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.parse()
	if err != nil {
		return "", err
	}

	shifted := parsed.Add(time.Duration(minutes) * time.Minute)

	// Слоты не пересекают полночь
	if shifted.Day() != parsed.Day() {
		return TimeString("23:59"), nil
	}

	return NewTimeString(shifted), nil
}

// MinutesUntil возвращает количество минут от t до other
// Отрицательное значение означает, что other раньше t
func (t TimeString) MinutesUntil(other TimeString) (int, error) {
	a, err := t.parse()
	if err != nil {
		return 0, err
	}
	b, err := other.parse()
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Minutes()), nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает чтение из TIME-колонок PostgreSQL (приходят как "15:04:05")
func (t *TimeString) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}

	switch v := src.(type) {
	case string:
		*t = truncateSeconds(v)
	case []byte:
		*t = truncateSeconds(string(v))
	case time.Time:
		*t = NewTimeString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}

	return nil
}

// truncateSeconds отбрасывает секунды из строки "15:04:05" -> "15:04"
func truncateSeconds(s string) TimeString {
	if len(s) > 5 {
		return TimeString(s[:5])
	}
	return TimeString(s)
}
