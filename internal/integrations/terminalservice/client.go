package terminalservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с TerminalService
// Справочник терминалов: синхронный lookup без кэширования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента TerminalService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTerminal получает конфигурацию терминала по ID
func (c *Client) GetTerminal(ctx context.Context, terminalID int64) (*Terminal, error) {
	url := fmt.Sprintf("%s/internal/terminals/%d", c.baseURL, terminalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid terminal ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrTerminalNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var terminal Terminal
	if err := json.NewDecoder(resp.Body).Decode(&terminal); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &terminal, nil
}

// ScheduleForDate возвращает расписание работы терминала на указанную дату
func (t *Terminal) ScheduleForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return t.OperatingHours.Monday
	case time.Tuesday:
		return t.OperatingHours.Tuesday
	case time.Wednesday:
		return t.OperatingHours.Wednesday
	case time.Thursday:
		return t.OperatingHours.Thursday
	case time.Friday:
		return t.OperatingHours.Friday
	case time.Saturday:
		return t.OperatingHours.Saturday
	case time.Sunday:
		return t.OperatingHours.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}
