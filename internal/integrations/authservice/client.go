package authservice

import (
	"bytes"
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

// Client клиент для работы с AuthService
// Отвечает на вопрос "может ли субъект выполнить действие над ресурсом";
// сам core никаких ролей не хранит
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента AuthService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CanCreateBooking проверяет право субъекта создавать бронирования на терминале
func (c *Client) CanCreateBooking(ctx context.Context, actorID int64, terminalID int64) (bool, error) {
	payload := map[string]interface{}{
		"actor_id":    actorID,
		"action":      "booking:create",
		"terminal_id": terminalID,
	}
	return c.check(ctx, payload)
}

// CanTransition проверяет право субъекта перевести бронирование в статус target
func (c *Client) CanTransition(ctx context.Context, actorID int64, bookingID int64, target string) (bool, error) {
	payload := map[string]interface{}{
		"actor_id":   actorID,
		"action":     "booking:transition",
		"booking_id": bookingID,
		"target":     target,
	}
	return c.check(ctx, payload)
}

// check выполняет запрос проверки права
func (c *Client) check(ctx context.Context, payload map[string]interface{}) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/permissions/check", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var result permissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.Allowed, nil
}
