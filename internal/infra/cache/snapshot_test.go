package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func TestSnapshotCache_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewSnapshotCache(client, 30*time.Second, noopLogger{})

	mock.ExpectGet("capacity:snapshot:10:2025-10-15").SetVal(`{"terminalId":10}`)

	data, err := c.Get(context.Background(), 10, "2025-10-15")

	require.NoError(t, err)
	assert.Equal(t, []byte(`{"terminalId":10}`), data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewSnapshotCache(client, 30*time.Second, noopLogger{})

	mock.ExpectGet("capacity:snapshot:10:2025-10-15").RedisNil()

	_, err := c.Get(context.Background(), 10, "2025-10-15")

	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotCache_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewSnapshotCache(client, 30*time.Second, noopLogger{})

	mock.ExpectGet("capacity:snapshot:10:2025-10-15").SetErr(errors.New("connection refused"))

	_, err := c.Get(context.Background(), 10, "2025-10-15")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSnapshotCache_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewSnapshotCache(client, 30*time.Second, noopLogger{})

	payload := []byte(`{"slots":[]}`)
	mock.ExpectSet("capacity:snapshot:10:2025-10-15", payload, 30*time.Second).SetVal("OK")

	c.Set(context.Background(), 10, "2025-10-15", payload)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotCache_SetErrorIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewSnapshotCache(client, 30*time.Second, noopLogger{})

	payload := []byte(`{"slots":[]}`)
	mock.ExpectSet("capacity:snapshot:10:2025-10-15", payload, 30*time.Second).SetErr(errors.New("readonly replica"))

	// Паники и возврата ошибки быть не должно
	c.Set(context.Background(), 10, "2025-10-15", payload)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewSnapshotCache(client, 30*time.Second, noopLogger{})

	mock.ExpectDel("capacity:snapshot:10:2025-10-15").SetVal(1)

	c.Invalidate(context.Background(), 10, "2025-10-15")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoop(t *testing.T) {
	n := NewNoop()

	_, err := n.Get(context.Background(), 10, "2025-10-15")
	assert.ErrorIs(t, err, ErrCacheMiss)

	n.Set(context.Background(), 10, "2025-10-15", []byte("x"))
	n.Invalidate(context.Background(), 10, "2025-10-15")
}
