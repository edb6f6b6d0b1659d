package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss возвращается, когда снапшота в кэше нет
	ErrCacheMiss = errors.New("cache: snapshot not found")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SnapshotCache кэш read-only снапшотов ёмкости терминала на дату
// Используется только публичной витриной доступности; горячий путь
// резервации ёмкости кэш не читает и всегда работает с БД
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// NewSnapshotCache создает кэш снапшотов поверх Redis
func NewSnapshotCache(client *redis.Client, ttl time.Duration, log Logger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// snapshotKey ключ снапшота для пары (терминал, дата)
func snapshotKey(terminalID int64, date string) string {
	return fmt.Sprintf("capacity:snapshot:%d:%s", terminalID, date)
}

// Get читает сериализованный снапшот из кэша
func (c *SnapshotCache) Get(ctx context.Context, terminalID int64, date string) ([]byte, error) {
	data, err := c.client.Get(ctx, snapshotKey(terminalID, date)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get snapshot: %w", err)
	}
	return data, nil
}

// Set сохраняет сериализованный снапшот с TTL
// Ошибка записи логируется и не возвращается: кэш - оптимизация, не источник истины
func (c *SnapshotCache) Set(ctx context.Context, terminalID int64, date string, data []byte) {
	if err := c.client.Set(ctx, snapshotKey(terminalID, date), data, c.ttl).Err(); err != nil {
		c.log.Warn("cache: failed to set snapshot terminal=%d date=%s: %v", terminalID, date, err)
	}
}

// Invalidate сбрасывает снапшот после мутации бронирований на дату
func (c *SnapshotCache) Invalidate(ctx context.Context, terminalID int64, date string) {
	if err := c.client.Del(ctx, snapshotKey(terminalID, date)).Err(); err != nil {
		c.log.Warn("cache: failed to invalidate snapshot terminal=%d date=%s: %v", terminalID, date, err)
	}
}
