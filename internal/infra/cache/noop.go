package cache

import "context"

// Noop заглушка кэша для работы без Redis
// Каждое чтение промахивается, снапшот строится заново из БД
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Get(ctx context.Context, terminalID int64, date string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (n *Noop) Set(ctx context.Context, terminalID int64, date string, data []byte) {}

func (n *Noop) Invalidate(ctx context.Context, terminalID int64, date string) {}
