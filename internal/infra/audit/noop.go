package audit

import "context"

// NoopRecorder заглушка аудита для работы без RabbitMQ
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) Record(ctx context.Context, event Event) {}
