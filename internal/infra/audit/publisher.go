package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout ограничение на публикацию одного события
const publishTimeout = 2 * time.Second

var (
	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("audit: failed to publish event")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события аудита в RabbitMQ
// Fire-and-forget: ошибка публикации логируется предупреждением и никогда
// не блокирует бизнес-переход, который событие описывает
type Publisher struct {
	url   string
	queue string
	log   Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher создает издателя событий аудита
// Соединение устанавливается лениво при первой публикации
func NewPublisher(url, queue string, log Logger) *Publisher {
	return &Publisher{
		url:   url,
		queue: queue,
		log:   log,
	}
}

// Record публикует событие аудита
// Ошибки не возвращаются вызывающему: публикация не должна влиять на исход
// бизнес-операции, неудача видна только в логах
func (p *Publisher) Record(ctx context.Context, event Event) {
	if event.TimestampMs == 0 {
		event.TimestampMs = time.Now().UnixMilli()
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.publish(publishCtx, event); err != nil {
		p.log.Warn("audit: failed to record event action=%s resource=%s: %v",
			event.Action, event.ResourceID, err)
	}
}

// Close закрывает соединение с брокером
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = имя очереди
		false,   // mandatory
		false,   // immediate
		pub,
	)
	if err != nil {
		// Сбрасываем канал: следующая публикация переподключится
		p.reset()
		return fmt.Errorf("%w: publish: %v", ErrPublish, err)
	}

	return nil
}

// channel возвращает открытый канал, устанавливая соединение при необходимости
func (p *Publisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		return p.ch, nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrPublish, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrPublish, err)
	}

	// Очередь durable: события переживают рестарт брокера
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare queue: %v", ErrPublish, err)
	}

	p.conn = conn
	p.ch = ch

	return ch, nil
}

func (p *Publisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
