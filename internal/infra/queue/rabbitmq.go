package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"voiceletter/internal/domain"
)

// RabbitDraftQueue реализует очередь задач поверх AMQP.
type RabbitDraftQueue struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	queue      string
	deliveries <-chan amqp.Delivery
}

var _ domain.DraftQueue = (*RabbitDraftQueue)(nil)

// NewRabbitDraftQueue подключается к брокеру и объявляет устойчивую очередь.
func NewRabbitDraftQueue(amqpURL, queue string) (*RabbitDraftQueue, error) {
	if amqpURL == "" {
		return nil, errors.New("amqp url is empty")
	}
	if queue == "" {
		return nil, errors.New("queue name is empty")
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := channel.Qos(1, 0, false); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &RabbitDraftQueue{conn: conn, channel: channel, queue: queue}, nil
}

// Enqueue публикует задачу в очередь с персистентной доставкой.
func (q *RabbitDraftQueue) Enqueue(ctx context.Context, job domain.DraftJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	err = q.channel.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

// Receive читает задачу из очереди. Подтверждение с success=false возвращает
// сообщение брокеру для повторной доставки.
func (q *RabbitDraftQueue) Receive(ctx context.Context) (domain.DraftJob, domain.DraftAckFunc, error) {
	if q.deliveries == nil {
		deliveries, err := q.channel.Consume(q.queue, "", false, false, false, false, nil)
		if err != nil {
			return domain.DraftJob{}, nil, fmt.Errorf("consume: %w", err)
		}
		q.deliveries = deliveries
	}

	select {
	case <-ctx.Done():
		return domain.DraftJob{}, nil, ctx.Err()
	case delivery, ok := <-q.deliveries:
		if !ok {
			return domain.DraftJob{}, nil, errors.New("amqp queue: канал доставки закрыт")
		}
		var job domain.DraftJob
		if err := json.Unmarshal(delivery.Body, &job); err != nil {
			_ = delivery.Nack(false, false)
			return domain.DraftJob{}, nil, fmt.Errorf("decode job: %w", err)
		}
		ack := func(success bool) error {
			if success {
				return delivery.Ack(false)
			}
			return delivery.Nack(false, true)
		}
		return job, ack, nil
	}
}

// Close освобождает соединение с брокером.
func (q *RabbitDraftQueue) Close() error {
	if err := q.channel.Close(); err != nil {
		_ = q.conn.Close()
		return err
	}
	return q.conn.Close()
}
