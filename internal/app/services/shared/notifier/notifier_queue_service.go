package notifier

import (
	"context"
	"fmt"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// QueueMessage is the envelope stored in RabbitMQ. FailedCount tracks
// consumer attempts so repeatedly failing messages end up in the
// dead-letter queue instead of looping forever.
type QueueMessage struct {
	ID          string             `json:"id"`
	Event       models.AccessEvent `json:"event"`
	FailedCount int                `json:"failed_count"`
}

// QueuedItem pairs a fetched delivery tag with its decoded payload.
type QueuedItem struct {
	DeliveryTag uint64
	Message     QueueMessage
}

// Service manages the RabbitMQ queues behind admin notifications. The
// authorization service publishes access events; the notification worker
// consumes them.
type Service struct {
	ch        *amqp.Channel
	log       *zap.Logger
	queueName string
	dlqName   string
	prefetch  int
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewService declares the durable notification queue and its dead-letter
// queue, enables publisher confirms, and sets QoS.
func NewService(conn *amqp.Connection, log *zap.Logger, queueName string, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	dlqName := queueName + ".dlq"

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		dlqName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:        ch,
		log:       log,
		queueName: queueName,
		dlqName:   dlqName,
		prefetch:  prefetch,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}

	return svc, nil
}

// PublishAccessEvent wraps the event in a fresh envelope and publishes it to
// the notification queue. Implements contracts.AccessEventPublisher.
func (s *Service) PublishAccessEvent(ctx context.Context, event *models.AccessEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("NotifierQueue.PublishAccessEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("event_type", event.Type),
	)

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	message := QueueMessage{
		ID:    uuid.NewString(),
		Event: *event,
	}
	return s.publish(ctx, s.queueName, message)
}

// Reenqueue publishes the (possibly modified) message back to the tail of the
// notification queue and waits for the confirm.
func (s *Service) Reenqueue(ctx context.Context, message QueueMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("NotifierQueue.Reenqueue called", zap.String(constvars.LoggingRequestIDKey, requestID))

	return s.publish(ctx, s.queueName, message)
}

// EnqueueToDeadQueue publishes the message to the dead-letter queue and waits
// for the confirm.
func (s *Service) EnqueueToDeadQueue(ctx context.Context, message QueueMessage) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("NotifierQueue.EnqueueToDeadQueue called", zap.String(constvars.LoggingRequestIDKey, requestID))

	return s.publish(ctx, s.dlqName, message)
}

// FetchN retrieves up to N messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, max int) ([]QueuedItem, error) {
	n := max
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(s.queueName, false)
		if err != nil {
			return nil, exceptions.ErrQueueConsume(err, s.queueName)
		}
		if !ok {
			break
		}
		var payload QueueMessage
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			// Invalid JSON goes straight to the DLQ to avoid a poison loop.
			_ = d.Ack(false)
			_ = s.publishRaw(ctx, s.dlqName, d.Body)
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Message: payload})
	}

	return items, nil
}

// AckMessage acknowledges a message by delivery tag.
func (s *Service) AckMessage(ctx context.Context, deliveryTag uint64) error {
	if err := s.ch.Ack(deliveryTag, false); err != nil {
		return exceptions.ErrQueueAck(err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, queue string, message QueueMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrQueuePublish(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrQueuePublish(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrQueuePublish(ctx.Err(), queue)
	}
	return nil
}
