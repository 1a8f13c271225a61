package notifications

import (
	"context"
	"fmt"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/shared/notifier"
	"time"

	"go.uber.org/zap"
)

const (
	dedupeKeyPrefix = "notification_event:"
	dedupeKeyTTL    = 24 * time.Hour
)

// Worker drains queued access events into the admin notification collection
// with at-least-once semantics. Concurrent workers are safe: the Redis claim
// on the event ID makes persistence idempotent.
type Worker struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	queue      *notifier.Service
	redis      contracts.RedisRepository
	repository AdminNotificationRepository
	stop       chan struct{}
}

func NewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	queue *notifier.Service,
	redisRepository contracts.RedisRepository,
	adminNotificationRepository AdminNotificationRepository,
) *Worker {
	return &Worker{
		log:        log,
		cfg:        cfg,
		queue:      queue,
		redis:      redisRepository,
		repository: adminNotificationRepository,
		stop:       make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	interval := time.Duration(w.cfg.RabbitMQ.WorkerPollIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	stopped := make(chan struct{})

	fmt.Println("Notification worker started")

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case now := <-ticker.C:
				w.runOnce(ctx, now)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context, now time.Time) {
	w.log.Info("notifications.worker.runOnce tick",
		zap.Time("now", now))

	max := w.cfg.RabbitMQ.WorkerMaxBatch
	if max <= 0 {
		max = 1
	}
	items, err := w.queue.FetchN(ctx, max)
	if err != nil {
		w.log.Info("queue.FetchN error", zap.Error(err))
		return
	}

	w.log.Info("queue.FetchN success", zap.Int("fetched_count", len(items)))

	for _, item := range items {
		w.processItem(ctx, item)
	}
}

func (w *Worker) processItem(ctx context.Context, item notifier.QueuedItem) {
	msg := item.Message

	dedupeKey := dedupeKeyPrefix + msg.ID
	fresh, err := w.redis.TrySetNX(ctx, dedupeKey, "1", dedupeKeyTTL)
	if err != nil {
		w.log.Info("dedupe check failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg)
		return
	}
	if !fresh {
		// Redelivery of an event that is already persisted.
		_ = w.queue.AckMessage(ctx, item.DeliveryTag)
		w.log.Info("duplicate event dropped",
			zap.String("message_id", msg.ID))
		return
	}

	notification := &models.AdminNotification{
		Type:      msg.Event.Type,
		UserID:    msg.Event.UserID,
		PatientID: msg.Event.PatientID,
		RecordID:  msg.Event.RecordID,
		Message:   msg.Event.Message,
	}
	notification.SetCreatedAtUpdatedAt()
	// The review listing sorts on event time, not consume time.
	if !msg.Event.OccurredAt.IsZero() {
		notification.CreatedAt = msg.Event.OccurredAt
	}

	_, err = w.repository.InsertNotification(ctx, notification)
	if err != nil {
		// Release the claim so the retry is not mistaken for a duplicate.
		_ = w.redis.Delete(ctx, dedupeKey)
		w.log.Info("notification insert failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg)
		return
	}

	if err := w.queue.AckMessage(ctx, item.DeliveryTag); err != nil {
		w.log.Info("ack failed after success",
			zap.String("message_id", msg.ID),
			zap.Error(err))
	}
	w.log.Info("notification persisted",
		zap.String("message_id", msg.ID),
		zap.String("event_type", msg.Event.Type))
}

func (w *Worker) requeueOnError(ctx context.Context, item notifier.QueuedItem, msg notifier.QueueMessage) {
	msg.FailedCount++
	threshold := w.cfg.RabbitMQ.WorkerRetryThreshold
	if threshold <= 0 {
		threshold = 1
	}
	if msg.FailedCount >= threshold {
		if err := w.queue.EnqueueToDeadQueue(ctx, msg); err != nil {
			w.log.Info("enqueue to DLQ failed",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			return
		}
		_ = w.queue.AckMessage(ctx, item.DeliveryTag)
		w.log.Info("moved message to DLQ",
			zap.String("message_id", msg.ID),
			zap.Int("failed_count", msg.FailedCount))
		return
	}
	if err := w.queue.Reenqueue(ctx, msg); err != nil {
		w.log.Info("reenqueue failed",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return
	}
	_ = w.queue.AckMessage(ctx, item.DeliveryTag)
	w.log.Info("retryable failure; requeued",
		zap.String("message_id", msg.ID),
		zap.Int("failed_count", msg.FailedCount))
}
