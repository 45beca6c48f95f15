package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/notifier"
)

// OutboxService drains the notification outbox to the message exchange.
// Delivery is at-least-once: a message is only marked published after the
// broker accepted it, and failures are retried with exponential backoff.
type OutboxService struct {
	store     QueryStore
	publisher notifier.Publisher
	logger    *zap.Logger

	// staleAfter is how long a message may sit in processing before a
	// crashed dispatcher's claim is taken over.
	staleAfter time.Duration
}

func NewOutboxService(store QueryStore, publisher notifier.Publisher, logger *zap.Logger) *OutboxService {
	return &OutboxService{
		store:      store,
		publisher:  publisher,
		logger:     logger,
		staleAfter: 5 * time.Minute,
	}
}

// Dispatch claims one batch of due messages and publishes them. Claimed
// rows are invisible to concurrent dispatchers via SKIP LOCKED.
func (s *OutboxService) Dispatch(ctx context.Context, batchSize int32) error {
	q := s.store.Queries()
	msgs, err := q.ClaimOutboxBatch(ctx, batchSize, time.Now().Add(-s.staleAfter))
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		if err := s.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			retryAt := time.Now().Add(retryDelay(msg.Attempts + 1))
			if _, markErr := q.MarkOutboxFailed(ctx, msg.ID, retryAt); markErr != nil {
				s.logger.Error("mark outbox failed", zap.Error(markErr), zap.String("id", msg.ID.String()))
			}
			s.logger.Warn("outbox publish failed",
				zap.String("id", msg.ID.String()),
				zap.String("routing_key", msg.RoutingKey),
				zap.Int32("attempts", msg.Attempts+1),
				zap.Time("retry_at", retryAt),
				zap.Error(err))
			continue
		}
		if _, err := q.MarkOutboxPublished(ctx, msg.ID); err != nil {
			// The message will be re-claimed as stale and published
			// again; consumers must tolerate duplicates.
			s.logger.Error("mark outbox published", zap.Error(err), zap.String("id", msg.ID.String()))
		}
	}
	return nil
}

// Backlog reports the number of undelivered messages.
func (s *OutboxService) Backlog(ctx context.Context) (int64, error) {
	return s.store.Queries().CountOutboxBacklog(ctx)
}

// retryDelay doubles per attempt and caps at five minutes.
func retryDelay(attempt int32) time.Duration {
	if attempt > 8 {
		attempt = 8
	}
	delay := time.Duration(1<<attempt) * time.Second
	if delay > 5*time.Minute {
		delay = 5 * time.Minute
	}
	return delay
}
