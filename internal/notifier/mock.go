package notifier

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// MockPublisher simulates the notification exchange for local development.
// It introduces a short random delay and fails a configurable fraction of
// publishes so the outbox retry path gets exercised.
type MockPublisher struct {
	// FailureRate is the probability of failure (0.0 to 1.0).
	FailureRate float64
	logger      *zap.Logger
}

func NewMockPublisher(logger *zap.Logger) *MockPublisher {
	return &MockPublisher{FailureRate: 0.1, logger: logger}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	delay := time.Duration(rand.Intn(200)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return fmt.Errorf("publish canceled: %w", ctx.Err())
	}

	if rand.Float64() < m.FailureRate {
		return fmt.Errorf("notification exchange temporarily unavailable")
	}

	m.logger.Info("mock publish",
		zap.String("routing_key", routingKey),
		zap.Int("bytes", len(body)))
	return nil
}

func (m *MockPublisher) Close() error { return nil }
