package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/notifier"
)

type capturingPublisher struct {
	published []string
	failures  int
}

func (p *capturingPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, routingKey)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestDispatch_PublishesAndMarks(t *testing.T) {
	f := newFixture(t)
	txSvc := NewTransactionService(f.store, f.audit, f.notify)
	pub := &capturingPublisher{}
	outbox := NewOutboxService(f.store, pub, zap.NewNop())
	ctx := context.Background()

	_, err := txSvc.Submit(ctx, f.user, SubmitTransactionCmd{Type: "deposit", Amount: "25"})
	require.NoError(t, err)

	require.NoError(t, outbox.Dispatch(ctx, 10))
	assert.Equal(t, []string{notifier.RouteTransaction}, pub.published)

	backlog, err := outbox.Backlog(ctx)
	require.NoError(t, err)
	assert.Zero(t, backlog)
}

func TestDispatch_FailureSchedulesRetry(t *testing.T) {
	f := newFixture(t)
	txSvc := NewTransactionService(f.store, f.audit, f.notify)
	pub := &capturingPublisher{failures: 1}
	outbox := NewOutboxService(f.store, pub, zap.NewNop())
	ctx := context.Background()

	_, err := txSvc.Submit(ctx, f.user, SubmitTransactionCmd{Type: "deposit", Amount: "25"})
	require.NoError(t, err)

	require.NoError(t, outbox.Dispatch(ctx, 10))
	assert.Empty(t, pub.published)

	var msg models.OutboxMessage
	for _, m := range f.store.Outbox {
		msg = m
	}
	assert.Equal(t, models.OutboxPending, msg.Status)
	assert.Equal(t, int32(1), msg.Attempts)
	require.NotNil(t, msg.NextRetryAt)
	assert.True(t, msg.NextRetryAt.After(time.Now()))

	// Not yet due, so a second dispatch publishes nothing.
	require.NoError(t, outbox.Dispatch(ctx, 10))
	assert.Empty(t, pub.published)
}

func TestRetryDelay_CapsAtFiveMinutes(t *testing.T) {
	assert.Equal(t, 2*time.Second, retryDelay(1))
	assert.Equal(t, 4*time.Second, retryDelay(2))
	assert.Equal(t, 256*time.Second, retryDelay(8))
	assert.Equal(t, 256*time.Second, retryDelay(40))
}
