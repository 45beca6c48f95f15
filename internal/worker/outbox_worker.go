package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/observability"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

// OutboxWorker drains the notification outbox in the background.
// It polls for due messages at regular intervals and publishes them.
// Safe for concurrent instances thanks to FOR UPDATE SKIP LOCKED.
type OutboxWorker struct {
	outbox       *service.OutboxService
	pollInterval time.Duration
	batchSize    int32
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewOutboxWorker creates a worker with default polling settings.
func NewOutboxWorker(outbox *service.OutboxService) *OutboxWorker {
	return &OutboxWorker{
		outbox:       outbox,
		pollInterval: 5 * time.Second,
		batchSize:    25,
		stopCh:       make(chan struct{}),
	}
}

// WithPollInterval sets the poll interval for the worker.
func (w *OutboxWorker) WithPollInterval(interval time.Duration) *OutboxWorker {
	if interval > 0 {
		w.pollInterval = interval
	}
	return w
}

// WithBatchSize sets the batch size for the worker.
func (w *OutboxWorker) WithBatchSize(size int32) *OutboxWorker {
	if size > 0 {
		w.batchSize = size
	}
	return w
}

// Start blocks and dispatches batches until Stop is called or the
// context is canceled.
func (w *OutboxWorker) Start(ctx context.Context) {
	zap.L().Info("outbox worker starting",
		zap.Duration("interval", w.pollInterval),
		zap.Int32("batch", w.batchSize))

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("outbox worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("outbox worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *OutboxWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

// ProcessOnce dispatches a single batch immediately. Useful for testing
// or manual triggering.
func (w *OutboxWorker) ProcessOnce(ctx context.Context) error {
	return w.outbox.Dispatch(ctx, w.batchSize)
}

func (w *OutboxWorker) runOnce(ctx context.Context) {
	if err := w.outbox.Dispatch(ctx, w.batchSize); err != nil {
		observability.IncrementWorkerRun("outbox", "failed")
		zap.L().Error("outbox dispatch failed", zap.Error(err))
		return
	}
	observability.IncrementWorkerRun("outbox", "success")

	if backlog, err := w.outbox.Backlog(ctx); err == nil {
		observability.SetOutboxBacklog(backlog)
	}
}
