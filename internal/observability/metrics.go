package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	decisionCounter       *prometheus.CounterVec
	idempotencyCounter    *prometheus.CounterVec
	outboxBacklogGauge    prometheus.Gauge
	documentUploadCounter *prometheus.CounterVec
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		decisionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_decisions_total",
			Help: "Admin review decisions by entity and outcome",
		}, []string{"entity", "outcome"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		outboxBacklogGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_outbox_backlog",
			Help: "Current number of undelivered outbox messages",
		})

		documentUploadCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_document_uploads_total",
			Help: "KYC document upload outcomes",
		}, []string{"outcome"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			decisionCounter,
			idempotencyCounter,
			outboxBacklogGauge,
			documentUploadCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementDecision(entity, outcome string) {
	if decisionCounter == nil {
		return
	}
	decisionCounter.WithLabelValues(entity, outcome).Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func SetOutboxBacklog(size int64) {
	if outboxBacklogGauge == nil {
		return
	}
	outboxBacklogGauge.Set(float64(size))
}

func IncrementDocumentUpload(outcome string) {
	if documentUploadCounter == nil {
		return
	}
	documentUploadCounter.WithLabelValues(outcome).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
