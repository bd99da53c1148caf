package webhook

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"studyplanner/pkg/metrics"
)

// Queue is a bounded in-memory dispatch queue drained by background
// workers. It decouples webhook delivery latency from the request path:
// Enqueue never blocks, and a full queue drops the delivery instead of
// stalling the caller.
type Queue struct {
	client *Client
	logger *zap.Logger

	deliveries chan Delivery
	workers    int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

func NewQueue(client *Client, logger *zap.Logger, size, workers int) *Queue {
	if size <= 0 {
		size = 256
	}
	if workers <= 0 {
		workers = 2
	}
	return &Queue{
		client:     client,
		logger:     logger,
		deliveries: make(chan Delivery, size),
		workers:    workers,
	}
}

// Start launches the worker goroutines.
func (q *Queue) Start() {
	q.logger.Info("Starting webhook dispatch queue",
		zap.Int("workers", q.workers),
		zap.Int("capacity", cap(q.deliveries)),
	)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// Enqueue hands a delivery to the background workers. It returns false
// when the queue is full, in which case the delivery is dropped.
func (q *Queue) Enqueue(d Delivery) bool {
	select {
	case q.deliveries <- d:
		metrics.WebhookQueueDepth.Set(float64(len(q.deliveries)))
		return true
	default:
		q.logger.Warn("Webhook dispatch queue full, dropping delivery",
			zap.String("target", d.Target),
			zap.String("app_key", d.AppKey),
		)
		metrics.WebhookQueueDropCount.Inc()
		return false
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.deliveries)
	})
	q.wg.Wait()
	q.logger.Info("Webhook dispatch queue stopped")
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for d := range q.deliveries {
		metrics.WebhookQueueDepth.Set(float64(len(q.deliveries)))
		// Deliveries are not tied to the lifetime of the request that
		// produced them; the per-attempt timeout is the only bound.
		q.client.Deliver(context.Background(), d)
	}
}
