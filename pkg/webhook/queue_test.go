package webhook

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueueEnqueueDropsWhenFull(t *testing.T) {
	q := NewQueue(testClient(), zap.NewNop(), 2, 1)
	// Workers are never started, so the channel fills up.

	require.True(t, q.Enqueue(Delivery{Target: "dashboard"}))
	require.True(t, q.Enqueue(Delivery{Target: "dashboard"}))
	require.False(t, q.Enqueue(Delivery{Target: "dashboard"}))
}

func TestQueueDrainsOnStop(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	q := NewQueue(testClient(), zap.NewNop(), 8, 2)
	q.Start()

	for i := 0; i < 5; i++ {
		require.True(t, q.Enqueue(Delivery{
			Target:   "notifications",
			Endpoint: srv.URL,
			Secret:   "s",
			Payload:  i,
		}))
	}
	q.Stop()

	require.Equal(t, int64(5), atomic.LoadInt64(&calls))
}

func TestQueueStopIsIdempotent(t *testing.T) {
	q := NewQueue(testClient(), zap.NewNop(), 1, 1)
	q.Start()
	q.Stop()
	require.NotPanics(t, func() { q.Stop() })
}

func TestQueueDefaults(t *testing.T) {
	q := NewQueue(testClient(), zap.NewNop(), 0, 0)
	require.Equal(t, 256, cap(q.deliveries))
	require.Equal(t, 2, q.workers)
}
