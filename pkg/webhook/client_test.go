package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient() *Client {
	c := NewClient(zap.NewNop())
	c.backoff = time.Millisecond
	return c
}

func TestDeliverSkipsWhenNotConfigured(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	c := testClient()

	c.Deliver(context.Background(), Delivery{Target: "dashboard", Endpoint: "", Secret: "s", Payload: "x"})
	c.Deliver(context.Background(), Delivery{Target: "dashboard", Endpoint: srv.URL, Secret: "", Payload: "x"})

	require.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestDeliverSignsBody(t *testing.T) {
	type payload struct {
		App string `json:"app"`
	}

	var gotSignature string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get(SignatureHeader)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = body
	}))
	defer srv.Close()

	c := testClient()
	c.Deliver(context.Background(), Delivery{
		Target:   "dashboard",
		Endpoint: srv.URL,
		Secret:   "topsecret",
		Payload:  payload{App: "study-planner"},
	})

	require.NotEmpty(t, gotSignature)
	require.Equal(t, Sign("topsecret", gotBody), gotSignature)
}

func TestDeliverRetriesUntilSuccess(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			// Drop the connection so the attempt errors instead of
			// responding with a status code.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient()
	c.Deliver(context.Background(), Delivery{
		Target:   "notifications",
		Endpoint: srv.URL,
		Secret:   "s",
		Payload:  "x",
	})

	require.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestDeliverNon2xxCountsAsSuccess(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient()
	c.Deliver(context.Background(), Delivery{
		Target:   "dashboard",
		Endpoint: srv.URL,
		Secret:   "s",
		Payload:  "x",
	})

	require.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestDeliverGivesUpAfterRetries(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()

	c := testClient()
	c.Deliver(context.Background(), Delivery{
		Target:   "dashboard",
		Endpoint: srv.URL,
		Secret:   "s",
		Payload:  "x",
		Retries:  2,
	})

	require.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestDeliverBoundsStalledAttempts(t *testing.T) {
	var calls int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := testClient()
	start := time.Now()
	c.Deliver(context.Background(), Delivery{
		Target:   "dashboard",
		Endpoint: srv.URL,
		Secret:   "s",
		Payload:  "x",
		Timeout:  50 * time.Millisecond,
		Retries:  1,
	})
	elapsed := time.Since(start)

	// Each attempt is cut off by its own timeout, so a stalled receiver
	// costs at most timeout*(retries+1) plus backoff.
	require.Equal(t, int64(2), atomic.LoadInt64(&calls))
	require.Less(t, elapsed, time.Second)
}

func TestSignIsDeterministic(t *testing.T) {
	body := []byte(`{"app":"study-planner"}`)
	require.Equal(t, Sign("k", body), Sign("k", body))
	require.NotEqual(t, Sign("k", body), Sign("other", body))
	require.Len(t, Sign("k", body), 64)
}
