package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"studyplanner/pkg/circuitbreaker"
	"studyplanner/pkg/metrics"
)

const (
	// SignatureHeader carries the HMAC-SHA256 of the request body, keyed by
	// the shared webhook secret. The header name matches what the parent
	// app's receiver expects.
	SignatureHeader = "X-Ansiversa-Signature"

	DefaultTimeout = 4000 * time.Millisecond
	DefaultRetries = 2

	backoffStep = 400 * time.Millisecond
)

// Delivery is one logical webhook delivery. An empty Endpoint or Secret
// means the integration is disabled and the delivery is silently skipped.
type Delivery struct {
	// Target names the logical endpoint for logs and metrics.
	Target   string
	Endpoint string
	Secret   string
	AppKey   string
	Payload  interface{}
	// Timeout bounds each physical attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retries is the number of attempts after the first. Negative means
	// DefaultRetries.
	Retries int
}

// Client posts signed JSON payloads to webhook endpoints with a bounded
// timeout/retry envelope. Deliver never returns an error: delivery is
// best-effort and failures are absorbed and logged.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	backoff    time.Duration

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		// Per-attempt timeouts come from the request context, not the client.
		httpClient: &http.Client{},
		logger:     logger,
		backoff:    backoffStep,
		breakers:   make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// Sign returns the hex HMAC-SHA256 of body keyed by secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Deliver performs one logical delivery: up to retries+1 signed POST
// attempts with linear backoff between them. Any HTTP response counts as
// success. The total wall-clock cost is bounded by
// timeout*(retries+1) plus the cumulative backoff.
func (c *Client) Deliver(ctx context.Context, d Delivery) {
	target := d.Target
	if target == "" {
		target = "default"
	}

	if d.Endpoint == "" || d.Secret == "" {
		c.logger.Debug("Webhook delivery skipped: endpoint or secret not configured",
			zap.String("target", target),
			zap.String("app_key", d.AppKey),
		)
		metrics.RecordWebhookDelivery(target, "skipped", 0)
		return
	}

	body, err := json.Marshal(d.Payload)
	if err != nil {
		c.logger.Error("Failed to marshal webhook payload",
			zap.String("target", target),
			zap.Error(err),
		)
		metrics.RecordWebhookDelivery(target, "failed", 0)
		return
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := d.Retries
	if retries < 0 {
		retries = DefaultRetries
	}

	signature := Sign(d.Secret, body)
	breaker := c.breaker(d.Endpoint)
	start := time.Now()

	for attempt := 0; attempt <= retries; attempt++ {
		err := breaker.Execute(func() error {
			return c.post(ctx, d.Endpoint, signature, body, timeout)
		})
		if err == nil {
			metrics.IncrementWebhookAttempt(target, "success")
			metrics.RecordWebhookDelivery(target, "success", time.Since(start))
			return
		}

		metrics.IncrementWebhookAttempt(target, "error")
		c.logger.Debug("Webhook attempt failed",
			zap.String("target", target),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		if attempt < retries {
			if !c.sleep(ctx, c.backoff*time.Duration(attempt+1)) {
				break
			}
		}
	}

	c.logger.Warn("Webhook delivery failed after all attempts",
		zap.String("target", target),
		zap.String("app_key", d.AppKey),
		zap.Int("attempts", retries+1),
	)
	metrics.RecordWebhookDelivery(target, "failed", time.Since(start))
}

func (c *Client) post(ctx context.Context, endpoint, signature string, body []byte, timeout time.Duration) error {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	// The receiver contract has no response body; any response is success.
	resp.Body.Close()
	return nil
}

// sleep waits for the backoff delay, returning false if ctx was cancelled.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) breaker(endpoint string) *circuitbreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	cb, ok := c.breakers[endpoint]
	if !ok {
		cb = circuitbreaker.New(circuitbreaker.DefaultConfig())
		c.breakers[endpoint] = cb
	}
	return cb
}
