// Package notify pushes planner activity to the parent app: tagged summary
// snapshots to the dashboard endpoint and point events to the notifications
// endpoint. Both paths are best-effort and never fail the operation that
// triggered them.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"studyplanner/internal/model"
	"studyplanner/pkg/config"
	"studyplanner/pkg/metrics"
	"studyplanner/pkg/webhook"
)

// Dispatcher hands deliveries to the background webhook workers.
type Dispatcher interface {
	Enqueue(d webhook.Delivery) bool
}

type SummaryBuilder interface {
	Build(ctx context.Context, userID string) (*model.Summary, error)
}

// DashboardPayload wraps a summary for the parent dashboard receiver,
// tagged with the event type that triggered the push.
type DashboardPayload struct {
	AppID          string         `json:"appId"`
	UserID         string         `json:"userId"`
	EventType      string         `json:"eventType"`
	SummaryVersion int            `json:"summaryVersion"`
	Summary        *model.Summary `json:"summary"`
}

// EventPayload is a single notification event for the parent app.
type EventPayload struct {
	AppID     string `json:"appId"`
	UserID    string `json:"userId"`
	EventType string `json:"eventType"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

type Notifier struct {
	summaries SummaryBuilder
	dispatch  Dispatcher
	webhooks  config.WebhookConfig
	logger    *zap.Logger
}

func NewNotifier(summaries SummaryBuilder, dispatch Dispatcher, webhooks config.WebhookConfig, logger *zap.Logger) *Notifier {
	return &Notifier{
		summaries: summaries,
		dispatch:  dispatch,
		webhooks:  webhooks,
		logger:    logger,
	}
}

// PushSummary rebuilds the user's summary and queues it for the dashboard
// endpoint, tagged with the triggering event type. Build failures are logged
// and swallowed: a broken summary push must not surface to the mutation that
// triggered it.
func (n *Notifier) PushSummary(ctx context.Context, userID, eventType string) {
	s, err := n.summaries.Build(ctx, userID)
	if err != nil {
		n.logger.Warn("Failed to build summary for dashboard push",
			zap.String("user_id", userID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	n.dispatch.Enqueue(webhook.Delivery{
		Target:   "dashboard",
		Endpoint: n.webhooks.DashboardURL,
		Secret:   n.webhooks.DashboardSecret,
		AppKey:   model.AppID,
		Payload: DashboardPayload{
			AppID:          model.AppID,
			UserID:         userID,
			EventType:      eventType,
			SummaryVersion: s.Version,
			Summary:        s,
		},
		Timeout: time.Duration(n.webhooks.TimeoutMS) * time.Millisecond,
		Retries: n.webhooks.Retries,
	})
}

// NotifyParent queues a point event for the parent notifications endpoint.
func (n *Notifier) NotifyParent(ctx context.Context, userID, eventType, title, url string) {
	metrics.IncrementNotificationEvent(eventType)
	n.dispatch.Enqueue(webhook.Delivery{
		Target:   "notifications",
		Endpoint: n.webhooks.NotificationsURL,
		Secret:   n.webhooks.NotificationsSecret,
		AppKey:   model.AppID,
		Payload: EventPayload{
			AppID:     model.AppID,
			UserID:    userID,
			EventType: eventType,
			Title:     title,
			URL:       url,
		},
		Timeout: time.Duration(n.webhooks.TimeoutMS) * time.Millisecond,
		Retries: n.webhooks.Retries,
	})
}
