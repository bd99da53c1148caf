package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyplanner/internal/model"
	"studyplanner/pkg/config"
	"studyplanner/pkg/webhook"
)

type fakeDispatcher struct {
	deliveries []webhook.Delivery
}

func (f *fakeDispatcher) Enqueue(d webhook.Delivery) bool {
	f.deliveries = append(f.deliveries, d)
	return true
}

type fakeBuilder struct {
	summary *model.Summary
	err     error
}

func (f *fakeBuilder) Build(ctx context.Context, userID string) (*model.Summary, error) {
	return f.summary, f.err
}

func testWebhookConfig() config.WebhookConfig {
	return config.WebhookConfig{
		DashboardURL:        "https://parent.example/api/dashboard",
		DashboardSecret:     "dash-secret",
		NotificationsURL:    "https://parent.example/api/notifications",
		NotificationsSecret: "notif-secret",
		TimeoutMS:           4000,
		Retries:             2,
	}
}

func marshalPayload(t *testing.T, payload interface{}) map[string]json.RawMessage {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

func TestPushSummaryEnqueuesDashboardDelivery(t *testing.T) {
	dispatch := &fakeDispatcher{}
	builder := &fakeBuilder{summary: &model.Summary{AppID: model.AppID, Version: model.SummaryVersion}}
	n := NewNotifier(builder, dispatch, testWebhookConfig(), zap.NewNop())

	n.PushSummary(context.Background(), "u1", model.EventPlanCreated)

	require.Len(t, dispatch.deliveries, 1)
	d := dispatch.deliveries[0]
	require.Equal(t, "dashboard", d.Target)
	require.Equal(t, "https://parent.example/api/dashboard", d.Endpoint)
	require.Equal(t, "dash-secret", d.Secret)
	require.Equal(t, 4*time.Second, d.Timeout)
	require.Equal(t, 2, d.Retries)

	payload, ok := d.Payload.(DashboardPayload)
	require.True(t, ok)
	require.Equal(t, model.AppID, payload.AppID)
	require.Equal(t, "u1", payload.UserID)
	require.Equal(t, model.EventPlanCreated, payload.EventType)
	require.Equal(t, model.SummaryVersion, payload.SummaryVersion)
	require.Equal(t, builder.summary, payload.Summary)
}

func TestDashboardPayloadWireKeys(t *testing.T) {
	dispatch := &fakeDispatcher{}
	builder := &fakeBuilder{summary: &model.Summary{AppID: model.AppID, Version: model.SummaryVersion}}
	n := NewNotifier(builder, dispatch, testWebhookConfig(), zap.NewNop())

	n.PushSummary(context.Background(), "u1", model.EventTaskUpdated)

	require.Len(t, dispatch.deliveries, 1)
	m := marshalPayload(t, dispatch.deliveries[0].Payload)

	require.Contains(t, m, "appId")
	require.Contains(t, m, "userId")
	require.Contains(t, m, "eventType")
	require.Contains(t, m, "summaryVersion")
	require.Contains(t, m, "summary")
	require.JSONEq(t, `"task.updated"`, string(m["eventType"]))
	require.JSONEq(t, `1`, string(m["summaryVersion"]))
}

func TestPushSummaryAbsorbsBuildFailure(t *testing.T) {
	dispatch := &fakeDispatcher{}
	builder := &fakeBuilder{err: errors.New("db down")}
	n := NewNotifier(builder, dispatch, testWebhookConfig(), zap.NewNop())

	n.PushSummary(context.Background(), "u1", model.EventPlanCreated)

	require.Empty(t, dispatch.deliveries)
}

func TestNotifyParentEnqueuesEvent(t *testing.T) {
	dispatch := &fakeDispatcher{}
	n := NewNotifier(&fakeBuilder{}, dispatch, testWebhookConfig(), zap.NewNop())

	n.NotifyParent(context.Background(), "u1", model.EventTaskDue, "Task due today: essay", "/plans/7")

	require.Len(t, dispatch.deliveries, 1)
	d := dispatch.deliveries[0]
	require.Equal(t, "notifications", d.Target)
	require.Equal(t, "https://parent.example/api/notifications", d.Endpoint)
	require.Equal(t, "notif-secret", d.Secret)

	payload, ok := d.Payload.(EventPayload)
	require.True(t, ok)
	require.Equal(t, model.AppID, payload.AppID)
	require.Equal(t, "u1", payload.UserID)
	require.Equal(t, model.EventTaskDue, payload.EventType)
	require.Equal(t, "Task due today: essay", payload.Title)
	require.Equal(t, "/plans/7", payload.URL)
}

func TestEventPayloadWireKeys(t *testing.T) {
	dispatch := &fakeDispatcher{}
	n := NewNotifier(&fakeBuilder{}, dispatch, testWebhookConfig(), zap.NewNop())

	n.NotifyParent(context.Background(), "u1", model.EventTaskOverdue, "Task overdue: essay", "/plans/7")

	m := marshalPayload(t, dispatch.deliveries[0].Payload)

	require.Contains(t, m, "appId")
	require.Contains(t, m, "userId")
	require.Contains(t, m, "eventType")
	require.Contains(t, m, "title")
	require.Contains(t, m, "url")
	require.NotContains(t, m, "app")
	require.NotContains(t, m, "event")
	require.JSONEq(t, `"task.overdue"`, string(m["eventType"]))
}
