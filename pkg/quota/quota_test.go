package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCounts struct {
	plans, tasks, logs int
	err                error
}

func (f fakeCounts) CountPlans(ctx context.Context, userID string) (int, error) {
	return f.plans, f.err
}

func (f fakeCounts) CountTasks(ctx context.Context, userID string) (int, error) {
	return f.tasks, f.err
}

func (f fakeCounts) CountLogs(ctx context.Context, userID string) (int, error) {
	return f.logs, f.err
}

func TestAllowedBelowLimit(t *testing.T) {
	s := NewService(fakeCounts{plans: 2}, Limits{MaxPlans: 3}, zap.NewNop())

	allowed, err := s.Allowed(context.Background(), "u1", ResourcePlans)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestDeniedAtLimit(t *testing.T) {
	s := NewService(fakeCounts{plans: 3}, Limits{MaxPlans: 3}, zap.NewNop())

	allowed, err := s.Allowed(context.Background(), "u1", ResourcePlans)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestZeroLimitDisablesCheck(t *testing.T) {
	s := NewService(fakeCounts{logs: 100000}, Limits{}, zap.NewNop())

	allowed, err := s.Allowed(context.Background(), "u1", ResourceLogs)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestEachResourceUsesOwnLimit(t *testing.T) {
	s := NewService(fakeCounts{plans: 3, tasks: 10, logs: 10}, Limits{MaxPlans: 3, MaxTasks: 50, MaxLogs: 200}, zap.NewNop())

	allowed, err := s.Allowed(context.Background(), "u1", ResourceTasks)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = s.Allowed(context.Background(), "u1", ResourcePlans)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestCountErrorPropagates(t *testing.T) {
	s := NewService(fakeCounts{err: errors.New("db down")}, Limits{MaxPlans: 3}, zap.NewNop())

	_, err := s.Allowed(context.Background(), "u1", ResourcePlans)
	require.Error(t, err)
}

func TestUnknownResourceRejected(t *testing.T) {
	s := NewService(fakeCounts{}, Limits{}, zap.NewNop())

	_, err := s.Allowed(context.Background(), "u1", Resource("widgets"))
	require.Error(t, err)
}
