package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNilDeduperAllowsEverything(t *testing.T) {
	var d *Deduper
	require.True(t, d.AcquireOnce(context.Background(), "k"))
}

func TestDeduperWithoutClientAllowsEverything(t *testing.T) {
	d := NewDeduper(nil, time.Minute, zap.NewNop())
	require.True(t, d.AcquireOnce(context.Background(), "k"))
	require.True(t, d.AcquireOnce(context.Background(), "k"))
}
