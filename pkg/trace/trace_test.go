package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTraceIDIsUnique(t *testing.T) {
	a := GenerateTraceID()
	b := GenerateTraceID()
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), "abc123")
	require.Equal(t, "abc123", FromContext(ctx))
}

func TestFromContextEmptyWhenUnset(t *testing.T) {
	require.Empty(t, FromContext(context.Background()))
}
