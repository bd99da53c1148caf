package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func passing() error { return nil }

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenMaxRequests: 1})

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(failing), errBoom)
	}
	require.Equal(t, StateOpen, cb.GetState())
	require.ErrorIs(t, cb.Execute(passing), ErrOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenMaxRequests: 1})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.NoError(t, cb.Execute(passing))
	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenClosesAfterSuccesses(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: 10 * time.Millisecond, HalfOpenMaxRequests: 3})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.GetState())

	require.NoError(t, cb.Execute(passing))
	require.NoError(t, cb.Execute(passing))
	require.Equal(t, StateClosed, cb.GetState())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: 10 * time.Millisecond, HalfOpenMaxRequests: 3})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.GetState())

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateOpen, cb.GetState())
}

func TestResetClosesBreaker(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenMaxRequests: 1})

	require.ErrorIs(t, cb.Execute(failing), errBoom)
	require.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	require.Equal(t, StateClosed, cb.GetState())
	require.NoError(t, cb.Execute(passing))
}
