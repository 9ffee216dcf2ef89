package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return New(Config{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          timeout,
		Name:             "test",
	})
}

func fail(cb *CircuitBreaker) error {
	return cb.Execute(context.Background(), func() error { return errBackend })
}

func succeed(cb *CircuitBreaker) error {
	return cb.Execute(context.Background(), func() error { return nil })
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, fail(cb), errBackend)
	}
	assert.Equal(t, StateOpen, cb.State())
	assert.True(t, cb.IsOpen())

	// Open circuit rejects without calling the backend
	var called bool
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	require.Error(t, fail(cb))
	require.Error(t, fail(cb))
	require.NoError(t, succeed(cb))
	require.Error(t, fail(cb))
	require.Error(t, fail(cb))

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.Error(t, fail(cb))
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// First probe moves to half-open; two successes close the circuit
	require.NoError(t, succeed(cb))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, succeed(cb))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.Error(t, fail(cb))
	}
	time.Sleep(20 * time.Millisecond)

	require.Error(t, fail(cb))
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	stats := cb.GetStats()
	assert.Equal(t, "closed", stats.State)
	assert.True(t, stats.IsHealthy)

	for i := 0; i < 3; i++ {
		require.Error(t, fail(cb))
	}
	stats = cb.GetStats()
	assert.Equal(t, "open", stats.State)
	assert.False(t, stats.IsHealthy)
	assert.Equal(t, 3, stats.FailureCount)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
