package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/lawsuit-monitor/pkg/errors"
)

func TestRunLock_LockUnlock(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	lock := NewRunLock(client, "daily", logging.NewNopLogger(), WithLockTTL(time.Minute))
	ok, err := lock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("lm:lock:daily"))
	assert.Equal(t, "lm:lock:daily", LockKey(client, "daily"))

	ttl, err := lock.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("lm:lock:daily"))
}

func TestRunLock_Contention(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	first := NewRunLock(client, "daily", nil)
	second := NewRunLock(client, "daily", nil)

	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	err = second.Unlock(ctx)
	assert.Equal(t, ErrLockNotHeld, err)

	require.NoError(t, first.Unlock(ctx))
	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunLock_Expiry(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	first := NewRunLock(client, "daily", nil, WithLockTTL(time.Second))
	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	second := NewRunLock(client, "daily", nil)
	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	extended, err := first.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, extended, "a lock taken over by another owner cannot be extended")
}

func TestRunLock_WatchdogStopsOnUnlock(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	lock := NewRunLock(client, "daily", nil,
		WithLockTTL(time.Minute), WithWatchdog(true), WithWatchdogInterval(10*time.Millisecond))
	ok, err := lock.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("lm:lock:daily"))
}

func TestRunLock_ClosedClient(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Close())

	_, err := NewRunLock(client, "daily", nil).TryLock(context.Background())
	assert.Equal(t, ErrClientClosed, err)
}

func TestErrLockNotAcquired_Code(t *testing.T) {
	assert.True(t, apperrors.IsCode(ErrLockNotAcquired, apperrors.ErrCodeRunLocked))
}

//Personal.AI order the ending
