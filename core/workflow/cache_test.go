package workflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Do(t *testing.T) {
	c := NewMemoryCache(0)
	calls := 0
	fn := func() (any, error) {
		calls++
		return "v", nil
	}

	v, hit, err := c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "v", v)

	v, hit, err = c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, calls)

	c.Invalidate("k")
	_, hit, _ = c.Do(context.Background(), "k", fn)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestMemoryCache_ErrorsAreNotCached(t *testing.T) {
	c := NewMemoryCache(0)
	_, _, err := c.Do(context.Background(), "k", func() (any, error) {
		return nil, errors.New("nope")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	calls := 0
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	_, _, _ = c.Do(context.Background(), "k", fn)
	now = now.Add(30 * time.Second)
	_, hit, _ := c.Do(context.Background(), "k", fn)
	assert.True(t, hit)

	now = now.Add(time.Minute)
	v, hit, _ := c.Do(context.Background(), "k", fn)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
}

func TestMemoryCache_ConcurrentMissesShareOneCall(t *testing.T) {
	c := NewMemoryCache(0)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = c.Do(context.Background(), "k", func() (any, error) {
				calls.Add(1)
				<-release
				return "v", nil
			})
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCacheKey(t *testing.T) {
	task := NewTask("t", nil, WithCache("1.0"))
	bumped := NewTask("t", nil, WithCache("2.0"))

	k1, ok := CacheKey(task, Inputs{values: map[string]any{"a": 1, "b": "x"}})
	require.True(t, ok)
	k2, _ := CacheKey(task, Inputs{values: map[string]any{"b": "x", "a": 1}})
	k3, _ := CacheKey(task, Inputs{values: map[string]any{"a": 2, "b": "x"}})
	k4, _ := CacheKey(bumped, Inputs{values: map[string]any{"a": 1, "b": "x"}})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)

	_, ok = CacheKey(task, Inputs{values: map[string]any{"ch": make(chan int)}})
	assert.False(t, ok)
}

func TestMemoryCache_WaiterOutlivesCancelledLeader(t *testing.T) {
	c := NewMemoryCache(0)
	leaderCtx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	leaderDone := make(chan error, 1)
	go func() {
		_, _, err := c.Do(leaderCtx, "k", func() (any, error) {
			close(started)
			<-leaderCtx.Done()
			return nil, leaderCtx.Err()
		})
		leaderDone <- err
	}()
	<-started

	type outcome struct {
		value any
		hit   bool
		err   error
	}
	waiterDone := make(chan outcome, 1)
	go func() {
		v, hit, err := c.Do(context.Background(), "k", func() (any, error) {
			return "fresh", nil
		})
		waiterDone <- outcome{v, hit, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-leaderDone, context.Canceled)
	res := <-waiterDone
	require.NoError(t, res.err)
	assert.Equal(t, "fresh", res.value)
	assert.False(t, res.hit)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_CallerContextStopsWaiting(t *testing.T) {
	c := NewMemoryCache(0)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_, _, _ = c.Do(context.Background(), "k", func() (any, error) {
			close(started)
			<-release
			return "v", nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := c.Do(ctx, "k", func() (any, error) { return "unused", nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryCache_OwnContextErrorIsReturned(t *testing.T) {
	c := NewMemoryCache(0)
	calls := 0
	_, _, err := c.Do(context.Background(), "k", func() (any, error) {
		calls++
		return nil, context.DeadlineExceeded
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}
