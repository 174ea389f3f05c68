package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vacation/service/lock"
)

func TestService_Serializes(t *testing.T) {
	srv := New()
	ctx := context.Background()
	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := srv.WithLock(ctx, lock.TeamKey("eng"), func(ctx context.Context) error {
				current := atomic.AddInt32(&active, 1)
				for {
					seen := atomic.LoadInt32(&maxActive)
					if current <= seen || atomic.CompareAndSwapInt32(&maxActive, seen, current) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive)
	assert.Empty(t, srv.entries)
}

func TestService_IndependentKeys(t *testing.T) {
	srv := New()
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = srv.WithLock(ctx, lock.TeamKey("eng"), func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	err := srv.WithLock(ctx, lock.TeamKey("ops"), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
	close(release)
}

func TestService_ContextCancelled(t *testing.T) {
	srv := New()
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.WithLock(context.Background(), "k", func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	called := false
	err := srv.WithLock(ctx, "k", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrNotAcquired))
	assert.False(t, called)

	close(release)
	<-done
	assert.Empty(t, srv.entries)
}

func TestService_ReturnsCallbackError(t *testing.T) {
	expected := errors.New("boom")
	err := New().WithLock(context.Background(), "k", func(ctx context.Context) error { return expected })
	assert.Equal(t, expected, err)
}
