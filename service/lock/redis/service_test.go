package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vacation/service/lock"
)

func newService(t *testing.T, options Options) *Service {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredislib.NewClient(&goredislib.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	srv, err := New(client, options)
	require.NoError(t, err)
	return srv
}

func TestNew(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	srv := newService(t, Options{})
	assert.Equal(t, DefaultOptions(), srv.options)
}

func TestService_Serializes(t *testing.T) {
	srv := newService(t, Options{Expiry: 5 * time.Second, Tries: 200, RetryDelay: 5 * time.Millisecond})
	ctx := context.Background()
	var active, overlaps int32
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := srv.WithLock(ctx, lock.TeamKey("eng"), func(ctx context.Context) error {
				if atomic.AddInt32(&active, 1) > 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(0), overlaps)
}

func TestService_NotAcquired(t *testing.T) {
	srv := newService(t, Options{Expiry: 5 * time.Second, Tries: 1, RetryDelay: time.Millisecond})
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.WithLock(context.Background(), lock.TeamKey("eng"), func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	err := srv.WithLock(context.Background(), lock.TeamKey("eng"), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrNotAcquired))

	close(release)
	<-done
	err = srv.WithLock(context.Background(), lock.TeamKey("eng"), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestService_EmptyKey(t *testing.T) {
	srv := newService(t, Options{})
	assert.Error(t, srv.WithLock(context.Background(), " ", func(ctx context.Context) error { return nil }))
}
