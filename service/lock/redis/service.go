// Package redis implements distributed advisory locks with redsync on top of
// go-redis, so approvals are serialized per team across service instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/viant/vacation/service/lock"
)

// Options configures lock behaviour.
type Options struct {
	// Expiry bounds how long a crashed holder keeps the lock.
	Expiry     time.Duration `json:"expiry" yaml:"expiry"`
	Tries      int           `json:"tries" yaml:"tries"`
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay"`
}

// DefaultOptions returns options suited to a single approval transition.
func DefaultOptions() Options {
	return Options{
		Expiry:     10 * time.Second,
		Tries:      20,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Service is a redsync backed lock.Service.
type Service struct {
	redsync *redsync.Redsync
	options Options
}

var _ lock.Service = (*Service)(nil)

// New creates a lock service on client.
func New(client goredislib.UniversalClient, options Options) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client was nil")
	}
	defaults := DefaultOptions()
	if options.Expiry <= 0 {
		options.Expiry = defaults.Expiry
	}
	if options.Tries <= 0 {
		options.Tries = defaults.Tries
	}
	if options.RetryDelay <= 0 {
		options.RetryDelay = defaults.RetryDelay
	}
	return &Service{redsync: redsync.New(goredis.NewPool(client)), options: options}, nil
}

func (s *Service) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("lock key was empty")
	}
	mutex := s.redsync.NewMutex(key,
		redsync.WithExpiry(s.options.Expiry),
		redsync.WithTries(s.options.Tries),
		redsync.WithRetryDelay(s.options.RetryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) || ctx.Err() != nil {
			return fmt.Errorf("%w: %v: %v", lock.ErrNotAcquired, key, err)
		}
		return fmt.Errorf("failed to acquire lock %v: %w", key, err)
	}
	defer func() {
		// a fresh context so cancellation of ctx does not leave the lock until expiry
		unlockCtx, cancel := context.WithTimeout(context.Background(), s.options.Expiry)
		defer cancel()
		_, _ = mutex.UnlockContext(unlockCtx)
	}()
	return fn(ctx)
}
