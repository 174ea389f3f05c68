// Package lock provides advisory locks used to serialize approvals per team.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be obtained before the
// context ended or the retry budget ran out.
var ErrNotAcquired = errors.New("lock: not acquired")

// Service runs fn while holding the lock named key. The error of fn is
// returned unchanged; acquisition failures wrap ErrNotAcquired.
type Service interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// TeamKey returns the lock name serializing approvals of a team.
func TeamKey(teamID string) string { return "lock:vacation:team:" + teamID }
