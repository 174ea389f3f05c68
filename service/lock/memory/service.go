package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/vacation/service/lock"
)

// Service is an in-process keyed lock. Entries are removed once no goroutine
// holds or waits for them.
type Service struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

var _ lock.Service = (*Service)(nil)

func (s *Service) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	e := s.acquire(key)
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		s.release(key, e, false)
		return fmt.Errorf("%w: %v: %v", lock.ErrNotAcquired, key, ctx.Err())
	}
	defer s.release(key, e, true)
	return fn(ctx)
}

func (s *Service) acquire(key string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		s.entries[key] = e
	}
	e.refs++
	return e
}

func (s *Service) release(key string, e *entry, held bool) {
	if held {
		<-e.sem
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(s.entries, key)
	}
}

func New() *Service {
	return &Service{entries: map[string]*entry{}}
}
