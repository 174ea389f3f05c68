package settings

import (
	"context"
	"sync"

	"github.com/viant/vacation/model"
)

// Static serves settings held in memory.
type Static struct {
	mu       sync.RWMutex
	settings model.Settings
}

// NewStatic returns a provider for s, or the defaults when s is nil.
func NewStatic(s *model.Settings) *Static {
	if s == nil {
		s = model.DefaultSettings()
	}
	return &Static{settings: *s}
}

func (s *Static) Settings(_ context.Context) (*model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := s.settings
	ret.Holidays = append([]model.Date(nil), s.settings.Holidays...)
	return &ret, nil
}

// Update validates and replaces the settings.
func (s *Static) Update(settings *model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = *settings
	return nil
}
