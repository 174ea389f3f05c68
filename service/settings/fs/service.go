// Package fs loads organisation settings from a YAML document on any afs
// supported storage (local file, mem://, s3://, gs://).
package fs

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/settings"
)

// Service caches the document and re-reads it on Refresh.
type Service struct {
	URL    string
	fs     afs.Service
	mu     sync.RWMutex
	cached *model.Settings
}

var _ settings.Service = (*Service)(nil)

// Settings returns the cached settings, loading them on first use.
func (s *Service) Settings(ctx context.Context) (*model.Settings, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached == nil {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		cached = s.cached
		s.mu.RUnlock()
	}
	ret := *cached
	ret.Holidays = append([]model.Date(nil), cached.Holidays...)
	return &ret, nil
}

// Refresh re-reads and validates the document. Fields missing from the
// document keep their default values.
func (s *Service) Refresh(ctx context.Context) error {
	data, err := s.fs.DownloadWithURL(ctx, s.URL)
	if err != nil {
		return fmt.Errorf("failed to read settings %s: %w", s.URL, err)
	}
	ret := model.DefaultSettings()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return fmt.Errorf("failed to decode settings %s: %w", s.URL, err)
	}
	if err = ret.Validate(); err != nil {
		return fmt.Errorf("invalid settings %s: %w", s.URL, err)
	}
	s.mu.Lock()
	s.cached = ret
	s.mu.Unlock()
	return nil
}

// New creates a provider for the YAML document at URL.
func New(URL string, fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{URL: URL, fs: fs}
}
