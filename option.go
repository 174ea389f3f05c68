package vacation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/viant/vacation/service/dao/allowance"
	"github.com/viant/vacation/service/dao/request"
	"github.com/viant/vacation/service/directory"
	"github.com/viant/vacation/service/lock"
	"github.com/viant/vacation/service/settings"
)

// Option customises the Service.
type Option func(s *Service)

// WithStore sets the request store. When the store also exposes
// Allowances() its allowance view is used unless WithAllowances is given.
func WithStore(store request.Service) Option {
	return func(s *Service) { s.store = store }
}

// WithAllowances sets the allowance record store.
func WithAllowances(allowances allowance.Service) Option {
	return func(s *Service) { s.allowances = allowances }
}

// WithDirectory sets the actor directory.
func WithDirectory(directory directory.Service) Option {
	return func(s *Service) { s.directory = directory }
}

// WithSettings sets the organisation settings provider.
func WithSettings(settings settings.Service) Option {
	return func(s *Service) { s.settings = settings }
}

// WithLocker sets the lock serializing approvals per team.
func WithLocker(locker lock.Service) Option {
	return func(s *Service) { s.locker = locker }
}

// WithLogger sets the structured logger; a no-op logger is used by default.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRegisterer registers the service metrics on registerer.
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(s *Service) { s.registerer = registerer }
}

// WithLocation sets the reference time zone for date evaluation.
func WithLocation(location *time.Location) Option {
	return func(s *Service) { s.location = location }
}
