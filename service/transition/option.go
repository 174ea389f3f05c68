package transition

import (
	"time"

	"github.com/viant/vacation/service/lock"
)

type Option func(*service)

// WithLocker sets the lock serializing approvals per team.
func WithLocker(locker lock.Service) Option {
	return func(s *service) { s.locker = locker }
}

// WithLocation sets the reference time zone in which "today" is evaluated.
func WithLocation(location *time.Location) Option {
	return func(s *service) {
		if location != nil {
			s.location = location
		}
	}
}
