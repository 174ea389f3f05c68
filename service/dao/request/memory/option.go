package memory

type Option func(*Service)

// WithDefaultTotal sets the quota reported for users without an explicit record.
func WithDefaultTotal(days int) Option {
	return func(s *Service) { s.defaultTotal = days }
}

// WithRoster registers team sizes.
func WithRoster(sizes map[string]int) Option {
	return func(s *Service) {
		for team, size := range sizes {
			s.rosters[team] = size
		}
	}
}
