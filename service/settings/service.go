// Package settings provides organisation settings to the engine.
package settings

import (
	"context"

	"github.com/viant/vacation/model"
)

// Service supplies the current organisation settings.
type Service interface {
	Settings(ctx context.Context) (*model.Settings, error)
}

// Threshold returns the team occupancy threshold in percent.
func Threshold(ctx context.Context, s Service) (int, error) {
	ret, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return ret.TeamOccupancyThreshold, nil
}

// MinAdvanceNotice returns the minimum number of days between submission and start.
func MinAdvanceNotice(ctx context.Context, s Service) (int, error) {
	ret, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	return ret.MinRequestAdvanceNoticeDays, nil
}
