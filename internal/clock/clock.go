package clock

import (
	"time"

	"github.com/viant/vacation/model"
)

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Today returns the current calendar date in loc (UTC when nil).
func Today(loc *time.Location) model.Date { return model.DateIn(NowFunc(), loc) }
