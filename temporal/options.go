package temporal

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aouyang1/go-stepfeatures/event"
	"github.com/rickar/cal/v2"
)

var (
	ErrInvalidLag    = errors.New("lag must be at least 1 day")
	ErrInvalidWindow = errors.New("rolling window must be at least 1 day")
)

// HolidayOptions configures the is_holiday indicator.
type HolidayOptions struct {
	Enabled   bool           `json:"enabled"`
	Holidays  []*cal.Holiday `json:"-"`
	DurBefore time.Duration  `json:"dur_before"`
	DurAfter  time.Duration  `json:"dur_after"`
}

func NewDefaultHolidayOptions() HolidayOptions {
	return HolidayOptions{
		Enabled:  false,
		Holidays: event.FederalHolidays,
	}
}

type Options struct {
	Lags           []int          `json:"lags"`
	RollingWindows []int          `json:"rolling_windows"`
	HolidayOptions HolidayOptions `json:"holiday_options"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Lags:           []int{1, 7, 30},
		RollingWindows: []int{7, 30},
		HolidayOptions: NewDefaultHolidayOptions(),
	}
}

// Validate checks that every lag and window is positive and returns a copy of the options with
// lags and windows deduplicated in ascending order.
func (o *Options) Validate() (*Options, error) {
	for _, lag := range o.Lags {
		if lag < 1 {
			return nil, fmt.Errorf("lag of %d, %w", lag, ErrInvalidLag)
		}
	}
	for _, window := range o.RollingWindows {
		if window < 1 {
			return nil, fmt.Errorf("window of %d, %w", window, ErrInvalidWindow)
		}
	}

	valid := *o
	valid.Lags = sortedUnique(o.Lags)
	valid.RollingWindows = sortedUnique(o.RollingWindows)
	if valid.HolidayOptions.Enabled && len(valid.HolidayOptions.Holidays) == 0 {
		valid.HolidayOptions.Holidays = event.FederalHolidays
	}
	return &valid, nil
}

func sortedUnique(vals []int) []int {
	res := slices.Clone(vals)
	slices.Sort(res)
	return slices.Compact(res)
}
