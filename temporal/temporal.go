// Package temporal derives calendar, lag and trailing window features of the daily step count.
package temporal

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aouyang1/go-stepfeatures/event"
	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/stats"
	"github.com/aouyang1/go-stepfeatures/timedataset"
)

// Calendar derives day_of_week (Monday is 0), ISO week_of_year, month and is_weekend.
func Calendar(t []time.Time) *feature.Set {
	dow := make([]float64, len(t))
	week := make([]float64, len(t))
	month := make([]float64, len(t))
	weekend := make([]float64, len(t))

	for i, ct := range t {
		d := (int(ct.Weekday()) + 6) % 7
		dow[i] = float64(d)
		_, w := ct.ISOWeek()
		week[i] = float64(w)
		month[i] = float64(ct.Month())
		if d >= 5 {
			weekend[i] = 1.0
		}
	}

	fs := feature.NewSet()
	fs.Set(feature.NewCalendar(feature.CalendarDayOfWeek), dow)
	fs.Set(feature.NewCalendar(feature.CalendarWeekOfYear), week)
	fs.Set(feature.NewCalendar(feature.CalendarMonth), month)
	fs.Set(feature.NewCalendar(feature.CalendarIsWeekend), weekend)
	return fs
}

// Holidays flags every day covered by one of the configured holidays.
func Holidays(t []time.Time, opt HolidayOptions) *feature.Set {
	fs := feature.NewSet()
	if len(t) == 0 {
		fs.Set(feature.NewCalendar(feature.CalendarIsHoliday), nil)
		return fs
	}
	hols := opt.Holidays
	if len(hols) == 0 {
		hols = event.FederalHolidays
	}
	events := event.Holidays(hols, t[0], t[len(t)-1], opt.DurBefore, opt.DurAfter)
	fs.Set(feature.NewCalendar(feature.CalendarIsHoliday), event.Mask(t, events))
	return fs
}

// Lags shifts y by each lag. The first k rows of a lag k column are NaN.
func Lags(y []float64, lags []int) *feature.Set {
	fs := feature.NewSet()
	for _, k := range lags {
		col := make([]float64, len(y))
		for i := range col {
			if i < k {
				col[i] = math.NaN()
				continue
			}
			col[i] = y[i-k]
		}
		fs.Set(feature.NewLag(feature.LagSourceSteps, k), col)
	}
	return fs
}

// Rolling derives the trailing average and standard deviation of y for each window.
func Rolling(y []float64, windows []int) *feature.Set {
	fs := feature.NewSet()
	for _, w := range windows {
		avg, std := stats.Rolling(y, w)
		fs.Set(feature.NewRolling(feature.RollingStatAvg, w), avg)
		fs.Set(feature.NewRolling(feature.RollingStatStd, w), std)
	}
	return fs
}

// Derive builds every temporal feature for the timeline. Lags and rolling windows only look
// at the current and earlier days.
func Derive(tl *timedataset.TimeDataset, opt *Options) (*feature.Set, error) {
	if tl.Len() == 0 {
		return nil, fmt.Errorf("unable to derive temporal features, %w", timedataset.ErrNoData)
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to derive temporal features, %w", err)
	}

	fs := feature.NewSet()
	fs.Update(Calendar(tl.T))
	if opt.HolidayOptions.Enabled {
		fs.Update(Holidays(tl.T, opt.HolidayOptions))
	}
	fs.Update(Lags(tl.Y, opt.Lags))
	fs.Update(Rolling(tl.Y, opt.RollingWindows))

	slog.Info("derived temporal features",
		"columns", fs.Len(),
		"lags", opt.Lags,
		"windows", opt.RollingWindows,
		"holidays", opt.HolidayOptions.Enabled,
	)
	return fs, nil
}
