package timedataset

import (
	"time"

	"github.com/aouyang1/go-stepfeatures/timestamp"
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// SpanDays returns the number of calendar days covered from the first to the last time
// inclusive.
func (t TimeSlice) SpanDays() int {
	if len(t) < 1 {
		return 0
	}
	return timestamp.DaysBetween(t.StartTime(), t.EndTime()) + 1
}
