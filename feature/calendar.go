package feature

import (
	"strings"
)

const (
	CalendarDayOfWeek  = "day_of_week"
	CalendarWeekOfYear = "week_of_year"
	CalendarMonth      = "month"
	CalendarIsWeekend  = "is_weekend"
	CalendarIsHoliday  = "is_holiday"
)

// Calendar is a feature derived only from the date of a row.
type Calendar struct {
	Name string `json:"name"`
}

func NewCalendar(name string) *Calendar {
	return &Calendar{name}
}

func (c Calendar) String() string {
	return c.Name
}

func (c Calendar) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	}
	return "", false
}

func (c Calendar) Type() FeatureType {
	return FeatureTypeCalendar
}

func (c Calendar) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	return res
}
