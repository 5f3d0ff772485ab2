package feature

import (
	"fmt"
	"strconv"
	"strings"
)

// LagSourceSteps is the source name used for lags of the daily step count.
const LagSourceSteps = "steps"

// Lag is the value of a source column k days earlier.
type Lag struct {
	Source string `json:"source"`
	K      int    `json:"k"`
}

func NewLag(source string, k int) *Lag {
	return &Lag{source, k}
}

// String returns the column name, e.g. steps_t_minus_7
func (l Lag) String() string {
	return fmt.Sprintf("%s_t_minus_%d", l.Source, l.K)
}

func (l Lag) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "source":
		return l.Source, true
	case "k":
		return strconv.Itoa(l.K), true
	}
	return "", false
}

func (l Lag) Type() FeatureType {
	return FeatureTypeLag
}

func (l Lag) Decode() map[string]string {
	res := make(map[string]string)
	res["source"] = l.Source
	res["k"] = strconv.Itoa(l.K)
	return res
}

// RollingStat is a trailing window statistic.
type RollingStat string

const (
	RollingStatAvg RollingStat = "avg"
	RollingStatStd RollingStat = "std"
)

// Rolling is a trailing window statistic of the target over the most recent Window days
// including the current day.
type Rolling struct {
	Stat   RollingStat `json:"stat"`
	Window int         `json:"window"`
}

func NewRolling(stat RollingStat, window int) *Rolling {
	return &Rolling{stat, window}
}

// String returns the column name, e.g. rolling_avg_7d
func (r Rolling) String() string {
	return fmt.Sprintf("rolling_%s_%dd", r.Stat, r.Window)
}

func (r Rolling) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "stat":
		return string(r.Stat), true
	case "window":
		return strconv.Itoa(r.Window), true
	}
	return "", false
}

func (r Rolling) Type() FeatureType {
	return FeatureTypeRolling
}

func (r Rolling) Decode() map[string]string {
	res := make(map[string]string)
	res["stat"] = string(r.Stat)
	res["window"] = strconv.Itoa(r.Window)
	return res
}
