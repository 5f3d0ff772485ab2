package feature

import (
	"fmt"
	"strings"
)

// ClinicalStat is a per day aggregate over all instances of a clinical entity kind.
type ClinicalStat string

const (
	ClinicalStatActiveCount  ClinicalStat = "active_count"
	ClinicalStatAvgDuration  ClinicalStat = "avg_duration"
	ClinicalStatMaxIntensity ClinicalStat = "max_intensity"
	ClinicalStatAvgIntensity ClinicalStat = "avg_intensity"
)

// Clinical is an aggregate column over a clinical entity kind such as the number of active
// therapies on a day.
type Clinical struct {
	Kind EntityKind   `json:"kind"`
	Stat ClinicalStat `json:"stat"`
}

func NewClinical(kind EntityKind, stat ClinicalStat) *Clinical {
	return &Clinical{kind, stat}
}

// String returns the column name, e.g. active_therapy_count or max_side_effect_intensity
func (c Clinical) String() string {
	switch c.Stat {
	case ClinicalStatActiveCount:
		return fmt.Sprintf("active_%s_count", c.Kind)
	case ClinicalStatAvgDuration:
		return fmt.Sprintf("avg_%s_duration", c.Kind)
	case ClinicalStatMaxIntensity:
		return fmt.Sprintf("max_%s_intensity", c.Kind)
	case ClinicalStatAvgIntensity:
		return fmt.Sprintf("avg_%s_intensity", c.Kind)
	}
	return fmt.Sprintf("%s_%s", c.Kind, c.Stat)
}

func (c Clinical) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "kind":
		return string(c.Kind), true
	case "stat":
		return string(c.Stat), true
	}
	return "", false
}

func (c Clinical) Type() FeatureType {
	return FeatureTypeClinical
}

func (c Clinical) Decode() map[string]string {
	res := make(map[string]string)
	res["kind"] = string(c.Kind)
	res["stat"] = string(c.Stat)
	return res
}

// RecencySentinel is the value of a recency column before the first qualifying event. It is
// deliberately out of range instead of undefined so numeric models need no null handling.
const RecencySentinel = 9999.0

// Recency is the number of days elapsed since the most recent event of a kind.
type Recency struct {
	Kind EntityKind `json:"kind"`
}

func NewRecency(kind EntityKind) *Recency {
	return &Recency{kind}
}

// String returns the column name, e.g. days_since_last_event
func (r Recency) String() string {
	return fmt.Sprintf("days_since_last_%s", r.Kind)
}

func (r Recency) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "kind":
		return string(r.Kind), true
	}
	return "", false
}

func (r Recency) Type() FeatureType {
	return FeatureTypeRecency
}

func (r Recency) Decode() map[string]string {
	res := make(map[string]string)
	res["kind"] = string(r.Kind)
	return res
}
