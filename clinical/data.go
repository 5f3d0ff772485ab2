// Package clinical derives per day features from a patient's clinical history such as
// demographics, therapies, diagnoses, side effects and events.
package clinical

import (
	"time"

	"github.com/aouyang1/go-stepfeatures/timestamp"
	"github.com/goccy/go-json"
)

// Interval is a clinical record that is active between two dates. A nil End is still open
// and resolves to the last day of the timeline it is evaluated against.
type Interval struct {
	ID    string               `json:"id"`
	Start timestamp.Timestamp  `json:"start"`
	End   *timestamp.Timestamp `json:"end,omitempty"`
}

// Normalize returns a copy of the interval pinned to ref.
func (iv Interval) Normalize(ref *time.Location) Interval {
	iv.Start = iv.Start.Normalize(ref)
	if iv.End != nil {
		end := iv.End.Normalize(ref)
		iv.End = &end
	}
	return iv
}

// IntensityInterval is an interval carrying a severity such as a side effect.
type IntensityInterval struct {
	Interval
	Intensity float64 `json:"intensity"`
}

// DefaultIntensity is used when a side effect does not record its intensity.
const DefaultIntensity = 1.0

// Event is a point in time clinical occurrence such as a relapse.
type Event struct {
	Start timestamp.Timestamp `json:"start"`
}

type Demographics struct {
	Gender    string `json:"gender"`
	BirthYear int    `json:"birthYear"`
	Disease   string `json:"disease"`
}

// Data is the clinical history of a single patient.
type Data struct {
	Demographics
	Therapies   []Interval
	Diagnoses   []Interval
	SideEffects []IntensityInterval
	Events      []Event
}

type therapyJSON struct {
	TherapyID string               `json:"therapyId,omitempty"`
	StartDate timestamp.Timestamp  `json:"startDate"`
	EndDate   *timestamp.Timestamp `json:"endDate,omitempty"`
}

type diagnosisJSON struct {
	DiagnosisOptionsID string               `json:"diagnosisOptionsId,omitempty"`
	StartDate          timestamp.Timestamp  `json:"startDate"`
	EndDate            *timestamp.Timestamp `json:"endDate,omitempty"`
}

type sideEffectJSON struct {
	StartDate timestamp.Timestamp  `json:"startDate"`
	EndDate   *timestamp.Timestamp `json:"endDate,omitempty"`
	Intensity *float64             `json:"intensity,omitempty"`
}

type eventJSON struct {
	StartDate timestamp.Timestamp `json:"startDate"`
}

type dataJSON struct {
	Gender      string           `json:"gender,omitempty"`
	BirthYear   int              `json:"birthYear,omitempty"`
	Disease     string           `json:"disease,omitempty"`
	Therapies   []therapyJSON    `json:"therapies,omitempty"`
	Diagnoses   []diagnosisJSON  `json:"diagnoses,omitempty"`
	SideEffects []sideEffectJSON `json:"sideEffects,omitempty"`
	Events      []eventJSON      `json:"events,omitempty"`
}

// UnmarshalJSON reads the categorical export of a patient, e.g.
// {"gender":"FEMALE","birthYear":1980,"therapies":[{"therapyId":"t1","startDate":"2024-01-01"}]}
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw dataJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	next := Data{
		Demographics: Demographics{
			Gender:    raw.Gender,
			BirthYear: raw.BirthYear,
			Disease:   raw.Disease,
		},
	}
	for _, t := range raw.Therapies {
		next.Therapies = append(next.Therapies, Interval{ID: t.TherapyID, Start: t.StartDate, End: openEnd(t.EndDate)})
	}
	for _, dg := range raw.Diagnoses {
		next.Diagnoses = append(next.Diagnoses, Interval{ID: dg.DiagnosisOptionsID, Start: dg.StartDate, End: openEnd(dg.EndDate)})
	}
	for _, se := range raw.SideEffects {
		intensity := DefaultIntensity
		if se.Intensity != nil {
			intensity = *se.Intensity
		}
		next.SideEffects = append(next.SideEffects, IntensityInterval{
			Interval:  Interval{Start: se.StartDate, End: openEnd(se.EndDate)},
			Intensity: intensity,
		})
	}
	for _, e := range raw.Events {
		next.Events = append(next.Events, Event{Start: e.StartDate})
	}
	*d = next
	return nil
}

// openEnd drops an end date that was given but left empty so the interval stays open.
func openEnd(end *timestamp.Timestamp) *timestamp.Timestamp {
	if end == nil || end.IsZero() {
		return nil
	}
	return end
}

// MarshalJSON writes the same layout UnmarshalJSON reads.
func (d Data) MarshalJSON() ([]byte, error) {
	raw := dataJSON{
		Gender:    d.Gender,
		BirthYear: d.BirthYear,
		Disease:   d.Disease,
	}
	for _, t := range d.Therapies {
		raw.Therapies = append(raw.Therapies, therapyJSON{TherapyID: t.ID, StartDate: t.Start, EndDate: t.End})
	}
	for _, dg := range d.Diagnoses {
		raw.Diagnoses = append(raw.Diagnoses, diagnosisJSON{DiagnosisOptionsID: dg.ID, StartDate: dg.Start, EndDate: dg.End})
	}
	for _, se := range d.SideEffects {
		intensity := se.Intensity
		raw.SideEffects = append(raw.SideEffects, sideEffectJSON{StartDate: se.Start, EndDate: se.End, Intensity: &intensity})
	}
	for _, e := range d.Events {
		raw.Events = append(raw.Events, eventJSON{StartDate: e.Start})
	}
	return json.Marshal(raw)
}
