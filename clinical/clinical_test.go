package clinical

import (
	"errors"
	"testing"
	"time"

	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/timedataset"
	"github.com/aouyang1/go-stepfeatures/timestamp"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func testDays(n int) []time.Time {
	t := make([]time.Time, n)
	for i := range t {
		t[i] = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}
	return t
}

func testTimeline(t *testing.T, n int) *timedataset.TimeDataset {
	tl, err := timedataset.NewDailyDataset(testDays(n), make([]float64, n))
	require.Nil(t, err)
	return tl
}

func ts(s string) *timestamp.Timestamp {
	parsed := timestamp.MustParse(s)
	return &parsed
}

func column(t *testing.T, fs *feature.Set, f feature.Feature) []float64 {
	data, exists := fs.Get(f)
	require.True(t, exists, "missing column %s", f.String())
	return data
}

func TestIntervalMembership(t *testing.T) {
	testData := map[string]struct {
		intervals   []Interval
		expected    map[string][]float64
		count       []float64
		avgDuration float64
	}{
		"closed therapy on days one to five": {
			intervals: []Interval{
				{ID: "t1", Start: *ts("2024-01-01"), End: ts("2024-01-05")},
			},
			expected: map[string][]float64{
				"is_on_therapy_t1": {1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
			},
			count:       []float64{1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
			avgDuration: 4,
		},
		"overlapping with open aware interval": {
			intervals: []Interval{
				{ID: "t1", Start: *ts("2024-01-01"), End: ts("2024-01-05")},
				{ID: "t2", Start: *ts("2024-01-04T22:00:00-05:00")},
			},
			expected: map[string][]float64{
				"is_on_therapy_t1": {1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
				"is_on_therapy_t2": {0, 0, 0, 0, 1, 1, 1, 1, 1, 1},
			},
			count:       []float64{1, 1, 1, 1, 2, 1, 1, 1, 1, 1},
			avgDuration: 4.5,
		},
		"naive start keeps its wall clock date": {
			intervals: []Interval{
				{ID: "t1", Start: *ts("2024-01-04T22:00:00"), End: ts("2024-01-04T23:00:00")},
			},
			expected: map[string][]float64{
				"is_on_therapy_t1": {0, 0, 0, 1, 0, 0, 0, 0, 0, 0},
			},
			count:       []float64{0, 0, 0, 1, 0, 0, 0, 0, 0, 0},
			avgDuration: 0,
		},
		"inverted interval contributes nothing": {
			intervals: []Interval{
				{ID: "t1", Start: *ts("2024-01-05"), End: ts("2024-01-03")},
			},
			expected: map[string][]float64{
				"is_on_therapy_t1": {0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
			count:       []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			avgDuration: 0,
		},
		"inverted interval left out of average duration": {
			intervals: []Interval{
				{ID: "t1", Start: *ts("2024-01-01"), End: ts("2024-01-05")},
				{ID: "t2", Start: *ts("2024-01-05"), End: ts("2024-01-03")},
			},
			expected: map[string][]float64{
				"is_on_therapy_t1": {1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
				"is_on_therapy_t2": {0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
			count:       []float64{1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
			avgDuration: 4,
		},
		"interval outside of timeline": {
			intervals: []Interval{
				{ID: "t1", Start: *ts("2023-12-01"), End: ts("2023-12-03")},
			},
			expected: map[string][]float64{
				"is_on_therapy_t1": {0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			},
			count:       []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			avgDuration: 2,
		},
		"no intervals": {
			expected:    map[string][]float64{},
			count:       []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			avgDuration: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fs, err := IntervalMembership(testDays(10), feature.EntityTherapy, td.intervals)
			require.Nil(t, err)

			assert.Equal(t, len(td.expected)+2, fs.Len())
			for col, expected := range td.expected {
				_, data, exists := fs.GetByName(col)
				require.True(t, exists, col)
				assert.Equal(t, expected, data, col)
			}
			assert.Equal(t, td.count, column(t, fs, feature.NewClinical(feature.EntityTherapy, feature.ClinicalStatActiveCount)))

			duration := column(t, fs, feature.NewClinical(feature.EntityTherapy, feature.ClinicalStatAvgDuration))
			for _, d := range duration {
				assert.Equal(t, td.avgDuration, d)
			}
		})
	}
}

func TestIntervalMembershipIDs(t *testing.T) {
	intervals := []Interval{
		{Start: *ts("2024-01-02")},
		{ID: "a", Start: *ts("2024-01-02")},
		{ID: "a", Start: *ts("2024-01-03")},
	}
	fs, err := IntervalMembership(testDays(4), feature.EntityDiagnosis, intervals)
	require.Nil(t, err)

	expected := []string{
		"active_diagnosis_count",
		"diagnosis_active_diagnosis_0",
		"diagnosis_active_a",
		"diagnosis_active_a_2",
		"avg_diagnosis_duration",
	}
	assert.Equal(t, expected, fs.Labels().Names())
	assert.Equal(t, []float64{0, 2, 3, 3}, column(t, fs, feature.NewClinical(feature.EntityDiagnosis, feature.ClinicalStatActiveCount)))
}

func TestIntervalMembershipSuffixCollision(t *testing.T) {
	intervals := []Interval{
		{ID: "a", Start: *ts("2024-01-01"), End: ts("2024-01-01")},
		{ID: "a_2", Start: *ts("2024-01-03"), End: ts("2024-01-03")},
		{ID: "a", Start: *ts("2024-01-05")},
	}
	fs, err := IntervalMembership(testDays(5), feature.EntityTherapy, intervals)
	require.Nil(t, err)

	expected := []string{
		"active_therapy_count",
		"is_on_therapy_a",
		"is_on_therapy_a_2",
		"is_on_therapy_a_2_1",
		"avg_therapy_duration",
	}
	assert.Equal(t, expected, fs.Labels().Names())

	sum := make([]float64, 5)
	for _, label := range fs.Labels().Labels() {
		if label.Type() != feature.FeatureTypeMembership {
			continue
		}
		floats.Add(sum, column(t, fs, label))
	}
	count := column(t, fs, feature.NewClinical(feature.EntityTherapy, feature.ClinicalStatActiveCount))
	assert.Equal(t, []float64{1, 0, 1, 0, 1}, count)
	assert.Equal(t, count, sum)
}

func TestActiveTimezoneMismatch(t *testing.T) {
	days := Days(testDays(3))

	_, err := Active(days, timestamp.MustParse("2024-01-01"), days[2])
	require.NotNil(t, err)
	assert.ErrorIs(t, err, timestamp.ErrTimezoneMismatch)

	var mismatch *timestamp.TimezoneMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, timestamp.OriginNormalized, mismatch.Left)
	assert.Equal(t, timestamp.OriginNaive, mismatch.Right)

	col, err := Active(days, days[1], days[2])
	require.Nil(t, err)
	assert.Equal(t, []float64{0, 1, 1}, col)
}

func TestSideEffects(t *testing.T) {
	testData := map[string]struct {
		effects []IntensityInterval
		count   []float64
		max     []float64
		avg     []float64
	}{
		"overlapping side effects": {
			effects: []IntensityInterval{
				{Interval: Interval{Start: *ts("2024-01-02"), End: ts("2024-01-03")}, Intensity: 3},
				{Interval: Interval{Start: *ts("2024-01-03"), End: ts("2024-01-04")}, Intensity: 1},
			},
			count: []float64{0, 1, 2, 1, 0},
			max:   []float64{0, 3, 3, 1, 0},
			avg:   []float64{0, 3, 2, 1, 0},
		},
		"open side effect": {
			effects: []IntensityInterval{
				{Interval: Interval{Start: *ts("2024-01-04")}, Intensity: DefaultIntensity},
			},
			count: []float64{0, 0, 0, 1, 1},
			max:   []float64{0, 0, 0, 1, 1},
			avg:   []float64{0, 0, 0, 1, 1},
		},
		"no side effects": {
			count: []float64{0, 0, 0, 0, 0},
			max:   []float64{0, 0, 0, 0, 0},
			avg:   []float64{0, 0, 0, 0, 0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fs, err := SideEffects(testDays(5), td.effects)
			require.Nil(t, err)
			assert.Equal(t, 3, fs.Len())
			assert.Equal(t, td.count, column(t, fs, feature.NewClinical(feature.EntitySideEffect, feature.ClinicalStatActiveCount)))
			assert.Equal(t, td.max, column(t, fs, feature.NewClinical(feature.EntitySideEffect, feature.ClinicalStatMaxIntensity)))
			assert.Equal(t, td.avg, column(t, fs, feature.NewClinical(feature.EntitySideEffect, feature.ClinicalStatAvgIntensity)))
		})
	}
}

func TestRecency(t *testing.T) {
	testData := map[string]struct {
		events   []Event
		expected []float64
	}{
		"no events": {
			expected: []float64{9999, 9999, 9999, 9999, 9999, 9999, 9999, 9999, 9999, 9999},
		},
		"unordered events": {
			events: []Event{
				{Start: *ts("2024-01-05T23:30:00-05:00")},
				{Start: *ts("2024-01-03")},
			},
			expected: []float64{9999, 9999, 0, 1, 2, 0, 1, 2, 3, 4},
		},
		"event before timeline": {
			events: []Event{
				{Start: *ts("2023-12-30T12:00:00Z")},
			},
			expected: []float64{2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		},
		"missing start is skipped": {
			events: []Event{
				{},
				{Start: *ts("2024-01-10")},
			},
			expected: []float64{9999, 9999, 9999, 9999, 9999, 9999, 9999, 9999, 9999, 0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fs, err := Recency(testDays(10), td.events)
			require.Nil(t, err)
			assert.Equal(t, td.expected, column(t, fs, feature.NewRecency(feature.EntityEvent)))
		})
	}
}

func TestDemographicColumns(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		demo     Demographics
		expected map[string]float64
		names    []string
	}{
		"declared gender and missing disease": {
			demo: Demographics{Gender: "FEMALE", BirthYear: 1980},
			expected: map[string]float64{
				"gender_FEMALE":   1,
				"gender_MALE":     0,
				"age":             44,
				"disease_UNKNOWN": 1,
			},
			names: []string{"gender_FEMALE", "gender_MALE", "age", "disease_UNKNOWN"},
		},
		"undeclared values and no birth year": {
			demo: Demographics{Gender: "OTHER", Disease: "MS"},
			expected: map[string]float64{
				"gender_FEMALE": 0,
				"gender_MALE":   0,
				"gender_OTHER":  1,
				"age":           0,
				"disease_MS":    1,
			},
			names: []string{"gender_FEMALE", "gender_MALE", "gender_OTHER", "age", "disease_MS"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			fs := DemographicColumns(3, td.demo, NewDefaultSchema(), asOf)
			assert.Equal(t, td.names, fs.Labels().Names())
			for col, val := range td.expected {
				_, data, exists := fs.GetByName(col)
				require.True(t, exists, col)
				assert.Equal(t, []float64{val, val, val}, data, col)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	tl := testTimeline(t, 10)
	data := &Data{
		Demographics: Demographics{Gender: "MALE", BirthYear: 1990, Disease: "MS"},
		Therapies: []Interval{
			{ID: "t1", Start: *ts("2024-01-01"), End: ts("2024-01-05")},
		},
		Events: []Event{
			{Start: *ts("2024-01-02")},
		},
	}
	opt := NewDefaultOptions()
	opt.AsOf = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	fs, warnings, err := Derive(tl, data, opt)
	require.Nil(t, err)
	assert.Equal(t, []MissingEntityWarning{
		{Kind: feature.EntitySideEffect},
		{Kind: feature.EntityDiagnosis},
	}, warnings)

	assert.Equal(t, 10, fs.Rows())
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 0, 0, 0, 0, 0}, column(t, fs, feature.NewMembership(feature.EntityTherapy, "t1")))
	assert.Equal(t, []float64{9999, 0, 1, 2, 3, 4, 5, 6, 7, 8}, column(t, fs, feature.NewRecency(feature.EntityEvent)))
	assert.Equal(t, 35.0, column(t, fs, feature.Age())[0])

	// inputs are left untouched
	assert.Equal(t, timestamp.OriginNaive, data.Therapies[0].Start.Origin)
}

func TestDeriveMissingEverything(t *testing.T) {
	opt := NewDefaultOptions()
	opt.NowFunc = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	fs, warnings, err := Derive(testTimeline(t, 3), nil, opt)
	require.Nil(t, err)
	assert.Equal(t, []MissingEntityWarning{
		{Kind: feature.EntityTherapy},
		{Kind: feature.EntitySideEffect},
		{Kind: feature.EntityDiagnosis},
		{Kind: feature.EntityEvent},
	}, warnings)
	assert.Equal(t, "no therapy records found", warnings[0].Error())

	expected := []string{
		"gender_FEMALE",
		"gender_MALE",
		"gender_UNKNOWN",
		"age",
		"disease_UNKNOWN",
		"active_therapy_count",
		"avg_therapy_duration",
		"active_side_effect_count",
		"max_side_effect_intensity",
		"avg_side_effect_intensity",
		"active_diagnosis_count",
		"avg_diagnosis_duration",
		"days_since_last_event",
	}
	assert.Equal(t, expected, fs.Labels().Names())
	assert.Equal(t, []float64{9999, 9999, 9999}, column(t, fs, feature.NewRecency(feature.EntityEvent)))
}

func TestDeriveNoData(t *testing.T) {
	_, _, err := Derive(&timedataset.TimeDataset{}, &Data{}, nil)
	assert.ErrorIs(t, err, timedataset.ErrNoData)

	_, _, err = Derive(nil, &Data{}, nil)
	assert.ErrorIs(t, err, timedataset.ErrNoData)
}

func TestDataJSON(t *testing.T) {
	input := []byte(`{
		"gender": "FEMALE",
		"birthYear": 1980,
		"disease": "MS",
		"therapies": [{"therapyId": "t1", "startDate": "2024-01-01T00:00:00Z", "endDate": null}],
		"diagnoses": [{"diagnosisOptionsId": "d1", "startDate": "2024-01-02", "endDate": "2024-01-04"}],
		"sideEffects": [{"startDate": "2024-01-03"}, {"startDate": "2024-01-03", "intensity": 4}],
		"events": [{"startDate": "2024-01-05T10:00:00+02:00"}]
	}`)

	var data Data
	require.Nil(t, json.Unmarshal(input, &data))

	assert.Equal(t, Demographics{Gender: "FEMALE", BirthYear: 1980, Disease: "MS"}, data.Demographics)
	require.Len(t, data.Therapies, 1)
	assert.Equal(t, "t1", data.Therapies[0].ID)
	assert.Nil(t, data.Therapies[0].End)
	assert.Equal(t, timestamp.OriginAware, data.Therapies[0].Start.Origin)

	require.Len(t, data.Diagnoses, 1)
	assert.Equal(t, "d1", data.Diagnoses[0].ID)
	require.NotNil(t, data.Diagnoses[0].End)
	assert.Equal(t, timestamp.OriginNaive, data.Diagnoses[0].End.Origin)

	require.Len(t, data.SideEffects, 2)
	assert.Equal(t, DefaultIntensity, data.SideEffects[0].Intensity)
	assert.Equal(t, 4.0, data.SideEffects[1].Intensity)

	require.Len(t, data.Events, 1)

	out, err := json.Marshal(data)
	require.Nil(t, err)

	var again Data
	require.Nil(t, json.Unmarshal(out, &again))
	assert.Equal(t, data.Therapies[0].ID, again.Therapies[0].ID)
	assert.True(t, data.Events[0].Start.T.Equal(again.Events[0].Start.T))
	assert.Equal(t, 4.0, again.SideEffects[1].Intensity)
}

func TestDataJSONEmptyEndDate(t *testing.T) {
	input := []byte(`{
		"therapies": [{"therapyId": "t1", "startDate": "2024-01-02", "endDate": ""}],
		"sideEffects": [{"startDate": "2024-01-04", "endDate": ""}]
	}`)

	var data Data
	require.Nil(t, json.Unmarshal(input, &data))
	require.Len(t, data.Therapies, 1)
	assert.Nil(t, data.Therapies[0].End)
	require.Len(t, data.SideEffects, 1)
	assert.Nil(t, data.SideEffects[0].End)

	fs, err := IntervalMembership(testDays(5), feature.EntityTherapy, data.Therapies)
	require.Nil(t, err)
	assert.Equal(t, []float64{0, 1, 1, 1, 1}, column(t, fs, feature.NewMembership(feature.EntityTherapy, "t1")))
}
