package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureNames(t *testing.T) {
	testData := map[string]struct {
		f        Feature
		expected string
		fType    FeatureType
	}{
		"target":           {DailySteps(), "Daily_Step_Count", FeatureTypeTarget},
		"gender":           {NewDemographic(DemographicGender, "FEMALE"), "gender_FEMALE", FeatureTypeDemographic},
		"age":              {Age(), "age", FeatureTypeDemographic},
		"therapy member":   {NewMembership(EntityTherapy, "t1"), "is_on_therapy_t1", FeatureTypeMembership},
		"diagnosis member": {NewMembership(EntityDiagnosis, "d1"), "diagnosis_active_d1", FeatureTypeMembership},
		"unknown member":   {NewMembership("surgery", "s1"), "surgery_active_s1", FeatureTypeMembership},
		"therapy count":    {NewClinical(EntityTherapy, ClinicalStatActiveCount), "active_therapy_count", FeatureTypeClinical},
		"therapy duration": {NewClinical(EntityTherapy, ClinicalStatAvgDuration), "avg_therapy_duration", FeatureTypeClinical},
		"max intensity":    {NewClinical(EntitySideEffect, ClinicalStatMaxIntensity), "max_side_effect_intensity", FeatureTypeClinical},
		"avg intensity":    {NewClinical(EntitySideEffect, ClinicalStatAvgIntensity), "avg_side_effect_intensity", FeatureTypeClinical},
		"recency":          {NewRecency(EntityEvent), "days_since_last_event", FeatureTypeRecency},
		"day of week":      {NewCalendar(CalendarDayOfWeek), "day_of_week", FeatureTypeCalendar},
		"lag":              {NewLag(LagSourceSteps, 7), "steps_t_minus_7", FeatureTypeLag},
		"rolling avg":      {NewRolling(RollingStatAvg, 7), "rolling_avg_7d", FeatureTypeRolling},
		"rolling std":      {NewRolling(RollingStatStd, 14), "rolling_std_14d", FeatureTypeRolling},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.f.String())
			assert.Equal(t, td.fType, td.f.Type())
		})
	}
}

func TestFeatureGet(t *testing.T) {
	lag := NewLag(LagSourceSteps, 3)
	k, exists := lag.Get("K")
	require.True(t, exists)
	assert.Equal(t, "3", k)

	_, exists = lag.Get("window")
	assert.False(t, exists)

	kind, exists := NewClinical(EntityTherapy, ClinicalStatActiveCount).Get("kind")
	require.True(t, exists)
	assert.Equal(t, "therapy", kind)
}

func TestParseFeatureType(t *testing.T) {
	for ft := FeatureTypeTarget; ft <= FeatureTypeRolling; ft++ {
		res, err := ParseFeatureType(ft.String())
		require.Nil(t, err)
		assert.Equal(t, ft, res)
	}

	_, err := ParseFeatureType("growth")
	assert.ErrorIs(t, err, ErrUnknownFeatureType)
	assert.Equal(t, "unknown_42", FeatureType(42).String())
}

func TestLabels(t *testing.T) {
	labels := NewLabels([]Feature{DailySteps(), NewCalendar(CalendarMonth)})
	assert.Equal(t, 2, labels.Len())
	assert.Equal(t, []string{"Daily_Step_Count", "month"}, labels.Names())

	idx, exists := labels.Index(NewCalendar(CalendarMonth))
	require.True(t, exists)
	assert.Equal(t, 1, idx)

	idx, exists = labels.Index(NewCalendar(CalendarIsWeekend))
	assert.False(t, exists)
	assert.Equal(t, -1, idx)

	var nilLabels *Labels
	assert.Equal(t, 0, nilLabels.Len())
	assert.Nil(t, nilLabels.Names())
	assert.Nil(t, nilLabels.Schema())
}
