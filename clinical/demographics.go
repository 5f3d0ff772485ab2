package clinical

import (
	"slices"
	"time"

	"github.com/aouyang1/go-stepfeatures/feature"
)

// DemographicColumns broadcasts the patient constants to n days. Categorical fields get an indicator
// column for every declared value plus the observed value, which defaults to UNKNOWN. Age is
// computed at asOf and is 0 when no birth year is recorded.
func DemographicColumns(n int, demo Demographics, schema Schema, asOf time.Time) *feature.Set {
	fs := feature.NewSet()
	indicators(fs, n, feature.DemographicGender, schema.Genders, demo.Gender)

	age := 0.0
	if demo.BirthYear > 0 {
		age = float64(asOf.Year() - demo.BirthYear)
	}
	fs.Set(feature.Age(), constant(n, age))

	indicators(fs, n, feature.DemographicDisease, schema.Diseases, demo.Disease)
	return fs
}

func indicators(fs *feature.Set, n int, field string, declared []string, observed string) {
	if observed == "" {
		observed = feature.DemographicUnknown
	}
	values := slices.Clone(declared)
	if !slices.Contains(values, observed) {
		values = append(values, observed)
	}
	for _, v := range values {
		val := 0.0
		if v == observed {
			val = 1.0
		}
		fs.Set(feature.NewDemographic(field, v), constant(n, val))
	}
}
