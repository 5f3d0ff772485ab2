package feature

import (
	"fmt"
	"strings"
)

const (
	DemographicGender  = "gender"
	DemographicDisease = "disease"
	DemographicAge     = "age"
)

// DemographicUnknown is used when a categorical demographic value was not recorded.
const DemographicUnknown = "UNKNOWN"

// Demographic is a per patient constant broadcast to every day. Categorical fields carry a
// value and become one indicator column per value, numeric fields have an empty value.
type Demographic struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func NewDemographic(field, value string) *Demographic {
	return &Demographic{field, value}
}

// Age returns the numeric age column.
func Age() *Demographic {
	return NewDemographic(DemographicAge, "")
}

// String returns the column name, e.g. gender_FEMALE or age
func (d Demographic) String() string {
	if d.Value == "" {
		return d.Field
	}
	return fmt.Sprintf("%s_%s", d.Field, d.Value)
}

func (d Demographic) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "field":
		return d.Field, true
	case "value":
		return d.Value, true
	}
	return "", false
}

func (d Demographic) Type() FeatureType {
	return FeatureTypeDemographic
}

func (d Demographic) Decode() map[string]string {
	res := make(map[string]string)
	res["field"] = d.Field
	res["value"] = d.Value
	return res
}
