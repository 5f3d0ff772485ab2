package feature

import "strings"

// LabelDailySteps is the column holding the aggregated daily step count.
const LabelDailySteps = "Daily_Step_Count"

// Target is the quantity being forecast.
type Target struct {
	Name string `json:"name"`
}

func NewTarget(name string) *Target {
	return &Target{name}
}

// DailySteps returns the target column of a step count timeline.
func DailySteps() *Target {
	return NewTarget(LabelDailySteps)
}

func (t Target) String() string {
	return t.Name
}

func (t Target) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return t.Name, true
	}
	return "", false
}

func (t Target) Type() FeatureType {
	return FeatureTypeTarget
}

func (t Target) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = t.Name
	return res
}
