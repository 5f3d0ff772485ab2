package feature

import (
	"strings"
)

// membershipPrefix maps an entity kind to the prefix of its per instance indicator column.
var membershipPrefix = map[EntityKind]string{
	EntityTherapy:    "is_on_therapy_",
	EntityDiagnosis:  "diagnosis_active_",
	EntitySideEffect: "side_effect_active_",
}

// Membership is a binary indicator of whether a single clinical interval instance is active
// on a day.
type Membership struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

func NewMembership(kind EntityKind, id string) *Membership {
	return &Membership{kind, id}
}

// String returns the column name, e.g. is_on_therapy_<id> or diagnosis_active_<id>
func (m Membership) String() string {
	prefix, exists := membershipPrefix[m.Kind]
	if !exists {
		prefix = string(m.Kind) + "_active_"
	}
	return prefix + m.ID
}

func (m Membership) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "kind":
		return string(m.Kind), true
	case "id":
		return m.ID, true
	}
	return "", false
}

func (m Membership) Type() FeatureType {
	return FeatureTypeMembership
}

func (m Membership) Decode() map[string]string {
	res := make(map[string]string)
	res["kind"] = string(m.Kind)
	res["id"] = m.ID
	return res
}
