// Package feature declares the columns of a daily feature table. Every column is a typed
// label so the mapping from clinical entities and parameters to column names is explicit and
// can be validated by consumers before training.
package feature

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrMissingLabel       = errors.New("missing feature label")
)

type FeatureType int

const (
	FeatureTypeTarget FeatureType = iota
	FeatureTypeDemographic
	FeatureTypeMembership
	FeatureTypeClinical
	FeatureTypeRecency
	FeatureTypeCalendar
	FeatureTypeLag
	FeatureTypeRolling
)

var featureTypeNames = map[FeatureType]string{
	FeatureTypeTarget:      "target",
	FeatureTypeDemographic: "demographic",
	FeatureTypeMembership:  "membership",
	FeatureTypeClinical:    "clinical",
	FeatureTypeRecency:     "recency",
	FeatureTypeCalendar:    "calendar",
	FeatureTypeLag:         "lag",
	FeatureTypeRolling:     "rolling",
}

func (f FeatureType) String() string {
	if name, exists := featureTypeNames[f]; exists {
		return name
	}
	return "unknown_" + strconv.Itoa(int(f))
}

// ParseFeatureType is the inverse of FeatureType.String.
func ParseFeatureType(name string) (FeatureType, error) {
	for ft, ftName := range featureTypeNames {
		if ftName == name {
			return ft, nil
		}
	}
	return 0, fmt.Errorf("%q, %w", name, ErrUnknownFeatureType)
}

// Feature is a single column of the feature table.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// EntityKind names a clinical record collection.
type EntityKind string

const (
	EntityTherapy    EntityKind = "therapy"
	EntityDiagnosis  EntityKind = "diagnosis"
	EntitySideEffect EntityKind = "side_effect"
	EntityEvent      EntityKind = "event"
)
