package feature

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrSchemaMismatch = errors.New("feature descriptor does not match its column name")

// Descriptor is a serializeable description of a feature column used as the schema contract
// of a feature table.
type Descriptor struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Labels map[string]string `json:"labels"`
}

func Describe(f Feature) Descriptor {
	return Descriptor{
		Name:   f.String(),
		Type:   f.Type().String(),
		Labels: f.Decode(),
	}
}

// Feature reconstructs the typed feature from the descriptor and verifies that it produces
// the same column name.
func (d Descriptor) Feature() (Feature, error) {
	ft, err := ParseFeatureType(d.Type)
	if err != nil {
		return nil, err
	}

	label := func(name string) (string, error) {
		val, exists := d.Labels[name]
		if !exists {
			return "", fmt.Errorf("%q on %s feature %q, %w", name, d.Type, d.Name, ErrMissingLabel)
		}
		return val, nil
	}

	var f Feature
	switch ft {
	case FeatureTypeTarget, FeatureTypeCalendar:
		name, err := label("name")
		if err != nil {
			return nil, err
		}
		if ft == FeatureTypeTarget {
			f = NewTarget(name)
		} else {
			f = NewCalendar(name)
		}
	case FeatureTypeDemographic:
		field, err := label("field")
		if err != nil {
			return nil, err
		}
		f = NewDemographic(field, d.Labels["value"])
	case FeatureTypeMembership:
		kind, err := label("kind")
		if err != nil {
			return nil, err
		}
		id, err := label("id")
		if err != nil {
			return nil, err
		}
		f = NewMembership(EntityKind(kind), id)
	case FeatureTypeClinical:
		kind, err := label("kind")
		if err != nil {
			return nil, err
		}
		stat, err := label("stat")
		if err != nil {
			return nil, err
		}
		f = NewClinical(EntityKind(kind), ClinicalStat(stat))
	case FeatureTypeRecency:
		kind, err := label("kind")
		if err != nil {
			return nil, err
		}
		f = NewRecency(EntityKind(kind))
	case FeatureTypeLag:
		source, err := label("source")
		if err != nil {
			return nil, err
		}
		kStr, err := label("k")
		if err != nil {
			return nil, err
		}
		k, err := strconv.Atoi(kStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse lag of %q, %w", d.Name, err)
		}
		f = NewLag(source, k)
	case FeatureTypeRolling:
		stat, err := label("stat")
		if err != nil {
			return nil, err
		}
		winStr, err := label("window")
		if err != nil {
			return nil, err
		}
		window, err := strconv.Atoi(winStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse rolling window of %q, %w", d.Name, err)
		}
		f = NewRolling(RollingStat(stat), window)
	default:
		return nil, fmt.Errorf("%q, %w", d.Type, ErrUnknownFeatureType)
	}

	if f.String() != d.Name {
		return nil, fmt.Errorf("expected %q but labels produce %q, %w", d.Name, f.String(), ErrSchemaMismatch)
	}
	return f, nil
}
