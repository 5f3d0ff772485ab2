package clinical

import (
	"time"
)

// Schema declares the categorical demographic values a table is expected to carry. Every
// declared value gets an indicator column even when the patient does not have it, so tables of
// different patients line up.
type Schema struct {
	Genders  []string `json:"genders"`
	Diseases []string `json:"diseases"`
}

func NewDefaultSchema() Schema {
	return Schema{
		Genders:  []string{"FEMALE", "MALE"},
		Diseases: nil,
	}
}

type Options struct {
	// AsOf is the date age is computed at. Zero uses NowFunc.
	AsOf    time.Time        `json:"as_of"`
	NowFunc func() time.Time `json:"-"`
	Schema  Schema           `json:"schema"`
}

func NewDefaultOptions() *Options {
	return &Options{
		NowFunc: time.Now,
		Schema:  NewDefaultSchema(),
	}
}

func (o *Options) asOf() time.Time {
	if !o.AsOf.IsZero() {
		return o.AsOf
	}
	if o.NowFunc != nil {
		return o.NowFunc()
	}
	return time.Now()
}
