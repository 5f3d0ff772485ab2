package clinical

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-stepfeatures/feature"
)

// MissingEntityWarning reports a clinical collection with no records. The related columns are
// still emitted with neutral values.
type MissingEntityWarning struct {
	Kind feature.EntityKind
}

func (w MissingEntityWarning) Error() string {
	return fmt.Sprintf("no %s records found", w.Kind)
}

func missing(kind feature.EntityKind) MissingEntityWarning {
	w := MissingEntityWarning{Kind: kind}
	slog.Warn("missing clinical records, using neutral defaults", "kind", string(kind))
	return w
}
