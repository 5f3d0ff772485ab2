// Package mat splits gonum design matrices of a feature table.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrRowOutOfBounds = errors.New("row is out of bounds")

// SplitRows copies rows [0, at) and [at, m) of x into two matrices. Either side is nil when it
// would be empty.
func SplitRows(x *mat.Dense, at int) (*mat.Dense, *mat.Dense, error) {
	m, n := x.Dims()
	if at < 0 || at > m {
		return nil, nil, fmt.Errorf("split at %d with %d rows, %w", at, m, ErrRowOutOfBounds)
	}

	var head, tail *mat.Dense
	if at > 0 {
		head = mat.DenseCopyOf(x.Slice(0, at, 0, n))
	}
	if at < m {
		tail = mat.DenseCopyOf(x.Slice(at, m, 0, n))
	}
	return head, tail, nil
}
