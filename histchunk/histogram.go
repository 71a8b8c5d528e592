// Package histchunk evaluates per-row histogram computations
// once per vertical chunk instead of once per unit row.
package histchunk

import (
	"golang.org/x/exp/constraints"
)

// Histogram is a read-only view over an ordered sequence of bars.
//
// HeightAt is only called with pos in [0, Width()).
// What happens for other positions is up to the implementation.
// A histogram must not change while a chunked computation is running.
type Histogram[T constraints.Integer] interface {
	// Width returns the number of bars.
	Width() int

	// HeightAt returns the height of the bar at the given
	// zero-based horizontal position.
	HeightAt(pos int) T
}

// Bars is the simplest Histogram implementation: a slice of bar heights.
type Bars[T constraints.Integer] []T

func (bars Bars[T]) Width() int { return len(bars) }

func (bars Bars[T]) HeightAt(pos int) T { return bars[pos] }
