package histchunk

import (
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

// VerticalChunk is a [Bottom, Top) height range between two
// adjacent histogram bounds.
//
// Chunks produced by this package always have Bottom < Top.
type VerticalChunk[T constraints.Integer] struct {
	Bottom T
	Top    T
}

func (c VerticalChunk[T]) Height() T { return c.Top - c.Bottom }

func (c VerticalChunk[T]) String() string {
	return fmt.Sprintf("[%d, %d)", c.Bottom, c.Top)
}

// Bounds returns all distinct bar heights of h plus 0,
// sorted in ascending order.
//
// The result is never empty: a histogram without bars
// (or with only zero-height bars) has a single [0] bound.
func Bounds[T constraints.Integer](h Histogram[T]) []T {
	bounds := make([]T, 0, h.Width()+1)
	hasZero := false
	for pos := 0; pos < h.Width(); pos++ {
		height := h.HeightAt(pos)
		if height == 0 {
			hasZero = true
		}
		bounds = append(bounds, height)
	}
	if !hasZero {
		bounds = append(bounds, 0)
	}
	slices.Sort(bounds)
	return slices.Compact(bounds)
}

// ChunksFromBounds pairs every bound with its successor.
// bounds are expected to be strictly increasing, like the ones returned by Bounds.
//
// For n bounds, n-1 chunks are returned; a single bound yields no chunks.
func ChunksFromBounds[T constraints.Integer](bounds []T) []VerticalChunk[T] {
	if len(bounds) < 2 {
		return nil
	}
	chunks := make([]VerticalChunk[T], 0, len(bounds)-1)
	for i := 1; i < len(bounds); i++ {
		chunks = append(chunks, VerticalChunk[T]{
			Bottom: bounds[i-1],
			Top:    bounds[i],
		})
	}
	return chunks
}

// VerticalChunks splits h into contiguous vertical chunks.
//
// Chunks are ordered bottom to top and tile the range from the lowest
// bound (0 for non-negative histograms) to the highest bar.
// chunks[i].Top is always equal to chunks[i+1].Bottom.
func VerticalChunks[T constraints.Integer](h Histogram[T]) []VerticalChunk[T] {
	return ChunksFromBounds(Bounds(h))
}
