package histchunk

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// RowOp computes some histogram property for a single unit row
// located at the given height.
type RowOp[T constraints.Integer] func(h Histogram[T], height T) T

// RowOpErr is like RowOp, but it can fail.
type RowOpErr[T constraints.Integer] func(h Histogram[T], height T) (T, error)

// Result is a chunk paired with its scaled row operation value.
type Result[T constraints.Integer] struct {
	Chunk VerticalChunk[T]
	Value T
}

// Perform evaluates op once per vertical chunk of h and
// scales the value by the chunk height.
//
// op is called with the chunk Top height. It's the caller's job to
// make sure that op returns the same value for every height inside
// the chunk (Bottom, Top] range; threshold-style operations like
// CountFilled satisfy this naturally. Use CheckChunkConstant
// to verify a new op.
//
// Results are returned in the VerticalChunks order.
func Perform[T constraints.Integer](h Histogram[T], op RowOp[T]) []Result[T] {
	chunks := VerticalChunks(h)
	results := make([]Result[T], len(chunks))
	for i, c := range chunks {
		results[i] = Result[T]{
			Chunk: c,
			Value: op(h, c.Top) * c.Height(),
		}
	}
	return results
}

// TryPerform is like Perform, but op may return an error.
//
// The first error stops the computation; it's returned wrapped
// with the failed chunk info and the results slice is nil.
func TryPerform[T constraints.Integer](h Histogram[T], op RowOpErr[T]) ([]Result[T], error) {
	chunks := VerticalChunks(h)
	results := make([]Result[T], len(chunks))
	for i, c := range chunks {
		v, err := op(h, c.Top)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c, err)
		}
		results[i] = Result[T]{Chunk: c, Value: v * c.Height()}
	}
	return results, nil
}

// CountFilled reports how many bars reach at least the given height.
func CountFilled[T constraints.Integer](h Histogram[T], height T) T {
	var n T
	for pos := 0; pos < h.Width(); pos++ {
		if h.HeightAt(pos) >= height {
			n++
		}
	}
	return n
}

// Total sums all result values.
func Total[T constraints.Integer](results []Result[T]) T {
	var sum T
	for _, r := range results {
		sum += r.Value
	}
	return sum
}

// SumRows evaluates op for every unit row and sums the values.
// Rows go from the lowest bound (exclusive) to the highest bound (inclusive),
// so for a non-negative histogram it's (0, max height].
//
// It's the slow equivalent of Total(Perform(h, op)).
func SumRows[T constraints.Integer](h Histogram[T], op RowOp[T]) T {
	bounds := Bounds(h)
	top := bounds[len(bounds)-1]
	var sum T
	// Increment first: top may be the max T value.
	for height := bounds[0]; height < top; {
		height++
		sum += op(h, height)
	}
	return sum
}

// ChunkConstantError describes a row op that is not constant inside a chunk.
type ChunkConstantError[T constraints.Integer] struct {
	Chunk VerticalChunk[T]

	// Height is the first row that disagreed with the chunk Top row.
	Height T

	// Want is the op value at Chunk.Top.
	Want T

	// Have is the op value at Height.
	Have T
}

func (e *ChunkConstantError[T]) Error() string {
	return fmt.Sprintf("chunk %s: op(%d)=%d differs from op(%d)=%d",
		e.Chunk, e.Height, e.Have, e.Chunk.Top, e.Want)
}

// CheckChunkConstant evaluates op at every unit row of every chunk
// and makes sure it matches the value at the chunk Top.
//
// This is the precondition of Perform. The check is O(max height),
// so it's intended for tests and debugging.
func CheckChunkConstant[T constraints.Integer](h Histogram[T], op RowOp[T]) error {
	for _, c := range VerticalChunks(h) {
		want := op(h, c.Top)
		for height := c.Bottom + 1; height < c.Top; height++ {
			have := op(h, height)
			if have != want {
				return &ChunkConstantError[T]{
					Chunk:  c,
					Height: height,
					Want:   want,
					Have:   have,
				}
			}
		}
	}
	return nil
}
