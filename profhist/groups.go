package profhist

import (
	"fmt"
)

// groupSizes splits length items into n contiguous groups.
// Group sizes differ by at most 1, bigger groups are spread evenly.
//
// If length < n, every item gets its own group.
func groupSizes(length, n int) []int {
	if length <= 0 || n <= 0 {
		return nil
	}
	if length < n {
		n = length
	}

	// Bresenham's line algorithm: acc is the error term that
	// decides which groups get an extra item.
	// https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm
	sizes := make([]int, 0, n)
	acc := 0
	for covered := 0; covered < length; {
		acc += length
		size := acc / n
		sizes = append(sizes, size)
		covered += size
		acc %= n
	}

	if len(sizes) != n {
		panic(fmt.Sprintf("[length=%d, n=%d] got %d groups", length, n, len(sizes))) // Should never happen.
	}
	return sizes
}
