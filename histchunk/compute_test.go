package histchunk

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestPerformFilledSpace(t *testing.T) {
	type result = Result[int]
	type chunk = VerticalChunk[int]

	tests := []struct {
		bars Bars[int]
		want []result
	}{
		{
			Bars[int]{3, 1, 1},
			[]result{
				{chunk{0, 1}, 3},
				{chunk{1, 3}, 2},
			},
		},
		{
			Bars[int]{8, 3, 3, 0, 6, 3},
			[]result{
				{chunk{0, 3}, 15},
				{chunk{3, 6}, 6},
				{chunk{6, 8}, 2},
			},
		},
		{
			Bars[int]{},
			nil,
		},
		{
			Bars[int]{0, 0, 0},
			nil,
		},
		{
			Bars[int]{-2, 3, 0},
			[]result{
				{chunk{-2, 0}, 4},
				{chunk{0, 3}, 3},
			},
		},
	}

	for _, test := range tests {
		have := Perform[int](test.bars, CountFilled[int])
		if diff := cmp.Diff(test.want, have, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Perform(%v, CountFilled):\n(+want -have)\n%s", test.bars, diff)
		}
	}
}

func TestPerformCallsOpOncePerChunk(t *testing.T) {
	bars := Bars[int]{8, 3, 3, 0, 6, 3}
	var heights []int
	op := func(h Histogram[int], height int) int {
		heights = append(heights, height)
		return CountFilled(h, height)
	}
	results := Perform[int](bars, op)

	if diff := cmp.Diff([]int{3, 6, 8}, heights); diff != "" {
		t.Fatalf("op heights mismatch:\n(+want -have)\n%s", diff)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Chunk.Bottom >= results[i].Chunk.Bottom {
			t.Fatalf("results are not ordered: %v", results)
		}
	}
}

func TestPerformSmallIntegers(t *testing.T) {
	tests := []struct {
		bars Bars[uint8]
		want []Result[uint8]
	}{
		{
			Bars[uint8]{200, 10, 10},
			[]Result[uint8]{
				{VerticalChunk[uint8]{0, 10}, 30},
				{VerticalChunk[uint8]{10, 200}, 190},
			},
		},
		{
			Bars[uint8]{255},
			[]Result[uint8]{
				{VerticalChunk[uint8]{0, 255}, 255},
			},
		},
	}

	for _, test := range tests {
		have := Perform[uint8](test.bars, CountFilled[uint8])
		if diff := cmp.Diff(test.want, have); diff != "" {
			t.Errorf("Perform(%v):\n(+want -have)\n%s", test.bars, diff)
		}
		if sum := SumRows[uint8](test.bars, CountFilled[uint8]); sum != Total(have) {
			t.Errorf("%v: SumRows=%d, Total=%d", test.bars, sum, Total(have))
		}
	}
}

func TestPerformMatchesSumRows(t *testing.T) {
	ops := []struct {
		name string
		fn   RowOp[int]
	}{
		{"CountFilled", CountFilled[int]},
		{"CountEmpty", countEmpty},
		{"FilledSquared", func(h Histogram[int], height int) int {
			n := CountFilled(h, height)
			return n * n
		}},
	}

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 300; i++ {
		bars := randomBars(rng, 15, 40)
		for _, op := range ops {
			if err := CheckChunkConstant[int](bars, op.fn); err != nil {
				t.Fatalf("%s on %v: %v", op.name, bars, err)
			}
			have := Total(Perform[int](bars, op.fn))
			want := SumRows[int](bars, op.fn)
			if have != want {
				t.Fatalf("%s on %v: chunked total %d, per-row sum %d", op.name, bars, have, want)
			}
		}
	}
}

func TestTryPerform(t *testing.T) {
	bars := Bars[int]{8, 3, 3, 0, 6, 3}

	t.Run("ok", func(t *testing.T) {
		have, err := TryPerform[int](bars, func(h Histogram[int], height int) (int, error) {
			return CountFilled(h, height), nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Perform[int](bars, CountFilled[int])
		if diff := cmp.Diff(want, have); diff != "" {
			t.Fatalf("results mismatch:\n(+want -have)\n%s", diff)
		}
	})

	t.Run("error", func(t *testing.T) {
		errBoom := errors.New("boom")
		calls := 0
		results, err := TryPerform[int](bars, func(h Histogram[int], height int) (int, error) {
			calls++
			if height == 6 {
				return 0, errBoom
			}
			return CountFilled(h, height), nil
		})
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if have, want := err.Error(), "chunk [3, 6): boom"; have != want {
			t.Fatalf("error text:\nhave: %q\nwant: %q", have, want)
		}
		if results != nil {
			t.Fatalf("expected no partial results, got %v", results)
		}
		if calls != 2 {
			t.Fatalf("op was called %d times, want 2", calls)
		}
	})
}

func TestCheckChunkConstant(t *testing.T) {
	bars := Bars[int]{3, 1, 1}

	if err := CheckChunkConstant[int](bars, CountFilled[int]); err != nil {
		t.Fatalf("CountFilled: unexpected error: %v", err)
	}

	identity := func(h Histogram[int], height int) int { return height }
	err := CheckChunkConstant[int](bars, identity)
	var chunkErr *ChunkConstantError[int]
	if !errors.As(err, &chunkErr) {
		t.Fatalf("expected ChunkConstantError, got %v", err)
	}
	want := &ChunkConstantError[int]{
		Chunk:  VerticalChunk[int]{1, 3},
		Height: 2,
		Want:   3,
		Have:   2,
	}
	if diff := cmp.Diff(want, chunkErr); diff != "" {
		t.Fatalf("error mismatch:\n(+want -have)\n%s", diff)
	}
	if have, want := err.Error(), "chunk [1, 3): op(2)=2 differs from op(3)=3"; have != want {
		t.Fatalf("error text:\nhave: %q\nwant: %q", have, want)
	}
}

func TestSumRows(t *testing.T) {
	tests := []struct {
		bars Bars[int]
		want int
	}{
		{Bars[int]{}, 0},
		{Bars[int]{0, 0}, 0},
		{Bars[int]{3, 1, 1}, 5},
		{Bars[int]{8, 3, 3, 0, 6, 3}, 23},
		{Bars[int]{-2, 3, 0}, 7},
	}
	for _, test := range tests {
		if have := SumRows[int](test.bars, CountFilled[int]); have != test.want {
			t.Errorf("SumRows(%v): have %d, want %d", test.bars, have, test.want)
		}
	}
}

func countEmpty(h Histogram[int], height int) int {
	return h.Width() - CountFilled(h, height)
}
