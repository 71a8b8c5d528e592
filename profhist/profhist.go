// Package profhist builds histograms out of CPU profiles.
//
// Every bar is a source line (or a group of adjacent lines)
// and its height is the CPU time spent on it.
package profhist

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/pprof/profile"
	"github.com/quasilyte/histchunk/histchunk"
)

var _ histchunk.Histogram[int64] = (*Histogram)(nil)

type Config struct {
	// Filename selects the profiled source file.
	// Only the base part is used: for `/home/go/src/bytes/buffer.go`
	// it would be `buffer.go`.
	//
	// Filename can't be empty.
	Filename string

	// Func is an optional function filter.
	// It uses the pprof symbol notation: `pkg.f` for functions,
	// `pkg.(T).f` or `pkg.(*T).f` for methods.
	// The package path prefix is ignored.
	//
	// If empty, all functions from the file are collected.
	Func string

	// Bars limits the histogram width.
	// If the selected line range is wider than that,
	// adjacent lines are merged into groups of roughly the same size.
	//
	// Zero value means "one bar per line".
	Bars int

	// Unit is a value of the unit height.
	// Zero value implies time.Millisecond.
	Unit time.Duration
}

// Histogram is a line-level CPU time histogram.
//
// Bars cover a contiguous source line range, so lines without
// samples are still represented as zero-height bars.
type Histogram struct {
	heights []int64

	// lines[i] is a [from, to] line range covered by the bar i.
	lines []lineRange

	config Config
}

type lineRange struct {
	from int
	to   int
}

// New creates a histogram for the profile samples matching the config.
//
// Only CPU profiles are supported.
func New(p *profile.Profile, config Config) (*Histogram, error) {
	if config.Filename == "" {
		panic("Config.Filename should not be empty")
	}
	config.Filename = filepath.Base(config.Filename)
	if config.Bars < 0 {
		panic("Config.Bars should not be negative")
	}
	if config.Unit == 0 {
		config.Unit = time.Millisecond
	}
	if config.Unit < 0 {
		panic("Config.Unit should be positive")
	}

	w := &profileWalker{
		config: config,
		p:      p,
	}
	return w.Walk()
}

// Parse decodes a profile from r and calls New for it.
func Parse(r io.Reader, config Config) (*Histogram, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return New(p, config)
}

func (h *Histogram) Width() int { return len(h.heights) }

func (h *Histogram) HeightAt(pos int) int64 { return h.heights[pos] }

// LineRange reports which source lines are covered by the bar at pos.
// Both from and to are inclusive; from==to unless the lines were grouped.
func (h *Histogram) LineRange(pos int) (from, to int) {
	r := h.lines[pos]
	return r.from, r.to
}

// Unit returns the duration of the unit bar height.
func (h *Histogram) Unit() time.Duration { return h.config.Unit }
