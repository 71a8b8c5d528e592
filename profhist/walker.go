package profhist

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/google/pprof/profile"
	"github.com/quasilyte/pprofutil"
)

// maxLines limits the histogram line range.
// Profiles with bogus line info could otherwise make us allocate a lot.
const maxLines = 1 << 24

type funcFilter struct {
	pkgName  string
	typeName string
	funcName string
}

func (f *funcFilter) Match(name string) bool {
	sym := pprofutil.ParseFuncName(name)
	return sym.PkgName == f.pkgName &&
		sym.TypeName == f.typeName &&
		sym.FuncName == f.funcName
}

type profileWalker struct {
	config Config
	p      *profile.Profile
	filter *funcFilter
}

func (w *profileWalker) Walk() (*Histogram, error) {
	// TODO: support other kinds of profiles, like heap allocs?
	if len(w.p.SampleType) != 2 {
		return nil, errors.New("unexpected profile type")
	}
	switch w.p.SampleType[1].Type + "/" + w.p.SampleType[1].Unit {
	case "cpu/nanoseconds":
		// OK.
	default:
		return nil, fmt.Errorf("can't handle %s/%s samples yet", w.p.SampleType[1].Type, w.p.SampleType[1].Unit)
	}

	if w.config.Func != "" {
		sym := pprofutil.ParseFuncName(w.config.Func)
		if sym.FuncName == "" {
			return nil, fmt.Errorf("can't parse %q func filter", w.config.Func)
		}
		w.filter = &funcFilter{
			pkgName:  sym.PkgName,
			typeName: sym.TypeName,
			funcName: sym.FuncName,
		}
	}

	// Step 1: aggregate the sample values by line.
	valueByLine := map[int]int64{}
	minLine := math.MaxInt
	maxLine := 0
	for _, s := range w.p.Sample {
		sampleValue := s.Value[1]
		for _, loc := range s.Location {
			for _, l := range loc.Line {
				if !w.matchLine(l) {
					continue
				}
				lineNum := int(l.Line)
				valueByLine[lineNum] += sampleValue
				if lineNum < minLine {
					minLine = lineNum
				}
				if lineNum > maxLine {
					maxLine = lineNum
				}
			}
		}
	}

	if len(valueByLine) == 0 {
		return nil, errors.New("found no suitable samples")
	}
	numLines := maxLine - minLine + 1
	if numLines > maxLines {
		return nil, fmt.Errorf("too many lines (%d)", numLines)
	}

	// Step 2: merge lines into bars.
	// Without a limit every line gets its own bar.
	numBars := w.config.Bars
	if numBars == 0 {
		numBars = numLines
	}
	sizes := groupSizes(numLines, numBars)
	h := &Histogram{
		heights: make([]int64, len(sizes)),
		lines:   make([]lineRange, len(sizes)),
		config:  w.config,
	}
	line := minLine
	unit := int64(w.config.Unit)
	for i, size := range sizes {
		r := lineRange{from: line, to: line + size - 1}
		var value int64
		for ; line <= r.to; line++ {
			value += valueByLine[line]
		}
		h.lines[i] = r
		h.heights[i] = value / unit
	}

	return h, nil
}

func (w *profileWalker) matchLine(l profile.Line) bool {
	if l.Function == nil || l.Line <= 0 || l.Line > math.MaxInt32 {
		return false
	}
	if filepath.Base(l.Function.Filename) != w.config.Filename {
		return false
	}
	return w.filter == nil || w.filter.Match(l.Function.Name)
}
