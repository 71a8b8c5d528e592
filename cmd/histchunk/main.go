package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/subcmd"
	"github.com/quasilyte/histchunk/histchunk"
	"github.com/quasilyte/histchunk/profhist"
)

func main() {
	cmds := []subcmd.Command{
		{
			Name:        "chunks",
			Description: "print bounds and vertical chunks of a histogram",
			Do:          chunksMain,
		},
		{
			Name:        "filled",
			Description: "compute the filled space of a histogram chunk by chunk",
			Do:          filledMain,
		},
		{
			Name:        "profile",
			Description: "compute the filled space of a CPU profile line histogram",
			Do:          profileMain,
		},
	}

	subcmd.Run(cmds)
}

func chunksMain(args []string) {
	if err := cmdChunks(args); err != nil {
		log.Fatalf("histchunk chunks: error: %v", err)
	}
}

func cmdChunks(args []string) error {
	fs := flag.NewFlagSet("histchunk chunks", flag.ExitOnError)
	flagFile := fs.String("file", "", `read bar heights from this file instead of args`)
	fs.Parse(args)

	bars, err := loadBars(*flagFile, fs.Args())
	if err != nil {
		return err
	}

	fmt.Printf("bounds: %v\n", histchunk.Bounds[int](bars))
	for _, c := range histchunk.VerticalChunks[int](bars) {
		fmt.Printf("%s height=%d\n", c, c.Height())
	}
	return nil
}

func filledMain(args []string) {
	if err := cmdFilled(args); err != nil {
		log.Fatalf("histchunk filled: error: %v", err)
	}
}

func cmdFilled(args []string) error {
	fs := flag.NewFlagSet("histchunk filled", flag.ExitOnError)
	flagFile := fs.String("file", "", `read bar heights from this file instead of args`)
	flagCheck := fs.Bool("check", false, `compare the chunked results with a per-row computation`)
	flagFormat := fs.String("format", "text", `output format: text or json`)
	fs.Parse(args)

	bars, err := loadBars(*flagFile, fs.Args())
	if err != nil {
		return err
	}

	results := histchunk.Perform[int](bars, histchunk.CountFilled[int])
	if *flagCheck {
		if err := histchunk.CheckChunkConstant[int](bars, histchunk.CountFilled[int]); err != nil {
			return fmt.Errorf("check: %w", err)
		}
		total := histchunk.Total(results)
		if sum := histchunk.SumRows[int](bars, histchunk.CountFilled[int]); sum != total {
			return fmt.Errorf("check: chunked total %d != per-row sum %d", total, sum)
		}
	}

	return writeResults(os.Stdout, *flagFormat, results, nil)
}

func profileMain(args []string) {
	if err := cmdProfile(args); err != nil {
		log.Fatalf("histchunk profile: error: %v", err)
	}
}

func cmdProfile(args []string) error {
	config := profhist.Config{}
	fs := flag.NewFlagSet("histchunk profile", flag.ExitOnError)
	fs.StringVar(&config.Filename, "filename", "",
		`collect lines of this source file`)
	fs.StringVar(&config.Func, "func", "",
		`collect only lines of this function, like pkg.f or pkg.(T).f`)
	fs.IntVar(&config.Bars, "bars", 0,
		`merge lines to fit this number of bars; 0 means a bar per line`)
	fs.DurationVar(&config.Unit, "unit", time.Millisecond,
		`the unit bar height`)
	flagFormat := fs.String("format", "text", `output format: text or json`)
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) != 1 {
		return errors.New("expected exactly 1 positional arg: profile filename")
	}
	if config.Filename == "" {
		return errors.New("-filename argument can't be empty")
	}
	if config.Bars < 0 {
		return fmt.Errorf("-bars should not be negative, got %d", config.Bars)
	}
	if config.Unit <= 0 {
		return fmt.Errorf("-unit should be positive, got %s", config.Unit)
	}

	f, err := os.Open(argv[0])
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := profhist.Parse(f, config)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s: %d bars, unit=%s\n", config.Filename, h.Width(), h.Unit())
	results := histchunk.Perform[int64](h, histchunk.CountFilled[int64])
	return writeResults(os.Stdout, *flagFormat, results, h)
}

// writeResults prints chunked results in the requested format.
// If h is not nil, text output also includes the bars line ranges.
func writeResults[T int | int64](w io.Writer, format string, results []histchunk.Result[T], h *profhist.Histogram) error {
	switch format {
	case "text":
		writeText(w, results, h)
	case "json":
		writeJSON(w, results)
	default:
		return fmt.Errorf("unexpected output format: %s", format)
	}
	return nil
}

func writeText[T int | int64](w io.Writer, results []histchunk.Result[T], h *profhist.Histogram) {
	if h != nil {
		for i := 0; i < h.Width(); i++ {
			from, to := h.LineRange(i)
			fmt.Fprintf(w, "bar %d: lines %d-%d height=%d\n", i, from, to, h.HeightAt(i))
		}
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s height=%d value=%d\n", r.Chunk, r.Chunk.Height(), r.Value)
	}
	fmt.Fprintf(w, "total: %d\n", histchunk.Total(results))
}

func writeJSON[T int | int64](w io.Writer, results []histchunk.Result[T]) {
	fmt.Fprintf(w, "{\n")
	fmt.Fprintf(w, "\t\"chunks\": [\n")
	for i, r := range results {
		fmt.Fprintf(w, "\t\t[%d, %d, %d]", r.Chunk.Bottom, r.Chunk.Top, r.Value)
		if i != len(results)-1 {
			fmt.Fprintf(w, ",")
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\t],\n")
	fmt.Fprintf(w, "\t\"total\": %d\n", histchunk.Total(results))
	fmt.Fprintf(w, "}\n")
}

// loadBars reads bar heights from the file (if not empty) or from args.
// Heights can be separated by whitespace or commas.
func loadBars(filename string, args []string) (histchunk.Bars[int], error) {
	if filename != "" {
		if len(args) != 0 {
			return nil, errors.New("can't use both -file and positional args")
		}
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return parseBars(string(data))
	}
	return parseBars(strings.Join(args, " "))
}

func parseBars(s string) (histchunk.Bars[int], error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	bars := make(histchunk.Bars[int], 0, len(fields))
	for i, field := range fields {
		height, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		bars = append(bars, height)
	}
	return bars, nil
}
