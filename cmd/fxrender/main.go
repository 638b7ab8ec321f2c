// Command fxrender renders WAV files through an effect graph.
//
// Usage:
//
//	fxrender -chain "type[:k=v,...];..." [flags] file.wav ...
//
// Each stage names an effect from the built-in registry. Stages run in
// series, or side by side between a split and a merge with -parallel. The
// result is written next to each input as <name>.fx.wav.
//
// Examples:
//
//	fxrender -chain "gain:gain=0.5;drive:drive=4" voice.wav
//	fxrender -parallel -chain "latency:samples=64;invert" a.wav b.wav
//	fxrender -chain "drive:drive=8;gain" -bypass 0 -print in.wav
//	fxrender -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/internal/log"
)

func main() {
	chain := flag.String("chain", "", "effect chain, e.g. \"gain:gain=0.5;drive:drive=4\"")
	parallel := flag.Bool("parallel", false, "run stages as parallel branches instead of in series")
	bypass := flag.String("bypass", "", "comma separated stage indices to bypass")
	block := flag.Int("block", core.DefaultProcessorConfig().BlockSize, "processing block size in frames")
	callback := flag.Int("callback", 1024, "frames read and processed per call")
	ramp := flag.Duration("ramp", core.DefaultRampTime, "crossfade ramp length")
	keep := flag.Bool("keep-latency", false, "keep the processing latency instead of trimming it")
	suffix := flag.String("suffix", ".fx", "suffix inserted before the output file extension")
	jobs := flag.Int("j", runtime.GOMAXPROCS(0), "files rendered concurrently")
	list := flag.Bool("list", false, "list available effect types")
	printSchedule := flag.Bool("print", false, "print the compiled schedule of each file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxrender -chain CHAIN [flags] file.wav ...\n\n")
		fmt.Fprintf(os.Stderr, "Renders WAV files through an effect graph.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	reg := effect.DefaultRegistry()
	if *list {
		for _, name := range reg.Names() {
			fmt.Println(name)
		}
		return
	}

	logger := log.GetLogger()
	o, err := buildOptions(*chain, *bypass, *parallel, *block, *callback, *ramp, !*keep, *suffix)
	if err != nil {
		logger.Error(err)
		flag.Usage()
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := run(ctx, logger, reg, o, flag.Args(), *jobs)
	printResults(os.Stdout, results, *printSchedule)
	if err != nil {
		logger.Error(err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
}

func buildOptions(chain, bypass string, parallel bool, block, callback int, ramp time.Duration, trim bool, suffix string) (options, error) {
	stages, err := parseChain(chain)
	if err != nil {
		return options{}, fmt.Errorf("-chain: %w", err)
	}
	idx, err := parseIndices(bypass, len(stages))
	if err != nil {
		return options{}, fmt.Errorf("-bypass: %w", err)
	}
	if block <= 0 || callback <= 0 {
		return options{}, errors.New("-block and -callback must be > 0")
	}
	if suffix == "" {
		return options{}, errors.New("-suffix must not be empty")
	}
	return options{
		stages:   stages,
		parallel: parallel,
		bypass:   idx,
		block:    block,
		callback: callback,
		ramp:     ramp,
		trim:     trim,
		suffix:   suffix,
	}, nil
}

// run renders paths concurrently. Results keep the order of paths; files
// that failed have an empty output name.
func run(ctx context.Context, logger logrus.FieldLogger, reg *effect.Registry, o options, paths []string, jobs int) ([]result, error) {
	results := make([]result, len(paths))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(1, jobs))
	for i, path := range paths {
		grp.Go(func() error {
			res, err := renderFile(ctx, logger.WithField("file", path), reg, path, o)
			results[i] = res
			return err
		})
	}
	return results, grp.Wait()
}

func printResults(w io.Writer, results []result, schedule bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tOUTPUT\tFRAMES\tLATENCY\tBUFFERS\tSTEPS\tPEAK dBFS")
	for _, r := range results {
		if r.out == "" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.1f\n",
			r.in, r.out, r.frames, r.latency, r.buffers, r.steps, core.LinearToDB(r.peak))
	}
	tw.Flush() //nolint:errcheck
	if !schedule {
		return
	}
	for _, r := range results {
		if r.schedule != "" {
			fmt.Fprintf(w, "\n%s\n%s", r.in, r.schedule)
		}
	}
}
