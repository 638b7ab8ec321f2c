package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/dsp/fxgraph"
)

// options control how every file is rendered.
type options struct {
	stages   []stage
	parallel bool
	bypass   []int
	block    int
	callback int
	ramp     time.Duration
	trim     bool
	suffix   string
}

// result summarizes one rendered file.
type result struct {
	in       string
	out      string
	frames   int
	latency  int
	buffers  int
	steps    int
	peak     float64
	schedule string
}

func outputPath(in, suffix string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + suffix + ext
}

// renderFile streams path through a freshly built graph and writes the
// result next to it. With trim set the processing latency is removed so
// input and output line up. On failure no output file is left behind and
// the result has an empty output name.
func renderFile(ctx context.Context, logger logrus.FieldLogger, reg *effect.Registry, path string, o options) (res result, err error) {
	res.in = path
	in, err := openWav(path, o.callback)
	if err != nil {
		return res, err
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(in.SampleRate)),
		core.WithBlockSize(o.block),
		core.WithRampTime(o.ramp),
	)
	g, ids, err := buildGraph(cfg, reg, o.stages, o.parallel)
	if err != nil {
		return res, err
	}
	for _, i := range o.bypass {
		if err := g.SetBypassed(ids[i], true); err != nil {
			return res, err
		}
	}
	snap, err := g.Compile()
	if err != nil {
		return res, err
	}
	res.latency = snap.TotalLatency()
	res.buffers = snap.BufferCount()
	res.steps = snap.StepCount()
	res.schedule = snap.String()

	eng, err := fxgraph.NewEngine(fxgraph.WithProcessorConfig(cfg), fxgraph.WithLogger(logger))
	if err != nil {
		return res, err
	}
	defer func() {
		err = multierr.Append(err, eng.Close())
	}()
	if err := eng.Publish(snap); err != nil {
		return res, err
	}

	out := outputPath(path, o.suffix)
	w, err := createWav(out, in.SampleRate, in.BitDepth, in.NumChannels)
	if err != nil {
		return res, err
	}
	res.out = out
	defer func() {
		err = multierr.Append(err, w.Close())
		if err != nil {
			err = multierr.Append(err, os.Remove(out))
			res.out = ""
		}
	}()

	logger.WithFields(logrus.Fields{
		"out":        res.out,
		"sampleRate": in.SampleRate,
		"channels":   in.NumChannels,
		"latency":    res.latency,
	}).Debug("rendering")

	skip, tail := 0, 0
	if o.trim {
		skip, tail = res.latency, res.latency
	}
	inL, inR := make([]float64, o.callback), make([]float64, o.callback)
	outL, outR := make([]float64, o.callback), make([]float64, o.callback)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n, err := in.Read(inL, inR)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		if n == 0 {
			// Flush the latency tail with silence.
			if tail == 0 {
				break
			}
			n = min(tail, o.callback)
			clear(inL[:n])
			clear(inR[:n])
			tail -= n
		}

		eng.Process(inL[:n], inR[:n], outL[:n], outR[:n])

		start := min(skip, n)
		skip -= start
		if start == n {
			continue
		}
		l, r := outL[start:n], outR[start:n]
		res.peak = max(res.peak, buffer.FromSlices(l, r).Peak())
		res.frames += len(l)
		if err := w.Write(l, r); err != nil {
			return res, fmt.Errorf("%s: %w", res.out, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"frames": res.frames,
		"peak":   res.peak,
	}).Info("rendered")
	return res, nil
}
