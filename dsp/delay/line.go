// Package delay provides fixed integer-sample delay lines used for latency
// compensation and for latent effects.
package delay

import (
	"fmt"

	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
)

// Line is a circular delay line with a fixed delay equal to its length.
// A sample written now comes out Delay() samples later.
type Line struct {
	buffer []float64
	pos    int
}

// New returns a delay line delaying by delay samples.
func New(delay int) (*Line, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", delay)
	}
	return &Line{buffer: make([]float64, delay)}, nil
}

// Delay returns the fixed delay in samples.
func (d *Line) Delay() int {
	return len(d.buffer)
}

// ProcessSample pushes x and returns the sample written Delay() calls ago.
func (d *Line) ProcessSample(x float64) float64 {
	y := d.buffer[d.pos]
	d.buffer[d.pos] = x
	d.pos++
	if d.pos >= len(d.buffer) {
		d.pos = 0
	}
	return y
}

// ProcessInPlace delays buf in place.
func (d *Line) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = d.ProcessSample(x)
	}
}

// Process writes the delayed src into dst. dst and src may alias.
// Only min(len(dst), len(src)) samples are processed.
func (d *Line) Process(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = d.ProcessSample(src[i])
	}
}

// CopyFrom makes d continue from src's history. Lines of different length
// are left unchanged.
func (d *Line) CopyFrom(src *Line) {
	if src == nil || len(src.buffer) != len(d.buffer) {
		return
	}
	copy(d.buffer, src.buffer)
	d.pos = src.pos
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.pos = 0
}

// Stereo delays both channels of a buffer.Stereo by the same amount.
type Stereo struct {
	l, r *Line
}

// NewStereo returns a stereo delay of delay samples.
func NewStereo(delay int) (*Stereo, error) {
	l, err := New(delay)
	if err != nil {
		return nil, err
	}
	r, err := New(delay)
	if err != nil {
		return nil, err
	}
	return &Stereo{l: l, r: r}, nil
}

// Delay returns the fixed delay in samples.
func (s *Stereo) Delay() int {
	return s.l.Delay()
}

// ProcessInPlace delays buf in place.
func (s *Stereo) ProcessInPlace(buf buffer.Stereo) {
	s.l.ProcessInPlace(buf.L)
	s.r.ProcessInPlace(buf.R)
}

// CopyFrom copies the history of src into s.
func (s *Stereo) CopyFrom(src *Stereo) {
	s.l.CopyFrom(src.l)
	s.r.CopyFrom(src.r)
}

// Reset clears both channels.
func (s *Stereo) Reset() {
	s.l.Reset()
	s.r.Reset()
}
