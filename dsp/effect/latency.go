package effect

import (
	"fmt"

	"github.com/cwbudde/algo-fxgraph/dsp/delay"
)

// Latency is a pure integer delay that reports its delay as processing
// latency. It stands in for look-ahead or linear-phase effects.
type Latency struct {
	Base
	samples int
	l, r    *delay.Line
}

// NewLatency returns a delay of samples (>= 0) samples.
func NewLatency(samples int) (*Latency, error) {
	if samples < 0 {
		return nil, fmt.Errorf("latency must be >= 0: %d", samples)
	}
	fx := &Latency{samples: samples}
	if samples == 0 {
		return fx, nil
	}
	var err error
	if fx.l, err = delay.New(samples); err != nil {
		return nil, err
	}
	if fx.r, err = delay.New(samples); err != nil {
		return nil, err
	}
	return fx, nil
}

// LatencySamples reports the delay.
func (fx *Latency) LatencySamples() int {
	return fx.samples
}

// ProcessSample delays one left-channel sample.
func (fx *Latency) ProcessSample(x float64) float64 {
	if fx.l == nil {
		return x
	}
	return fx.l.ProcessSample(x)
}

// ProcessBlock delays one channel through the left line.
func (fx *Latency) ProcessBlock(in, out []float64) {
	if fx.l == nil {
		copy(out, in)
		return
	}
	fx.l.Process(out, in)
}

// ProcessStereo delays both channels independently.
func (fx *Latency) ProcessStereo(inL, inR, outL, outR []float64) {
	if fx.l == nil {
		copy(outL, inL)
		copy(outR, inR)
		return
	}
	fx.l.Process(outL, inL)
	fx.r.Process(outR, inR)
}

// Reset clears the delay lines.
func (fx *Latency) Reset() {
	if fx.l != nil {
		fx.l.Reset()
		fx.r.Reset()
	}
}

// Clone returns an empty delay of the same length.
func (fx *Latency) Clone() Effect {
	c, _ := NewLatency(fx.samples)
	fx.cloneInto(&c.Base)
	return c
}

// CopyState copies the delay history of src.
func (fx *Latency) CopyState(src Effect) {
	s, ok := src.(*Latency)
	if !ok || s.samples != fx.samples || fx.l == nil {
		return
	}
	fx.l.CopyFrom(s.l)
	fx.r.CopyFrom(s.r)
}
