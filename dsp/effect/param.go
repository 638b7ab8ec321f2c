package effect

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

// Param is lock-free parameter storage. Writers publish a target with one
// atomic store; the audio goroutine reads it and approaches it with a
// one-pole smoother so knob moves do not jump.
type Param struct {
	desc   ParamDescriptor
	target atomic.Uint64

	// audio-goroutine state
	current float64
	coeff   float64
}

// NewParam returns a parameter resting at desc.Default. smoothSamples is the
// one-pole time constant in samples; 0 disables smoothing.
func NewParam(desc ParamDescriptor, smoothSamples int) *Param {
	p := &Param{desc: desc}
	if smoothSamples > 0 {
		p.coeff = math.Exp(-1 / float64(smoothSamples))
	}
	def := core.Clamp(desc.Default, desc.Min, desc.Max)
	p.target.Store(math.Float64bits(def))
	p.current = def
	return p
}

// Set publishes a new target, clamped to the descriptor range. Non-finite
// values are ignored. Safe for concurrent use.
func (p *Param) Set(v float64) {
	if !core.IsFinite(v) {
		return
	}
	p.target.Store(math.Float64bits(core.Clamp(v, p.desc.Min, p.desc.Max)))
}

// Get returns the most recently published target. Safe for concurrent use.
func (p *Param) Get() float64 {
	return math.Float64frombits(p.target.Load())
}

// Next advances the smoother one sample and returns the smoothed value.
// Audio goroutine only.
func (p *Param) Next() float64 {
	t := p.Get()
	p.current = core.FlushDenormals(t + (p.current-t)*p.coeff)
	if core.NearlyEqual(p.current, t, 1e-12) {
		p.current = t
	}
	return p.current
}

// Snap moves the smoothed value onto the target. Audio goroutine only.
func (p *Param) Snap() {
	p.current = p.Get()
}

// clone returns a parameter with the same description and smoothing that
// rests at p's current target.
func (p *Param) clone() *Param {
	c := &Param{desc: p.desc, coeff: p.coeff}
	t := p.target.Load()
	c.target.Store(t)
	c.current = math.Float64frombits(t)
	return c
}

// Params is an indexed parameter set implementing the parameter half of
// Effect. Out-of-range indices read as 0 and ignore writes.
type Params []*Param

// ParamCount returns the number of parameters.
func (ps Params) ParamCount() int { return len(ps) }

// ParamDescriptor returns the descriptor of parameter i.
func (ps Params) ParamDescriptor(i int) ParamDescriptor {
	if i < 0 || i >= len(ps) {
		return ParamDescriptor{}
	}
	return ps[i].desc
}

// Param returns the target of parameter i.
func (ps Params) Param(i int) float64 {
	if i < 0 || i >= len(ps) {
		return 0
	}
	return ps[i].Get()
}

// SetParam sets the target of parameter i.
func (ps Params) SetParam(i int, v float64) {
	if i < 0 || i >= len(ps) {
		return
	}
	ps[i].Set(v)
}

func (ps Params) clone() Params {
	if ps == nil {
		return nil
	}
	c := make(Params, len(ps))
	for i, p := range ps {
		c[i] = p.clone()
	}
	return c
}

// copyState moves the smoothed values of src onto ps. Audio goroutine only.
func (ps Params) copyState(src Params) {
	for i := range min(len(ps), len(src)) {
		ps[i].current = src[i].current
	}
}
