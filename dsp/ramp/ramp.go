// Package ramp implements the linear crossfade law shared by bypass toggles
// and schedule swaps.
//
// A Ramp moves a coefficient in [0, 1] toward a target at a fixed rate so a
// full 0→1 traverse takes exactly the configured number of samples. Blend
// applies per-sample coefficients to mix two signals:
//
//	out = from*(1-g) + to*g
package ramp

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

// Ramp is a linear coefficient generator. The zero value is settled at 0
// and jumps instantly.
type Ramp struct {
	value  float64
	target float64
	step   float64
}

// New returns a ramp resting at initial that needs length samples for a full
// 0→1 transition. length <= 0 makes every transition instant.
func New(length int, initial float64) Ramp {
	initial = core.Clamp(initial, 0, 1)
	r := Ramp{value: initial, target: initial}
	if length > 0 {
		r.step = 1 / float64(length)
	}
	return r
}

// Value returns the current coefficient.
func (r *Ramp) Value() float64 { return r.value }

// Target returns the coefficient the ramp is moving toward.
func (r *Ramp) Target() float64 { return r.target }

// Settled reports whether the ramp has reached its target.
func (r *Ramp) Settled() bool { return r.value == r.target }

// SetTarget starts moving toward t, clamped to [0, 1], from the current value.
func (r *Ramp) SetTarget(t float64) {
	r.target = core.Clamp(t, 0, 1)
	if r.step == 0 {
		r.value = r.target
	}
}

// Jump sets value and target to v without ramping.
func (r *Ramp) Jump(v float64) {
	v = core.Clamp(v, 0, 1)
	r.value, r.target = v, v
}

// Next advances one sample and returns the new coefficient.
func (r *Ramp) Next() float64 {
	// Snap within a rounding margin so a full traverse lands on the target
	// after exactly 1/step samples.
	snap := r.step * (1 + 1e-9)
	switch {
	case r.value < r.target:
		if r.target-r.value <= snap {
			r.value = r.target
		} else {
			r.value += r.step
		}
	case r.value > r.target:
		if r.value-r.target <= snap {
			r.value = r.target
		} else {
			r.value -= r.step
		}
	}
	return r.value
}

// Fill writes one coefficient per sample into dst, advancing the ramp by
// len(dst) samples.
func (r *Ramp) Fill(dst []float64) {
	if r.Settled() {
		for i := range dst {
			dst[i] = r.value
		}
		return
	}
	for i := range dst {
		dst[i] = r.Next()
	}
}

// Blend writes from*(1-g) + to*g into dst using per-sample gains g.
// scratch receives to-from. dst may alias from or to; every slice must have
// the same length.
func Blend(dst, from, to, gains, scratch []float64) {
	vecmath.ScaleBlock(scratch, from, -1)
	vecmath.AddBlockInPlace(scratch, to)
	vecmath.MulAddBlock(dst, scratch, gains, from)
}
