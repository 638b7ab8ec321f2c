package effect

import "sync/atomic"

// Base carries the bookkeeping shared by the reference effects: a parameter
// set and the advisory bypass flag. Embed it and implement the processing
// methods.
type Base struct {
	Params
	bypassed atomic.Bool
}

// SetBypassed records the bypass flag. The reference effects keep
// processing; blending dry and wet is the host's job.
func (b *Base) SetBypassed(bypassed bool) { b.bypassed.Store(bypassed) }

// IsBypassed returns the bypass flag.
func (b *Base) IsBypassed() bool { return b.bypassed.Load() }

// LatencySamples reports zero latency.
func (b *Base) LatencySamples() int { return 0 }

// Reset is a no-op for stateless effects.
func (b *Base) Reset() {}

// cloneInto gives dst a copy of b's parameters and bypass flag.
func (b *Base) cloneInto(dst *Base) {
	dst.Params = b.Params.clone()
	dst.bypassed.Store(b.IsBypassed())
}
