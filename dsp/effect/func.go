package effect

// Invert flips polarity. It processes in place.
type Invert struct {
	Base
}

// NewInvert returns a polarity inverter.
func NewInvert() *Invert {
	return &Invert{}
}

func (fx *Invert) ProcessSample(x float64) float64 { return -x }

func (fx *Invert) ProcessBlock(in, out []float64) {
	for i, x := range in {
		out[i] = -x
	}
}

func (fx *Invert) InPlace() bool { return true }

func (fx *Invert) Clone() Effect {
	c := &Invert{}
	fx.cloneInto(&c.Base)
	return c
}

func (fx *Invert) CopyState(Effect) {}

// Func adapts a stateless per-sample function to Effect. It processes in
// place and has no parameters. Clones share fn, which must therefore be
// safe to call from two schedules in the same block.
type Func struct {
	Base
	fn func(float64) float64
}

// NewFunc wraps fn.
func NewFunc(fn func(float64) float64) *Func {
	return &Func{fn: fn}
}

func (fx *Func) ProcessSample(x float64) float64 { return fx.fn(x) }

func (fx *Func) ProcessBlock(in, out []float64) {
	for i, x := range in {
		out[i] = fx.fn(x)
	}
}

func (fx *Func) InPlace() bool { return true }

func (fx *Func) Clone() Effect {
	c := &Func{fn: fx.fn}
	fx.cloneInto(&c.Base)
	return c
}

func (fx *Func) CopyState(Effect) {}
