package effect

// Gain parameter indices.
const (
	GainParamGain = iota
)

// Gain scales the signal by a smoothed linear gain.
type Gain struct {
	Base
	gain *Param
}

// NewGain returns a gain effect starting at initial (linear, clamped to
// [0, 4]). smoothSamples is the parameter smoothing time constant.
func NewGain(initial float64, smoothSamples int) *Gain {
	p := NewParam(ParamDescriptor{Name: "gain", Min: 0, Max: 4, Default: initial}, smoothSamples)
	return &Gain{Base: Base{Params: Params{p}}, gain: p}
}

// ProcessSample processes one sample.
func (g *Gain) ProcessSample(x float64) float64 {
	return x * g.gain.Next()
}

// ProcessBlock applies the gain to one channel.
func (g *Gain) ProcessBlock(in, out []float64) {
	for i, x := range in {
		out[i] = x * g.gain.Next()
	}
}

// ProcessStereo applies the same smoothed gain to both channels so the
// smoother advances once per frame.
func (g *Gain) ProcessStereo(inL, inR, outL, outR []float64) {
	for i := range inL {
		k := g.gain.Next()
		outL[i] = inL[i] * k
		outR[i] = inR[i] * k
	}
}

// Reset snaps the smoother onto the current target.
func (g *Gain) Reset() {
	g.gain.Snap()
}

// Clone returns a gain at the same target.
func (g *Gain) Clone() Effect {
	c := &Gain{}
	g.cloneInto(&c.Base)
	c.gain = c.Params[GainParamGain]
	return c
}

// CopyState takes over the smoother position of src.
func (g *Gain) CopyState(src Effect) {
	if s, ok := src.(*Gain); ok {
		g.Params.copyState(s.Params)
	}
}
