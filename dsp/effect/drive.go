package effect

import "math"

// Drive parameter indices.
const (
	DriveParamDrive = iota
	DriveParamMix
)

// Drive is a stateless tanh soft clipper normalised so that full-scale input
// stays at full scale.
type Drive struct {
	Base
}

// NewDrive returns a soft clipper with the given drive (1..20) and dry/wet mix.
func NewDrive(drive, mix float64) *Drive {
	return &Drive{Base: Base{Params: Params{
		NewParam(ParamDescriptor{Name: "drive", Min: 1, Max: 20, Default: drive}, 0),
		NewParam(ParamDescriptor{Name: "mix", Min: 0, Max: 1, Default: mix}, 0),
	}}}
}

// ProcessSample processes one sample.
func (fx *Drive) ProcessSample(x float64) float64 {
	d := fx.Param(DriveParamDrive)
	return shape(x, d, 1/math.Tanh(d), fx.Param(DriveParamMix))
}

// ProcessBlock processes one channel. Parameters are read once per block.
func (fx *Drive) ProcessBlock(in, out []float64) {
	d := fx.Param(DriveParamDrive)
	norm := 1 / math.Tanh(d)
	mix := fx.Param(DriveParamMix)
	for i, x := range in {
		out[i] = shape(x, d, norm, mix)
	}
}

func shape(x, drive, norm, mix float64) float64 {
	return x*(1-mix) + math.Tanh(drive*x)*norm*mix
}

// Clone returns a soft clipper with the same settings.
func (fx *Drive) Clone() Effect {
	c := &Drive{}
	fx.cloneInto(&c.Base)
	return c
}

// CopyState is a no-op: Drive keeps no state between samples.
func (fx *Drive) CopyState(Effect) {}
