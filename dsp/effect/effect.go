package effect

// ParamDescriptor describes one indexed parameter.
type ParamDescriptor struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

// Effect is the uniform capability of every effect instance.
type Effect interface {
	// ProcessSample processes one sample.
	ProcessSample(x float64) float64
	// ProcessBlock writes the processed in into out. in and out have the
	// same length and may alias when the effect is an InPlacer.
	ProcessBlock(in, out []float64)
	// LatencySamples reports the fixed processing delay in samples.
	LatencySamples() int
	// Reset clears internal state.
	Reset()
	SetBypassed(bypassed bool)
	IsBypassed() bool
	ParamCount() int
	ParamDescriptor(i int) ParamDescriptor
	Param(i int) float64
	SetParam(i int, v float64)
}

// StereoEffect is implemented by effects that consume both channels at once.
type StereoEffect interface {
	Effect
	ProcessStereo(inL, inR, outL, outR []float64)
}

// InPlacer is implemented by effects that can read and write the same
// buffer. The schedule compiler reuses the input slot for their output.
type InPlacer interface {
	InPlace() bool
}

// Cloner is implemented by effects that can be duplicated when a graph is
// compiled again while an earlier schedule is still running.
//
// Clone returns an independent instance with the same configuration and
// parameter targets and cleared processing state. It may run while the
// receiver is processing audio, so it reads only configuration and
// parameter targets.
//
// CopyState makes the receiver continue exactly where src stands. src is
// the receiver's origin or another clone of it. CopyState runs on the audio
// goroutine between blocks and must not allocate.
type Cloner interface {
	Clone() Effect
	CopyState(src Effect)
}

// ParamIndex returns the index of the parameter called name, or -1.
func ParamIndex(e Effect, name string) int {
	for i := range e.ParamCount() {
		if e.ParamDescriptor(i).Name == name {
			return i
		}
	}
	return -1
}
