package buffer

import "github.com/cwbudde/algo-vecmath"

// Stereo is a pair of per-channel sample arrays of equal length.
// It is a view: copies of a Stereo share the same samples.
type Stereo struct {
	L []float64
	R []float64
}

// NewStereo returns a zero-filled Stereo buffer holding frames samples per
// channel. Both channels share one backing allocation.
func NewStereo(frames int) Stereo {
	if frames < 0 {
		frames = 0
	}
	s := make([]float64, 2*frames)
	return Stereo{L: s[:frames:frames], R: s[frames:]}
}

// FromSlices wraps existing channel slices without copying.
// The shorter length wins.
func FromSlices(l, r []float64) Stereo {
	n := min(len(l), len(r))
	return Stereo{L: l[:n], R: r[:n]}
}

// Frames returns the number of samples per channel.
func (s Stereo) Frames() int {
	return len(s.L)
}

// Head returns a view of the first n frames. n is clamped to Frames.
func (s Stereo) Head(n int) Stereo {
	if n > len(s.L) {
		n = len(s.L)
	}
	if n < 0 {
		n = 0
	}
	return Stereo{L: s.L[:n], R: s.R[:n]}
}

// Zero sets all samples to 0.
func (s Stereo) Zero() {
	clear(s.L)
	clear(s.R)
}

// CopyFrom copies src into s. Both must have the same number of frames.
func (s Stereo) CopyFrom(src Stereo) {
	copy(s.L, src.L)
	copy(s.R, src.R)
}

// Add accumulates src into s sample by sample: s[i] += src[i].
// Both must have the same number of frames.
func (s Stereo) Add(src Stereo) {
	vecmath.AddBlockInPlace(s.L, src.L)
	vecmath.AddBlockInPlace(s.R, src.R)
}

// Peak returns the largest absolute sample value across both channels.
func (s Stereo) Peak() float64 {
	return max(vecmath.MaxAbs(s.L), vecmath.MaxAbs(s.R))
}
