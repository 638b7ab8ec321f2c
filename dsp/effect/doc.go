// Package effect defines the capability every effect instance exposes to
// the routing engine, lock-free parameter storage, a handful of reference
// effects, and a name-keyed factory registry.
//
// The engine never inspects what an effect does. It only relies on the
// contract below:
//
//   - ProcessBlock/ProcessStereo run on the audio goroutine and must not
//     allocate or block.
//   - LatencySamples is fixed for the lifetime of the instance; changing it
//     requires recompiling the graph that holds the effect.
//   - SetParam may be called from any goroutine concurrently with
//     processing. Param smoothing is the storage's job.
//
// Mono effects (plain Effect) are invoked once per channel per block. An
// effect that keeps per-channel state, or smooths parameters per sample,
// should implement StereoEffect so it is invoked once per block.
package effect
