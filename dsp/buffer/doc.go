// Package buffer provides the fixed-capacity stereo sample buffers moved
// between schedule steps, the fixed slot pool a compiled schedule owns, and
// the lowest-free slot allocator used during liveness analysis.
//
// Nothing in this package allocates after construction: Stereo views are
// slice headers over memory created once by NewStereo or NewPool, so they can
// be used freely from a real-time audio callback.
package buffer
