package buffer

// Pool is the fixed set of reusable stereo buffer slots owned by one
// compiled schedule. Slots are addressed by index; the pool never grows.
type Pool struct {
	frames int
	slots  []Stereo
}

// NewPool allocates count slots of frames samples per channel in a single
// backing array.
func NewPool(count, frames int) *Pool {
	if count < 0 {
		count = 0
	}
	if frames < 0 {
		frames = 0
	}

	backing := make([]float64, 2*count*frames)
	slots := make([]Stereo, count)
	for i := range slots {
		off := 2 * i * frames
		slots[i] = Stereo{
			L: backing[off : off+frames : off+frames],
			R: backing[off+frames : off+2*frames : off+2*frames],
		}
	}

	return &Pool{frames: frames, slots: slots}
}

// Len returns the number of slots.
func (p *Pool) Len() int {
	return len(p.slots)
}

// Frames returns the per-channel capacity of every slot.
func (p *Pool) Frames() int {
	return p.frames
}

// Slot returns the full-capacity view of slot i.
func (p *Pool) Slot(i int) Stereo {
	return p.slots[i]
}

// Zero clears every slot.
func (p *Pool) Zero() {
	for _, s := range p.slots {
		s.Zero()
	}
}
