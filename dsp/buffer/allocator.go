package buffer

import "fmt"

// Allocator hands out slot indices during liveness analysis. Acquire always
// returns the lowest-numbered free slot, which keeps the peak slot count
// minimal for a given acquire/release sequence.
type Allocator struct {
	used []bool
}

// Acquire returns the lowest free slot index, growing the slot range if every
// known slot is live.
func (a *Allocator) Acquire() int {
	for i, u := range a.used {
		if !u {
			a.used[i] = true
			return i
		}
	}
	a.used = append(a.used, true)
	return len(a.used) - 1
}

// Release returns slot to the free list. Releasing a slot that is not live
// is a caller bug and panics.
func (a *Allocator) Release(slot int) {
	if slot < 0 || slot >= len(a.used) || !a.used[slot] {
		panic(fmt.Sprintf("buffer: release of free slot %d", slot))
	}
	a.used[slot] = false
}

// Peak returns the number of distinct slots ever handed out, which is the
// pool size needed to run the analysed schedule.
func (a *Allocator) Peak() int {
	return len(a.used)
}
