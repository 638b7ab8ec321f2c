package fxgraph

import (
	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
)

// slotPlan assigns a buffer slot to every edge value. Each value lives from
// the node that produces it until the node that consumes it.
type slotPlan struct {
	alloc  buffer.Allocator
	onEdge []int
}

func newSlotPlan(edges int) *slotPlan {
	p := &slotPlan{onEdge: make([]int, edges)}
	for i := range p.onEdge {
		p.onEdge[i] = -1
	}
	return p
}

// produce acquires a fresh slot for the value on e.
func (p *slotPlan) produce(e EdgeID) int {
	s := p.alloc.Acquire()
	p.onEdge[e] = s
	return s
}

// forward hands the slot holding in over to out without copying.
func (p *slotPlan) forward(in, out EdgeID) int {
	s := p.onEdge[in]
	p.onEdge[out] = s
	return s
}

// slot returns the slot holding the value on e.
func (p *slotPlan) slot(e EdgeID) int {
	return p.onEdge[e]
}

// consume frees the slot holding the value on e.
func (p *slotPlan) consume(e EdgeID) {
	p.alloc.Release(p.onEdge[e])
}

// slots returns the number of slots the plan needs at once.
func (p *slotPlan) slots() int {
	return p.alloc.Peak()
}

func inPlace(fx effect.Effect) bool {
	ip, ok := fx.(effect.InPlacer)
	return ok && ip.InPlace()
}
