package fxgraph

import (
	"reflect"

	"github.com/cwbudde/algo-fxgraph/dsp/effect"
)

// adoptState makes s continue where prev stands for every node both were
// compiled from: effect state, dry delays and bypass ramps of effect nodes,
// and compensation delays of merge inputs whose delay did not change.
// Snapshots of different graphs share nothing. Audio goroutine only.
func (s *Snapshot) adoptState(prev *Snapshot) {
	if prev == nil || prev.graph != s.graph {
		return
	}
	for i := range s.effects {
		st := &s.effects[i]
		j, ok := prev.byNode[st.node]
		if !ok {
			continue
		}
		old := &prev.effects[j]
		if !sameInstance(st.fx, old.fx) {
			if cl, ok := st.fx.(effect.Cloner); ok {
				cl.CopyState(old.fx)
			}
		}
		if st.dryDelay != nil && old.dryDelay != nil {
			st.dryDelay.CopyFrom(old.dryDelay)
		}
		st.mix.Jump(old.mix.Value())
	}
	for i, e := range s.lineEdges {
		for j, pe := range prev.lineEdges {
			if pe == e {
				s.lines[i].CopyFrom(prev.lines[j])
				break
			}
		}
	}
}

// reset returns a retired snapshot to its compiled state: silent slots and
// delay lines, bypass ramps resting at the current bypass targets, and
// effects reset unless one of live still binds them. Control goroutine
// only, after the audio goroutine has let go of s.
func (s *Snapshot) reset(live ...*Snapshot) {
	s.pool.Zero()
	for _, l := range s.lines {
		l.Reset()
	}
	for i := range s.effects {
		st := &s.effects[i]
		if st.dryDelay != nil {
			st.dryDelay.Reset()
		}
		st.mix.Jump(st.bypass.initial())
		if !bindsAny(st.fx, live) {
			st.fx.Reset()
		}
	}
}

// sharedEffect returns the first effect node of s whose instance other also
// binds.
func (s *Snapshot) sharedEffect(other *Snapshot) (NodeID, bool) {
	for i := range s.effects {
		if other.binds(s.effects[i].fx) {
			return s.effects[i].node, true
		}
	}
	return NoNode, false
}

func (s *Snapshot) binds(fx effect.Effect) bool {
	for j := range s.effects {
		if sameInstance(fx, s.effects[j].fx) {
			return true
		}
	}
	return false
}

func bindsAny(fx effect.Effect, snapshots []*Snapshot) bool {
	for _, s := range snapshots {
		if s != nil && s.binds(fx) {
			return true
		}
	}
	return false
}

// sameInstance reports whether a and b are one effect instance. Effects of
// non-comparable dynamic type never match.
func sameInstance(a, b effect.Effect) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
