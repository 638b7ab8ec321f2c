package fxgraph

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/delay"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/dsp/ramp"
)

// Op is a schedule instruction.
type Op uint8

const (
	// OpInput copies the external input into Dst.
	OpInput Op = iota + 1
	// OpEffect runs an effect from Src into Dst with the bypass blend.
	OpEffect
	// OpCopy copies Src into every slot of Dsts.
	OpCopy
	// OpDelay delays Dst in place by Delay samples.
	OpDelay
	// OpClear zeroes Dst.
	OpClear
	// OpAccumulate adds Src into Dst.
	OpAccumulate
	// OpOutput copies Src to the external output.
	OpOutput
)

func (o Op) String() string {
	switch o {
	case OpInput:
		return "input"
	case OpEffect:
		return "effect"
	case OpCopy:
		return "copy"
	case OpDelay:
		return "delay"
	case OpClear:
		return "clear"
	case OpAccumulate:
		return "accumulate"
	case OpOutput:
		return "output"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Step is one instruction of a compiled schedule. Slot fields not used by
// the op are -1.
type Step struct {
	Op    Op
	Node  NodeID
	Src   int
	Dst   int
	Dsts  []int
	Delay int

	// index into Snapshot.effects or Snapshot.lines
	arg int
}

// effectStep binds one effect node into a snapshot.
type effectStep struct {
	node   NodeID
	fx     effect.Effect
	stereo effect.StereoEffect
	bypass *bypassControl
	mix    ramp.Ramp
	// dryDelay aligns the dry path with the effect's latency.
	dryDelay *delay.Stereo
	// dryCopy is set when the dry signal does not survive the effect call
	// in its own slot.
	dryCopy bool
}

// Snapshot is an immutable compiled schedule. Its structure never changes
// after Compile; the audio goroutine owns its buffers and effect state
// while it is published.
type Snapshot struct {
	cfg     core.ProcessorConfig
	graph   *Graph
	steps   []Step
	effects []effectStep
	byNode  map[NodeID]int
	pool    *buffer.Pool
	latency int
	labels  map[NodeID]string

	// compensation delays and the merge input edge each one delays
	lines     []*delay.Stereo
	lineEdges []EdgeID

	// block-sized scratch
	dry     buffer.Stereo
	gains   []float64
	diff    []float64
	fadeOut buffer.Stereo

	claimed atomic.Bool
}

// StepCount returns the number of instructions.
func (s *Snapshot) StepCount() int { return len(s.steps) }

// BufferCount returns the number of stereo slots the schedule uses.
func (s *Snapshot) BufferCount() int { return s.pool.Len() }

// TotalLatency returns the input-to-output latency in samples.
func (s *Snapshot) TotalLatency() int { return s.latency }

// BlockSize returns the largest block Process handles in one pass.
func (s *Snapshot) BlockSize() int { return s.cfg.BlockSize }

// SampleRate returns the sample rate the snapshot was compiled for.
func (s *Snapshot) SampleRate() float64 { return s.cfg.SampleRate }

// Steps returns a copy of the instruction list.
func (s *Snapshot) Steps() []Step {
	out := make([]Step, len(s.steps))
	for i, st := range s.steps {
		if st.Dsts != nil {
			st.Dsts = append([]int(nil), st.Dsts...)
		}
		out[i] = st
	}
	return out
}

// Effect returns the effect bound to node id.
func (s *Snapshot) Effect(id NodeID) (effect.Effect, bool) {
	i, ok := s.byNode[id]
	if !ok {
		return nil, false
	}
	return s.effects[i].fx, true
}

// String lists the schedule one instruction per line.
func (s *Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schedule: %d steps, %d buffers, latency %d\n",
		len(s.steps), s.pool.Len(), s.latency)
	for i, st := range s.steps {
		fmt.Fprintf(&b, "%3d  ", i)
		switch st.Op {
		case OpInput:
			fmt.Fprintf(&b, "input -> b%d", st.Dst)
		case OpEffect:
			fmt.Fprintf(&b, "effect %s b%d -> b%d", s.labels[st.Node], st.Src, st.Dst)
		case OpCopy:
			fmt.Fprintf(&b, "copy %s b%d ->", s.labels[st.Node], st.Src)
			for _, d := range st.Dsts {
				fmt.Fprintf(&b, " b%d", d)
			}
		case OpDelay:
			fmt.Fprintf(&b, "delay %d b%d", st.Delay, st.Dst)
		case OpClear:
			fmt.Fprintf(&b, "clear b%d", st.Dst)
		case OpAccumulate:
			fmt.Fprintf(&b, "accumulate %s b%d -> b%d", s.labels[st.Node], st.Src, st.Dst)
		case OpOutput:
			fmt.Fprintf(&b, "output b%d", st.Src)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
