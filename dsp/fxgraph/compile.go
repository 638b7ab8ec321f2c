package fxgraph

import (
	"fmt"

	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
	"github.com/cwbudde/algo-fxgraph/dsp/delay"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/dsp/ramp"
)

// Compile validates the graph and lowers it into an executable Snapshot.
// The graph's structure stays untouched and can be edited and compiled
// again.
//
// The first snapshot binds the effect instances passed to AddEffect. Every
// later snapshot binds a clone of each effect that implements
// effect.Cloner, so two snapshots of one graph can run side by side during
// a swap crossfade. Other effects stay shared and Engine.Publish refuses a
// snapshot that shares one with a running snapshot. Address the current
// instance through Graph.Node, Snapshot.Effect or Engine.SetParam.
//
// Compiling allocates every buffer, delay line and scratch array the
// schedule needs; processing the result allocates nothing.
func (g *Graph) Compile() (*Snapshot, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	c := compiler{
		g:        g,
		at:       g.arrivals(order),
		plan:     newSlotPlan(len(g.edges)),
		rampLen:  g.cfg.RampSamples(),
		snapshot: &Snapshot{cfg: g.cfg, graph: g, byNode: make(map[NodeID]int), labels: make(map[NodeID]string)},
	}
	for _, id := range order {
		if err := c.emit(id); err != nil {
			return nil, err
		}
	}
	return c.finish(), nil
}

type compiler struct {
	g        *Graph
	at       []int
	plan     *slotPlan
	rampLen  int
	snapshot *Snapshot
	output   NodeID
}

func (c *compiler) step(st Step) {
	c.snapshot.steps = append(c.snapshot.steps, st)
}

// emit appends the instructions of one node. Outgoing slots are acquired
// before incoming ones are released, so a node never writes into the slot
// it reads from unless it runs in place.
func (c *compiler) emit(id NodeID) error {
	n := &c.g.nodes[id]
	c.snapshot.labels[id] = c.g.label(id)
	switch n.kind {
	case KindInput:
		dst := c.plan.produce(n.out[0])
		c.step(Step{Op: OpInput, Node: id, Src: -1, Dst: dst})

	case KindEffect:
		in, out := n.in[0], n.out[0]
		src := c.plan.slot(in)
		var dst int
		if inPlace(n.fx) {
			dst = c.plan.forward(in, out)
		} else {
			dst = c.plan.produce(out)
			c.plan.consume(in)
		}
		idx, err := c.bind(id, n, src == dst)
		if err != nil {
			return err
		}
		c.step(Step{Op: OpEffect, Node: id, Src: src, Dst: dst, arg: idx})

	case KindSplit:
		src := c.plan.slot(n.in[0])
		dsts := make([]int, len(n.out))
		for i, e := range n.out {
			dsts[i] = c.plan.produce(e)
		}
		c.plan.consume(n.in[0])
		c.step(Step{Op: OpCopy, Node: id, Src: src, Dst: -1, Dsts: dsts})

	case KindMerge:
		for i, d := range c.g.compensation(id, c.at) {
			if d <= 0 {
				continue
			}
			line, err := delay.NewStereo(d)
			if err != nil {
				return fmt.Errorf("fxgraph: compile merge %d: %w", id, err)
			}
			c.snapshot.lines = append(c.snapshot.lines, line)
			c.snapshot.lineEdges = append(c.snapshot.lineEdges, n.in[i])
			c.step(Step{
				Op: OpDelay, Node: id, Src: -1, Dst: c.plan.slot(n.in[i]),
				Delay: d, arg: len(c.snapshot.lines) - 1,
			})
		}
		dst := c.plan.produce(n.out[0])
		c.step(Step{Op: OpClear, Node: id, Src: -1, Dst: dst})
		for _, e := range n.in {
			c.step(Step{Op: OpAccumulate, Node: id, Src: c.plan.slot(e), Dst: dst})
		}
		for _, e := range n.in {
			c.plan.consume(e)
		}

	case KindOutput:
		src := c.plan.slot(n.in[0])
		c.step(Step{Op: OpOutput, Node: id, Src: src, Dst: -1})
		c.plan.consume(n.in[0])
		c.output = id
	}
	return nil
}

// bind creates the snapshot-owned state of an effect step. shared reports
// that the effect reads and writes the same slot.
func (c *compiler) bind(id NodeID, n *node, shared bool) (int, error) {
	if n.bound {
		if cl, ok := n.fx.(effect.Cloner); ok {
			n.fx = cl.Clone()
		}
	}
	n.bound = true

	st := effectStep{
		node:    id,
		fx:      n.fx,
		bypass:  n.bypass,
		mix:     ramp.New(c.rampLen, n.bypass.initial()),
		dryCopy: shared,
	}
	if stereo, ok := n.fx.(effect.StereoEffect); ok {
		st.stereo = stereo
	}
	if lat := n.fx.LatencySamples(); lat > 0 {
		line, err := delay.NewStereo(lat)
		if err != nil {
			return 0, fmt.Errorf("fxgraph: compile effect %d: %w", id, err)
		}
		st.dryDelay = line
		st.dryCopy = true
	}
	c.snapshot.effects = append(c.snapshot.effects, st)
	idx := len(c.snapshot.effects) - 1
	c.snapshot.byNode[id] = idx
	return idx, nil
}

func (c *compiler) finish() *Snapshot {
	s := c.snapshot
	bs := s.cfg.BlockSize
	s.pool = buffer.NewPool(c.plan.slots(), bs)
	s.latency = c.at[c.output]
	s.dry = buffer.NewStereo(bs)
	s.fadeOut = buffer.NewStereo(bs)
	s.gains = make([]float64, bs)
	s.diff = make([]float64, bs)
	return s
}
