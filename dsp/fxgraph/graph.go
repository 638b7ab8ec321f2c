package fxgraph

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
)

// Port limits of Split and Merge nodes.
const (
	MaxFanout = 8
	MaxFanin  = 8
)

// NodeID identifies a node within one Graph. IDs are never reused.
type NodeID int

// EdgeID identifies an edge within one Graph. IDs are never reused.
type EdgeID int

// NodeKind is the role of a node in the routing graph.
type NodeKind uint8

const (
	KindInput NodeKind = iota + 1
	KindOutput
	KindEffect
	KindSplit
	KindMerge
)

func (k NodeKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindEffect:
		return "effect"
	case KindSplit:
		return "split"
	case KindMerge:
		return "merge"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

func (k NodeKind) maxOut() int {
	switch k {
	case KindOutput:
		return 0
	case KindSplit:
		return MaxFanout
	default:
		return 1
	}
}

func (k NodeKind) maxIn() int {
	switch k {
	case KindInput:
		return 0
	case KindMerge:
		return MaxFanin
	default:
		return 1
	}
}

// bypassControl is the bypass target of one effect node. It is written by
// the control goroutine and read by every snapshot that binds the node.
type bypassControl struct {
	target atomic.Bool
}

// initial returns the wet coefficient the target asks for: 0 when bypassed.
func (c *bypassControl) initial() float64 {
	if c.target.Load() {
		return 0
	}
	return 1
}

type node struct {
	kind    NodeKind
	name    string
	// fx is the most recently bound instance. Once bound, later compiles
	// bind a clone of it when it is an effect.Cloner.
	fx      effect.Effect
	bound   bool
	bypass  *bypassControl
	in      []EdgeID
	out     []EdgeID
	removed bool
}

type edge struct {
	from    NodeID
	to      NodeID
	removed bool
}

// NodeInfo is a read-only view of a node.
type NodeInfo struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	// Effect is the instance bound by the most recent Compile, or the one
	// passed to AddEffect before the first.
	Effect   effect.Effect
	In       []EdgeID
	Out      []EdgeID
	Bypassed bool
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID   EdgeID
	From NodeID
	To   NodeID
}

// Graph is the mutable effect topology. It is owned by one control
// goroutine; compile it into a Snapshot to process audio.
type Graph struct {
	cfg   core.ProcessorConfig
	nodes []node
	edges []edge
	live  int
	links int
}

// New returns an empty graph configured by opts.
func New(opts ...core.ProcessorOption) *Graph {
	return &Graph{cfg: core.ApplyProcessorOptions(opts...)}
}

// Config returns the processing configuration snapshots are compiled for.
func (g *Graph) Config() core.ProcessorConfig {
	return g.cfg
}

// AddInput adds the graph's signal source.
func (g *Graph) AddInput() NodeID {
	return g.addNode(node{kind: KindInput})
}

// AddOutput adds the graph's signal sink.
func (g *Graph) AddOutput() NodeID {
	return g.addNode(node{kind: KindOutput})
}

// AddSplit adds a node that copies its input to up to MaxFanout outputs.
func (g *Graph) AddSplit() NodeID {
	return g.addNode(node{kind: KindSplit})
}

// AddMerge adds a node that sums up to MaxFanin inputs.
func (g *Graph) AddMerge() NodeID {
	return g.addNode(node{kind: KindMerge})
}

// AddEffect adds an effect node. The node's bypass state starts at
// fx.IsBypassed() and is owned by the graph from then on.
func (g *Graph) AddEffect(fx effect.Effect) NodeID {
	if fx == nil {
		panic("fxgraph: AddEffect with nil effect")
	}
	ctl := &bypassControl{}
	ctl.target.Store(fx.IsBypassed())
	return g.addNode(node{kind: KindEffect, fx: fx, bypass: ctl})
}

func (g *Graph) addNode(n node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.live++
	return id
}

// SetName attaches a label used in schedule listings and logs.
func (g *Graph) SetName(id NodeID, name string) error {
	n, err := g.node(id)
	if err != nil {
		return nodeError("set name", id, err)
	}
	n.name = name
	return nil
}

// Connect adds an edge from -> to. On error the edge set is unchanged.
func (g *Graph) Connect(from, to NodeID) (EdgeID, error) {
	src, err := g.node(from)
	if err != nil {
		return NoEdge, connectError(from, to, err, fmt.Sprintf("no node %d", from))
	}
	dst, err := g.node(to)
	if err != nil {
		return NoEdge, connectError(from, to, err, fmt.Sprintf("no node %d", to))
	}
	if from == to || g.reaches(to, from) {
		return NoEdge, connectError(from, to, ErrWouldCreateCycle, "")
	}
	if limit := src.kind.maxOut(); len(src.out) >= limit {
		return NoEdge, connectError(from, to, ErrFanoutLimitExceeded,
			fmt.Sprintf("%s allows %d outgoing", src.kind, limit))
	}
	if limit := dst.kind.maxIn(); len(dst.in) >= limit {
		return NoEdge, connectError(from, to, ErrFaninLimitExceeded,
			fmt.Sprintf("%s allows %d incoming", dst.kind, limit))
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, edge{from: from, to: to})
	src.out = append(src.out, id)
	dst.in = append(dst.in, id)
	g.links++
	return id, nil
}

// Disconnect removes an edge.
func (g *Graph) Disconnect(id EdgeID) error {
	if !g.edgeLive(id) {
		return edgeError("disconnect", id, ErrUnknownEdge)
	}
	g.unlink(id)
	return nil
}

// RemoveNode removes a node together with its incident edges.
func (g *Graph) RemoveNode(id NodeID) error {
	n, err := g.node(id)
	if err != nil {
		return nodeError("remove", id, err)
	}
	for _, e := range slices.Clone(n.in) {
		g.unlink(e)
	}
	for _, e := range slices.Clone(n.out) {
		g.unlink(e)
	}
	n.removed = true
	n.fx = nil
	g.live--
	return nil
}

func (g *Graph) unlink(id EdgeID) {
	e := &g.edges[id]
	src, dst := &g.nodes[e.from], &g.nodes[e.to]
	src.out = slices.DeleteFunc(src.out, func(x EdgeID) bool { return x == id })
	dst.in = slices.DeleteFunc(dst.in, func(x EdgeID) bool { return x == id })
	e.removed = true
	g.links--
}

// SetBypassed sets the bypass target of an effect node. Compiled snapshots
// pick the change up on their next block and crossfade to it; no
// recompilation is needed.
func (g *Graph) SetBypassed(id NodeID, bypassed bool) error {
	n, err := g.effectNode("set bypassed", id)
	if err != nil {
		return err
	}
	n.bypass.target.Store(bypassed)
	return nil
}

// Bypassed returns the bypass target of an effect node.
func (g *Graph) Bypassed(id NodeID) (bool, error) {
	n, err := g.effectNode("bypassed", id)
	if err != nil {
		return false, err
	}
	return n.bypass.target.Load(), nil
}

func (g *Graph) effectNode(op string, id NodeID) (*node, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, nodeError(op, id, err)
	}
	if n.kind != KindEffect {
		return nil, &GraphError{Op: op, Node: id, Peer: NoNode, Edge: NoEdge, Err: ErrNotEffect, Detail: n.kind.String()}
	}
	return n, nil
}

// Node returns a view of the node with the given id.
func (g *Graph) Node(id NodeID) (NodeInfo, error) {
	n, err := g.node(id)
	if err != nil {
		return NodeInfo{}, nodeError("node", id, err)
	}
	info := NodeInfo{
		ID:     id,
		Kind:   n.kind,
		Name:   n.name,
		Effect: n.fx,
		In:     slices.Clone(n.in),
		Out:    slices.Clone(n.out),
	}
	if n.bypass != nil {
		info.Bypassed = n.bypass.target.Load()
	}
	return info, nil
}

// Nodes returns the ids of all live nodes in ascending order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, g.live)
	for i := range g.nodes {
		if !g.nodes[i].removed {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) (Edge, error) {
	if !g.edgeLive(id) {
		return Edge{}, edgeError("edge", id, ErrUnknownEdge)
	}
	e := g.edges[id]
	return Edge{ID: id, From: e.from, To: e.to}, nil
}

// Edges returns all live edges in ascending id order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.links)
	for i, e := range g.edges {
		if !e.removed {
			out = append(out, Edge{ID: EdgeID(i), From: e.from, To: e.to})
		}
	}
	return out
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	return g.live
}

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int {
	return g.links
}

func (g *Graph) node(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(g.nodes) || g.nodes[id].removed {
		return nil, ErrUnknownNode
	}
	return &g.nodes[id], nil
}

func (g *Graph) edgeLive(id EdgeID) bool {
	return id >= 0 && int(id) < len(g.edges) && !g.edges[id].removed
}

// reaches reports whether target is reachable from start along edges.
func (g *Graph) reaches(start, target NodeID) bool {
	seen := make([]bool, len(g.nodes))
	stack := []NodeID{start}
	seen[start] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		for _, e := range g.nodes[id].out {
			next := g.edges[e].to
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

func (g *Graph) label(id NodeID) string {
	n := &g.nodes[id]
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("%s#%d", n.kind, id)
}
