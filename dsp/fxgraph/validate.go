package fxgraph

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// Validate reports every structural violation that would make Compile fail.
// The findings are combined into one error; errors.Is matches each of them.
func (g *Graph) Validate() error {
	var errs error
	if err := g.cfg.Validate(); err != nil {
		errs = multierr.Append(errs, &GraphError{
			Op: "compile", Node: NoNode, Peer: NoNode, Edge: NoEdge,
			Err: configError(err), Detail: err.Error(),
		})
	}

	var inputs, outputs int
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.removed {
			continue
		}
		switch n.kind {
		case KindInput:
			inputs++
		case KindOutput:
			outputs++
		}
	}
	if inputs != 1 {
		errs = multierr.Append(errs, &GraphError{
			Op: "compile", Node: NoNode, Peer: NoNode, Edge: NoEdge,
			Err: ErrMissingInput, Detail: fmt.Sprintf("want exactly one, found %d", inputs),
		})
	}
	if outputs != 1 {
		errs = multierr.Append(errs, &GraphError{
			Op: "compile", Node: NoNode, Peer: NoNode, Edge: NoEdge,
			Err: ErrMissingOutput, Detail: fmt.Sprintf("want exactly one, found %d", outputs),
		})
	}

	if _, err := g.topoOrder(); err != nil {
		errs = multierr.Append(errs, err)
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		if n.removed {
			continue
		}
		switch {
		case n.kind != KindInput && len(n.in) == 0:
			errs = multierr.Append(errs, &GraphError{
				Op: "compile", Node: NodeID(i), Peer: NoNode, Edge: NoEdge,
				Err: ErrUnreachable, Detail: "no incoming edge",
			})
		case n.kind != KindOutput && len(n.out) == 0:
			errs = multierr.Append(errs, &GraphError{
				Op: "compile", Node: NodeID(i), Peer: NoNode, Edge: NoEdge,
				Err: ErrUnreachable, Detail: "no outgoing edge",
			})
		}
	}
	return errs
}

// topoOrder sorts the live nodes with Kahn's algorithm. Among ready nodes
// the lowest id goes first, so the order only depends on the graph.
func (g *Graph) topoOrder() ([]NodeID, error) {
	indeg := make([]int, len(g.nodes))
	var ready []NodeID
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.removed {
			continue
		}
		indeg[i] = len(n.in)
		if indeg[i] == 0 {
			ready = append(ready, NodeID(i))
		}
	}

	order := make([]NodeID, 0, g.live)
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, e := range g.nodes[id].out {
			to := g.edges[e].to
			indeg[to]--
			if indeg[to] == 0 {
				at, _ := slices.BinarySearch(ready, to)
				ready = slices.Insert(ready, at, to)
			}
		}
	}
	if len(order) != g.live {
		return nil, &GraphError{
			Op: "compile", Node: NoNode, Peer: NoNode, Edge: NoEdge,
			Err: ErrCyclic, Detail: fmt.Sprintf("%d nodes on a cycle", g.live-len(order)),
		}
	}
	return order, nil
}
