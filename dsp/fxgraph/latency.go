package fxgraph

// arrivals returns, per node, the latency of the signal leaving it: the
// longest path from the input, counting each effect's LatencySamples.
func (g *Graph) arrivals(order []NodeID) []int {
	at := make([]int, len(g.nodes))
	for _, id := range order {
		n := &g.nodes[id]
		longest := 0
		for _, e := range n.in {
			longest = max(longest, at[g.edges[e].from])
		}
		if n.kind == KindEffect {
			longest += max(0, n.fx.LatencySamples())
		}
		at[id] = longest
	}
	return at
}

// compensation returns the delay each incoming edge of a merge needs so all
// of them arrive aligned with the slowest one. The result is indexed like
// n.in.
func (g *Graph) compensation(id NodeID, at []int) []int {
	n := &g.nodes[id]
	delays := make([]int, len(n.in))
	for i, e := range n.in {
		delays[i] = at[id] - at[g.edges[e].from]
	}
	return delays
}
