package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/dsp/fxgraph"
)

// stage is one effect of a -chain description.
type stage struct {
	typ  string
	args effect.Args
}

// parseChain parses "type:k=v,k=v;type;..." into stages.
func parseChain(s string) ([]stage, error) {
	var stages []stage
	for i, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		typ, rawArgs, _ := strings.Cut(part, ":")
		typ = strings.ToLower(strings.TrimSpace(typ))
		if typ == "" {
			return nil, fmt.Errorf("stage %d: missing effect type", i)
		}
		args, err := effect.ParseArgs(rawArgs)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, typ, err)
		}
		stages = append(stages, stage{typ: typ, args: args})
	}
	if len(stages) == 0 {
		return nil, errors.New("empty chain")
	}
	return stages, nil
}

// parseIndices parses a comma separated list of stage indices.
func parseIndices(s string, n int) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid stage index %q: %w", f, err)
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("stage index %d out of range [0,%d)", i, n)
		}
		out = append(out, i)
	}
	return out, nil
}

// buildGraph instantiates the stages from reg and wires them either in
// series or as parallel branches between a split and a merge. It returns
// the effect node of every stage.
func buildGraph(cfg core.ProcessorConfig, reg *effect.Registry, stages []stage, parallel bool) (*fxgraph.Graph, []fxgraph.NodeID, error) {
	g := fxgraph.New(
		core.WithSampleRate(cfg.SampleRate),
		core.WithBlockSize(cfg.BlockSize),
		core.WithRampTime(cfg.RampTime),
	)
	ids := make([]fxgraph.NodeID, len(stages))
	for i, st := range stages {
		fx, err := reg.New(st.typ, cfg, st.args)
		if err != nil {
			return nil, nil, fmt.Errorf("stage %d: %w", i, err)
		}
		ids[i] = g.AddEffect(fx)
		if err := g.SetName(ids[i], fmt.Sprintf("%s#%d", st.typ, i)); err != nil {
			return nil, nil, err
		}
	}

	in, out := g.AddInput(), g.AddOutput()
	var edges [][2]fxgraph.NodeID
	if parallel {
		split, merge := g.AddSplit(), g.AddMerge()
		edges = append(edges, [2]fxgraph.NodeID{in, split}, [2]fxgraph.NodeID{merge, out})
		for _, id := range ids {
			edges = append(edges, [2]fxgraph.NodeID{split, id}, [2]fxgraph.NodeID{id, merge})
		}
	} else {
		prev := in
		for _, id := range ids {
			edges = append(edges, [2]fxgraph.NodeID{prev, id})
			prev = id
		}
		edges = append(edges, [2]fxgraph.NodeID{prev, out})
	}
	for _, e := range edges {
		if _, err := g.Connect(e[0], e[1]); err != nil {
			return nil, nil, err
		}
	}
	return g, ids, nil
}
