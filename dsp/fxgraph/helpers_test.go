package fxgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxgraph/dsp/effect"
)

// recorder passes audio through and counts how it was invoked.
type recorder struct {
	effect.Base
	blockCalls int
}

func (p *recorder) ProcessSample(x float64) float64 { return x }

func (p *recorder) ProcessBlock(in, out []float64) {
	p.blockCalls++
	copy(out, in)
}

type stereoRecorder struct {
	recorder
	stereoCalls int
}

func (p *stereoRecorder) ProcessStereo(inL, inR, outL, outR []float64) {
	p.stereoCalls++
	copy(outL, inL)
	copy(outR, inR)
}

func newLatency(t *testing.T, samples int) *effect.Latency {
	t.Helper()
	fx, err := effect.NewLatency(samples)
	require.NoError(t, err)
	return fx
}

func connect(t *testing.T, g *Graph, pairs ...NodeID) {
	t.Helper()
	require.Zero(t, len(pairs)%2, "connect needs from/to pairs")
	for i := 0; i < len(pairs); i += 2 {
		_, err := g.Connect(pairs[i], pairs[i+1])
		require.NoError(t, err)
	}
}

// chain builds input -> fxs... -> output and returns the effect node ids.
func chain(t *testing.T, g *Graph, fxs ...effect.Effect) []NodeID {
	t.Helper()
	prev := g.AddInput()
	ids := make([]NodeID, len(fxs))
	for i, fx := range fxs {
		ids[i] = g.AddEffect(fx)
		connect(t, g, prev, ids[i])
		prev = ids[i]
	}
	connect(t, g, prev, g.AddOutput())
	return ids
}

// parallel builds input -> split -> one branch per effect -> merge -> output.
func parallel(t *testing.T, g *Graph, fxs ...effect.Effect) []NodeID {
	t.Helper()
	in := g.AddInput()
	split := g.AddSplit()
	connect(t, g, in, split)
	ids := make([]NodeID, len(fxs))
	for i, fx := range fxs {
		ids[i] = g.AddEffect(fx)
		connect(t, g, split, ids[i])
	}
	merge := g.AddMerge()
	for _, id := range ids {
		connect(t, g, id, merge)
	}
	connect(t, g, merge, g.AddOutput())
	return ids
}

func compile(t *testing.T, g *Graph) *Snapshot {
	t.Helper()
	s, err := g.Compile()
	require.NoError(t, err)
	return s
}

// render runs mono input through s on both channels.
func render(s *Snapshot, in []float64) (l, r []float64) {
	l = make([]float64, len(in))
	r = make([]float64, len(in))
	s.Process(in, in, l, r)
	return l, r
}
