package fxgraph

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/internal/testutil"
)

func TestCompileMissingEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(g *Graph)
		want  []error
	}{
		{
			name:  "empty",
			build: func(g *Graph) {},
			want:  []error{ErrMissingInput, ErrMissingOutput},
		},
		{
			name: "no output",
			build: func(g *Graph) {
				g.AddInput()
			},
			want: []error{ErrMissingOutput, ErrUnreachable},
		},
		{
			name: "two inputs",
			build: func(g *Graph) {
				merge := g.AddMerge()
				out := g.AddOutput()
				for range 2 {
					g.Connect(g.AddInput(), merge) //nolint:errcheck
				}
				g.Connect(merge, out) //nolint:errcheck
			},
			want: []error{ErrMissingInput},
		},
		{
			name: "two outputs",
			build: func(g *Graph) {
				split := g.AddSplit()
				g.Connect(g.AddInput(), split) //nolint:errcheck
				for range 2 {
					g.Connect(split, g.AddOutput()) //nolint:errcheck
				}
			},
			want: []error{ErrMissingOutput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			tt.build(g)
			s, err := g.Compile()
			require.Error(t, err)
			assert.Nil(t, s)
			for _, want := range tt.want {
				assert.True(t, errors.Is(err, want), "want %v in %v", want, err)
			}
			assert.Len(t, multierr.Errors(err), len(tt.want))
		})
	}
}

func TestCompileUnreachable(t *testing.T) {
	t.Parallel()

	g := New()
	chain(t, g, effect.NewInvert())
	dangling := g.AddEffect(effect.NewInvert())
	sink := g.AddEffect(effect.NewInvert())
	split := g.AddSplit()
	connect(t, g, split, sink)

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))

	var nodes []NodeID
	for _, e := range multierr.Errors(err) {
		var ge *GraphError
		require.True(t, errors.As(e, &ge))
		assert.Equal(t, ErrUnreachable, ge.Err)
		nodes = append(nodes, ge.Node)
	}
	assert.Equal(t, []NodeID{dangling, sink, split}, nodes)

	_, err = g.Compile()
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Contains(t, err.Error(), "fxgraph: compile node 3: unreachable node (no incoming edge)")
}

func TestCompileCyclic(t *testing.T) {
	t.Parallel()

	g := New()
	ids := chain(t, g, effect.NewInvert(), effect.NewInvert())
	// Connect refuses back edges, so plant one directly.
	back := EdgeID(len(g.edges))
	g.edges = append(g.edges, edge{from: ids[1], to: ids[0]})
	g.nodes[ids[1]].out = append(g.nodes[ids[1]].out, back)
	g.nodes[ids[0]].in = append(g.nodes[ids[0]].in, back)
	g.links++

	_, err := g.Compile()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclic))
}

func TestCompileInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*core.ProcessorConfig)
		want   error
		reject error
	}{
		{"block size", func(c *core.ProcessorConfig) { c.BlockSize = 0 }, ErrEmptyBlock, ErrInvalidConfig},
		{"sample rate", func(c *core.ProcessorConfig) { c.SampleRate = 0 }, ErrInvalidConfig, ErrEmptyBlock},
		{"ramp time", func(c *core.ProcessorConfig) { c.RampTime = -time.Millisecond }, ErrInvalidConfig, ErrEmptyBlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			chain(t, g, effect.NewInvert())
			tt.mutate(&g.cfg)

			_, err := g.Compile()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err)
			assert.False(t, errors.Is(err, tt.reject), err)
		})
	}
}

func TestLinearChainUsesTwoBuffers(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 6; n++ {
		g := New()
		fxs := make([]effect.Effect, n)
		for i := range fxs {
			fxs[i] = effect.NewGain(1, 0)
		}
		chain(t, g, fxs...)

		s := compile(t, g)
		assert.Equal(t, 2, s.BufferCount(), "chain of %d", n)
		assert.Equal(t, n+2, s.StepCount(), "chain of %d", n)
		assert.Zero(t, s.TotalLatency())
	}
}

func TestDirectPathUsesOneBuffer(t *testing.T) {
	t.Parallel()

	g := New()
	connect(t, g, g.AddInput(), g.AddOutput())
	s := compile(t, g)
	assert.Equal(t, 1, s.BufferCount())
	assert.Equal(t, 2, s.StepCount())
}

func TestInPlaceChainSharesOneBuffer(t *testing.T) {
	t.Parallel()

	g := New()
	chain(t, g, effect.NewInvert(), effect.NewFunc(func(x float64) float64 { return 2 * x }), effect.NewInvert())
	s := compile(t, g)
	assert.Equal(t, 1, s.BufferCount())

	for _, st := range s.Steps() {
		if st.Op == OpEffect {
			assert.Equal(t, st.Src, st.Dst)
		}
	}
}

func TestDiamondSchedule(t *testing.T) {
	t.Parallel()

	g := New()
	parallel(t, g, effect.NewGain(1, 0), effect.NewGain(1, 0))
	s := compile(t, g)

	assert.Equal(t, 3, s.BufferCount())
	want := []Step{
		{Op: OpInput, Node: 0, Src: -1, Dst: 0},
		{Op: OpCopy, Node: 1, Src: 0, Dst: -1, Dsts: []int{1, 2}},
		{Op: OpEffect, Node: 2, Src: 1, Dst: 0, arg: 0},
		{Op: OpEffect, Node: 3, Src: 2, Dst: 1, arg: 1},
		{Op: OpClear, Node: 4, Src: -1, Dst: 2},
		{Op: OpAccumulate, Node: 4, Src: 0, Dst: 2},
		{Op: OpAccumulate, Node: 4, Src: 1, Dst: 2},
		{Op: OpOutput, Node: 5, Src: 2, Dst: -1},
	}
	assert.Equal(t, want, s.Steps())
}

func TestStepsReturnsCopy(t *testing.T) {
	t.Parallel()

	g := New()
	parallel(t, g, effect.NewGain(1, 0), effect.NewGain(1, 0))
	s := compile(t, g)

	steps := s.Steps()
	steps[1].Dsts[0] = 99
	steps[0].Op = OpClear
	assert.Equal(t, []int{1, 2}, s.Steps()[1].Dsts)
	assert.Equal(t, OpInput, s.Steps()[0].Op)
}

func TestLatencyCompensation(t *testing.T) {
	t.Parallel()

	g := New(core.WithBlockSize(64))
	ids := parallel(t, g, newLatency(t, 10), newLatency(t, 30))
	s := compile(t, g)

	assert.Equal(t, 30, s.TotalLatency())

	var delays []Step
	for _, st := range s.Steps() {
		if st.Op == OpDelay {
			delays = append(delays, st)
		}
	}
	require.Len(t, delays, 1)
	assert.Equal(t, 20, delays[0].Delay)
	// The compensation sits on the slot carrying the 10-sample branch.
	for _, st := range s.Steps() {
		if st.Op == OpEffect && st.Node == ids[0] {
			assert.Equal(t, st.Dst, delays[0].Dst)
		}
	}

	l, r := render(s, testutil.Impulse(256, 0))
	for _, out := range [][]float64{l, r} {
		assert.Equal(t, 30, testutil.PeakIndex(out))
		assert.Equal(t, 2.0, out[30])
		out[30] = 0
		assert.Zero(t, vecmath.MaxAbs(out), "only one aligned peak")
	}
}

func TestNestedLatencyCompensation(t *testing.T) {
	t.Parallel()

	// input -> split -> [lat 5 -> lat 7] + [lat 3] -> merge -> lat 4 -> output
	g := New(core.WithBlockSize(32))
	in := g.AddInput()
	split := g.AddSplit()
	a := g.AddEffect(newLatency(t, 5))
	b := g.AddEffect(newLatency(t, 7))
	c := g.AddEffect(newLatency(t, 3))
	merge := g.AddMerge()
	d := g.AddEffect(newLatency(t, 4))
	out := g.AddOutput()
	connect(t, g, in, split, split, a, a, b, split, c, b, merge, c, merge, merge, d, d, out)

	s := compile(t, g)
	assert.Equal(t, 16, s.TotalLatency())

	l, _ := render(s, testutil.Impulse(128, 3))
	assert.Equal(t, 19, testutil.PeakIndex(l))
	assert.Equal(t, 2.0, l[19])
}

func TestCompileDeterministic(t *testing.T) {
	t.Parallel()

	build := func() *Snapshot {
		g := New()
		in := g.AddInput()
		split := g.AddSplit()
		merge := g.AddMerge()
		out := g.AddOutput()
		var branches []NodeID
		for i := range 4 {
			var fx effect.Effect = effect.NewGain(1, 0)
			if i%2 == 1 {
				fx = newLatency(t, i*3)
			}
			branches = append(branches, g.AddEffect(fx))
		}
		connect(t, g, in, split)
		for _, b := range branches {
			connect(t, g, split, b, b, merge)
		}
		connect(t, g, merge, out)
		return compile(t, g)
	}

	first := build()
	for range 5 {
		next := build()
		assert.Equal(t, first.Steps(), next.Steps())
		assert.Equal(t, first.BufferCount(), next.BufferCount())
		assert.Equal(t, first.String(), next.String())
	}
}

func TestCompileTwiceFromOneGraph(t *testing.T) {
	t.Parallel()

	gain := effect.NewGain(1, 0)
	p := &recorder{}
	g := New()
	ids := chain(t, g, gain, p)
	a := compile(t, g)
	require.NoError(t, g.SetBypassed(ids[0], true))
	gain.SetParam(effect.GainParamGain, 0.5)
	b := compile(t, g)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Steps(), b.Steps())

	fa, ok := a.Effect(ids[0])
	require.True(t, ok)
	assert.Same(t, gain, fa, "the first snapshot binds the instance itself")
	fb, ok := b.Effect(ids[0])
	require.True(t, ok)
	assert.NotSame(t, fa, fb, "later snapshots bind clones")
	assert.Equal(t, 0.5, fb.Param(effect.GainParamGain))

	info, err := g.Node(ids[0])
	require.NoError(t, err)
	assert.Same(t, fb, info.Effect, "the graph hands out the latest instance")
	assert.True(t, info.Bypassed)

	pa, _ := a.Effect(ids[1])
	pb, _ := b.Effect(ids[1])
	assert.Same(t, pa, pb, "effects without Clone stay shared")

	_, ok = a.Effect(0)
	assert.False(t, ok, "input node has no effect")
}

func TestSnapshotString(t *testing.T) {
	t.Parallel()

	g := New()
	ids := parallel(t, g, newLatency(t, 4), effect.NewGain(1, 0))
	require.NoError(t, g.SetName(ids[0], "lookahead"))
	s := compile(t, g)

	listing := s.String()
	assert.True(t, strings.HasPrefix(listing, "schedule: 9 steps, 3 buffers, latency 4\n"), listing)
	assert.Contains(t, listing, "effect lookahead b1 -> b0")
	assert.Contains(t, listing, "copy split#1 b0 -> b1 b2")
	assert.Contains(t, listing, "delay 4 b1")
	assert.Contains(t, listing, "output b2")
}

func TestSnapshotAccessors(t *testing.T) {
	t.Parallel()

	g := New(core.WithSampleRate(96000), core.WithBlockSize(512))
	chain(t, g, effect.NewInvert())
	s := compile(t, g)

	assert.Equal(t, 96000.0, s.SampleRate())
	assert.Equal(t, 512, s.BlockSize())
}
