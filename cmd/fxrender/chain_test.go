package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/dsp/fxgraph"
)

func TestParseChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []stage
		wantErr bool
	}{
		{
			name: "single",
			in:   "invert",
			want: []stage{{typ: "invert", args: effect.Args{}}},
		},
		{
			name: "args and spacing",
			in:   " Gain : gain=0.5 ; drive:drive=4, mix=0.5 ;",
			want: []stage{
				{typ: "gain", args: effect.Args{"gain": 0.5}},
				{typ: "drive", args: effect.Args{"drive": 4, "mix": 0.5}},
			},
		},
		{name: "empty", in: " ; ", wantErr: true},
		{name: "missing type", in: "gain;:x=1", wantErr: true},
		{name: "bad value", in: "gain:gain=loud", wantErr: true},
		{name: "bad pair", in: "gain:gain", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseChain(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIndices(t *testing.T) {
	t.Parallel()

	got, err := parseIndices("0, 2,", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	got, err = parseIndices("", 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseIndices("3", 3)
	assert.Error(t, err)
	_, err = parseIndices("x", 3)
	assert.Error(t, err)
}

func TestBuildGraph(t *testing.T) {
	t.Parallel()

	cfg := core.DefaultProcessorConfig()
	reg := effect.DefaultRegistry()
	stages, err := parseChain("latency:samples=16;gain:gain=2;invert")
	require.NoError(t, err)

	t.Run("series", func(t *testing.T) {
		t.Parallel()

		g, ids, err := buildGraph(cfg, reg, stages, false)
		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.Equal(t, 5, g.NodeCount())
		assert.Equal(t, 4, g.EdgeCount())

		s, err := g.Compile()
		require.NoError(t, err)
		assert.Equal(t, 16, s.TotalLatency())
		assert.Contains(t, s.String(), "effect gain#1")
	})

	t.Run("parallel", func(t *testing.T) {
		t.Parallel()

		g, ids, err := buildGraph(cfg, reg, stages, true)
		require.NoError(t, err)
		assert.Equal(t, 7, g.NodeCount())
		assert.Equal(t, 8, g.EdgeCount())

		s, err := g.Compile()
		require.NoError(t, err)
		assert.Equal(t, 16, s.TotalLatency())

		info, err := g.Node(ids[2])
		require.NoError(t, err)
		assert.Equal(t, fxgraph.KindEffect, info.Kind)
		assert.Equal(t, "invert#2", info.Name)
	})

	t.Run("unknown effect", func(t *testing.T) {
		t.Parallel()

		_, _, err := buildGraph(cfg, reg, []stage{{typ: "reverb"}}, false)
		assert.True(t, errors.Is(err, effect.ErrUnknownEffect))
	})

	t.Run("too many branches", func(t *testing.T) {
		t.Parallel()

		wide := make([]stage, fxgraph.MaxFanout+1)
		for i := range wide {
			wide[i] = stage{typ: "invert"}
		}
		_, _, err := buildGraph(cfg, reg, wide, true)
		assert.True(t, errors.Is(err, fxgraph.ErrFanoutLimitExceeded))
	})
}

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	o, err := buildOptions("gain;invert", "1", true, 128, 512, 0, true, ".fx")
	require.NoError(t, err)
	assert.Len(t, o.stages, 2)
	assert.Equal(t, []int{1}, o.bypass)
	assert.True(t, o.parallel)

	_, err = buildOptions("", "", false, 128, 512, 0, true, ".fx")
	assert.Error(t, err)
	_, err = buildOptions("gain", "4", false, 128, 512, 0, true, ".fx")
	assert.Error(t, err)
	_, err = buildOptions("gain", "", false, 0, 512, 0, true, ".fx")
	assert.Error(t, err)
	_, err = buildOptions("gain", "", false, 128, 512, 0, true, "")
	assert.Error(t, err)
}
