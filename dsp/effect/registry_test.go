package effect

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	dummy := func(_ core.ProcessorConfig, _ Args) (Effect, error) { return NewInvert(), nil }

	t.Run("registers and looks up factory", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		assert.NoError(t, r.Register("invert", dummy))
		assert.True(t, r.Lookup("invert") != nil)
	})

	t.Run("rejects empty effect type and nil factory", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		assert.Error(t, r.Register("", dummy))
		assert.Error(t, r.Register("x", nil))
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		_ = r.Register("x", dummy)
		err := r.Register("x", dummy)
		assert.True(t, errors.Is(err, errDuplicateEffect))
		assert.Panics(t, func() { r.MustRegister("x", dummy) })
	})
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	assert.Equal(t, []string{"drive", "gain", "invert", "latency"}, r.Names())

	cfg := core.DefaultProcessorConfig()

	fx, err := r.New("latency", cfg, Args{"samples": 32})
	assert.NoError(t, err)
	assert.Equal(t, 32, fx.LatencySamples())

	fx, err = r.New("drive", cfg, Args{"drive": 8, "mix": 0.5})
	assert.NoError(t, err)
	assert.Equal(t, 8.0, fx.Param(DriveParamDrive))
	assert.Equal(t, 0.5, fx.Param(DriveParamMix))

	fx, err = r.New("gain", cfg, Args{"gain": 0.25})
	assert.NoError(t, err)
	assert.Equal(t, 0.25, fx.Param(GainParamGain))

	_, err = r.New("nope", cfg, nil)
	assert.True(t, errors.Is(err, ErrUnknownEffect))

	fx, err = r.New("gain", cfg, Args{"db": -6})
	assert.NoError(t, err)
	assert.True(t, math.Abs(fx.Param(GainParamGain)-0.501187) < 1e-6, "-6 dB is about half amplitude")

	_, err = r.New("latency", cfg, Args{"samples": -4})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = r.New("latency", cfg, Args{"samples": 1e12})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	limit := int(MaxLatency.Seconds() * cfg.SampleRate)
	fx, err = r.New("latency", cfg, Args{"samples": float64(limit)})
	assert.NoError(t, err)
	assert.Equal(t, limit, fx.LatencySamples())
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	args, err := ParseArgs("gain=0.5, drive = 3")
	assert.NoError(t, err)
	assert.Equal(t, Args{"gain": 0.5, "drive": 3}, args)
	assert.Equal(t, 1.0, args.Get("missing", 1))

	args, err = ParseArgs("  ")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(args))

	_, err = ParseArgs("gain")
	assert.Error(t, err)
	_, err = ParseArgs("gain=loud")
	assert.Error(t, err)
}
