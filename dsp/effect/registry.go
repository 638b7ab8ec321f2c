package effect

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

// ErrUnknownEffect is returned when a name has no registered factory.
var ErrUnknownEffect = errors.New("unknown effect type")

// ErrInvalidArgument is returned by factories for out-of-range arguments.
var ErrInvalidArgument = errors.New("invalid effect argument")

// MaxLatency bounds the "latency" effect's delay.
const MaxLatency = 10 * time.Second

var errDuplicateEffect = errors.New("duplicate effect type")

// Args holds numeric construction arguments keyed by name.
type Args map[string]float64

// Get safely extracts a numeric argument, returning def if missing or invalid.
func (a Args) Get(key string, def float64) float64 {
	v, ok := a[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Factory builds one effect instance.
type Factory func(cfg core.ProcessorConfig, args Args) (Effect, error)

// Registry maps effect type names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given effect type.
func (r *Registry) Register(effectType string, factory Factory) error {
	if effectType == "" {
		return errors.New("empty effect type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[effectType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, effectType)
	}

	r.factories[effectType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(effectType string, factory Factory) {
	err := r.Register(effectType, factory)
	if err != nil {
		panic("effect registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(effectType string) Factory {
	return r.factories[effectType]
}

// Names returns the registered effect types in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds an effect of the given type. Arguments whose names match a
// parameter of the new effect are applied with SetParam after construction.
func (r *Registry) New(effectType string, cfg core.ProcessorConfig, args Args) (Effect, error) {
	factory := r.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, effectType)
	}

	fx, err := factory(cfg, args)
	if err != nil {
		return nil, fmt.Errorf("effect: create %q: %w", effectType, err)
	}

	for name, v := range args {
		if i := ParamIndex(fx, name); i >= 0 {
			fx.SetParam(i, v)
		}
	}

	return fx, nil
}

// DefaultRegistry returns a registry holding the reference effects:
// "gain" (linear "gain" or "db"), "drive", "invert" and "latency"
// (argument "samples", at most MaxLatency long).
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("gain", func(cfg core.ProcessorConfig, args Args) (Effect, error) {
		gain := args.Get("gain", 1)
		if _, ok := args["db"]; ok {
			gain = core.DBToLinear(args.Get("db", 0))
		}
		return NewGain(gain, smoothingSamples(cfg)), nil
	})
	r.MustRegister("drive", func(_ core.ProcessorConfig, args Args) (Effect, error) {
		return NewDrive(args.Get("drive", 4), args.Get("mix", 1)), nil
	})
	r.MustRegister("invert", func(_ core.ProcessorConfig, _ Args) (Effect, error) {
		return NewInvert(), nil
	})
	r.MustRegister("latency", func(cfg core.ProcessorConfig, args Args) (Effect, error) {
		samples := args.Get("samples", 0)
		limit := math.Round(MaxLatency.Seconds() * cfg.SampleRate)
		if samples < 0 || samples > limit {
			return nil, fmt.Errorf("%w: samples=%g outside [0, %g]", ErrInvalidArgument, samples, limit)
		}
		fx, err := NewLatency(int(samples))
		if err != nil {
			return nil, err
		}
		return fx, nil
	})

	return r
}

// ParseArgs parses "k=v,k=v" into Args.
func ParseArgs(s string) (Args, error) {
	args := Args{}
	if strings.TrimSpace(s) == "" {
		return args, nil
	}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid effect argument %q: want key=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", strings.TrimSpace(k), err)
		}
		args[strings.TrimSpace(k)] = f
	}
	return args, nil
}

// smoothingSamples is the parameter smoothing constant used by factories:
// a quarter of the configured ramp.
func smoothingSamples(cfg core.ProcessorConfig) int {
	return cfg.RampSamples() / 4
}
