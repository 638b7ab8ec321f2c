package core

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config errors returned by ProcessorConfig.Validate.
var (
	ErrInvalidSampleRate = errors.New("sample rate must be > 0")
	ErrInvalidBlockSize  = errors.New("block size must be > 0")
	ErrInvalidRampTime   = errors.New("ramp time must be >= 0")
)

// ProcessorConfig defines common real-time processing settings.
//
// BlockSize is the fixed number of frames handed to a compiled schedule per
// call. RampTime is the length of every click-avoiding crossfade (bypass
// toggles and schedule swaps).
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	RampTime   time.Duration
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultRampTime is the crossfade length used when none is configured.
const DefaultRampTime = 5 * time.Millisecond

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  256,
		RampTime:   DefaultRampTime,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithRampTime sets the crossfade ramp length. Zero disables ramping; negative
// values are ignored.
func WithRampTime(d time.Duration) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if d >= 0 {
			cfg.RampTime = d
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// RampSamples returns the ramp length in whole samples, at least 1 when a
// ramp is configured at all.
func (c ProcessorConfig) RampSamples() int {
	if c.RampTime <= 0 {
		return 0
	}
	n := int(math.Round(c.RampTime.Seconds() * c.SampleRate))
	if n < 1 {
		n = 1
	}
	return n
}

// Validate reports settings no processor can run with. The returned error
// wraps one of the Err* config errors.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.BlockSize)
	}
	if c.RampTime < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRampTime, c.RampTime)
	}
	return nil
}
