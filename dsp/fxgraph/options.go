package fxgraph

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/internal/log"
)

// DefaultRetireQueue is the number of retired snapshots an engine buffers
// until Reclaim drains them.
const DefaultRetireQueue = 4

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	processor   core.ProcessorConfig
	logger      logrus.FieldLogger
	retireQueue int
}

// WithProcessorConfig sets the block size, sample rate and swap ramp the
// engine runs with. Published snapshots must match it.
func WithProcessorConfig(cfg core.ProcessorConfig) EngineOption {
	return func(c *engineConfig) {
		c.processor = cfg
	}
}

// WithLogger sets the logger used on the control goroutine.
func WithLogger(logger logrus.FieldLogger) EngineOption {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetireQueue sets how many retired snapshots are buffered for Reclaim.
// Snapshots retired while the queue is full are left to the garbage
// collector.
func WithRetireQueue(n int) EngineOption {
	return func(c *engineConfig) {
		if n >= 0 {
			c.retireQueue = n
		}
	}
}

func applyEngineOptions(opts []EngineOption) engineConfig {
	cfg := engineConfig{
		processor:   core.DefaultProcessorConfig(),
		logger:      log.GetLogger(),
		retireQueue: DefaultRetireQueue,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
