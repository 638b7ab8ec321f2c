package fxgraph

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effect"
	"github.com/cwbudde/algo-fxgraph/dsp/ramp"
)

// State is the swap state of an Engine.
type State int32

const (
	// StateActive runs one snapshot.
	StateActive State = iota
	// StateCrossfading runs the outgoing and the incoming snapshot and
	// blends their outputs.
	StateCrossfading
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCrossfading:
		return "crossfading"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Engine hands compiled snapshots from a control goroutine to an audio
// goroutine.
//
// Publish, Reclaim, SetParam and Close belong to the control goroutine;
// Process belongs to the audio goroutine. The two only share the snapshot
// pointers, the state word and the retire queue. Process never allocates,
// locks or logs.
//
// A snapshot published while a swap crossfade is running waits until the
// crossfade completes; when several are published in the meantime only the
// latest one is picked up.
type Engine struct {
	id      xid.ID
	cfg     core.ProcessorConfig
	log     logrus.FieldLogger
	retired chan *Snapshot

	published atomic.Pointer[Snapshot]
	// running and outgoing mirror active and fading for the control side.
	running   atomic.Pointer[Snapshot]
	outgoing  atomic.Pointer[Snapshot]
	state     atomic.Int32
	closed    atomic.Bool

	// audio goroutine
	active *Snapshot
	fading *Snapshot
	fade   ramp.Ramp
	gains  []float64
	diff   []float64
}

// NewEngine returns an engine with nothing published. Process outputs
// silence until the first Publish.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	cfg := applyEngineOptions(opts)
	if err := cfg.processor.Validate(); err != nil {
		return nil, fmt.Errorf("fxgraph: new engine: %w: %w", configError(err), err)
	}
	id := xid.New()
	e := &Engine{
		id:      id,
		cfg:     cfg.processor,
		log:     cfg.logger.WithField("engine", id.String()),
		retired: make(chan *Snapshot, cfg.retireQueue),
		fade:    ramp.New(cfg.processor.RampSamples(), 1),
		gains:   make([]float64, cfg.processor.BlockSize),
		diff:    make([]float64, cfg.processor.BlockSize),
	}
	e.log.WithFields(logrus.Fields{
		"blockSize":  e.cfg.BlockSize,
		"sampleRate": e.cfg.SampleRate,
		"ramp":       e.cfg.RampSamples(),
	}).Debug("engine created")
	return e, nil
}

// ID returns the engine's unique id.
func (e *Engine) ID() string {
	return e.id.String()
}

// Config returns the processing configuration snapshots must match.
func (e *Engine) Config() core.ProcessorConfig {
	return e.cfg
}

// Publish makes s the schedule the audio goroutine switches to. The
// switch happens at the next block boundary with a crossfade, or after the
// running crossfade finishes. Nodes s shares with the running snapshot's
// graph continue from their current state.
func (e *Engine) Publish(s *Snapshot) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if s == nil {
		return ErrNilSnapshot
	}
	if s.cfg.BlockSize != e.cfg.BlockSize || s.cfg.SampleRate != e.cfg.SampleRate {
		return fmt.Errorf("fxgraph: publish: %w: snapshot %d@%g, engine %d@%g",
			ErrConfigMismatch, s.cfg.BlockSize, s.cfg.SampleRate, e.cfg.BlockSize, e.cfg.SampleRate)
	}
	for _, live := range e.live() {
		if live == nil || live == s {
			continue
		}
		if id, ok := s.sharedEffect(live); ok {
			return nodeError("publish", id, ErrSharedEffect)
		}
	}
	if !s.claimed.CompareAndSwap(false, true) {
		return fmt.Errorf("fxgraph: publish: %w", ErrSnapshotInUse)
	}

	prev := e.published.Swap(s)
	e.log.WithFields(logrus.Fields{
		"steps":    s.StepCount(),
		"buffers":  s.BufferCount(),
		"latency":  s.TotalLatency(),
		"replaced": prev != nil,
	}).Info("snapshot published")
	return nil
}

// Current returns the most recently published snapshot, or nil.
func (e *Engine) Current() *Snapshot {
	return e.published.Load()
}

// State reports whether a swap crossfade is running.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Latency returns the total latency of the published snapshot.
func (e *Engine) Latency() int {
	if s := e.published.Load(); s != nil {
		return s.TotalLatency()
	}
	return 0
}

// SetParam sets parameter i of the effect at node id in the published
// snapshot. The value reaches the audio goroutine through the effect's
// lock-free parameter storage.
func (e *Engine) SetParam(id NodeID, i int, v float64) error {
	s := e.published.Load()
	if s == nil {
		return nodeError("set param", id, ErrUnknownNode)
	}
	fx, ok := s.Effect(id)
	if !ok {
		return nodeError("set param", id, ErrUnknownNode)
	}
	if i < 0 || i >= fx.ParamCount() {
		return fmt.Errorf("fxgraph: set param node %d: index %d out of range [0,%d)", id, i, fx.ParamCount())
	}
	fx.SetParam(i, v)
	return nil
}

// Effect returns the effect at node id in the published snapshot.
func (e *Engine) Effect(id NodeID) (effect.Effect, bool) {
	s := e.published.Load()
	if s == nil {
		return nil, false
	}
	return s.Effect(id)
}

// Reclaim drains snapshots the audio goroutine has retired and returns how
// many it found. A reclaimed snapshot is reset and may be published again.
func (e *Engine) Reclaim() int {
	n := 0
	for {
		select {
		case s := <-e.retired:
			live := e.live()
			s.reset(live[:]...)
			s.claimed.Store(false)
			n++
			e.log.WithFields(logrus.Fields{
				"steps":   s.StepCount(),
				"buffers": s.BufferCount(),
			}).Debug("snapshot reclaimed")
		default:
			return n
		}
	}
}

// Close stops accepting snapshots and drains the retire queue. The audio
// goroutine may keep calling Process with the last published snapshot.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	n := e.Reclaim()
	e.log.WithField("reclaimed", n).Debug("engine closed")
	return nil
}

// Process renders one callback's worth of audio. Any length is accepted
// and handled in chunks of the block size; the output may alias the
// input.
func (e *Engine) Process(inL, inR, outL, outR []float64) {
	n := min(len(inL), len(inR), len(outL), len(outR))
	bs := e.cfg.BlockSize
	for off := 0; off < n; off += bs {
		end := min(off+bs, n)
		e.processBlock(
			buffer.FromSlices(inL[off:end], inR[off:end]),
			buffer.FromSlices(outL[off:end], outR[off:end]),
		)
	}
}

func (e *Engine) processBlock(in, out buffer.Stereo) {
	if e.fading == nil {
		e.pickUp()
	}
	if e.active == nil {
		out.Zero()
		return
	}
	if e.fading == nil {
		e.active.processBlock(in, out)
		return
	}

	// The outgoing schedule runs first: it writes to its own scratch and
	// leaves in intact for the incoming one when out aliases in.
	n := in.Frames()
	old := e.fading.fadeOut.Head(n)
	e.fading.processBlock(in, old)
	e.active.processBlock(in, out)

	gains := e.gains[:n]
	e.fade.Fill(gains)
	ramp.Blend(out.L, old.L, out.L, gains, e.diff[:n])
	ramp.Blend(out.R, old.R, out.R, gains, e.diff[:n])

	if e.fade.Settled() {
		done := e.fading
		e.fading = nil
		e.outgoing.Store(nil)
		e.state.Store(int32(StateActive))
		e.retire(done)
	}
}

// pickUp switches to a newly published snapshot, starting a crossfade when
// one was already running.
func (e *Engine) pickUp() {
	next := e.published.Load()
	if next == nil || next == e.active {
		return
	}
	prev := e.active
	next.adoptState(prev)
	e.active = next
	e.running.Store(next)
	if prev == nil {
		return
	}
	if e.cfg.RampSamples() == 0 {
		e.retire(prev)
		return
	}
	e.fading = prev
	e.outgoing.Store(prev)
	e.fade.Jump(0)
	e.fade.SetTarget(1)
	e.state.Store(int32(StateCrossfading))
}

// live returns the snapshots the audio goroutine may be running or about to
// run.
func (e *Engine) live() [3]*Snapshot {
	return [...]*Snapshot{e.published.Load(), e.running.Load(), e.outgoing.Load()}
}

func (e *Engine) retire(s *Snapshot) {
	select {
	case e.retired <- s:
	default:
	}
}
