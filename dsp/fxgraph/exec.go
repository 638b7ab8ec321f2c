package fxgraph

import (
	"github.com/cwbudde/algo-fxgraph/dsp/buffer"
	"github.com/cwbudde/algo-fxgraph/dsp/ramp"
)

// Process runs the schedule over inL/inR and writes outL/outR. Inputs longer
// than the block size are processed block by block; the output may alias
// the input. Process must only be called from one goroutine at a time and
// not while the snapshot is published to an Engine.
func (s *Snapshot) Process(inL, inR, outL, outR []float64) {
	n := min(len(inL), len(inR), len(outL), len(outR))
	bs := s.cfg.BlockSize
	for off := 0; off < n; off += bs {
		end := min(off+bs, n)
		s.processBlock(
			buffer.FromSlices(inL[off:end], inR[off:end]),
			buffer.FromSlices(outL[off:end], outR[off:end]),
		)
	}
}

// processBlock interprets the instruction list once. in and out hold at most
// BlockSize frames.
func (s *Snapshot) processBlock(in, out buffer.Stereo) {
	n := in.Frames()
	for i := range s.steps {
		st := &s.steps[i]
		switch st.Op {
		case OpInput:
			s.slot(st.Dst, n).CopyFrom(in)
		case OpEffect:
			s.runEffect(&s.effects[st.arg], s.slot(st.Src, n), s.slot(st.Dst, n))
		case OpCopy:
			src := s.slot(st.Src, n)
			for _, d := range st.Dsts {
				s.slot(d, n).CopyFrom(src)
			}
		case OpDelay:
			s.lines[st.arg].ProcessInPlace(s.slot(st.Dst, n))
		case OpClear:
			s.slot(st.Dst, n).Zero()
		case OpAccumulate:
			s.slot(st.Dst, n).Add(s.slot(st.Src, n))
		case OpOutput:
			out.CopyFrom(s.slot(st.Src, n))
		}
	}
}

func (s *Snapshot) slot(i, n int) buffer.Stereo {
	return s.pool.Slot(i).Head(n)
}

// runEffect processes one effect step. The wet signal is blended with the
// dry one while the bypass coefficient moves; a settled coefficient of 1
// passes the wet signal through untouched.
func (s *Snapshot) runEffect(st *effectStep, src, dst buffer.Stereo) {
	target := st.bypass.initial()
	if st.mix.Target() != target {
		st.mix.SetTarget(target)
	}
	blending := !st.mix.Settled() || st.mix.Value() != 1

	n := src.Frames()
	dry := src
	if st.dryDelay != nil || (st.dryCopy && blending) {
		dry = s.dry.Head(n)
		dry.CopyFrom(src)
		if st.dryDelay != nil {
			st.dryDelay.ProcessInPlace(dry)
		}
	}

	if st.stereo != nil {
		st.stereo.ProcessStereo(src.L, src.R, dst.L, dst.R)
	} else {
		st.fx.ProcessBlock(src.L, dst.L)
		st.fx.ProcessBlock(src.R, dst.R)
	}

	if !blending {
		return
	}
	if st.mix.Settled() && st.mix.Value() == 0 {
		dst.CopyFrom(dry)
		return
	}
	gains := s.gains[:n]
	st.mix.Fill(gains)
	ramp.Blend(dst.L, dry.L, dst.L, gains, s.diff[:n])
	ramp.Blend(dst.R, dry.R, dst.R, gains, s.diff[:n])
}
