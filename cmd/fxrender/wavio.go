package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/multierr"
)

var (
	errInvalidWav         = errors.New("not a valid wav file")
	errUnsupportedFormat  = errors.New("only integer PCM is supported")
	errUnsupportedDepth   = errors.New("only 16, 24 and 32 bit depth is supported")
	errUnsupportedChannel = errors.New("only mono and stereo files are supported")
)

// wavReader streams a PCM wav file as float stereo frames.
type wavReader struct {
	file    *os.File
	decoder *wav.Decoder
	buf     *audio.IntBuffer
	scale   float64

	SampleRate  int
	BitDepth    int
	NumChannels int
}

func openWav(path string, frames int) (*wavReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := newWavReader(file, frames)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("%s: %w", path, err), file.Close())
	}
	return r, nil
}

func newWavReader(file *os.File, frames int) (*wavReader, error) {
	d := wav.NewDecoder(file)
	if !d.IsValidFile() {
		return nil, errInvalidWav
	}
	if d.WavAudioFormat != 1 {
		return nil, errUnsupportedFormat
	}
	depth := int(d.BitDepth)
	switch depth {
	case 16, 24, 32:
	default:
		return nil, errUnsupportedDepth
	}
	ch := int(d.NumChans)
	if ch != 1 && ch != 2 {
		return nil, errUnsupportedChannel
	}
	return &wavReader{
		file:    file,
		decoder: d,
		buf: &audio.IntBuffer{
			Format:         d.Format(),
			Data:           make([]int, frames*ch),
			SourceBitDepth: depth,
		},
		scale:       fullScale(depth),
		SampleRate:  int(d.SampleRate),
		BitDepth:    depth,
		NumChannels: ch,
	}, nil
}

// Read fills l and r with up to len(l) frames and returns the frame count.
// Mono files are duplicated onto both channels. 0 frames means end of file.
func (r *wavReader) Read(l, rr []float64) (int, error) {
	n, err := r.decoder.PCMBuffer(r.buf)
	if err != nil {
		return 0, err
	}
	frames := min(n/r.NumChannels, len(l), len(rr))
	data := r.buf.Data
	for i := range frames {
		if r.NumChannels == 2 {
			l[i] = float64(data[2*i]) / r.scale
			rr[i] = float64(data[2*i+1]) / r.scale
		} else {
			l[i] = float64(data[i]) / r.scale
			rr[i] = l[i]
		}
	}
	return frames, nil
}

func (r *wavReader) Close() error {
	return r.file.Close()
}

// wavWriter writes float stereo frames as integer PCM.
type wavWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
	scale   float64
	ch      int
}

func createWav(path string, sampleRate, bitDepth, numChannels int) (*wavWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &wavWriter{
		file:    file,
		encoder: wav.NewEncoder(file, sampleRate, bitDepth, numChannels, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		scale: fullScale(bitDepth),
		ch:    numChannels,
	}, nil
}

// Write quantizes l and r, clipping to full scale. Mono output keeps l.
func (w *wavWriter) Write(l, r []float64) error {
	n := min(len(l), len(r))
	data := w.buf.Data[:0]
	for i := range n {
		data = append(data, w.quantize(l[i]))
		if w.ch == 2 {
			data = append(data, w.quantize(r[i]))
		}
	}
	w.buf.Data = data
	return w.encoder.Write(w.buf)
}

func (w *wavWriter) quantize(x float64) int {
	v := math.Round(x * w.scale)
	return int(math.Max(-w.scale, math.Min(w.scale-1, v)))
}

// Close finalizes the header and closes the file.
func (w *wavWriter) Close() error {
	return multierr.Append(w.encoder.Close(), w.file.Close())
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}
