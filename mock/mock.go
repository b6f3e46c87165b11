// Package mock provides scripted collaborators for tests.
package mock

import (
	"io"
	"math"

	"github.com/pipelined/rack/modules"
)

const defaultChunkSize = 64

// Decoder is a scripted modules.Decoder. It serves Frames in chunks and
// then returns io.EOF, or Err if one is set.
type Decoder struct {
	Frames    []float64
	Rate      int
	ChunkSize int
	Err       error

	pos    int
	Closed bool
}

// DecodeNext returns the next chunk of scripted frames.
func (d *Decoder) DecodeNext() (modules.FrameBuffer, error) {
	if d.pos >= len(d.Frames) {
		if d.Err != nil {
			return modules.FrameBuffer{}, d.Err
		}
		return modules.FrameBuffer{}, io.EOF
	}
	chunk := d.ChunkSize
	if chunk == 0 {
		chunk = defaultChunkSize
	}
	end := d.pos + chunk
	if end > len(d.Frames) {
		end = len(d.Frames)
	}
	fb := modules.FrameBuffer{
		Data:       append([]float64(nil), d.Frames[d.pos:end]...),
		SampleRate: d.Rate,
	}
	d.pos = end
	return fb, nil
}

// Close marks the decoder closed.
func (d *Decoder) Close() error {
	d.Closed = true
	return nil
}

// Opener returns a modules.Opener that serves a fresh scripted decoder
// for every path and counts opens.
func Opener(rate int, frames []float64, err error) (modules.Opener, *int) {
	opens := new(int)
	return func(string) (modules.Decoder, error) {
		*opens++
		return &Decoder{Frames: frames, Rate: rate, Err: err}, nil
	}, opens
}

// Filter is a modules.FilterMath double: it multiplies samples by Gain
// and records configuration calls.
type Filter struct {
	Gain       float64
	Configured int
}

// Maker returns a modules.FilterMaker producing filters with the
// provided gain.
func Maker(gain float64) modules.FilterMaker {
	return func() modules.FilterMath {
		return &Filter{Gain: gain}
	}
}

// Configure records the call.
func (f *Filter) Configure(typ int, cutoff, q float64, sampleRate int) error {
	f.Configured++
	return nil
}

// Apply scales one sample.
func (f *Filter) Apply(sample float64) float64 {
	return sample * f.Gain
}

// Reset does nothing.
func (f *Filter) Reset() {}

// Resampler is a modules.Resampler double using nearest-neighbor
// conversion, good enough to assert lengths and wiring.
type Resampler struct {
	Calls int
}

// Resample converts buf between rates by picking nearest frames.
func (r *Resampler) Resample(buf []float64, from, to int) ([]float64, error) {
	r.Calls++
	if from == to {
		return buf, nil
	}
	out := make([]float64, int(math.Round(float64(len(buf))*float64(to)/float64(from))))
	for i := range out {
		src := i * from / to
		if src >= len(buf) {
			src = len(buf) - 1
		}
		out[i] = buf[src]
	}
	return out, nil
}
