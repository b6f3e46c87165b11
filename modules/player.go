package modules

import (
	"errors"
	"fmt"
	"io"
)

// player pulls decoded frames from the Decoder collaborator, routing them
// through the Resampler collaborator when the stream's native rate differs
// from the engine's. End of stream and decode failures silence this module
// only; the rest of the graph keeps rendering.
type player struct {
	deps Deps

	path    string
	dec     Decoder
	pending []float64
	eof     bool
	failed  bool
}

func (p *player) Process(ctx *Context) error {
	out := ctx.Out[0]
	path := ctx.ParamText("path")
	loop := ctx.Param("loop") != 0

	if path != p.path {
		p.reset()
		p.path = path
	}
	if path == "" || p.failed || (p.eof && !loop) {
		out.Zero()
		return nil
	}
	if p.eof {
		// looping: start the stream over
		p.reset()
		p.path = path
	}

	filled := 0
	for filled < len(out) {
		if len(p.pending) == 0 {
			if err := p.fill(); err != nil {
				if errors.Is(err, io.EOF) {
					// not a failure; looping picks the stream up
					// from the start next block
					p.eof = true
					break
				}
				p.reset()
				p.failed = true
				p.path = path
				for i := filled; i < len(out); i++ {
					out[i] = 0
				}
				return fmt.Errorf("player: %w", err)
			}
		}
		n := copy(out[filled:], p.pending)
		p.pending = p.pending[n:]
		filled += n
	}
	for i := filled; i < len(out); i++ {
		out[i] = 0
	}
	return nil
}

// fill decodes the next frame buffer into pending, resampling when the
// stream rate differs from the engine rate.
func (p *player) fill() error {
	if p.dec == nil {
		if p.deps.Open == nil {
			return fmt.Errorf("no decoder for %q: %w", p.path, ErrUnsupportedFormat)
		}
		dec, err := p.deps.Open(p.path)
		if err != nil {
			return err
		}
		p.dec = dec
	}
	fb, err := p.dec.DecodeNext()
	if err != nil {
		return err
	}
	data := fb.Data
	if fb.SampleRate != p.deps.SampleRate && p.deps.Resample != nil {
		data, err = p.deps.Resample.Resample(data, fb.SampleRate, p.deps.SampleRate)
		if err != nil {
			return err
		}
	}
	// a decoder yielding no frames and no error would spin the fill loop
	if len(data) == 0 {
		return io.EOF
	}
	p.pending = data
	return nil
}

// reset drops the decoder and buffered frames.
func (p *player) reset() {
	if p.dec != nil {
		_ = p.dec.Close()
	}
	p.dec = nil
	p.pending = nil
	p.eof = false
	p.failed = false
	p.path = ""
}
