// Package modules implements the processing behavior of every module
// kind. The kind set is closed: NewState dispatches on the kind tag
// exhaustively, which keeps scheduling, rendering and persistence free of
// open subclassing.
//
// Every kind implements the same capability: given its parameters, its
// private state and one input block per input port, produce one output
// block per output port and update the private state.
package modules

import (
	"errors"

	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/signal"
)

// Decode errors reported by Decoder collaborators. io.EOF signals the end
// of the stream and is not a failure.
var (
	// ErrUnsupportedFormat is returned for streams no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCorruptStream is returned for undecodable stream content.
	ErrCorruptStream = errors.New("corrupt stream")
)

type (
	// FrameBuffer is a batch of decoded mono frames at their native rate.
	FrameBuffer struct {
		Data       []float64
		SampleRate int
	}

	// Decoder is the external decoding collaborator consumed by the
	// Player kind. DecodeNext returns io.EOF at the end of the stream.
	Decoder interface {
		DecodeNext() (FrameBuffer, error)
		Close() error
	}

	// Opener constructs a decoder for a source path.
	Opener func(path string) (Decoder, error)

	// Resampler is the external rate-conversion collaborator. It converts
	// buf from one sample rate to another.
	Resampler interface {
		Resample(buf []float64, from, to int) ([]float64, error)
	}

	// FilterMath is the external filter-math collaborator. One instance
	// serves one Filter module and owns its delay-line state, so
	// filtering stays continuous across block boundaries.
	FilterMath interface {
		Configure(typ int, cutoff, q float64, sampleRate int) error
		Apply(sample float64) float64
		Reset()
	}

	// FilterMaker constructs a FilterMath instance per Filter module.
	FilterMaker func() FilterMath

	// Deps carries the engine configuration and collaborators module
	// states are built with.
	Deps struct {
		SampleRate int
		BlockSize  int
		Open       Opener
		Resample   Resampler
		NewFilter  FilterMaker
	}

	// Context is the per-block processing context of one module. In holds
	// one block per input port, nil when the port is unconnected. Out
	// holds one block per output port, written by Process. Both are owned
	// by the renderer and reused between blocks.
	Context struct {
		Module *graph.Module
		In     []signal.Block
		Out    []signal.Block
	}

	// State is the private processing state of one module instance. A
	// Process error degrades the module's outputs to silence for the
	// block; it never halts the rest of the graph.
	State interface {
		Process(ctx *Context) error
	}
)

// Param returns the current numeric value of a module parameter.
func (c *Context) Param(name string) float64 {
	return c.Module.Param(name).Num
}

// ParamText returns the current text value of a module parameter.
func (c *Context) ParamText(name string) string {
	return c.Module.Param(name).Str
}

// NewState builds the processing state for a module of the provided kind.
func NewState(kind graph.Kind, deps Deps) State {
	switch kind {
	case graph.Oscillator:
		return &oscillator{sampleRate: deps.SampleRate}
	case graph.Filter:
		return &filter{math: deps.NewFilter(), sampleRate: deps.SampleRate}
	case graph.Mixer:
		return &mixer{}
	case graph.Player:
		return &player{deps: deps}
	case graph.Noise:
		return &noise{}
	case graph.Value:
		return &value{}
	case graph.Output:
		return &output{damper: newDamper(deps.SampleRate)}
	}
	return nil
}
