// Package rack assembles networks of signal-processing modules and
// renders them into a continuous audio stream in real time.
//
// An Engine spans two execution contexts. The editing context calls the
// edit operations; each is validated synchronously against an editing-side
// graph replica and forwarded over a bounded queue. The render context is
// driven by the playback device through Pull and applies pending edits
// only at block boundaries, so no locks exist anywhere on the render path.
package rack

import (
	"errors"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/pipelined/rack/biquad"
	"github.com/pipelined/rack/bridge"
	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/log"
	"github.com/pipelined/rack/modules"
	"github.com/pipelined/rack/render"
	"github.com/pipelined/rack/resample"
	"github.com/pipelined/rack/signal"
	"github.com/pipelined/rack/telemetry"
	"github.com/pipelined/rack/wav"
)

// Default engine configuration.
const (
	DefaultSampleRate    = 44100
	DefaultBlockSize     = 512
	DefaultQueueCapacity = 64
)

// ErrInvalidConfig is returned when an option value is unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// Engine is the editing-context handle to a module network and its
// renderer.
//
// Edit operations and Close must be called from one goroutine; Pull and
// PollLatest each have their own context. An edit fails with
// bridge.ErrBusy when the command queue is full; the caller is expected
// to retry, since edits are rare relative to blocks.
type Engine struct {
	uid string
	log *logrus.Logger

	sampleRate    int
	blockSize     int
	queueCapacity int

	open      modules.Opener
	resampler modules.Resampler
	newFilter modules.FilterMaker

	graph    *graph.Graph
	inbound  *bridge.Queue[graph.Command]
	outbound *bridge.Sliding[telemetry.Snapshot]
	renderer *render.Renderer
	metrics  *telemetry.Metrics
}

// New creates a new engine and applies provided options.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		uid:           xid.New().String(),
		log:           log.GetLogger(),
		sampleRate:    DefaultSampleRate,
		blockSize:     DefaultBlockSize,
		queueCapacity: DefaultQueueCapacity,
		open:          wav.Open,
		resampler:     resample.New(),
		newFilter:     biquad.New,
		graph:         graph.New(),
	}
	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}
	e.inbound = bridge.NewQueue[graph.Command](e.queueCapacity)
	e.outbound = bridge.NewSliding[telemetry.Snapshot](e.queueCapacity)
	e.metrics = telemetry.NewMetrics(e.uid)
	e.renderer = render.New(
		modules.Deps{
			SampleRate: e.sampleRate,
			BlockSize:  e.blockSize,
			Open:       e.open,
			Resample:   e.resampler,
			NewFilter:  e.newFilter,
		},
		e.inbound,
		e.outbound,
		e.queueCapacity,
		e.metrics,
		e.log,
	)
	return e, nil
}

// UID returns the engine's unique id, also the key of its telemetry
// counters.
func (e *Engine) UID() string { return e.uid }

// SampleRate returns the engine's internal sample rate.
func (e *Engine) SampleRate() int { return e.sampleRate }

// BlockSize returns the number of frames rendered per block.
func (e *Engine) BlockSize() int { return e.blockSize }

// AddModule creates a module of the provided kind. The returned id is
// freshly allocated and never reused.
func (e *Engine) AddModule(kind graph.Kind, params map[string]graph.Param) (graph.ID, error) {
	if e.inbound.Full() {
		return 0, bridge.ErrBusy
	}
	params = cloneParams(params)
	id, err := e.graph.AddModule(kind, params)
	if err != nil {
		return 0, err
	}
	return id, e.inbound.Push(graph.Command{Op: graph.OpAddModule, Module: id, Kind: kind, Params: params})
}

// RemoveModule removes a module and every connection touching it at the
// next block boundary. The module's state and buffers are discarded with
// it.
func (e *Engine) RemoveModule(id graph.ID) error {
	if e.inbound.Full() {
		return bridge.ErrBusy
	}
	if err := e.graph.RemoveModule(id); err != nil {
		return err
	}
	return e.inbound.Push(graph.Command{Op: graph.OpRemoveModule, Module: id})
}

// Connect adds a connection between an output port and an input port.
// A non-delayed connection that would close a cycle fails with
// graph.ErrCycle; the same connection with delayed set succeeds and is
// resolved with the previous block's value.
func (e *Engine) Connect(src, dst graph.PortRef, delayed bool) error {
	if e.inbound.Full() {
		return bridge.ErrBusy
	}
	if err := e.graph.Connect(src, dst, delayed); err != nil {
		return err
	}
	return e.inbound.Push(graph.Command{Op: graph.OpConnect, Src: src, Dst: dst, Delayed: delayed})
}

// Disconnect removes a connection.
func (e *Engine) Disconnect(src, dst graph.PortRef) error {
	if e.inbound.Full() {
		return bridge.ErrBusy
	}
	if err := e.graph.Disconnect(src, dst); err != nil {
		return err
	}
	return e.inbound.Push(graph.Command{Op: graph.OpDisconnect, Src: src, Dst: dst})
}

// SetParameter updates one parameter of one module at the next block
// boundary.
func (e *Engine) SetParameter(id graph.ID, name string, value graph.Param) error {
	if e.inbound.Full() {
		return bridge.ErrBusy
	}
	if err := e.graph.SetParameter(id, name, value); err != nil {
		return err
	}
	return e.inbound.Push(graph.Command{Op: graph.OpSetParameter, Module: id, Name: name, Value: value})
}

// Pull fills dst with rendered samples at the engine's sample rate,
// rendering blocks as needed and applying pending edits at their
// boundaries. It is meant to be driven by the playback device's periodic
// callback.
func (e *Engine) Pull(dst []float64) int {
	return e.renderer.Pull(dst)
}

// PollLatest returns the most recently rendered block snapshot, or false
// if no new block arrived since the last poll. It never blocks. The
// returned block is a copy owned by the caller; the render context reuses
// its own snapshot blocks after a bounded number of blocks.
func (e *Engine) PollLatest() (telemetry.Snapshot, bool) {
	snap, ok := e.outbound.PollLatest()
	if !ok {
		return telemetry.Snapshot{}, false
	}
	block := signal.New(len(snap.Block))
	block.CopyFrom(snap.Block)
	snap.Block = block
	return snap, true
}

// Metrics returns the engine's render counters.
func (e *Engine) Metrics() *telemetry.Metrics {
	return e.metrics
}

// Patch returns the persisted representation of the current graph.
func (e *Engine) Patch() graph.Patch {
	return e.graph.Patch()
}

// Load replays a persisted patch into the engine, preserving module ids.
// Every record is forwarded as a regular edit command, so the queue must
// have room for the whole patch or be actively drained.
func (e *Engine) Load(patch graph.Patch) error {
	for _, pm := range patch.Modules {
		kind, err := graph.KindByName(pm.Kind)
		if err != nil {
			return err
		}
		if e.inbound.Full() {
			return bridge.ErrBusy
		}
		cmd := graph.Command{Op: graph.OpAddModule, Module: pm.ID, Kind: kind, Params: cloneParams(pm.Params)}
		if err := e.graph.Apply(cmd); err != nil {
			return err
		}
		if err := e.inbound.Push(cmd); err != nil {
			return err
		}
	}
	for _, conn := range patch.Connections {
		if err := e.Connect(conn.Src, conn.Dst, conn.Delayed); err != nil {
			return err
		}
	}
	return nil
}

// Close disconnects the bridge. Commands already queued still apply at
// the next block boundary; later edits fail with bridge.ErrDisconnected.
func (e *Engine) Close() error {
	e.inbound.Close()
	return nil
}

func cloneParams(params map[string]graph.Param) map[string]graph.Param {
	if params == nil {
		return nil
	}
	clone := make(map[string]graph.Param, len(params))
	for name, p := range params {
		clone[name] = p
	}
	return clone
}
