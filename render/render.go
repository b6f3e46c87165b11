// Package render executes the module graph one fixed-size block at a
// time. It owns the render-side graph replica, every module's private
// state and port buffers, and the block-boundary hand-off with the
// editing context.
//
// The render path holds no locks and performs no steady-state allocation:
// buffers are sized at the block where a structural edit is applied, and
// edits land only between blocks, so one block always executes against a
// structurally stable graph.
package render

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pipelined/rack/bridge"
	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/modules"
	"github.com/pipelined/rack/signal"
	"github.com/pipelined/rack/telemetry"
)

// runner holds everything the renderer keeps per module: the processing
// state and two blocks per output port. current receives this block's
// samples; previous serves delayed reads without read/write races.
type runner struct {
	module *graph.Module
	state  modules.State
	ctx    modules.Context

	current  []signal.Block
	previous []signal.Block
}

// rotate swaps current and previous after a block is fully processed.
func (r *runner) rotate() {
	r.current, r.previous = r.previous, r.current
	r.ctx.Out = r.current
}

// silence zeroes the runner's current output blocks.
func (r *runner) silence() {
	for _, b := range r.current {
		b.Zero()
	}
}

// Renderer executes modules in scheduled order once per block.
type Renderer struct {
	graph    *graph.Graph
	runners  map[graph.ID]*runner
	inbound  *bridge.Queue[graph.Command]
	outbound *bridge.Sliding[telemetry.Snapshot]
	metrics  *telemetry.Metrics
	log      *logrus.Logger
	deps     modules.Deps

	blockSize     int
	blockDuration time.Duration

	seq    uint64
	faults []telemetry.Fault

	// pull-side remainder of the last rendered block
	tail    signal.Block
	tailPos int

	// preallocated snapshot blocks reused round-robin, sized to outlive
	// the outbound queue
	snapshots []signal.Block
	snapIdx   int
}

// New returns a renderer wired to the bridge queues. The graph starts
// empty and is built up exclusively from inbound commands.
func New(deps modules.Deps, in *bridge.Queue[graph.Command], out *bridge.Sliding[telemetry.Snapshot], outCapacity int, m *telemetry.Metrics, log *logrus.Logger) *Renderer {
	r := &Renderer{
		graph:         graph.New(),
		runners:       make(map[graph.ID]*runner),
		inbound:       in,
		outbound:      out,
		metrics:       m,
		log:           log,
		deps:          deps,
		blockSize:     deps.BlockSize,
		blockDuration: signal.DurationOf(deps.SampleRate, int64(deps.BlockSize)),
		tail:          signal.New(deps.BlockSize),
		tailPos:       deps.BlockSize,
		snapshots:     make([]signal.Block, outCapacity+2),
	}
	for i := range r.snapshots {
		r.snapshots[i] = signal.New(deps.BlockSize)
	}
	return r
}

// Pull fills dst with rendered samples, rendering as many blocks as
// needed. It is driven by the playback device's callback and is the only
// entry point of the render context.
func (r *Renderer) Pull(dst []float64) int {
	n := 0
	for n < len(dst) {
		if r.tailPos == len(r.tail) {
			r.renderBlock()
			r.tailPos = 0
		}
		c := copy(dst[n:], r.tail[r.tailPos:])
		n += c
		r.tailPos += c
	}
	return n
}

// renderBlock executes one block into r.tail.
func (r *Renderer) renderBlock() {
	started := time.Now()
	r.faults = r.faults[:0]

	if r.applyCommands() {
		r.log.Debug("topology changed, schedule recomputed")
	}

	order, err := r.graph.Order()
	if err != nil {
		// connect-time checks make this unreachable; degrade to
		// silence instead of crashing the render path
		r.log.Error("schedule: ", err)
		r.tail.Zero()
		r.forward(started)
		return
	}

	for _, id := range order {
		r.process(id)
	}
	for _, id := range order {
		r.runners[id].rotate()
	}

	// after rotation the block just produced sits in previous
	if out, ok := r.outputRunner(order); ok {
		r.tail.CopyFrom(out.previous[0])
	} else {
		r.tail.Zero()
	}
	r.forward(started)
}

// process gathers one module's inputs and invokes its processing step.
func (r *Renderer) process(id graph.ID) {
	run := r.runners[id]
	for i, port := range run.module.Inputs() {
		run.ctx.In[i] = nil
		conn, ok := r.graph.InboundTo(graph.PortRef{Module: id, Port: port.Name})
		if !ok {
			continue
		}
		src, ok := r.runners[conn.Src.Module]
		if !ok {
			// transient inconsistency during a structural edit
			run.silence()
			r.fault(id, "unresolved input "+port.Name)
			return
		}
		idx := src.module.OutputIndex(conn.Src.Port)
		if conn.Delayed {
			run.ctx.In[i] = src.previous[idx]
		} else {
			run.ctx.In[i] = src.current[idx]
		}
	}
	if err := run.state.Process(&run.ctx); err != nil {
		run.silence()
		r.fault(id, err.Error())
	}
}

// applyCommands drains the inbound queue and applies every pending edit,
// reporting whether any of them changed the topology.
func (r *Renderer) applyCommands() bool {
	structural := false
	for {
		cmd, ok := r.inbound.Pop()
		if !ok {
			return structural
		}
		r.metrics.Commands.Add(1)
		if err := r.graph.Apply(cmd); err != nil {
			// commands were validated by the editing replica; this
			// means the replicas diverged
			r.log.Error("apply ", cmd.Op, ": ", err)
			continue
		}
		if cmd.Structural() {
			structural = true
		}
		switch cmd.Op {
		case graph.OpAddModule:
			m, _ := r.graph.Module(cmd.Module)
			r.addRunner(m)
		case graph.OpRemoveModule:
			delete(r.runners, cmd.Module)
		}
	}
}

// addRunner allocates state and double buffers for a freshly added
// module. This is the only place render-path buffers are sized.
func (r *Renderer) addRunner(m *graph.Module) {
	run := &runner{
		module:   m,
		state:    modules.NewState(m.Kind(), r.deps),
		current:  make([]signal.Block, len(m.Outputs())),
		previous: make([]signal.Block, len(m.Outputs())),
	}
	for i := range run.current {
		run.current[i] = signal.New(r.blockSize)
		run.previous[i] = signal.New(r.blockSize)
	}
	run.ctx = modules.Context{
		Module: m,
		In:     make([]signal.Block, len(m.Inputs())),
		Out:    run.current,
	}
	r.runners[m.ID()] = run
}

// outputRunner returns the runner of the designated Output module: the
// first Output kind in scheduled order.
func (r *Renderer) outputRunner(order []graph.ID) (*runner, bool) {
	for _, id := range order {
		if run := r.runners[id]; run != nil && run.module.Kind() == graph.Output {
			return run, true
		}
	}
	return nil, false
}

// forward accounts the finished block and pushes its snapshot outward
// without ever blocking on a slow consumer.
func (r *Renderer) forward(started time.Time) {
	r.seq++
	r.metrics.Blocks.Add(1)
	if elapsed := time.Since(started); elapsed > r.blockDuration {
		r.metrics.Underruns.Add(1)
		r.faults = append(r.faults, telemetry.Fault{Kind: telemetry.Underrun})
		r.log.Debug("underrun: block took ", elapsed, " of ", r.blockDuration)
	}

	snap := r.snapshots[r.snapIdx]
	r.snapIdx = (r.snapIdx + 1) % len(r.snapshots)
	snap.CopyFrom(r.tail)

	var faults []telemetry.Fault
	if len(r.faults) > 0 {
		faults = append(faults, r.faults...)
	}
	r.outbound.Offer(telemetry.Snapshot{Seq: r.seq, Block: snap, Faults: faults})
}

// fault records a module-scoped soft fault for the current block.
func (r *Renderer) fault(id graph.ID, reason string) {
	r.metrics.Skips.Add(1)
	r.faults = append(r.faults, telemetry.Fault{Kind: telemetry.ModuleSkipped, Module: id, Reason: reason})
	r.log.Debug("module ", id, " skipped: ", reason)
}
