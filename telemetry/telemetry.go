// Package telemetry carries render-side observations out of the render
// context: per-block snapshots over the bridge and expvar counters for
// inspection.
package telemetry

import (
	"expvar"
	"fmt"
	"sync/atomic"

	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/signal"
)

// FaultKind tags a non-fatal render fault.
type FaultKind int

const (
	// ModuleSkipped means a module produced silence for one block.
	ModuleSkipped FaultKind = iota
	// Underrun means a block was not rendered within its playback duration.
	Underrun
)

func (k FaultKind) String() string {
	if k == Underrun {
		return "underrun"
	}
	return "module skipped"
}

// Fault is a block-scoped, non-fatal render fault. Faults degrade the
// affected module or block to silence and are reported here instead of
// propagating.
type Fault struct {
	Kind   FaultKind
	Module graph.ID
	Reason string
}

func (f Fault) String() string {
	if f.Kind == Underrun {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: module %d: %s", f.Kind, f.Module, f.Reason)
}

// Snapshot is one rendered block as observed by telemetry consumers.
// Block points into a bounded pool the render context reuses round-robin:
// a holder that keeps a snapshot across blocks must copy it first.
// Engine.PollLatest returns such a copy.
type Snapshot struct {
	Seq    uint64
	Block  signal.Block
	Faults []Fault
}

const countersLabel = "rack.engines"

var engines = expvar.NewMap(countersLabel)

// Metrics holds render counters for one engine, published under
// rack.engines.<name>. Initialized explicitly at engine construction.
type Metrics struct {
	Blocks    atomic.Int64
	Underruns atomic.Int64
	Skips     atomic.Int64
	Commands  atomic.Int64
}

// NewMetrics returns counters published under the provided engine name.
func NewMetrics(name string) *Metrics {
	m := &Metrics{}
	em := new(expvar.Map)
	em.Set("Blocks", expvarInt{&m.Blocks})
	em.Set("Underruns", expvarInt{&m.Underruns})
	em.Set("Skips", expvarInt{&m.Skips})
	em.Set("Commands", expvarInt{&m.Commands})
	engines.Set(name, em)
	return m
}

// expvarInt exposes an atomic counter as an expvar value.
type expvarInt struct {
	v *atomic.Int64
}

func (e expvarInt) String() string {
	return fmt.Sprintf("%d", e.v.Load())
}
