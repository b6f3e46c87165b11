// Package graph owns the module network: modules, ports, connections and
// the processing order derived from them. All edits are synchronous and
// atomic: a failed operation leaves the graph exactly as it was.
package graph

import (
	"fmt"
	"sort"
)

// Graph owns modules and connections and enforces their structural
// invariants. It is not safe for concurrent use: the editing context and
// the render context each hold their own replica and keep them identical
// by applying the same commands in the same order.
type Graph struct {
	modules map[ID]*Module
	// inbound is keyed by destination: an input port accepts at most one
	// incoming connection.
	inbound map[PortRef]Connection
	nextID  ID

	order   []ID
	ordered bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		modules: make(map[ID]*Module),
		inbound: make(map[PortRef]Connection),
		nextID:  1,
	}
}

// AddModule creates a module of the provided kind and returns its freshly
// allocated id. Parameters missing from params keep their declared
// defaults. The only possible failures are parameter validation failures.
func (g *Graph) AddModule(kind Kind, params map[string]Param) (ID, error) {
	id := g.nextID
	if err := g.insertModule(id, kind, params); err != nil {
		return 0, err
	}
	g.nextID++
	return id, nil
}

// insertModule adds a module under an explicit id. It backs both AddModule
// and command application on the render-side replica, where the id was
// already allocated by the editing side.
func (g *Graph) insertModule(id ID, kind Kind, params map[string]Param) error {
	if _, ok := kindSpecs[kind]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	for name, p := range params {
		if err := kind.validate(name, p, true); err != nil {
			return err
		}
	}
	merged := kind.defaults()
	for name, p := range params {
		merged[name] = p
	}
	inputs, outputs := kind.ports(merged)
	g.modules[id] = &Module{
		id:      id,
		kind:    kind,
		params:  merged,
		inputs:  inputs,
		outputs: outputs,
	}
	if id >= g.nextID {
		g.nextID = id + 1
	}
	g.invalidate()
	return nil
}

// RemoveModule removes a module and every connection referencing it.
func (g *Graph) RemoveModule(id ID) error {
	if _, ok := g.modules[id]; !ok {
		return fmt.Errorf("%w: module %d", ErrNotFound, id)
	}
	delete(g.modules, id)
	for dst, conn := range g.inbound {
		if dst.Module == id || conn.Src.Module == id {
			delete(g.inbound, dst)
		}
	}
	g.invalidate()
	return nil
}

// Connect adds a directed edge between an output port and an input port.
// Non-delayed edges must keep the dependency graph acyclic; delayed edges
// express feedback and are resolved with the previous block's value.
func (g *Graph) Connect(src, dst PortRef, delayed bool) error {
	srcModule, ok := g.modules[src.Module]
	if !ok {
		return fmt.Errorf("%w: module %d", ErrNotFound, src.Module)
	}
	srcPort, ok := srcModule.output(src.Port)
	if !ok {
		return fmt.Errorf("%w: module %d has no output %q", ErrNotFound, src.Module, src.Port)
	}
	dstModule, ok := g.modules[dst.Module]
	if !ok {
		return fmt.Errorf("%w: module %d", ErrNotFound, dst.Module)
	}
	dstPort, ok := dstModule.input(dst.Port)
	if !ok {
		return fmt.Errorf("%w: module %d has no input %q", ErrNotFound, dst.Module, dst.Port)
	}
	if srcPort.Signal != dstPort.Signal {
		return fmt.Errorf("%w: %s -> %s", ErrPortTypeMismatch, srcPort.Signal, dstPort.Signal)
	}
	if _, ok := g.inbound[dst]; ok {
		return fmt.Errorf("%w: module %d input %q", ErrPortOccupied, dst.Module, dst.Port)
	}
	if !delayed && g.reaches(dst.Module, src.Module) {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, src.Module, dst.Module)
	}
	g.inbound[dst] = Connection{Src: src, Dst: dst, Delayed: delayed}
	g.invalidate()
	return nil
}

// Disconnect removes the edge between the two ports.
func (g *Graph) Disconnect(src, dst PortRef) error {
	conn, ok := g.inbound[dst]
	if !ok || conn.Src != src {
		return fmt.Errorf("%w: connection %v -> %v", ErrNotFound, src, dst)
	}
	delete(g.inbound, dst)
	g.invalidate()
	return nil
}

// SetParameter updates one parameter of one module. Parameter changes
// never invalidate the cached schedule.
func (g *Graph) SetParameter(id ID, name string, value Param) error {
	m, ok := g.modules[id]
	if !ok {
		return fmt.Errorf("%w: module %d", ErrNotFound, id)
	}
	if err := m.kind.validate(name, value, false); err != nil {
		return err
	}
	m.params[name] = value
	return nil
}

// Module returns the module with the provided id.
func (g *Graph) Module(id ID) (*Module, bool) {
	m, ok := g.modules[id]
	return m, ok
}

// IDs returns all module ids in ascending order.
func (g *Graph) IDs() []ID {
	ids := make([]ID, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// InboundTo returns the connection feeding the provided input port.
func (g *Graph) InboundTo(dst PortRef) (Connection, bool) {
	conn, ok := g.inbound[dst]
	return conn, ok
}

// Connections returns all connections ordered by destination for
// reproducible traversal and persistence.
func (g *Graph) Connections() []Connection {
	conns := make([]Connection, 0, len(g.inbound))
	for _, conn := range g.inbound {
		conns = append(conns, conn)
	}
	sort.Slice(conns, func(i, j int) bool {
		if conns[i].Dst.Module != conns[j].Dst.Module {
			return conns[i].Dst.Module < conns[j].Dst.Module
		}
		return conns[i].Dst.Port < conns[j].Dst.Port
	})
	return conns
}

// reaches reports whether to is reachable from from following non-delayed
// connections. Used to reject edges that would close a cycle.
func (g *Graph) reaches(from, to ID) bool {
	if from == to {
		return true
	}
	visited := map[ID]bool{from: true}
	stack := []ID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, conn := range g.inbound {
			if conn.Delayed || conn.Src.Module != id {
				continue
			}
			next := conn.Dst.Module
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// invalidate drops the cached schedule after a structural edit.
func (g *Graph) invalidate() {
	g.ordered = false
	g.order = nil
}
