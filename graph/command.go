package graph

import "fmt"

// Op tags an edit command.
type Op int

const (
	// OpAddModule creates a module under a pre-allocated id.
	OpAddModule Op = iota
	// OpRemoveModule removes a module and its connections.
	OpRemoveModule
	// OpConnect adds a connection.
	OpConnect
	// OpDisconnect removes a connection.
	OpDisconnect
	// OpSetParameter updates one parameter.
	OpSetParameter
)

func (op Op) String() string {
	switch op {
	case OpAddModule:
		return "add-module"
	case OpRemoveModule:
		return "remove-module"
	case OpConnect:
		return "connect"
	case OpDisconnect:
		return "disconnect"
	case OpSetParameter:
		return "set-parameter"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Command is one edit operation in transferable form. The editing context
// validates it against its replica, then forwards it to the render context
// which applies it at the next block boundary.
type Command struct {
	Op      Op
	Module  ID
	Kind    Kind
	Params  map[string]Param
	Src     PortRef
	Dst     PortRef
	Delayed bool
	Name    string
	Value   Param
}

// Structural reports whether applying the command changes the graph
// topology and therefore invalidates the cached schedule.
func (c Command) Structural() bool {
	return c.Op != OpSetParameter
}

// Apply executes the command against the graph. Commands arriving at the
// render-side replica were already validated by the editing side, so an
// error here indicates the replicas diverged.
func (g *Graph) Apply(c Command) error {
	switch c.Op {
	case OpAddModule:
		return g.insertModule(c.Module, c.Kind, c.Params)
	case OpRemoveModule:
		return g.RemoveModule(c.Module)
	case OpConnect:
		return g.Connect(c.Src, c.Dst, c.Delayed)
	case OpDisconnect:
		return g.Disconnect(c.Src, c.Dst)
	case OpSetParameter:
		return g.SetParameter(c.Module, c.Name, c.Value)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, c.Op)
}
