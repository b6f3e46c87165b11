package graph

// ID is a process-unique module identifier. IDs are allocated in ascending
// order and never reused, which keeps the schedule tie-break reproducible.
type ID uint64

// Signal is the kind of data a port carries.
type Signal int

const (
	// Audio signals carry sample blocks intended for playback.
	Audio Signal = iota
	// Control signals carry sample blocks driving module parameters.
	Control
)

func (s Signal) String() string {
	if s == Control {
		return "control"
	}
	return "audio"
}

// Port is a typed input or output socket on a module.
type Port struct {
	Name   string
	Signal Signal
}

// PortRef addresses one port of one module.
type PortRef struct {
	Module ID     `yaml:"module"`
	Port   string `yaml:"port"`
}

// Connection is a directed edge from an output port to an input port.
// Delayed connections express deliberate feedback: they are excluded from
// the dependency graph and resolved with the previous block's value.
type Connection struct {
	Src     PortRef `yaml:"from"`
	Dst     PortRef `yaml:"to"`
	Delayed bool    `yaml:"delayed,omitempty"`
}

// Param is a module parameter value. Numeric and enumerated parameters use
// Num, path-like parameters use Str.
type Param struct {
	Num float64
	Str string
	// text marks the value as string-typed so zero numbers and empty
	// strings round-trip unambiguously.
	text bool
}

// Num returns a numeric parameter value.
func Num(v float64) Param { return Param{Num: v} }

// Str returns a text parameter value.
func Str(v string) Param { return Param{Str: v, text: true} }

// Module is a processing unit owned by a Graph: a kind, parameters, and
// ordered ports. Processing state lives with the renderer, not here.
type Module struct {
	id      ID
	kind    Kind
	params  map[string]Param
	inputs  []Port
	outputs []Port
}

// ID returns the module identifier.
func (m *Module) ID() ID { return m.id }

// Kind returns the module kind.
func (m *Module) Kind() Kind { return m.kind }

// Inputs returns the ordered input ports.
func (m *Module) Inputs() []Port { return m.inputs }

// Outputs returns the ordered output ports.
func (m *Module) Outputs() []Port { return m.outputs }

// Param returns the current value of a parameter, falling back to the
// kind's declared default for unknown names.
func (m *Module) Param(name string) Param {
	if p, ok := m.params[name]; ok {
		return p
	}
	return kindSpecs[m.kind].params[name].def
}

// Params returns a copy of the module's parameters.
func (m *Module) Params() map[string]Param {
	params := make(map[string]Param, len(m.params))
	for name, p := range m.params {
		params[name] = p
	}
	return params
}

// input returns the input port with the provided name.
func (m *Module) input(name string) (Port, bool) {
	for _, p := range m.inputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// output returns the output port with the provided name.
func (m *Module) output(name string) (Port, bool) {
	for _, p := range m.outputs {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// InputIndex returns the position of the named input port.
func (m *Module) InputIndex(name string) int {
	for i, p := range m.inputs {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// OutputIndex returns the position of the named output port.
func (m *Module) OutputIndex(name string) int {
	for i, p := range m.outputs {
		if p.Name == name {
			return i
		}
	}
	return -1
}
