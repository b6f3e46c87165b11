package graph

import (
	"fmt"
	"math"
)

// Kind identifies the processing behavior of a module. The set is closed:
// the renderer dispatches on it exhaustively.
type Kind int

const (
	// Oscillator emits a periodic waveform driven by a phase accumulator.
	Oscillator Kind = iota
	// Filter applies a biquad transfer function to its input.
	Filter
	// Mixer combines all connected inputs with a per-sample operation.
	Mixer
	// Player emits frames pulled from a decoder.
	Player
	// Noise emits seeded uniform noise.
	Noise
	// Value emits a constant control signal.
	Value
	// Output is the terminal sink whose block is forwarded outward.
	Output
)

var kindNames = [...]string{
	Oscillator: "oscillator",
	Filter:     "filter",
	Mixer:      "mixer",
	Player:     "player",
	Noise:      "noise",
	Value:      "value",
	Output:     "output",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds returns all module kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// KindByName resolves a kind from its persisted name.
func KindByName(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: kind %q", ErrNotFound, name)
}

// Oscillator shape parameter values.
const (
	ShapeSine = iota
	ShapeSquare
	ShapeTriangle
	ShapeSaw
)

// Filter type parameter values.
const (
	FilterLowpass = iota
	FilterHighpass
	FilterBandpass
)

// Mixer op parameter values.
const (
	OpSum = iota
	OpProduct
	OpAverage
)

// paramSpec declares the domain of a single parameter.
type paramSpec struct {
	def      Param
	min, max float64
	integer  bool
	text     bool
	// creation-only parameters shape the module's ports and are fixed
	// once the module exists.
	creation bool
}

// kindSpec declares ports and parameters of a module kind.
type kindSpec struct {
	inputs  []Port
	outputs []Port
	params  map[string]paramSpec
}

var kindSpecs = map[Kind]kindSpec{
	Oscillator: {
		inputs:  []Port{{Name: "freq", Signal: Control}},
		outputs: []Port{{Name: "out", Signal: Audio}},
		params: map[string]paramSpec{
			"frequency": {def: Num(440), min: 0, max: 20000},
			"shape":     {def: Num(ShapeSine), min: ShapeSine, max: ShapeSaw, integer: true},
			"unipolar":  {def: Num(0), min: 0, max: 1, integer: true},
		},
	},
	Filter: {
		inputs:  []Port{{Name: "in", Signal: Audio}},
		outputs: []Port{{Name: "out", Signal: Audio}},
		params: map[string]paramSpec{
			"type":   {def: Num(FilterLowpass), min: FilterLowpass, max: FilterBandpass, integer: true},
			"cutoff": {def: Num(1000), min: 1, max: 20000},
			"q":      {def: Num(1 / math.Sqrt2), min: 0.1, max: 10},
		},
	},
	Mixer: {
		// input ports are built per instance from the inputs parameter
		outputs: []Port{{Name: "out", Signal: Audio}},
		params: map[string]paramSpec{
			"op":     {def: Num(OpSum), min: OpSum, max: OpAverage, integer: true},
			"inputs": {def: Num(4), min: 2, max: 8, integer: true, creation: true},
		},
	},
	Player: {
		outputs: []Port{{Name: "out", Signal: Audio}},
		params: map[string]paramSpec{
			"path": {def: Str(""), text: true},
			"loop": {def: Num(0), min: 0, max: 1, integer: true},
		},
	},
	Noise: {
		outputs: []Port{{Name: "out", Signal: Audio}},
		params: map[string]paramSpec{
			"seed": {def: Num(0), min: math.MinInt32, max: math.MaxInt32, integer: true},
		},
	},
	Value: {
		outputs: []Port{{Name: "out", Signal: Control}},
		params: map[string]paramSpec{
			"value": {def: Num(0), min: -math.MaxFloat64, max: math.MaxFloat64},
		},
	},
	Output: {
		inputs:  []Port{{Name: "in", Signal: Audio}},
		outputs: []Port{{Name: "out", Signal: Audio}},
		params: map[string]paramSpec{
			"level": {def: Num(1), min: 0, max: 1},
		},
	},
}

// Describe returns the kind's default ports and parameters.
func (k Kind) Describe() (inputs, outputs []Port, params map[string]Param) {
	inputs, outputs = k.ports(nil)
	return inputs, outputs, k.defaults()
}

// ports returns input and output ports for a module of kind k with the
// provided parameters applied.
func (k Kind) ports(params map[string]Param) ([]Port, []Port) {
	spec := kindSpecs[k]
	if k != Mixer {
		return spec.inputs, spec.outputs
	}
	n := int(spec.params["inputs"].def.Num)
	if p, ok := params["inputs"]; ok {
		n = int(p.Num)
	}
	inputs := make([]Port, n)
	for i := range inputs {
		inputs[i] = Port{Name: fmt.Sprintf("in%d", i+1), Signal: Audio}
	}
	return inputs, spec.outputs
}

// validate checks a parameter value against the kind's declaration.
func (k Kind) validate(name string, value Param, creating bool) error {
	spec, ok := kindSpecs[k].params[name]
	if !ok {
		return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParameter, k, name)
	}
	if spec.creation && !creating {
		return fmt.Errorf("%w: %q is fixed at creation", ErrOutOfRange, name)
	}
	if spec.text {
		return nil
	}
	v := value.Num
	if v < spec.min || v > spec.max {
		return fmt.Errorf("%w: %s.%s = %v, want [%v, %v]", ErrOutOfRange, k, name, v, spec.min, spec.max)
	}
	if spec.integer && v != math.Trunc(v) {
		return fmt.Errorf("%w: %s.%s = %v, want integer", ErrOutOfRange, k, name, v)
	}
	return nil
}

// defaults returns a fresh parameter map with declared defaults.
func (k Kind) defaults() map[string]Param {
	spec := kindSpecs[k]
	params := make(map[string]Param, len(spec.params))
	for name, p := range spec.params {
		params[name] = p.def
	}
	return params
}
