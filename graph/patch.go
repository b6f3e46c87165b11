package graph

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Patch is the serializable form of a graph: one record per module and one
// per connection, sufficient to reconstruct an equivalent graph.
type Patch struct {
	Modules     []PatchModule `yaml:"modules"`
	Connections []Connection  `yaml:"connections,omitempty"`
}

// PatchModule is the persisted form of one module.
type PatchModule struct {
	ID     ID               `yaml:"id"`
	Kind   string           `yaml:"kind"`
	Params map[string]Param `yaml:"params,omitempty"`
}

// MarshalYAML encodes numeric parameters as numbers and text parameters
// as strings.
func (p Param) MarshalYAML() (interface{}, error) {
	if p.text {
		return p.Str, nil
	}
	return p.Num, nil
}

// UnmarshalYAML decodes a scalar into a numeric or text parameter.
func (p *Param) UnmarshalYAML(node *yaml.Node) error {
	var num float64
	if err := node.Decode(&num); err == nil {
		*p = Num(num)
		return nil
	}
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}
	*p = Str(str)
	return nil
}

// Patch returns the persisted representation of the graph.
func (g *Graph) Patch() Patch {
	patch := Patch{Connections: g.Connections()}
	for _, id := range g.IDs() {
		m := g.modules[id]
		patch.Modules = append(patch.Modules, PatchModule{
			ID:     m.id,
			Kind:   m.kind.String(),
			Params: m.Params(),
		})
	}
	return patch
}

// FromPatch reconstructs a graph from its persisted representation. The
// acyclicity check ignores delayed edges, so restore order does not matter.
func FromPatch(patch Patch) (*Graph, error) {
	g := New()
	for _, pm := range patch.Modules {
		kind, err := KindByName(pm.Kind)
		if err != nil {
			return nil, err
		}
		if err := g.insertModule(pm.ID, kind, pm.Params); err != nil {
			return nil, fmt.Errorf("module %d: %w", pm.ID, err)
		}
	}
	for _, conn := range patch.Connections {
		if err := g.Connect(conn.Src, conn.Dst, conn.Delayed); err != nil {
			return nil, fmt.Errorf("connection %v -> %v: %w", conn.Src, conn.Dst, err)
		}
	}
	return g, nil
}

// ParsePatch decodes a YAML patch.
func ParsePatch(data []byte) (Patch, error) {
	var patch Patch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return Patch{}, err
	}
	return patch, nil
}

// Bytes encodes the patch as YAML.
func (p Patch) Bytes() ([]byte, error) {
	return yaml.Marshal(p)
}
