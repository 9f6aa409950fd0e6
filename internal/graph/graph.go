// Package graph is a typed facade over github.com/katalvlaran/lvlath/core's
// directed adjacency-list graph, giving cell nodes a Kind/Direction/Labels
// triple instead of a bare metadata map.
package graph

import (
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/pkg/errors"
)

// Kind identifies the gate type of a cell node.
type Kind string

const (
	KindPort  Kind = "port"
	KindAnd   Kind = "and"
	KindOr    Kind = "or"
	KindXor   Kind = "xor"
	KindXnor  Kind = "xnor"
	KindNot   Kind = "not"
	KindMux   Kind = "mux"
	KindDff   Kind = "dff"
	KindDffsr Kind = "dffsr"
	KindConst Kind = "const"
)

// Direction distinguishes the two flavors of port cell.
type Direction string

const (
	DirIn    Direction = "input"
	DirOut   Direction = "output"
	DirNone  Direction = ""
)

const (
	metaKind      = "kind"
	metaDirection = "direction"
	metaLabels    = "labels"
)

// Node is the graph's view of a cell: its name, gate kind, port direction
// (meaningful only when Kind == KindPort) and label list (meaningful only
// for input ports).
type Node struct {
	Name      string
	Kind      Kind
	Direction Direction
	Labels    []string
}

// Graph wraps a lvlath directed core.Graph of cell nodes connected by wire
// edges. The zero value is not usable; use New.
type Graph struct {
	g *core.Graph
}

// New returns an empty directed graph ready to accept cell nodes.
func New() *Graph {
	return &Graph{g: core.NewGraph(core.WithDirected(true))}
}

// AddNode inserts a cell node. Re-adding the same name is an error.
func (gr *Graph) AddNode(n Node) error {
	if err := gr.g.AddVertex(n.Name); err != nil {
		return errors.Wrapf(err, "add node %q", n.Name)
	}
	v := gr.g.VerticesMap()[n.Name]
	v.Metadata = map[string]interface{}{
		metaKind:      n.Kind,
		metaDirection: n.Direction,
		metaLabels:    n.Labels,
	}
	return nil
}

// AddWire connects the output of cell `from` to an input of cell `to`.
func (gr *Graph) AddWire(from, to string) error {
	_, err := gr.g.AddEdge(from, to, 0)
	if err != nil {
		return errors.Wrapf(err, "add wire %s -> %s", from, to)
	}
	return nil
}

// HasNode reports whether a node with the given name exists.
func (gr *Graph) HasNode(name string) bool {
	return gr.g.HasVertex(name)
}

// Node looks up a cell node by name.
func (gr *Graph) Node(name string) (Node, bool) {
	v, ok := gr.g.VerticesMap()[name]
	if !ok {
		return Node{}, false
	}
	return nodeFromVertex(name, v), true
}

func nodeFromVertex(name string, v *core.Vertex) Node {
	n := Node{Name: name}
	if v.Metadata == nil {
		return n
	}
	if k, ok := v.Metadata[metaKind].(Kind); ok {
		n.Kind = k
	}
	if d, ok := v.Metadata[metaDirection].(Direction); ok {
		n.Direction = d
	}
	if l, ok := v.Metadata[metaLabels].([]string); ok {
		n.Labels = l
	}
	return n
}

// Nodes returns every node in the graph, sorted by name for determinism.
func (gr *Graph) Nodes() []Node {
	ids := gr.g.Vertices()
	sort.Strings(ids)
	vm := gr.g.VerticesMap()
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, nodeFromVertex(id, vm[id]))
	}
	return out
}

// Predecessors returns the names of nodes with a wire into name, sorted.
func (gr *Graph) Predecessors(name string) []string {
	var out []string
	for _, id := range gr.g.Vertices() {
		edges, _ := gr.g.Neighbors(id)
		for _, e := range edges {
			if e.To == name {
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Successors returns the names of nodes reachable by a wire from name,
// sorted.
func (gr *Graph) Successors(name string) []string {
	edges, _ := gr.g.Neighbors(name)
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.To)
	}
	sort.Strings(out)
	return out
}

// SetKind rewrites the kind of an existing node in place (used by the
// normalizer to turn "or" cells into "and").
func (gr *Graph) SetKind(name string, kind Kind) error {
	v, ok := gr.g.VerticesMap()[name]
	if !ok {
		return errors.Errorf("node %q not found", name)
	}
	if v.Metadata == nil {
		v.Metadata = map[string]interface{}{}
	}
	v.Metadata[metaKind] = kind
	return nil
}

// SetLabels rewrites the label list of an existing node in place (used to
// apply a generated labeling onto the loaded port nodes).
func (gr *Graph) SetLabels(name string, labels []string) error {
	v, ok := gr.g.VerticesMap()[name]
	if !ok {
		return errors.Errorf("node %q not found", name)
	}
	if v.Metadata == nil {
		v.Metadata = map[string]interface{}{}
	}
	v.Metadata[metaLabels] = labels
	return nil
}

// Clone returns an independent copy of the graph: same nodes, kinds,
// directions, and labels, same wires. Callers that need to apply distinct
// labelings to the same circuit concurrently (e.g. one per labeling in a
// driver worker pool) must clone first, since SetLabels mutates in place.
func (gr *Graph) Clone() (*Graph, error) {
	out := New()
	for _, n := range gr.Nodes() {
		if err := out.AddNode(n); err != nil {
			return nil, errors.Wrapf(err, "clone node %s", n.Name)
		}
	}
	for _, n := range gr.Nodes() {
		for _, succ := range gr.Successors(n.Name) {
			if err := out.AddWire(n.Name, succ); err != nil {
				return nil, errors.Wrapf(err, "clone wire %s->%s", n.Name, succ)
			}
		}
	}
	return out, nil
}

// InDegree and OutDegree support isolate detection during normalization.
func (gr *Graph) InDegree(name string) int  { return len(gr.Predecessors(name)) }
func (gr *Graph) OutDegree(name string) int { return len(gr.Successors(name)) }

// RemoveNode deletes a node and every wire touching it.
func (gr *Graph) RemoveNode(name string) {
	_ = gr.g.RemoveVertex(name)
}
