// Package normalize reduces a raw circuit graph to the canonical vocabulary
// the checkers understand: port, and, xor, xnor, dff, dffsr, mux, with no
// isolated nodes, no "not" and no "const" cells.
package normalize

import (
	"log/slog"
	"strings"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/pkg/errors"
)

var validKinds = map[graph.Kind]bool{
	graph.KindPort:  true,
	graph.KindAnd:   true,
	graph.KindOr:    true,
	graph.KindXor:   true,
	graph.KindXnor:  true,
	graph.KindNot:   true,
	graph.KindMux:   true,
	graph.KindDff:   true,
	graph.KindDffsr: true,
	graph.KindConst: true,
}

// Normalize applies the normalization passes described for the raw-to-
// simplified graph transition: isolate removal, OR->AND rewriting, NOT
// absorption, const dropping, and don't-care port dropping. A nil logger
// is treated as a no-op logger.
func Normalize(raw *graph.Graph, logger *slog.Logger) (*graph.Graph, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(discard{}, nil))
	}

	g, err := raw.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone raw graph")
	}

	for _, n := range g.Nodes() {
		if !validKinds[n.Kind] {
			return nil, errors.Errorf("normalize: cell %q has unknown kind %q", n.Name, n.Kind)
		}
	}

	// 1. Remove isolated nodes.
	for _, n := range g.Nodes() {
		if g.InDegree(n.Name) == 0 && g.OutDegree(n.Name) == 0 {
			logger.Warn("removing isolated cell", "cell", n.Name, "kind", string(n.Kind))
			g.RemoveNode(n.Name)
		}
	}

	// 2. Rewrite OR -> AND.
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindOr {
			if err := g.SetKind(n.Name, graph.KindAnd); err != nil {
				return nil, errors.Wrapf(err, "rewrite or->and on %s", n.Name)
			}
		}
	}

	// 3. Absorb NOT gates: short-circuit predecessor x successor edges,
	// then drop the NOT node. Iterate to a fixed point in case of NOT
	// chains.
	for {
		var nots []string
		for _, n := range g.Nodes() {
			if n.Kind == graph.KindNot {
				nots = append(nots, n.Name)
			}
		}
		if len(nots) == 0 {
			break
		}
		for _, name := range nots {
			preds := g.Predecessors(name)
			succs := g.Successors(name)
			for _, p := range preds {
				for _, s := range succs {
					if err := g.AddWire(p, s); err != nil {
						return nil, errors.Wrapf(err, "absorb not %s: wire %s->%s", name, p, s)
					}
				}
			}
			g.RemoveNode(name)
		}
	}

	// 4. Drop const nodes and their outgoing edges.
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindConst {
			g.RemoveNode(n.Name)
		}
	}

	// 5. Drop don't-care ports (first label starts with "y_").
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindPort && len(n.Labels) > 0 && strings.HasPrefix(n.Labels[0], "y_") {
			g.RemoveNode(n.Name)
		}
	}

	// Dropping NOT, const and don't-care nodes can leave a former
	// neighbour with no wires at all; remove those as well.
	for _, n := range g.Nodes() {
		if g.InDegree(n.Name) == 0 && g.OutDegree(n.Name) == 0 {
			logger.Warn("removing isolated cell", "cell", n.Name, "kind", string(n.Kind))
			g.RemoveNode(n.Name)
		}
	}

	// Non-fatal fan-in/fan-out warnings for AND/XOR/XNOR cells.
	for _, n := range g.Nodes() {
		switch n.Kind {
		case graph.KindAnd, graph.KindXor, graph.KindXnor:
			if fanin := g.InDegree(n.Name); fanin != 2 {
				logger.Warn("unexpected fan-in", "cell", n.Name, "kind", string(n.Kind), "fan_in", fanin)
			}
			if g.OutDegree(n.Name) == 0 {
				logger.Warn("dead output", "cell", n.Name, "kind", string(n.Kind))
			}
		}
	}

	return g, nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
