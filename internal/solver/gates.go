package solver

import (
	"github.com/IAIK/rebecca/internal/graph"
	"github.com/pkg/errors"
)

// addGateConstraints asserts the stable (and, in transient mode,
// transient) layer constraints for one cell, per the per-kind table: port
// assigns fixed values from its labels; xor/xnor is a deterministic
// per-variable equality on the stable layer; and/mux are the disjunctive
// nonlinear abstraction; dff/dffsr filter glitches by sourcing their
// transient layer from their predecessor's stable layer.
func addGateConstraints(cnf *CNF, vs *VarSet, g *graph.Graph, n graph.Node) error {
	cv := vs.Cells[n.Name]
	preds := g.Predecessors(n.Name)

	switch n.Kind {
	case graph.KindPort:
		labelSet := map[string]bool{}
		for _, l := range n.Labels {
			labelSet[l] = true
		}
		for i, name := range vs.U.V {
			assertFixed(cnf, cv.Stable[i], labelSet[name])
			if vs.Mode == ModeTransient {
				assertFixed(cnf, cv.Transient[i], labelSet[name])
			}
		}
		return nil

	case graph.KindXor, graph.KindXnor:
		// A 1-predecessor XOR/XNOR is a buffer: it passes its single
		// operand straight through rather than combining two, so encode it
		// as a direct copy instead of the 2-input encoding below.
		if len(preds) == 1 {
			a := vs.Cells[preds[0]]
			for i := range vs.U.V {
				cnf.AssertEq(cv.Stable[i], a.Stable[i])
			}
			if vs.Mode == ModeTransient {
				for i := range vs.U.V {
					cnf.AssertEq(cv.Transient[i], a.Transient[i])
				}
			}
			return nil
		}
		if len(preds) != 2 {
			return errors.Errorf("cell %s (%s): expected 1 or 2 predecessors, got %d", n.Name, n.Kind, len(preds))
		}
		a, b := vs.Cells[preds[0]], vs.Cells[preds[1]]
		for i := range vs.U.V {
			cnf.AssertEq(cv.Stable[i], cnf.Xor(a.Stable[i], b.Stable[i]))
		}
		if vs.Mode == ModeTransient {
			addNonlinearDisjunction(cnf, cv.Transient, [][]Lit{a.Transient, b.Transient})
		}
		return nil

	case graph.KindAnd:
		// Same buffer-shaped case as XOR/XNOR above: a 1-input AND is an
		// identity, not a gate needing the nonlinear disjunctive encoding.
		if len(preds) == 1 {
			a := vs.Cells[preds[0]]
			for i := range vs.U.V {
				cnf.AssertEq(cv.Stable[i], a.Stable[i])
			}
			if vs.Mode == ModeTransient {
				for i := range vs.U.V {
					cnf.AssertEq(cv.Transient[i], a.Transient[i])
				}
			}
			return nil
		}
		if len(preds) != 2 {
			return errors.Errorf("cell %s (and): expected 1 or 2 predecessors, got %d", n.Name, len(preds))
		}
		a, b := vs.Cells[preds[0]], vs.Cells[preds[1]]
		addNonlinearDisjunction(cnf, cv.Stable, [][]Lit{a.Stable, b.Stable})
		if vs.Mode == ModeTransient {
			addNonlinearDisjunction(cnf, cv.Transient, [][]Lit{a.Transient, b.Transient})
		}
		return nil

	case graph.KindMux:
		// Not cased in the reference encoding; generalized here as an
		// arbitrary-fan-in nonlinear gate (empty, any one copy, or the XOR
		// of any two predecessors), the natural extension of the 2-input
		// AND/OR abstraction and sound for the same reason.
		if len(preds) == 0 {
			return errors.Errorf("cell %s (mux): no predecessors", n.Name)
		}
		vecs := make([][]Lit, len(preds))
		for i, p := range preds {
			vecs[i] = vs.Cells[p].Stable
		}
		addNonlinearDisjunction(cnf, cv.Stable, vecs)
		if vs.Mode == ModeTransient {
			tvecs := make([][]Lit, len(preds))
			for i, p := range preds {
				tvecs[i] = vs.Cells[p].Transient
			}
			addNonlinearDisjunction(cnf, cv.Transient, tvecs)
		}
		return nil

	case graph.KindDff, graph.KindDffsr:
		if len(preds) != 1 {
			return errors.Errorf("cell %s (%s): expected 1 predecessor, got %d", n.Name, n.Kind, len(preds))
		}
		a := vs.Cells[preds[0]]
		for i := range vs.U.V {
			cnf.AssertEq(cv.Stable[i], a.Stable[i])
		}
		if vs.Mode == ModeTransient {
			for i := range vs.U.V {
				cnf.AssertEq(cv.Transient[i], a.Stable[i])
			}
		}
		return nil

	default:
		return errors.Errorf("cell %s: unsupported kind %q in encoding (const/not must be normalized away)", n.Name, n.Kind)
	}
}

func assertFixed(cnf *CNF, lit Lit, value bool) {
	if value {
		cnf.AssertTrue(lit)
	} else {
		cnf.AssertFalse(lit)
	}
}

// addNonlinearDisjunction asserts dst ∈ {all-zero} ∪ {copy(v) : v ∈ operands}
// ∪ {v1 XOR v2 : v1,v2 ∈ operands, v1 != v2}, the sound over-approximation
// of a nonlinear gate's output dependence set used throughout the
// encoding (AND/OR, and the generalized MUX case).
func addNonlinearDisjunction(cnf *CNF, dst []Lit, operands [][]Lit) {
	var selectors []Lit

	emptySel := cnf.NewVar()
	for _, d := range dst {
		cnf.ImpliesFalse(emptySel, d)
	}
	selectors = append(selectors, emptySel)

	for _, op := range operands {
		sel := cnf.NewVar()
		for i, d := range dst {
			cnf.ImpliesEq(sel, d, op[i])
		}
		selectors = append(selectors, sel)
	}

	for i := 0; i < len(operands); i++ {
		for j := i + 1; j < len(operands); j++ {
			sel := cnf.NewVar()
			for k, d := range dst {
				xv := cnf.Xor(operands[i][k], operands[j][k])
				cnf.ImpliesEq(sel, d, xv)
			}
			selectors = append(selectors, sel)
		}
	}

	cnf.AtLeast1(selectors)
}
