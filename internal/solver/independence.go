package solver

import (
	"log/slog"
	"sort"
	"time"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/IAIK/rebecca/internal/label"
	"github.com/pkg/errors"
)

// CheckIndependence decides order-d output independence under the
// canonical labeling: probes are drawn from each share group and from
// the circuit's output nodes, with at most order probes per group, and
// the question is whether the combined placement observes a
// secret-dependent, mask-free value. Each variable's checking gate XORs
// the activated probes of every group together, so probes charged to
// different groups can jointly cancel a mask. Independence checking
// always runs in transient mode and, unlike CheckProbing, never asserts
// a lower bound on probe count within a group — zero probes in a group
// is always a member of the search space.
func CheckIndependence(g *graph.Graph, entries []label.Entry, order int, budget time.Duration) (Verdict, error) {
	labeling, err := label.Generate(entries)
	if err != nil {
		return Verdict{}, err
	}
	if err := label.ApplyTo(g, labeling); err != nil {
		return Verdict{}, err
	}

	groups, err := candidateGroups(g, entries)
	if err != nil {
		return Verdict{}, err
	}

	cnf := NewCNF()
	u := NewUniverse(g)
	vs := NewVarSet(cnf, g, u, ModeTransient)

	for _, n := range g.Nodes() {
		if err := addGateConstraints(cnf, vs, g, n); err != nil {
			return Verdict{}, err
		}
	}

	act := make(map[string]map[string]Lit, len(groups))
	for group, members := range groups {
		perNode := make(map[string]Lit, len(members))
		lits := make([]Lit, 0, len(members))
		for _, name := range members {
			l := cnf.NewVar()
			perNode[name] = l
			lits = append(lits, l)
		}
		act[group] = perNode
		cnf.AtMostK(lits, order)
	}

	secretGates, maskGates := partitionBySecretMask(u, func(_ string, idx int) Lit {
		var terms []Lit
		for group, members := range groups {
			for _, name := range members {
				layer := vs.Cells[name].Transient
				terms = append(terms, cnf.And(act[group][name], layer[idx]))
			}
		}
		return checkingGateForVar(cnf, terms)
	})

	cnf.AssertTrue(assembleLeakFormula(cnf, secretGates, maskGates))

	res := SolveWithBudget(cnf, budget)
	if res.Unknown {
		slog.Warn("independence check: solver budget exhausted, reporting insecure", "order", order)
		return Verdict{Secure: false, CNF: cnf, Model: res}, nil
	}
	if !res.SAT {
		return Verdict{Secure: true, CNF: cnf, Model: res}, nil
	}

	var witness []string
	for group, members := range act {
		for name, l := range members {
			if res.True(l) {
				witness = append(witness, group+":"+name)
			}
		}
	}
	sort.Strings(witness)
	return Verdict{Secure: false, Witness: witness, CNF: cnf, Model: res}, nil
}

// candidateGroups derives the checker's per-group probe points: one
// group per share id, populated from the label file's share bits
// mapped to their input port node names, plus an implicit "output"
// group populated from every sink node (no successors) in the
// simplified graph.
func candidateGroups(g *graph.Graph, entries []label.Entry) (map[string][]string, error) {
	groups := map[string][]string{}
	for group, bits := range label.ShareGroups(entries) {
		var nodes []string
		for _, bit := range bits {
			name, ok := label.NodeForBit(g, bit)
			if !ok {
				return nil, errors.Errorf("independence check: no port node for share bit %q (group %q)", bit, group)
			}
			nodes = append(nodes, name)
		}
		groups[group] = nodes
	}

	var outputs []string
	for _, n := range g.Nodes() {
		if g.OutDegree(n.Name) == 0 {
			outputs = append(outputs, n.Name)
		}
	}
	groups["output"] = outputs

	return groups, nil
}
