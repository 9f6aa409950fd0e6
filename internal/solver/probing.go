package solver

import (
	"log/slog"
	"sort"
	"time"

	"github.com/IAIK/rebecca/internal/graph"
)

// CheckProbing decides order-d probing security for one labeling: can
// an adversary who places at most order probes anywhere in the
// circuit observe a value that depends on a secret without depending
// on any mask? One CNF instance is built
// and solved per call.
//
// budget bounds the solver's wall-clock search time; 0 means unbounded.
// If the budget expires before a verdict is reached, the labeling is
// conservatively reported as insecure with an empty witness and a
// warning is logged, per the same policy as a hard solver failure.
func CheckProbing(g *graph.Graph, mode Mode, order int, budget time.Duration) (Verdict, error) {
	cnf := NewCNF()
	u := NewUniverse(g)
	vs := NewVarSet(cnf, g, u, mode)

	nodes := g.Nodes()
	for _, n := range nodes {
		if err := addGateConstraints(cnf, vs, g, n); err != nil {
			return Verdict{}, err
		}
	}

	act := make(map[string]Lit, len(nodes))
	actLits := make([]Lit, 0, len(nodes))
	for _, n := range nodes {
		l := cnf.NewVar()
		act[n.Name] = l
		actLits = append(actLits, l)
	}
	cnf.AtMostK(actLits, order)
	cnf.AtLeast1(actLits)

	secretGates, maskGates := partitionBySecretMask(u, func(_ string, idx int) Lit {
		terms := make([]Lit, len(nodes))
		for i, n := range nodes {
			layer := vs.Cells[n.Name].Layer(mode)
			terms[i] = cnf.And(act[n.Name], layer[idx])
		}
		return checkingGateForVar(cnf, terms)
	})

	cnf.AssertTrue(assembleLeakFormula(cnf, secretGates, maskGates))

	res := SolveWithBudget(cnf, budget)
	if res.Unknown {
		slog.Warn("probing check: solver budget exhausted, reporting insecure", "order", order, "mode", mode)
		return Verdict{Secure: false, CNF: cnf, Model: res}, nil
	}
	if !res.SAT {
		return Verdict{Secure: true, CNF: cnf, Model: res}, nil
	}

	var witness []string
	for _, n := range nodes {
		if res.True(act[n.Name]) {
			witness = append(witness, n.Name)
		}
	}
	sort.Strings(witness)
	return Verdict{Secure: false, Witness: witness, CNF: cnf, Model: res}, nil
}
