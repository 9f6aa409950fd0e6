package solver

import "strings"

// checkingGateForVar XOR-reduces one variable's list of
// activation-gated observation terms into its single "checking gate"
// literal: true iff the adversary's probe placement lets it observe
// that variable's value.
func checkingGateForVar(cnf *CNF, terms []Lit) Lit {
	return cnf.XorReduce(terms)
}

// partitionBySecretMask builds the checking gate for every secret and
// mask variable in u (gateOf supplies the per-variable observation
// terms, already reduced to a single literal), and splits the results
// by the variable's "s_"/"m_" prefix. Don't-care ("y_") variables never
// appear in u.
func partitionBySecretMask(u *Universe, gateOf func(name string, idx int) Lit) (secretGates, maskGates []Lit) {
	for _, name := range u.V {
		idx, _ := u.Index(name)
		gate := gateOf(name, idx)
		switch {
		case strings.HasPrefix(name, "s_"):
			secretGates = append(secretGates, gate)
		case strings.HasPrefix(name, "m_"):
			maskGates = append(maskGates, gate)
		}
	}
	return secretGates, maskGates
}

// assembleLeakFormula builds the standard leakage predicate: at least
// one observed secret variable, and no observed mask variable. A
// probe placement satisfying this formula is a witness that the
// checked order is insecure.
func assembleLeakFormula(cnf *CNF, secretGates, maskGates []Lit) Lit {
	return cnf.And(cnf.OrMany(secretGates), notAll(cnf, maskGates))
}

func notAll(cnf *CNF, lits []Lit) Lit {
	negs := make([]Lit, len(lits))
	for i, l := range lits {
		negs[i] = cnf.Not(l)
	}
	return cnf.AndMany(negs)
}
