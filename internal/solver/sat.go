package solver

import (
	"time"

	"github.com/go-air/gini/z"
)

// Result is the outcome of one CNF solve.
type Result struct {
	SAT     bool
	Unknown bool   // true when the budget expired before a verdict; SAT is meaningless
	Model   []int8 // value per variable, 1-indexed like DIMACS; nil when UNSAT or Unknown
}

// True reports whether lit holds in the satisfying model. Only valid when
// SAT is true.
func (r Result) True(lit Lit) bool {
	v := r.Model[abs(lit)]
	if lit < 0 {
		v = -v
	}
	return v == 1
}

// Solve runs cnf's accumulated clauses through gini with no time budget;
// it always returns a definite SAT/UNSAT verdict.
func Solve(cnf *CNF) Result {
	return SolveWithBudget(cnf, 0)
}

// SolveWithBudget is Solve bounded by budget wall-clock time. budget <= 0
// means unbounded. When the budget expires before gini reaches a verdict,
// Result.Unknown is true and SAT is meaningless; callers must treat this
// the same as a solver failure.
func SolveWithBudget(cnf *CNF, budget time.Duration) Result {
	var outcome int
	if budget <= 0 {
		outcome = cnf.g.Solve()
	} else {
		outcome = cnf.g.Try(budget)
	}

	switch outcome {
	case 1:
		model := make([]int8, cnf.nVars+1)
		for v := 1; v <= cnf.nVars; v++ {
			if cnf.g.Value(z.Var(v).Pos()) {
				model[v] = 1
			} else {
				model[v] = -1
			}
		}
		return Result{SAT: true, Model: model}
	case -1:
		return Result{SAT: false}
	default:
		return Result{Unknown: true}
	}
}
