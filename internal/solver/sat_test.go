package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveTrivialUnsat(t *testing.T) {
	cnf := NewCNF()
	a := cnf.NewVar()
	cnf.AssertTrue(a)
	cnf.AssertFalse(a)
	res := Solve(cnf)
	assert.False(t, res.SAT)
}

func TestSolveUnitPropagationChain(t *testing.T) {
	cnf := NewCNF()
	a, b, c := cnf.NewVar(), cnf.NewVar(), cnf.NewVar()
	cnf.AssertTrue(a)
	cnf.AddClause(-a, b)
	cnf.AddClause(-b, c)
	res := Solve(cnf)
	require.True(t, res.SAT)
	assert.True(t, res.True(a))
	assert.True(t, res.True(b))
	assert.True(t, res.True(c))
}

func TestSolveRequiresBacktracking(t *testing.T) {
	// (a v b) & (!a v c) & (!a v !c): a=true immediately conflicts (c and
	// !c both forced), so every model has a=false and b=true; a search
	// that tries a=true first has to backtrack to reach it.
	cnf := NewCNF()
	a, b, c := cnf.NewVar(), cnf.NewVar(), cnf.NewVar()
	cnf.AddClause(a, b)
	cnf.AddClause(-a, c)
	cnf.AddClause(-a, -c)
	res := Solve(cnf)
	require.True(t, res.SAT)
	assert.False(t, res.True(a))
	assert.True(t, res.True(b))
}

func TestSolveEmptyClauseIsUnsat(t *testing.T) {
	cnf := NewCNF()
	cnf.AddClause()
	res := Solve(cnf)
	assert.False(t, res.SAT)
}

func TestSolveWithBudgetZeroIsUnbounded(t *testing.T) {
	cnf := NewCNF()
	a := cnf.NewVar()
	cnf.AssertTrue(a)
	res := SolveWithBudget(cnf, 0)
	require.True(t, res.SAT)
	assert.False(t, res.Unknown)
	assert.True(t, res.True(a))
}

func TestResultTrueRespectsNegation(t *testing.T) {
	cnf := NewCNF()
	a := cnf.NewVar()
	cnf.AssertFalse(a)
	res := Solve(cnf)
	require.True(t, res.SAT)
	assert.False(t, res.True(a))
	assert.True(t, res.True(-a))
}
