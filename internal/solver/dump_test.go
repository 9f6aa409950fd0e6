package solver

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimacsHeaderMatchesClauseCount(t *testing.T) {
	cnf := NewCNF()
	a := cnf.NewVar()
	b := cnf.NewVar()
	cnf.AddClause(a, -b)
	cnf.AddClause(b)

	dimacs := cnf.Dimacs()
	assert.Contains(t, dimacs, "p cnf 2 2\n")
	assert.Contains(t, dimacs, "1 -2 0\n")
	assert.Contains(t, dimacs, "2 0\n")
}

func TestSExprDeclaresEveryVariable(t *testing.T) {
	cnf := NewCNF()
	a := cnf.NewVar()
	_ = cnf.NewVar()
	cnf.AssertTrue(a)

	s := cnf.SExpr()
	assert.Contains(t, s, "(declare-const v1 Bool)")
	assert.Contains(t, s, "(declare-const v2 Bool)")
	assert.Contains(t, s, "(assert (or v1))")
}

func TestModelRendersEveryVariableAssignment(t *testing.T) {
	cnf := NewCNF()
	a := cnf.NewVar()
	b := cnf.NewVar()
	cnf.AssertTrue(a)
	cnf.AssertFalse(b)

	res := Solve(cnf)
	assert.True(t, res.SAT)
	model := cnf.Model(res)
	assert.Contains(t, model, "v1 = true")
	assert.Contains(t, model, "v2 = false")
}
