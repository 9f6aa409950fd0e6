// Package solver builds the boolean satisfiability query that decides
// d-probing security (and, in its independence variant, per-share output
// independence) and runs it through github.com/go-air/gini, a pure-Go
// CDCL SAT solver.
//
// CNF keeps its own Tseitin clause builder (needed unchanged for the
// Dimacs/SExpr debug dumps, which render the query without ever invoking
// gini) and mirrors every clause into a backing *gini.Gini instance as it
// is built, so Solve never has to re-walk the clause list to hand it to
// the solver.
package solver

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Lit is a DIMACS-style literal: a positive int names a variable asserted
// true, its negation the same variable asserted false. Variable 0 is
// never used.
type Lit = int

// CNF accumulates variables and clauses for one solve. It is not safe for
// concurrent use; each worker builds and solves its own CNF.
type CNF struct {
	nVars      int
	Clauses    [][]Lit
	constTrue  Lit
	constFalse Lit
	g          *gini.Gini
}

// NewCNF returns an empty CNF builder.
func NewCNF() *CNF {
	return &CNF{g: gini.New()}
}

// NewVar allocates a fresh boolean variable and returns its positive
// literal.
func (c *CNF) NewVar() Lit {
	c.nVars++
	return c.nVars
}

// NumVars reports how many variables have been allocated.
func (c *CNF) NumVars() int { return c.nVars }

// AddClause asserts the disjunction of lits.
func (c *CNF) AddClause(lits ...Lit) {
	cl := make([]Lit, len(lits))
	copy(cl, lits)
	c.Clauses = append(c.Clauses, cl)
	for _, l := range lits {
		c.g.Add(zLit(l))
	}
	c.g.Add(0)
}

// zLit converts a DIMACS-style signed literal into gini's z.Lit.
func zLit(l Lit) z.Lit {
	v := z.Var(abs(l))
	if l < 0 {
		return v.Neg()
	}
	return v.Pos()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Not returns the negated literal; it never allocates a variable.
func (c *CNF) Not(a Lit) Lit { return -a }

// AssertTrue / AssertFalse pin a literal's truth value.
func (c *CNF) AssertTrue(a Lit)  { c.AddClause(a) }
func (c *CNF) AssertFalse(a Lit) { c.AddClause(-a) }

// AssertEq asserts a <-> b.
func (c *CNF) AssertEq(a, b Lit) {
	c.AddClause(-a, b)
	c.AddClause(a, -b)
}

// ConstFalse / ConstTrue return a literal pinned to a fixed truth value,
// allocating the backing variable on first use and memoizing it.
func (c *CNF) ConstFalse() Lit {
	if c.constFalse == 0 {
		c.constFalse = c.NewVar()
		c.AssertFalse(c.constFalse)
	}
	return c.constFalse
}

func (c *CNF) ConstTrue() Lit {
	if c.constTrue == 0 {
		c.constTrue = c.NewVar()
		c.AssertTrue(c.constTrue)
	}
	return c.constTrue
}

// And returns a fresh literal y with y <-> (a AND b), Tseitin-encoded.
func (c *CNF) And(a, b Lit) Lit {
	y := c.NewVar()
	c.AddClause(-y, a)
	c.AddClause(-y, b)
	c.AddClause(y, -a, -b)
	return y
}

// Or returns a fresh literal y with y <-> (a OR b).
func (c *CNF) Or(a, b Lit) Lit {
	y := c.NewVar()
	c.AddClause(y, -a)
	c.AddClause(y, -b)
	c.AddClause(-y, a, b)
	return y
}

// Xor returns a fresh literal y with y <-> (a XOR b).
func (c *CNF) Xor(a, b Lit) Lit {
	y := c.NewVar()
	c.AddClause(-y, a, b)
	c.AddClause(-y, -a, -b)
	c.AddClause(y, -a, b)
	c.AddClause(y, a, -b)
	return y
}

// OrMany returns a fresh literal y with y <-> OR(lits...). An empty input
// yields the constant-false literal.
func (c *CNF) OrMany(lits []Lit) Lit {
	if len(lits) == 0 {
		return c.ConstFalse()
	}
	y := c.NewVar()
	cl := append([]Lit{-y}, lits...)
	c.AddClause(cl...)
	for _, l := range lits {
		c.AddClause(y, -l)
	}
	return y
}

// AndMany returns a fresh literal y with y <-> AND(lits...). An empty
// input yields the constant-true literal.
func (c *CNF) AndMany(lits []Lit) Lit {
	if len(lits) == 0 {
		return c.ConstTrue()
	}
	y := c.NewVar()
	cl := append([]Lit{y}, negateAll(lits)...)
	c.AddClause(cl...)
	for _, l := range lits {
		c.AddClause(-y, l)
	}
	return y
}

// XorReduce folds Xor across lits left to right; an empty input yields
// constant-false (the identity element of XOR).
func (c *CNF) XorReduce(lits []Lit) Lit {
	if len(lits) == 0 {
		return c.ConstFalse()
	}
	acc := lits[0]
	for _, l := range lits[1:] {
		acc = c.Xor(acc, l)
	}
	return acc
}

// ImpliesEq asserts sel -> (x <-> y): only constraining x,y when sel
// holds. Used to encode "if this disjunct was chosen, the output vector
// equals this pattern" without forcing mutual exclusivity between
// disjuncts.
func (c *CNF) ImpliesEq(sel, x, y Lit) {
	c.AddClause(-sel, -x, y)
	c.AddClause(-sel, x, -y)
}

// ImpliesFalse asserts sel -> NOT x.
func (c *CNF) ImpliesFalse(sel, x Lit) {
	c.AddClause(-sel, -x)
}

// AtLeast1 asserts that at least one of lits holds. An empty input adds
// the empty clause, the standard CNF encoding of an unconditional
// contradiction.
func (c *CNF) AtLeast1(lits []Lit) {
	c.AddClause(lits...)
}

// AtMostK lowers Sigma(lits) <= k to a sequential-counter CNF encoding,
// the standard approach for backends (like this one) without native
// cardinality support.
func (c *CNF) AtMostK(lits []Lit, k int) {
	n := len(lits)
	if k >= n {
		return
	}
	if k <= 0 {
		for _, l := range lits {
			c.AssertFalse(l)
		}
		return
	}
	if n == 0 {
		return
	}
	// s[i][j] means "at least j+1 of lits[0..i] are true", j in [0,k).
	s := make([][]Lit, n)
	for i := range s {
		s[i] = make([]Lit, k)
		for j := range s[i] {
			s[i][j] = c.NewVar()
		}
	}
	// lits[0] implies s[0][0].
	c.AddClause(-lits[0], s[0][0])
	for j := 1; j < k; j++ {
		c.AddClause(-s[0][j]) // cannot have 2+ true among a single literal
	}
	for i := 1; i < n; i++ {
		c.AddClause(-lits[i], s[i][0])
		c.AddClause(-s[i-1][0], s[i][0])
		for j := 1; j < k; j++ {
			c.AddClause(-lits[i], -s[i-1][j-1], s[i][j])
			c.AddClause(-s[i-1][j], s[i][j])
		}
		// If we already reached k true before i, lits[i] cannot also be true.
		c.AddClause(-lits[i], -s[i-1][k-1])
	}
}

func negateAll(lits []Lit) []Lit {
	out := make([]Lit, len(lits))
	for i, l := range lits {
		out[i] = -l
	}
	return out
}
