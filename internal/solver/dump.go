package solver

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimacs renders the CNF in DIMACS format, one line per clause, terminated
// by the conventional trailing 0.
func (c *CNF) Dimacs() string {
	var b strings.Builder
	fmt.Fprintf(&b, "p cnf %d %d\n", c.nVars, len(c.Clauses))
	for _, cl := range c.Clauses {
		terms := make([]string, len(cl)+1)
		for i, lit := range cl {
			terms[i] = strconv.Itoa(lit)
		}
		terms[len(cl)] = "0"
		b.WriteString(strings.Join(terms, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// SExpr renders the CNF as an SMT-LIB-shaped s-expression: one
// declare-const per variable followed by one assert per clause. This is
// a debug dump, not a solver input — no SMT binding is in scope for this
// project, so nothing ever reads it back.
func (c *CNF) SExpr() string {
	var b strings.Builder
	for i := 1; i <= c.nVars; i++ {
		fmt.Fprintf(&b, "(declare-const v%d Bool)\n", i)
	}
	for _, cl := range c.Clauses {
		terms := make([]string, len(cl))
		for i, lit := range cl {
			if lit < 0 {
				terms[i] = fmt.Sprintf("(not v%d)", -lit)
			} else {
				terms[i] = fmt.Sprintf("v%d", lit)
			}
		}
		fmt.Fprintf(&b, "(assert (or %s))\n", strings.Join(terms, " "))
	}
	return b.String()
}

// Model renders a satisfying assignment as "v<i> = true/false" lines, one
// per variable, in variable order. Callers must only call this when
// res.SAT is true.
func (c *CNF) Model(res Result) string {
	var b strings.Builder
	for i := 1; i <= c.nVars; i++ {
		value := "false"
		if res.True(i) {
			value = "true"
		}
		fmt.Fprintf(&b, "v%d = %s\n", i, value)
	}
	return b.String()
}
