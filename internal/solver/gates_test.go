package solver

import (
	"testing"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWired(t *testing.T, nodes []graph.Node, edges [][2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
	for _, e := range edges {
		require.NoError(t, g.AddWire(e[0], e[1]))
	}
	return g
}

func TestPortGateFixesLabeledVariablesOnly(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
	}, nil)
	u := NewUniverse(g)
	cnf := NewCNF()
	vs := NewVarSet(cnf, g, u, ModeStable)
	require.NoError(t, addGateConstraints(cnf, vs, g, mustNode(t, g, "a")))

	res := Solve(cnf)
	require.True(t, res.SAT)
	idx, ok := u.Index("s_1")
	require.True(t, ok)
	assert.True(t, res.True(vs.Cells["a"].Stable[idx]))
}

func TestXorStableIsDeterministicSymmetricDifference(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
		{Name: "b", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"m_1"}},
		{Name: "g", Kind: graph.KindXor},
	}, [][2]string{{"a", "g"}, {"b", "g"}})
	u := NewUniverse(g)
	cnf := NewCNF()
	vs := NewVarSet(cnf, g, u, ModeStable)
	for _, n := range g.Nodes() {
		require.NoError(t, addGateConstraints(cnf, vs, g, n))
	}

	res := Solve(cnf)
	require.True(t, res.SAT)
	s1, _ := u.Index("s_1")
	m1, _ := u.Index("m_1")
	assert.True(t, res.True(vs.Cells["g"].Stable[s1]), "xor of s_1 alone with m_1 alone carries s_1")
	assert.True(t, res.True(vs.Cells["g"].Stable[m1]), "xor of s_1 alone with m_1 alone carries m_1")
}

func TestDffTransientMirrorsPredecessorStable(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
		{Name: "b", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"m_1"}},
		{Name: "and1", Kind: graph.KindAnd},
		{Name: "reg", Kind: graph.KindDff},
	}, [][2]string{{"a", "and1"}, {"b", "and1"}, {"and1", "reg"}})
	u := NewUniverse(g)
	cnf := NewCNF()
	vs := NewVarSet(cnf, g, u, ModeTransient)
	for _, n := range g.Nodes() {
		require.NoError(t, addGateConstraints(cnf, vs, g, n))
	}

	res := Solve(cnf)
	require.True(t, res.SAT)
	for i := range u.V {
		assert.Equal(t,
			res.True(vs.Cells["and1"].Stable[i]),
			res.True(vs.Cells["reg"].Transient[i]),
			"register's transient layer must equal its predecessor's stable layer, variable %s", u.V[i],
		)
	}
}

func TestAndNonlinearDisjunctionStaysWithinItsPatternSet(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
		{Name: "b", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"m_1"}},
		{Name: "g", Kind: graph.KindAnd},
	}, [][2]string{{"a", "g"}, {"b", "g"}})
	u := NewUniverse(g)
	cnf := NewCNF()
	vs := NewVarSet(cnf, g, u, ModeStable)
	for _, n := range g.Nodes() {
		require.NoError(t, addGateConstraints(cnf, vs, g, n))
	}

	res := Solve(cnf)
	require.True(t, res.SAT)
	s1, _ := u.Index("s_1")
	m1, _ := u.Index("m_1")
	gs1, gm1 := res.True(vs.Cells["g"].Stable[s1]), res.True(vs.Cells["g"].Stable[m1])
	as1, am1 := res.True(vs.Cells["a"].Stable[s1]), res.True(vs.Cells["a"].Stable[m1])
	bs1, bm1 := res.True(vs.Cells["b"].Stable[s1]), res.True(vs.Cells["b"].Stable[m1])

	matchesEmpty := !gs1 && !gm1
	matchesCopyA := gs1 == as1 && gm1 == am1
	matchesCopyB := gs1 == bs1 && gm1 == bm1
	matchesXor := gs1 == (as1 != bs1) && gm1 == (am1 != bm1)
	assert.True(t, matchesEmpty || matchesCopyA || matchesCopyB || matchesXor,
		"and-gate stable vector must be empty, a copy of one operand, or their xor")
}

func mustNode(t *testing.T, g *graph.Graph, name string) graph.Node {
	t.Helper()
	n, ok := g.Node(name)
	require.True(t, ok)
	return n
}
