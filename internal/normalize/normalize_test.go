package normalize

import (
	"testing"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRaw(t *testing.T, nodes []graph.Node, edges [][2]string) *graph.Graph {
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

func TestNormalizationClosure(t *testing.T) {
	raw := buildRaw(t,
		[]graph.Node{
			{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
			{Name: "b", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"m_1"}},
			{Name: "n1", Kind: graph.KindNot},
			{Name: "c1", Kind: graph.KindConst},
			{Name: "or1", Kind: graph.KindOr},
			{Name: "isolated", Kind: graph.KindAnd},
		},
		[][2]string{
			{"a", "n1"},
			{"n1", "or1"},
			{"b", "or1"},
			{"c1", "or1"},
		},
	)

	simplified, err := Normalize(raw, nil)
	require.NoError(t, err)

	for _, n := range simplified.Nodes() {
		assert.NotEqual(t, graph.KindNot, n.Kind)
		assert.NotEqual(t, graph.KindConst, n.Kind)
		assert.False(t, simplified.InDegree(n.Name) == 0 && simplified.OutDegree(n.Name) == 0, "node %s is isolated", n.Name)
	}

	assert.False(t, simplified.HasNode("isolated"))
	assert.False(t, simplified.HasNode("n1"))
	assert.False(t, simplified.HasNode("c1"))

	or1, ok := simplified.Node("or1")
	require.True(t, ok)
	assert.Equal(t, graph.KindAnd, or1.Kind)
	assert.ElementsMatch(t, []string{"a", "b"}, simplified.Predecessors("or1"))
}

func TestDropsDontCarePorts(t *testing.T) {
	raw := buildRaw(t,
		[]graph.Node{
			{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"y_1"}},
			{Name: "b", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
			{Name: "and1", Kind: graph.KindAnd},
		},
		[][2]string{{"a", "and1"}, {"b", "and1"}},
	)
	simplified, err := Normalize(raw, nil)
	require.NoError(t, err)
	assert.False(t, simplified.HasNode("a"))
	assert.True(t, simplified.HasNode("b"))
}

func TestUnknownKindIsFatal(t *testing.T) {
	raw := buildRaw(t, []graph.Node{{Name: "weird", Kind: "frobnicate"}}, nil)
	_, err := Normalize(raw, nil)
	assert.Error(t, err)
}

func TestNotChainAbsorption(t *testing.T) {
	raw := buildRaw(t,
		[]graph.Node{
			{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
			{Name: "n1", Kind: graph.KindNot},
			{Name: "n2", Kind: graph.KindNot},
			{Name: "out", Kind: graph.KindDff},
		},
		[][2]string{{"a", "n1"}, {"n1", "n2"}, {"n2", "out"}},
	)
	simplified, err := Normalize(raw, nil)
	require.NoError(t, err)
	assert.False(t, simplified.HasNode("n1"))
	assert.False(t, simplified.HasNode("n2"))
	assert.Equal(t, []string{"a"}, simplified.Predecessors("out"))
}
