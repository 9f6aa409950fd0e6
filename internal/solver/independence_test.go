package solver

import (
	"testing"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/IAIK/rebecca/internal/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateGroupsMapsShareBitsAndSinkNodes(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a_1", Kind: graph.KindPort, Direction: graph.DirIn},
		{Name: "b_2", Kind: graph.KindPort, Direction: graph.DirIn},
		{Name: "sink", Kind: graph.KindAnd},
	}, [][2]string{{"a_1", "sink"}, {"b_2", "sink"}})

	entries := []label.Entry{
		{Bit: "1", Kind: label.KindShare, Group: "1"},
		{Bit: "2", Kind: label.KindShare, Group: "1"},
	}
	groups, err := candidateGroups(g, entries)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a_1", "b_2"}, groups["1"])
	assert.ElementsMatch(t, []string{"sink"}, groups["output"])
}

func TestCheckIndependenceNoSecretIsAlwaysSecure(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a_1", Kind: graph.KindPort, Direction: graph.DirIn},
	}, nil)
	entries := []label.Entry{{Bit: "1", Kind: label.KindMask}}
	v, err := CheckIndependence(g, entries, 1, 0)
	require.NoError(t, err)
	assert.True(t, v.Secure)
}

// Two bare share bits with no consuming gate are, by the sink rule, also
// each counted as an "output" node on their own. The checking gate
// combines activation across every group simultaneously, so a probe
// charged to the share group and a probe charged to the output group can
// still jointly cancel the mask even though neither group alone exceeds
// its own order-1 cap.
func TestCheckIndependenceCombinesActivationAcrossGroups(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a_1", Kind: graph.KindPort, Direction: graph.DirIn},
		{Name: "b_2", Kind: graph.KindPort, Direction: graph.DirIn},
	}, nil)
	entries := []label.Entry{
		{Bit: "1", Kind: label.KindShare, Group: "1"},
		{Bit: "2", Kind: label.KindShare, Group: "1"},
	}
	v, err := CheckIndependence(g, entries, 1, 0)
	require.NoError(t, err)
	assert.False(t, v.Secure)
}
