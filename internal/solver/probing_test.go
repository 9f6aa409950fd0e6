package solver

import (
	"testing"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckProbingNoSecretIsAlwaysSecure(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"m_1"}},
	}, nil)
	v, err := CheckProbing(g, ModeStable, 1, 0)
	require.NoError(t, err)
	assert.True(t, v.Secure)
}

// Two directly-observable shares of one secret, a0 = s_1+m_1 and a1 = m_1,
// with no combining gate between them: a lone probe on either share never
// exposes s_1, but probing both at once lets their checking gates cancel
// m_1 and expose it.
func sharedSecretPorts(t *testing.T) *graph.Graph {
	return buildWired(t, []graph.Node{
		{Name: "a0", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1", "m_1"}},
		{Name: "a1", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"m_1"}},
	}, nil)
}

func TestCheckProbingTwoSharesSecureAtOrderOne(t *testing.T) {
	g := sharedSecretPorts(t)
	v, err := CheckProbing(g, ModeStable, 1, 0)
	require.NoError(t, err)
	assert.True(t, v.Secure)
}

func TestCheckProbingTwoSharesInsecureAtOrderTwo(t *testing.T) {
	g := sharedSecretPorts(t)
	v, err := CheckProbing(g, ModeStable, 2, 0)
	require.NoError(t, err)
	require.False(t, v.Secure)
	assert.Equal(t, []string{"a0", "a1"}, v.Witness)
}

func TestCheckProbingUnmaskedSecretsInsecureAtOrderOne(t *testing.T) {
	g := buildWired(t, []graph.Node{
		{Name: "a", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_1"}},
		{Name: "b", Kind: graph.KindPort, Direction: graph.DirIn, Labels: []string{"s_2"}},
	}, nil)
	v, err := CheckProbing(g, ModeStable, 1, 0)
	require.NoError(t, err)
	require.False(t, v.Secure)
	assert.LessOrEqual(t, len(v.Witness), 1)
}

func TestCheckProbingMonotonicInOrder(t *testing.T) {
	g := sharedSecretPorts(t)
	insecureAt2, err := CheckProbing(g, ModeStable, 2, 0)
	require.NoError(t, err)
	require.False(t, insecureAt2.Secure)

	insecureAt3, err := CheckProbing(g, ModeStable, 3, 0)
	require.NoError(t, err)
	assert.False(t, insecureAt3.Secure, "an order-d insecure labeling must remain insecure at any d' > d")
}
