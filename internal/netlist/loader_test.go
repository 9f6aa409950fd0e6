package netlist

import (
	"strings"
	"testing"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xorDoc = `{
  "top_module": "top",
  "modules": {
    "top": {
      "ports": {
        "a0": {"direction": "input", "bits": [2], "label": ["s_1", "m_1"]},
        "a1": {"direction": "input", "bits": [3], "label": ["m_1"]},
        "y":  {"direction": "output", "bits": [4]}
      },
      "cells": {
        "$1": {
          "type": "$_XOR_",
          "port_directions": {"A": "input", "B": "input", "Y": "output"},
          "connections": {"A": [2], "B": [3], "Y": [4]}
        }
      },
      "netnames": {}
    }
  }
}`

func TestLoadReaderWiresXor(t *testing.T) {
	c, err := LoadReader(strings.NewReader(xorDoc))
	require.NoError(t, err)

	assert.True(t, c.Graph.HasNode("a0_2"))
	assert.True(t, c.Graph.HasNode("a1_3"))
	assert.True(t, c.Graph.HasNode("y_4"))
	assert.True(t, c.Graph.HasNode("$1"))

	n, ok := c.Graph.Node("$1")
	require.True(t, ok)
	assert.Equal(t, graph.KindXor, n.Kind)

	assert.ElementsMatch(t, []string{"a0_2", "a1_3"}, c.Graph.Predecessors("$1"))
	assert.Equal(t, []string{"$1"}, c.Graph.Successors("a0_2"))
	assert.Equal(t, []string{"$1"}, c.Graph.Predecessors("y_4"))
}

func TestGateKindExtraction(t *testing.T) {
	cases := map[string]string{
		"$_AND_":        "and",
		"$_XOR_":        "xor",
		"$_XNOR_":       "xnor",
		"$_NOT_":        "not",
		"$_MUX_":        "mux",
		"$_DFF_P_":      "dff",
		"$_DFFSR_PNN_":  "dffsr",
	}
	for in, want := range cases {
		assert.Equal(t, want, gateKind(in), in)
	}
}

func TestLoadReaderMissingTopModule(t *testing.T) {
	_, err := LoadReader(strings.NewReader(`{"top_module": "nope", "modules": {}}`))
	assert.Error(t, err)
}

const constDoc = `{
  "top_module": "top",
  "modules": {
    "top": {
      "ports": {
        "y": {"direction": "output", "bits": [1]}
      },
      "cells": {
        "$1": {
          "type": "$_NOT_",
          "port_directions": {"A": "input", "Y": "output"},
          "connections": {"A": ["0"], "Y": [1]}
        }
      },
      "netnames": {}
    }
  }
}`

func TestLoadReaderSynthesizesConstNode(t *testing.T) {
	c, err := LoadReader(strings.NewReader(constDoc))
	require.NoError(t, err)
	assert.True(t, c.Graph.HasNode("const_0"))
	n, ok := c.Graph.Node("const_0")
	require.True(t, ok)
	assert.Equal(t, graph.KindConst, n.Kind)
	assert.Equal(t, []string{"const_0"}, c.Graph.Predecessors("$1"))
}
