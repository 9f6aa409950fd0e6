package cmd

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/IAIK/rebecca/internal/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderAcceptsBareInteger(t *testing.T) {
	order, err := parseOrder("2")
	require.NoError(t, err)
	assert.Equal(t, 2, order)
}

func TestParseOrderAcceptsArithmeticExpression(t *testing.T) {
	order, err := parseOrder("2+1")
	require.NoError(t, err)
	assert.Equal(t, 3, order)
}

func TestParseOrderRejectsNegativeResult(t *testing.T) {
	_, err := parseOrder("1-2")
	assert.Error(t, err)
}

func TestParseOrderRejectsNonIntegerResult(t *testing.T) {
	_, err := parseOrder("5/2")
	assert.Error(t, err)
}

func TestParseOrderRejectsGarbage(t *testing.T) {
	_, err := parseOrder("not-an-expression!")
	assert.Error(t, err)
}

func TestRequireExtRejectsWrongSuffix(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "circuit.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}"), 0644))
	upperPath := filepath.Join(dir, "circuit.JSON")
	require.NoError(t, os.WriteFile(upperPath, []byte("{}"), 0644))

	assert.Error(t, requireExt("circuit.txt", ".json", "netlist"))
	assert.NoError(t, requireExt(jsonPath, ".json", "netlist"))
	assert.NoError(t, requireExt(upperPath, ".json", "netlist"))
}

func TestRequireExtRejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, requireExt(filepath.Join(dir, "missing.json"), ".json", "netlist"))
}

func TestShareGroupOrderPreservesFirstAppearance(t *testing.T) {
	entries := []label.Entry{
		{Bit: "0", Kind: label.KindShare, Group: "b"},
		{Bit: "1", Kind: label.KindShare, Group: "a"},
		{Bit: "2", Kind: label.KindShare, Group: "b"},
		{Bit: "3", Kind: label.KindSecret},
	}
	assert.Equal(t, []string{"b", "a"}, shareGroupOrder(entries))
}
