package synth

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNetlistJSON = `{
	"modules": {
		"top": {
			"ports": {
				"a": {"direction": "input", "bits": [2, 1]},
				"y": {"direction": "output", "bits": [3]}
			}
		}
	}
}`

func TestWriteLabelTemplateSortsPortsThenBits(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "circuit.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleNetlistJSON), 0644))

	txtPath := filepath.Join(dir, "circuit.txt")
	require.NoError(t, writeLabelTemplate(jsonPath, "top", txtPath))

	content, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Equal(t, []string{"a_1: unimportant", "a_2: unimportant", "y_3: unimportant"}, lines)
}

func TestWriteLabelTemplateRejectsUnknownTopModule(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "circuit.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleNetlistJSON), 0644))

	err := writeLabelTemplate(jsonPath, "missing", filepath.Join(dir, "circuit.txt"))
	assert.Error(t, err)
}

func TestStampTopModuleRecordsName(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "circuit.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleNetlistJSON), 0644))

	require.NoError(t, stampTopModule(jsonPath, "top"))

	content, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"top_module": "top"`)
}
