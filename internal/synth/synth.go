// Package synth shells out to an external gate-level synthesizer (yosys by
// default) to turn a Verilog source file into the yosys-style JSON netlist
// the rest of the toolchain consumes, and emits the matching label
// template.
package synth

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/IAIK/rebecca/internal/netlist"
	"github.com/pkg/errors"
)

var scriptTemplate = template.Must(template.New("synth.ys").Parse(
	`read_verilog {{.VerilogFile}}
hierarchy -top {{.TopModule}}
proc; opt; memory; opt; fsm; opt
techmap; opt
write_json {{.JSONOut}}
`))

type scriptVars struct {
	VerilogFile string
	TopModule   string
	JSONOut     string
}

// Run invokes synthCmd (e.g. "yosys") against verilogFile, producing
// <base>.json (the synthesized netlist) and <base>.txt (a label template
// tagging every port bit "unimportant") alongside it, where <base> is
// verilogFile with its ".v" suffix stripped. scratchDir holds the
// generated yosys script.
func Run(synthCmd, verilogFile, topModule, scratchDir string) (jsonPath, txtPath string, err error) {
	base := strings.TrimSuffix(verilogFile, filepath.Ext(verilogFile))
	jsonPath = base + ".json"
	txtPath = base + ".txt"

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, scriptVars{VerilogFile: verilogFile, TopModule: topModule, JSONOut: jsonPath}); err != nil {
		return "", "", errors.Wrap(err, "render synthesis script")
	}
	scriptPath := filepath.Join(scratchDir, "synth.ys")
	if err := os.WriteFile(scriptPath, buf.Bytes(), 0644); err != nil {
		return "", "", errors.Wrap(err, "write synthesis script")
	}

	cmd := exec.Command(synthCmd, "-q", "-s", scriptPath) // #nosec G204
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", "", errors.Wrapf(err, "run %s", synthCmd)
	}

	if err := stampTopModule(jsonPath, topModule); err != nil {
		return "", "", err
	}
	if err := writeLabelTemplate(jsonPath, topModule, txtPath); err != nil {
		return "", "", err
	}
	return jsonPath, txtPath, nil
}

// stampTopModule records top_module in the synthesized JSON document,
// since yosys's write_json does not emit it itself and netlist.Load
// requires it.
func stampTopModule(jsonPath, topModule string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return errors.Wrap(err, "read synthesized netlist")
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(err, "decode synthesized netlist")
	}
	doc["top_module"] = topModule
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode stamped netlist")
	}
	return errors.Wrap(os.WriteFile(jsonPath, out, 0644), "write stamped netlist")
}

// writeLabelTemplate lists every bit of every port of topModule, tagged
// "unimportant", sorted by port name then by the bit id's string form.
func writeLabelTemplate(jsonPath, topModule, txtPath string) error {
	f, err := os.Open(jsonPath)
	if err != nil {
		return errors.Wrap(err, "open synthesized netlist")
	}
	defer f.Close()

	var doc netlist.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return errors.Wrap(err, "decode synthesized netlist")
	}
	mod, ok := doc.Modules[topModule]
	if !ok {
		return errors.Errorf("top module %q not found in synthesized netlist", topModule)
	}

	ports := make([]string, 0, len(mod.Ports))
	for name := range mod.Ports {
		ports = append(ports, name)
	}
	sort.Strings(ports)

	var out strings.Builder
	for _, port := range ports {
		bits := make([]string, 0, len(mod.Ports[port].Bits))
		for _, b := range mod.Ports[port].Bits {
			bits = append(bits, strconv.Itoa(b))
		}
		sort.Strings(bits)
		for _, bit := range bits {
			out.WriteString(port)
			out.WriteByte('_')
			out.WriteString(bit)
			out.WriteString(": unimportant\n")
		}
	}
	return errors.Wrap(os.WriteFile(txtPath, []byte(out.String()), 0644), "write label template")
}
