// Package netlist loads a synthesized gate-level circuit description (the
// yosys-style JSON a synthesizer emits) into a raw directed graph.
package netlist

import "github.com/IAIK/rebecca/internal/graph"

// RawPort mirrors one entry of modules[top].ports in the netlist document.
type RawPort struct {
	Direction string   `json:"direction"`
	Bits      []int    `json:"bits"`
	Label     []string `json:"label,omitempty"`
}

// RawCell mirrors one entry of modules[top].cells.
type RawCell struct {
	Type           string            `json:"type"`
	PortDirections map[string]string `json:"port_directions"`
	Connections    map[string][]any  `json:"connections"`
}

// RawNetname mirrors one entry of modules[top].netnames.
type RawNetname struct {
	Bits []any `json:"bits"`
}

// RawModule is the modules[top_module] object.
type RawModule struct {
	Ports    map[string]RawPort    `json:"ports"`
	Cells    map[string]RawCell    `json:"cells"`
	Netnames map[string]RawNetname `json:"netnames"`
}

// Document is the full netlist JSON document.
type Document struct {
	TopModule string               `json:"top_module"`
	Modules   map[string]RawModule `json:"modules"`
}

// Circuit is the parsed, wired-up raw graph plus the name of the top
// module it was built from.
type Circuit struct {
	Graph   *graph.Graph
	TopName string
}
