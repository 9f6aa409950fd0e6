package netlist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/pkg/errors"
)

// Load reads a yosys-style netlist JSON file and wires up the raw graph of
// cell and port nodes described by it.
func Load(path string) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open netlist file")
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader is Load without the filesystem dependency, for tests.
func LoadReader(r io.Reader) (*Circuit, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode netlist json")
	}
	if doc.TopModule == "" {
		return nil, errors.New("netlist: missing top_module")
	}
	mod, ok := doc.Modules[doc.TopModule]
	if !ok {
		return nil, errors.Errorf("netlist: top module %q not found in modules", doc.TopModule)
	}
	return build(doc.TopModule, mod)
}

// gateKind extracts the gate kind from a cell's yosys type string: the
// first non-empty token after the leading "$" and first underscore,
// lowercased (e.g. "$_XOR_" -> "xor", "$_DFFSR_PPP_" -> "dffsr").
func gateKind(cellType string) string {
	t := strings.TrimPrefix(cellType, "$")
	for _, tok := range strings.Split(t, "_") {
		if tok != "" {
			return strings.ToLower(tok)
		}
	}
	return strings.ToLower(t)
}

// instanceTail returns the tail of a cell name after its last "$". Node
// identity uses the full cell name, not this tail.
func instanceTail(cellName string) string {
	idx := strings.LastIndex(cellName, "$")
	if idx < 0 {
		return cellName
	}
	return cellName[idx+1:]
}

// portNodeName names a port bit node after its global net bit id (not its
// local position in the port's bit list), matching the label file
// convention of keying on the trailing bit id after the last underscore.
func portNodeName(port string, bitID int) string {
	return fmt.Sprintf("%s_%d", port, bitID)
}

func constNodeName(literal string) string {
	return "const_" + literal
}

func build(top string, mod RawModule) (*Circuit, error) {
	g := graph.New()
	driver := map[int]string{} // net bit-id -> producing node name

	// Pass 1: create port nodes, record input ports as net drivers.
	portNames := make([]string, 0, len(mod.Ports))
	for name := range mod.Ports {
		portNames = append(portNames, name)
	}
	sort.Strings(portNames)
	for _, name := range portNames {
		p := mod.Ports[name]
		dir := graph.DirIn
		if strings.EqualFold(p.Direction, "output") {
			dir = graph.DirOut
		}
		for i, bit := range p.Bits {
			nodeName := portNodeName(name, bit)
			labels := p.Label
			if err := g.AddNode(graph.Node{Name: nodeName, Kind: graph.KindPort, Direction: dir, Labels: labels}); err != nil {
				return nil, errors.Wrapf(err, "port %s bit %d", name, i)
			}
			if dir == graph.DirIn {
				driver[bit] = nodeName
			}
		}
	}

	// Pass 2: create cell nodes, record their output bits as net drivers.
	cellNames := make([]string, 0, len(mod.Cells))
	for name := range mod.Cells {
		cellNames = append(cellNames, name)
	}
	sort.Strings(cellNames)
	for _, name := range cellNames {
		cell := mod.Cells[name]
		kind := graph.Kind(gateKind(cell.Type))
		if err := g.AddNode(graph.Node{Name: name, Kind: kind}); err != nil {
			return nil, errors.Wrapf(err, "cell %s", name)
		}
		for portName, conn := range cell.Connections {
			if cell.PortDirections[portName] != "output" {
				continue
			}
			for _, bit := range conn {
				id, ok := bitID(bit)
				if !ok {
					continue // literal driving an output port is not modeled as a net
				}
				driver[id] = name
			}
		}
	}

	// Pass 3: wire cell/port inputs to their driving node, synthesizing
	// const nodes for literal connection values as needed.
	constNodes := map[string]bool{}
	wireInput := func(consumer string, conn []any) error {
		for _, v := range conn {
			if id, ok := bitID(v); ok {
				from, ok := driver[id]
				if !ok {
					continue // undriven net (e.g. a floating input); nothing to wire
				}
				if err := g.AddWire(from, consumer); err != nil {
					return err
				}
				continue
			}
			lit := literalValue(v)
			cn := constNodeName(lit)
			if !constNodes[cn] {
				if err := g.AddNode(graph.Node{Name: cn, Kind: graph.KindConst}); err != nil {
					return err
				}
				constNodes[cn] = true
			}
			if err := g.AddWire(cn, consumer); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range cellNames {
		cell := mod.Cells[name]
		for portName, conn := range cell.Connections {
			if cell.PortDirections[portName] == "output" {
				continue
			}
			if err := wireInput(name, conn); err != nil {
				return nil, errors.Wrapf(err, "cell %s port %s", name, portName)
			}
		}
	}
	for _, name := range portNames {
		p := mod.Ports[name]
		if !strings.EqualFold(p.Direction, "output") {
			continue
		}
		for i, bit := range p.Bits {
			nodeName := portNodeName(name, bit)
			if err := wireInput(nodeName, []any{float64(bit)}); err != nil {
				return nil, errors.Wrapf(err, "port %s bit %d", name, i)
			}
		}
	}

	return &Circuit{Graph: g, TopName: top}, nil
}

// bitID interprets a connection entry as an integer net id. JSON numbers
// decode to float64 and are always net ids; literal constants ("0","1",
// "x","z") decode to string and are never net ids, even when the literal
// happens to look like an integer.
func bitID(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	default:
		return 0, false
	}
}

func literalValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
