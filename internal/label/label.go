// Package label parses a human-authored label file and expands it into the
// symbolic labelings the checkers consume: a single canonical labeling, or
// a per-secret family used to parallelize verification one secret at a
// time.
package label

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/pkg/errors"
)

// Kind is the role a label-file line assigns to one input bit.
type Kind string

const (
	KindMask        Kind = "mask"
	KindSecret      Kind = "secret"
	KindUnimportant Kind = "unimportant"
	KindShare       Kind = "share"
)

// Entry is one parsed label-file line.
type Entry struct {
	Bit   string // the bit id the line names (the token after the last "_")
	Kind  Kind
	Group string // share group id; only set when Kind == KindShare
}

// Labeling maps a port-bit node name (e.g. "a0_2") to its symbolic label
// list, e.g. ["s_1", "m_1"].
type Labeling map[string][]string

// ParseFile reads entries from a label file on disk.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open label file")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads label-file entries from r. Blank lines are skipped; lines
// naming an unrecognized kind are rejected.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		varVal := strings.SplitN(line, ":", 2)
		if len(varVal) != 2 {
			return nil, errors.Errorf("label file line %d: missing ':' in %q", lineNo, line)
		}
		varName := strings.TrimSpace(varVal[0])
		valPart := strings.Fields(strings.TrimSpace(varVal[1]))
		if len(valPart) == 0 {
			return nil, errors.Errorf("label file line %d: missing kind", lineNo)
		}
		idx := strings.LastIndex(varName, "_")
		if idx < 0 {
			return nil, errors.Errorf("label file line %d: %q has no bit suffix", lineNo, varName)
		}
		bit := varName[idx+1:]

		kind := Kind(valPart[0])
		e := Entry{Bit: bit, Kind: kind}
		switch kind {
		case KindMask, KindSecret, KindUnimportant:
		case KindShare:
			if len(valPart) < 2 {
				return nil, errors.Errorf("label file line %d: share missing group id", lineNo)
			}
			e.Group = valPart[1]
		default:
			return nil, errors.Errorf("label file line %d: unrecognized kind %q", lineNo, kind)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read label file")
	}
	return entries, nil
}

// Generate produces the single canonical labeling: one fresh "m_k" per
// standalone mask bit, one fresh "s_k" per standalone secret bit, one
// fresh "y_k" per don't-care bit, and for each share group, the group's
// first bit tagged with a fresh secret plus n-1 fresh masks while the
// remaining bits each get one distinct fresh mask.
func Generate(entries []Entry) (Labeling, error) {
	families, err := generateFamily(entries, false)
	if err != nil {
		return nil, err
	}
	return families[0], nil
}

// GenerateOptimized produces one labeling per distinct share group: each
// variant tags exactly one group with a secret and leaves every other
// group's first bit labeled as a pure mask sum, so that a driver can
// verify one secret at a time in parallel.
func GenerateOptimized(entries []Entry) ([]Labeling, error) {
	return generateFamily(entries, true)
}

func generateFamily(entries []Entry, optimized bool) ([]Labeling, error) {
	var masks, secrets, unimportant []string
	shareOrder := []string{}
	shares := map[string][]string{}

	for _, e := range entries {
		switch e.Kind {
		case KindMask:
			masks = append(masks, e.Bit)
		case KindSecret:
			secrets = append(secrets, e.Bit)
		case KindUnimportant:
			unimportant = append(unimportant, e.Bit)
		case KindShare:
			if _, ok := shares[e.Group]; !ok {
				shareOrder = append(shareOrder, e.Group)
			}
			shares[e.Group] = append(shares[e.Group], e.Bit)
		}
	}

	mIdx, sIdx, uIdx := 1, 1, 1
	ordinary := Labeling{}
	for _, m := range masks {
		ordinary[m] = []string{mIdx_(mIdx)}
		mIdx++
	}
	for _, s := range secrets {
		ordinary[s] = []string{sIdx_(sIdx)}
		sIdx++
	}
	for _, u := range unimportant {
		ordinary[u] = []string{yIdx_(uIdx)}
		uIdx++
	}

	if !optimized {
		labeling := cloneLabeling(ordinary)
		for _, group := range shareOrder {
			bits := shares[group]
			if len(bits) == 0 {
				continue
			}
			n := len(bits)
			base := mIdx
			first := []string{sIdx_(sIdx)}
			for i := 0; i < n-1; i++ {
				first = append(first, mIdx_(base+i))
			}
			labeling[bits[0]] = first
			for i, r := range bits[1:] {
				labeling[r] = []string{mIdx_(base + i)}
			}
			mIdx = base + n - 1
			sIdx++
		}
		return []Labeling{labeling}, nil
	}

	// mIdx keeps running across every family member here, exactly as the
	// reference tool's m_ind is never reset between families: each family
	// is verified independently, so only the internal consistency of its
	// own labeling matters, not whether mask indices are family-local.
	var out []Labeling
	handled := map[string]bool{}
	for famIdx := 0; famIdx < len(shareOrder); famIdx++ {
		labeling := cloneLabeling(ordinary)
		tagged := false
		for _, group := range shareOrder {
			bits := shares[group]
			n := len(bits)
			base := mIdx
			if !tagged && !handled[group] {
				first := []string{sIdx_(famIdx + 1)}
				for i := 0; i < n-1; i++ {
					first = append(first, mIdx_(base+i))
				}
				labeling[bits[0]] = first
				handled[group] = true
				tagged = true
			} else {
				var first []string
				for i := 0; i < n-1; i++ {
					first = append(first, mIdx_(base+i))
				}
				labeling[bits[0]] = first
			}
			for i, r := range bits[1:] {
				labeling[r] = []string{mIdx_(base + i)}
			}
			mIdx = base + n - 1
		}
		out = append(out, labeling)
	}
	return out, nil
}

// ApplyTo writes a generated labeling onto the simplified graph's input
// port nodes, matching each labeling key (a bit id) against the trailing
// "_<bit id>" of every input port node name — the same convention the
// netlist loader uses to name port bits.
func ApplyTo(g *graph.Graph, labeling Labeling) error {
	for _, n := range g.Nodes() {
		if n.Kind != graph.KindPort || n.Direction != graph.DirIn {
			continue
		}
		idx := strings.LastIndex(n.Name, "_")
		if idx < 0 {
			continue
		}
		bit := n.Name[idx+1:]
		labels, ok := labeling[bit]
		if !ok {
			continue
		}
		if err := g.SetLabels(n.Name, labels); err != nil {
			return errors.Wrapf(err, "apply labels to %s", n.Name)
		}
	}
	return nil
}

// ShareGroups collects, for each share group id, the bit ids tagged as
// belonging to it, in the order they first appear. The independence
// checker uses these as its candidate-node lists.
func ShareGroups(entries []Entry) map[string][]string {
	groups := map[string][]string{}
	for _, e := range entries {
		if e.Kind != KindShare {
			continue
		}
		groups[e.Group] = append(groups[e.Group], e.Bit)
	}
	return groups
}

// NodeForBit finds the input port node whose name carries the trailing
// "_<bit>" suffix, the inverse of the convention ApplyTo matches
// against.
func NodeForBit(g *graph.Graph, bit string) (string, bool) {
	for _, n := range g.Nodes() {
		if n.Kind != graph.KindPort || n.Direction != graph.DirIn {
			continue
		}
		idx := strings.LastIndex(n.Name, "_")
		if idx < 0 {
			continue
		}
		if n.Name[idx+1:] == bit {
			return n.Name, true
		}
	}
	return "", false
}

func cloneLabeling(l Labeling) Labeling {
	out := make(Labeling, len(l))
	for k, v := range l {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

func mIdx_(i int) string { return "m_" + strconv.Itoa(i) }
func sIdx_(i int) string { return "s_" + strconv.Itoa(i) }
func yIdx_(i int) string { return "y_" + strconv.Itoa(i) }
