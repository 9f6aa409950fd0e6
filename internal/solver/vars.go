package solver

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/IAIK/rebecca/internal/graph"
)

// Mode selects which propagation algebra the encoding uses.
type Mode string

const (
	ModeStable    Mode = "s"
	ModeTransient Mode = "t"
)

// Universe is the dense, sorted index of every relevant symbolic
// variable: V = {labels appearing on any port} \ {y_* labels}.
type Universe struct {
	V       []string
	indexOf map[string]int
}

// NewUniverse builds V from every port node's label list in g, sorted for
// a stable dense index.
func NewUniverse(g *graph.Graph) *Universe {
	set := mapset.NewSet[string]()
	for _, n := range g.Nodes() {
		if n.Kind != graph.KindPort {
			continue
		}
		for _, l := range n.Labels {
			if len(l) >= 2 && l[0:2] == "y_" {
				continue
			}
			set.Add(l)
		}
	}
	v := set.ToSlice()
	sort.Strings(v)
	u := &Universe{V: v, indexOf: make(map[string]int, len(v))}
	for i, name := range v {
		u.indexOf[name] = i
	}
	return u
}

// Index returns the dense position of a variable name in V.
func (u *Universe) Index(name string) (int, bool) {
	i, ok := u.indexOf[name]
	return i, ok
}

// Secrets and Masks partition V by label prefix.
func (u *Universe) Secrets() []string { return filterPrefix(u.V, "s_") }
func (u *Universe) Masks() []string   { return filterPrefix(u.V, "m_") }

func filterPrefix(v []string, prefix string) []string {
	var out []string
	for _, s := range v {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			out = append(out, s)
		}
	}
	return out
}

// CellVars holds, per cell node, the boolean variables of its stable (and
// in transient mode, transient) vector, one per V component.
type CellVars struct {
	Stable    []Lit
	Transient []Lit // nil in stable mode
}

// VarSet builds and stores every cell's wire-value vectors for one solve.
type VarSet struct {
	U     *Universe
	Mode  Mode
	Cells map[string]*CellVars
}

// NewVarSet allocates fresh stable/transient variables for every node in
// g.
func NewVarSet(cnf *CNF, g *graph.Graph, u *Universe, mode Mode) *VarSet {
	vs := &VarSet{U: u, Mode: mode, Cells: make(map[string]*CellVars)}
	for _, n := range g.Nodes() {
		cv := &CellVars{Stable: make([]Lit, len(u.V))}
		for i := range cv.Stable {
			cv.Stable[i] = cnf.NewVar()
		}
		if mode == ModeTransient {
			cv.Transient = make([]Lit, len(u.V))
			for i := range cv.Transient {
				cv.Transient[i] = cnf.NewVar()
			}
		}
		vs.Cells[n.Name] = cv
	}
	return vs
}

// Layer returns the vector used for the checking-gate in this mode:
// transient in transient mode, stable otherwise.
func (cv *CellVars) Layer(mode Mode) []Lit {
	if mode == ModeTransient {
		return cv.Transient
	}
	return cv.Stable
}
