package fact

import (
	"sort"

	"github.com/gdavidbutler/decisionTableCompiler/symbol"
)

// Graph is the Fact Graph (spec §3): the tuple (Symbol Pool, Names,
// Inferences) accumulated across one or more input files. Graph is
// append-only during ingest (spec §5) and carries no locking.
type Graph struct {
	Pool       *symbol.Pool
	Names      []*Name // in creation order; Name.Order indexes this slice
	Inferences InferenceSet

	byNameSym map[symbol.Symbol]*Name
	nextValSeq int
	nextInfSeq int
}

// Option configures a Graph at construction, mirroring the teacher's
// functional-options shape (builder.BuilderOption) — present so callers
// that need a pre-seeded Pool (e.g. tests sharing symbols) have a hook
// without a second constructor.
type Option func(g *Graph)

// WithPool supplies a pre-existing symbol.Pool instead of a fresh one.
func WithPool(p *symbol.Pool) Option {
	return func(g *Graph) { g.Pool = p }
}

// New returns an empty Fact Graph, applying opts in order.
func New(opts ...Option) *Graph {
	g := &Graph{
		Pool:      &symbol.Pool{},
		byNameSym: make(map[symbol.Symbol]*Name),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// InternName returns the Name for sym, creating it (in next creation-order
// position) on first sight. ErrEmptyName is returned if sym's bytes are
// empty.
func (g *Graph) InternName(sym symbol.Symbol) (*Name, error) {
	if len(sym.Bytes()) == 0 {
		return nil, ErrEmptyName
	}
	if n, ok := g.byNameSym[sym]; ok {
		return n, nil
	}
	n := &Name{Sym: sym, Order: len(g.Names), graph: g}
	g.Names = append(g.Names, n)
	g.byNameSym[sym] = n

	return n, nil
}

// LookupName returns the Name already interned for sym, or nil.
func (g *Graph) LookupName(sym symbol.Symbol) *Name {
	return g.byNameSym[sym]
}

// AddValue returns the Value (n, sym), creating and inserting it into n's
// sorted Values slice on first sight. Re-adding an equal Value returns the
// existing instance (spec §8.5).
func (n *Name) AddValue(sym symbol.Symbol) *Value {
	i := sort.Search(len(n.Values), func(i int) bool { return symbol.Cmp(n.Values[i].Sym, sym) >= 0 })
	if i < len(n.Values) && n.Values[i].Sym == sym {
		return n.Values[i]
	}
	v := &Value{Name: n, Sym: sym, Seq: n.graph.nextValSeq}
	n.graph.nextValSeq++
	n.Values = append(n.Values, nil)
	copy(n.Values[i+1:], n.Values[i:])
	n.Values[i] = v

	return v
}

// LookupValue returns the Value already added to n for sym, or nil.
func (n *Name) LookupValue(sym symbol.Symbol) *Value {
	i := sort.Search(len(n.Values), func(i int) bool { return symbol.Cmp(n.Values[i].Sym, sym) >= 0 })
	if i < len(n.Values) && n.Values[i].Sym == sym {
		return n.Values[i]
	}

	return nil
}

// AddInference adds one table row to the Graph: result determined by
// premises (deduplicated, canonically ordered). Returns ErrEmptyPremises if
// premises is empty, ErrCrossNamePremise if any premise shares result's
// Name, and ErrDuplicateInference if an equal Inference already exists.
func (g *Graph) AddInference(result *Value, premises []*Value, file string, row int) (*Inference, error) {
	if len(premises) == 0 {
		return nil, ErrEmptyPremises
	}
	var set ValueSet
	for _, p := range premises {
		if p.Name == result.Name {
			return nil, ErrCrossNamePremise
		}
		set.Insert(p)
	}
	inf := &Inference{Result: result, Premises: set, File: file, Row: row, Seq: g.nextInfSeq}
	if g.Inferences.Contains(inf) {
		return nil, ErrDuplicateInference
	}
	g.nextInfSeq++
	g.Inferences.Insert(inf)

	return inf, nil
}

// Validate checks the Name-level structural invariant (spec §3: every Name
// has >= 2 Values). It does not check the cross-Name contradiction
// invariant (a) in spec §3 — that is deferred to the post-build check
// (spec §4.6), which runs after search so it can report exactly the
// offending source rows instead of every theoretically-reachable pair.
func (g *Graph) Validate() error {
	for _, n := range g.Names {
		if len(n.Values) < 2 {
			return ErrUnderSpecifiedName
		}
	}

	return nil
}
