// Package fact holds the normalized representation of all decision tables
// compiled in one run: Names (variables), Values (name + symbol), and
// Inferences (one table row: a determined value plus its prerequisite
// values). Together these form the Fact Graph (spec §3).
//
// Fact Graph invariants:
//   - Every Name has >= 2 Values (checked by Validate; violation is
//     UnderSpecifiedName).
//   - Two Values with equal (Name, Symbol) are the same Value instance.
//   - An Inference's premise Values are a deduplicated, canonically-ordered
//     set; an Inference with zero premises is invalid input.
//   - Two Inferences are equal iff their result Values and premise sets are
//     equal; adding a duplicate is a fatal error.
//
// The compiler is single-threaded (spec §5): Graph is append-only during
// ingest and carries no locking, unlike the teacher's concurrency-safe
// core.Graph this package's shape is adapted from.
package fact

import (
	"errors"

	"github.com/gdavidbutler/decisionTableCompiler/symbol"
)

// Sentinel errors for fact graph construction. Callers branch on these with
// errors.Is; none is ever stringified with row/column context at the
// definition site — that context is attached by the caller (ingest, via
// github.com/pkg/errors).
var (
	// ErrEmptyName indicates a Name was interned with zero-length Symbol bytes.
	ErrEmptyName = errors.New("fact: name is empty")

	// ErrEmptyPremises indicates an Inference was added with no premise Values.
	ErrEmptyPremises = errors.New("fact: inference has no premises")

	// ErrCrossNamePremise indicates a premise Value shares its Name with the
	// Inference's result Value.
	ErrCrossNamePremise = errors.New("fact: premise value shares name with result")

	// ErrDuplicateInference indicates an Inference with an equal result Value
	// and equal premise set was already present.
	ErrDuplicateInference = errors.New("fact: duplicate inference")

	// ErrUnderSpecifiedName indicates a Name was left with fewer than two Values.
	ErrUnderSpecifiedName = errors.New("fact: name has fewer than two values")
)

// Name is a variable: its interned Symbol and the ordered set of Values it
// may take, by canonical Value order (symbol order within this Name).
// Order is the Name's position among all Names in its Graph, assigned on
// first sight (the header cell that introduced it) — this order, not
// Symbol order, is the primary key of canonical Value order (spec §3:
// "Canonical order: by Name order, then by Symbol order").
type Name struct {
	Sym    symbol.Symbol
	Order  int
	Values []*Value // kept sorted by Value.Sym via symbol.Cmp

	graph *Graph // back-reference, solely to assign Value.Seq on AddValue
}

// Value is a (Name, Symbol) pair. Fire is populated only for independent
// Values (spec §4.3): the transitive closure of Inferences this Value can
// fire. It is an index into the Graph's Inference store, not an owning
// reference (spec §9) — represented here as an *InferenceSet so it can be
// nil until depanalyze computes it.
type Value struct {
	Name *Name
	Sym  symbol.Symbol
	Fire *InferenceSet

	// Seq is a compact, stable-for-this-compile identifier assigned at
	// creation (fact.Name.AddValue), distinct from canonical order. It
	// exists solely so dagbuild can build content-addressed memoization
	// keys in O(1) per member instead of re-deriving (Name.Order, Sym)
	// bytes each time (spec §9: "a content-addressed interning map keyed
	// on the same [canonical byte sequence]").
	Seq int
}

// CmpValue orders two Values by canonical order: Name.Order, then Sym.
func CmpValue(a, b *Value) int {
	if a.Name.Order != b.Name.Order {
		if a.Name.Order < b.Name.Order {
			return -1
		}

		return 1
	}

	return symbol.Cmp(a.Sym, b.Sym)
}

// Inference is one table row: the result Value it determines, the
// deduplicated, canonically-ordered set of premise Values, and the source
// location for diagnostics.
type Inference struct {
	Result   *Value
	Premises ValueSet
	File     string
	Row      int // 1-based

	// Seq is a compact, stable-for-this-compile identifier assigned at
	// creation (Graph.AddInference); see Value.Seq.
	Seq int
}

// CmpInference orders two Inferences by (Result, Premises) per spec §3:
// "the inference set, ordered by (result, premises)".
func CmpInference(a, b *Inference) int {
	if c := CmpValue(a.Result, b.Result); c != 0 {
		return c
	}

	return a.Premises.Cmp(b.Premises)
}

// Equal reports whether a and b have equal result Values and equal premise
// sets (spec §3: "Two inferences are equal iff ...").
func (a *Inference) Equal(b *Inference) bool {
	return CmpInference(a, b) == 0
}
