// Package depanalyze computes the two artifacts the DAG Builder needs
// before it can search (spec §4.3): the set of independent values (the
// search roots) and, for each independent value, the transitive closure of
// inferences it can fire.
package depanalyze

import (
	"errors"

	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// Sentinel errors (spec §7).
var (
	// ErrNoIndependentValues indicates every Name is determined by some
	// inference: the system has no search root.
	ErrNoIndependentValues = errors.New("depanalyze: no independent values")

	// ErrPartiallyIndependent indicates a Name has some Values independent
	// and others not, which the emitted program cannot represent.
	ErrPartiallyIndependent = errors.New("depanalyze: name is partially independent")
)

// Result holds the independent values and their fire-set closures,
// attached directly to each fact.Value.Fire.
type Result struct {
	// Independent lists every independent Value across all Names, in
	// canonical order. This is the DAG Builder's root candidate set.
	Independent []*fact.Value
}

// Analyze computes independence and fire-set closures over g. It is an
// error to call Analyze before g.Validate() has succeeded.
func Analyze(g *fact.Graph) (*Result, error) {
	resulted := make(map[*fact.Value]bool)
	for _, inf := range g.Inferences.Slice() {
		resulted[inf.Result] = true
	}

	var independent []*fact.Value
	for _, n := range g.Names {
		indepCount := 0
		for _, v := range n.Values {
			if !resulted[v] {
				indepCount++
			}
		}
		switch indepCount {
		case 0:
			// Fully determined Name; contributes no search roots.
		case len(n.Values):
			independent = append(independent, n.Values...)
		default:
			return nil, ErrPartiallyIndependent
		}
	}
	if len(independent) == 0 {
		return nil, ErrNoIndependentValues
	}

	all := g.Inferences.Slice()
	for _, v := range independent {
		fs := fireClosure(v, all)
		v.Fire = &fs
	}

	return &Result{Independent: independent}, nil
}

// fireClosure computes fire(v) per spec §4.3 and the §9/§12 resolved open
// question that the closure is transitive: seed with {v}; an inference is
// reachable once one of its premises is in the seed; adding it adds its
// result Value to the seed; repeat to a fixed point.
func fireClosure(v *fact.Value, all []*fact.Inference) fact.InferenceSet {
	seed := fact.NewValueSet(v)
	var fired fact.InferenceSet
	for {
		grew := false
		for _, inf := range all {
			if fired.Contains(inf) {
				continue
			}
			if !premiseInSeed(inf, &seed) {
				continue
			}
			fired.Insert(inf)
			if seed.Insert(inf.Result) {
				grew = true
			}
		}
		if !grew {
			// One more pass already ran with the latest seed additions
			// folded in above (every inf is rechecked every pass), so a
			// pass that adds no new inference and no new seed member is
			// a fixed point.
			break
		}
	}

	return fired
}

// premiseInSeed reports whether any of inf's premises is in seed (spec
// §4.3: "an inference is reachable when one of its premises is in the
// seed").
func premiseInSeed(inf *fact.Inference, seed *fact.ValueSet) bool {
	for _, p := range inf.Premises.Slice() {
		if seed.Contains(p) {
			return true
		}
	}

	return false
}
