package dagbuild

import "github.com/gdavidbutler/decisionTableCompiler/fact"

// resolvedBy computes the inferences among undischarged that fire once
// seed additionally holds, expanded to a fixed point (spec §4.5: "expand
// nV by the single-dependency transitive closure"). An inference fires
// once every one of its premises is in the known set (seed, growing as
// each fired inference's result joins it) — generalizing the spec's
// "single-dependency" step to a full fixed point is strictly more
// thorough and stays sound, since firing is still gated on ALL premises
// being established (see DESIGN.md).
func resolvedBy(seed *fact.Value, known fact.ValueSet, undischarged fact.InferenceSet) fact.InferenceSet {
	have := fact.NewValueSet(known.Slice()...)
	have.Insert(seed)

	var fired fact.InferenceSet
	for {
		grew := false
		for _, inf := range undischarged.Slice() {
			if fired.Contains(inf) {
				continue
			}
			if !allPremisesKnown(inf, &have) {
				continue
			}
			fired.Insert(inf)
			if have.Insert(inf.Result) {
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	return fired
}

func allPremisesKnown(inf *fact.Inference, have *fact.ValueSet) bool {
	for _, p := range inf.Premises.Slice() {
		if !have.Contains(p) {
			return false
		}
	}

	return true
}

// withoutPremiseIn returns the inferences in undischarged with no premise
// in blocked: once blocked values can never become known on a branch
// (e.g. every peer of a just-established Value, on the true branch), any
// inference that needs one is permanently dead on that branch and is
// dropped rather than carried forward (spec §4.5: remaining candidates
// are filtered "by removing ... v's peers").
func withoutPremiseIn(undischarged fact.InferenceSet, blocked fact.ValueSet) fact.InferenceSet {
	var out fact.InferenceSet
	for _, inf := range undischarged.Slice() {
		if !inf.Premises.Intersects(&blocked) {
			out.Insert(inf)
		}
	}

	return out
}

// referencedValues returns the subset of candidates that appear as a
// premise of some inference in undischarged — spec §4.5: "filtering out
// any Value no longer referenced by any remaining inference".
func referencedValues(candidates fact.ValueSet, undischarged fact.InferenceSet) fact.ValueSet {
	var out fact.ValueSet
	for _, v := range candidates.Slice() {
		for _, inf := range undischarged.Slice() {
			if inf.Premises.Contains(v) {
				out.Insert(v)
				break
			}
		}
	}

	return out
}
