package depanalyze

import (
	"sort"

	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// OrderCandidates sorts vs in place by the §4.4 search heuristic:
//
//  1. Primary (balance): minimize |A - B|, where A = |fire(v)| and
//     B = sum of |fire(v')| over every other Value v' of v's Name.
//  2. Secondary (delay): maximize min(A, B).
//  3. Ties: canonical Value order.
//
// Every Value in vs must be independent (have a non-nil Fire), i.e. vs must
// come from Result.Independent or a subset of it.
func OrderCandidates(vs []*fact.Value) {
	sort.SliceStable(vs, func(i, j int) bool {
		return less(vs[i], vs[j])
	})
}

func less(a, b *fact.Value) bool {
	ba, da := balanceDelay(a)
	bb, db := balanceDelay(b)
	if ba != bb {
		return ba < bb
	}
	if da != db {
		return da > db // maximize delay
	}

	return fact.CmpValue(a, b) < 0
}

// balanceDelay returns (|A-B|, min(A,B)) for v, per §4.4.
func balanceDelay(v *fact.Value) (int, int) {
	a := v.Fire.Len()
	b := 0
	for _, peer := range v.Name.Values {
		if peer == v {
			continue
		}
		b += peer.Fire.Len()
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	minAB := a
	if b < minAB {
		minAB = b
	}

	return diff, minAB
}
