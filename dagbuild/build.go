package dagbuild

import (
	"github.com/gdavidbutler/decisionTableCompiler/depanalyze"
	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// Options configures a Build run (spec §1, §9).
type Options struct {
	// Quick selects the heuristic mode: take the first complete decision
	// found for a subproblem instead of searching every candidate for the
	// smallest worst-case depth.
	Quick bool
}

// Build runs the memoized search (spec §4.5) over the independent Values
// candidates (typically depanalyze.Result.Independent) and the full set of
// Inferences still to be discharged, and returns the root Node of the
// decision DAG. In full mode every feasible candidate of every subproblem
// is built and the shallowest kept; no depth bound is passed down to prune
// a candidate's subtree early.
func Build(candidates []*fact.Value, undischarged fact.InferenceSet, opts Options) *Node {
	cs := fact.NewValueSet(candidates...)
	e := &engine{cache: make(map[string]*Node), quick: opts.Quick}

	return e.build(cs, undischarged, fact.ValueSet{})
}

// engine carries the memoization cache and mode across one Build call,
// mirroring the teacher's bbEngine (tsp/bb.go): a single struct threading
// shared search state through the recursion instead of closures.
type engine struct {
	cache map[string]*Node
	quick bool
}

// build resolves one subproblem: candidates are the Values still legal to
// test, undischarged the Inferences not yet resolved, known the Values
// already established as holding along the current path (see
// resolve.go). It returns a shared Node, memoized by cacheKey so every
// path that reaches an equal subproblem gets the identical Node (spec §1:
// "shared-subexpression ... DAG", §3).
func (e *engine) build(candidates fact.ValueSet, undischarged fact.InferenceSet, known fact.ValueSet) *Node {
	key := cacheKey(candidates, undischarged, known)
	if n, ok := e.cache[key]; ok {
		return n
	}

	if undischarged.Empty() {
		leaf := &Node{Leaf: true}
		e.cache[key] = leaf

		return leaf
	}

	var best *Node
	bestDepth := -1
	anyFeasible := false

	ordered := append([]*fact.Value(nil), candidates.Slice()...)
	depanalyze.OrderCandidates(ordered)

	for _, v := range ordered {
		cand, ok := e.tryCandidate(v, candidates, undischarged, known)
		if !ok {
			continue
		}
		anyFeasible = true
		if best == nil || cand.Depth < bestDepth {
			best, bestDepth = cand, cand.Depth
		}
		if e.quick {
			break
		}
	}

	var result *Node
	if anyFeasible {
		result = best
	} else {
		// No candidate yielded a decision: spec §4.5 step 4 — the
		// remaining undischarged inferences are the Leaf verdict. Input
		// well-formedness (every independent Value eventually tested
		// down some path) should make their premises already known by
		// now; the post-build check (spec §4.6) is the backstop if not.
		result = &Node{Leaf: true, Verdict: undischarged}
	}
	e.cache[key] = result

	return result
}

// tryCandidate builds the Branch that would result from testing v in the
// (candidates, undischarged, known) subproblem. ok is false if v cannot
// complete a decision here (spec §4.5: "If either fV or fO becomes empty
// while its residual inference set is non-empty, this test cannot
// complete; skip").
func (e *engine) tryCandidate(v *fact.Value, candidates fact.ValueSet, undischarged fact.InferenceSet, known fact.ValueSet) (*Node, bool) {
	peers := peersOf(v)

	nV := resolvedBy(v, known, undischarged)
	nO := unionAcrossPeers(peers, known, undischarged)

	afterV := undischarged.Minus(&nV)
	afterO := undischarged.Minus(&nO)

	// Once v (or, on the false branch, a peer) is established, so is every
	// Value that fires as a result along the way — and so, transitively,
	// are THEIR peers' impossibilities. An inference still needing one of
	// those now-impossible peer Values as a premise can never fire on this
	// branch; drop it permanently rather than let it survive undischarged
	// and strand the recursion with no candidate able to resolve it.
	blockedV := blockedPeers(peers, nV)
	blockedO := blockedPeers(fact.NewValueSet(v), nO)

	undischargedV := withoutPremiseIn(afterV, blockedV)
	undischargedO := withoutPremiseIn(afterO, blockedO)

	vSet := fact.NewValueSet(v)
	trueCandidates := candidates.Minus(&vSet)
	trueCandidates = trueCandidates.Minus(&peers)
	falseCandidates := candidates.Minus(&vSet)

	knownV := fact.NewValueSet(known.Slice()...)
	knownV.Insert(v)

	knownO := known
	if peers.Len() == 1 {
		// Binary-valued Name: "not v" pins the single peer for certain, so
		// it joins known and, like v's whole Name on the true branch, is
		// no longer a useful test candidate.
		peer := peers.Slice()[0]
		knownO = fact.NewValueSet(known.Slice()...)
		knownO.Insert(peer)
		peerSet := fact.NewValueSet(peer)
		falseCandidates = falseCandidates.Minus(&peerSet)
	}

	fV := referencedValues(trueCandidates, undischargedV)
	fO := referencedValues(falseCandidates, undischargedO)

	if fV.Empty() && !undischargedV.Empty() {
		return nil, false
	}
	if fO.Empty() && !undischargedO.Empty() {
		return nil, false
	}

	var trueChild, falseChild *Node
	if !undischargedV.Empty() {
		trueChild = e.build(fV, undischargedV, knownV)
	}
	if !undischargedO.Empty() {
		falseChild = e.build(fO, undischargedO, knownO)
	}

	return &Node{
		Test:  v,
		True:  trueChild,
		False: falseChild,
		InfsV: nV,
		InfsO: nO,
		Depth: branchDepth(trueChild, falseChild),
	}, true
}

// peersOf returns the other Values of v's Name, excluding v.
func peersOf(v *fact.Value) fact.ValueSet {
	var out fact.ValueSet
	for _, p := range v.Name.Values {
		if p != v {
			out.Insert(p)
		}
	}

	return out
}

// blockedPeers extends seed with the peers of every Value established as
// a result within fired: once a result is known, its own peer Values
// become permanently unreachable on this branch too.
func blockedPeers(seed fact.ValueSet, fired fact.InferenceSet) fact.ValueSet {
	out := fact.NewValueSet(seed.Slice()...)
	for _, inf := range fired.Slice() {
		ps := peersOf(inf.Result)
		for _, p := range ps.Slice() {
			out.Insert(p)
		}
	}

	return out
}

// unionAcrossPeers computes the false branch's resolved set: the union,
// over every peer of the tested Value, of what that peer alone would
// resolve (spec §4.5, resolving the §9 open question for Names with >= 3
// values). A resolution is included only if every peer that can produce
// it agrees on the same result Value — an inference reachable from one
// peer but contradicted by another is left undischarged instead, since we
// do not yet know which peer actually holds. This trades a possibly
// deeper tree for never asserting a resolution unsupported by every
// remaining possibility (see DESIGN.md).
func unionAcrossPeers(peers fact.ValueSet, known fact.ValueSet, undischarged fact.InferenceSet) fact.InferenceSet {
	var out fact.InferenceSet
	resultByName := make(map[int]*fact.Value)
	blockedName := make(map[int]bool)

	for _, peer := range peers.Slice() {
		fired := resolvedBy(peer, known, undischarged)
		for _, inf := range fired.Slice() {
			name := inf.Result.Name.Order
			if blockedName[name] {
				continue
			}
			if prior, ok := resultByName[name]; ok && prior != inf.Result {
				blockedName[name] = true
				delete(resultByName, name)
				continue
			}
			resultByName[name] = inf.Result
			out.Insert(inf)
		}
	}
	if len(blockedName) == 0 {
		return out
	}

	var filtered fact.InferenceSet
	for _, inf := range out.Slice() {
		if !blockedName[inf.Result.Name.Order] {
			filtered.Insert(inf)
		}
	}

	return filtered
}

