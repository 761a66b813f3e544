package dagbuild

import (
	"encoding/binary"

	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// cacheKey builds a content-addressed memoization key for a subproblem
// (candidates, undischarged, known), per spec §9: "a content-addressed
// interning map keyed on the same canonical byte sequence" used for
// Value/Inference interning. Each member contributes its stable Seq,
// encoded big-endian, so two subproblems with the same three sets
// (regardless of how they were reached) collide on the same cache entry —
// this is what makes the search a DAG rather than a tree (spec §1, §3).
//
// known augments the (candidateValues, undischargedInferences) pair the
// spec names explicitly: it is the set of Values established as holding
// along the current search path. It is required for sound multi-premise
// resolution (see resolvedBy in resolve.go) and is itself a deterministic
// function of the path, so including it in the key changes no reachable
// subproblem's identity, it only disambiguates ones that would otherwise
// wrongly collide (see DESIGN.md).
func cacheKey(candidates fact.ValueSet, undischarged fact.InferenceSet, known fact.ValueSet) string {
	buf := make([]byte, 0, 4*(candidates.Len()+undischarged.Len()+known.Len())+3)
	buf = appendValueSeqs(buf, candidates)
	buf = append(buf, 0xff)
	buf = appendInferenceSeqs(buf, undischarged)
	buf = append(buf, 0xff)
	buf = appendValueSeqs(buf, known)

	return string(buf)
}

func appendValueSeqs(buf []byte, vs fact.ValueSet) []byte {
	var tmp [4]byte
	for _, v := range vs.Slice() {
		binary.BigEndian.PutUint32(tmp[:], uint32(v.Seq))
		buf = append(buf, tmp[:]...)
	}

	return buf
}

func appendInferenceSeqs(buf []byte, is fact.InferenceSet) []byte {
	var tmp [4]byte
	for _, inf := range is.Slice() {
		binary.BigEndian.PutUint32(tmp[:], uint32(inf.Seq))
		buf = append(buf, tmp[:]...)
	}

	return buf
}
