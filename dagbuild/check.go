package dagbuild

import (
	"github.com/pkg/errors"

	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// ErrContradiction indicates the input decision tables are inconsistent:
// some reachable state of the compiled program resolves a Name to two
// different Values at once (spec §4.6).
var ErrContradiction = errors.New("dagbuild: contradictory inferences")

// Check walks the built DAG once per distinct Node (nodes are shared, so a
// pointer-keyed visited set avoids revisiting a node once per path) and
// confirms no single Branch's resolved set (InfsV, or InfsO) contains two
// Inferences with an equal-Name but unequal-Value result — spec §4.6, the
// backstop for contradictions the §4.5 search did not already avoid by
// construction (see unionAcrossPeers in build.go).
func Check(root *Node) error {
	visited := make(map[*Node]bool)
	return check(root, visited)
}

func check(n *Node, visited map[*Node]bool) error {
	if n == nil || visited[n] {
		return nil
	}
	visited[n] = true

	if n.Leaf {
		return contradictionIn(n.Verdict)
	}
	if err := contradictionIn(n.InfsV); err != nil {
		return err
	}
	if err := contradictionIn(n.InfsO); err != nil {
		return err
	}
	if err := check(n.True, visited); err != nil {
		return err
	}

	return check(n.False, visited)
}

func contradictionIn(infs fact.InferenceSet) error {
	byName := make(map[int]*fact.Inference)
	for _, inf := range infs.Slice() {
		name := inf.Result.Name.Order
		if prior, ok := byName[name]; ok && prior.Result != inf.Result {
			return errors.Wrapf(ErrContradiction, "%s:%d and %s:%d both determine %s but disagree (%s vs %s)",
				prior.File, prior.Row, inf.File, inf.Row, inf.Result.Name.Sym.String(),
				prior.Result.Sym.String(), inf.Result.Sym.String())
		}
		byName[name] = inf
	}

	return nil
}
