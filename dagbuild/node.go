// Package dagbuild is the optimizer core (spec §4.5): a recursive, memoized
// search that, given a current set of candidate
// test-values and a set of undischarged inferences, builds the
// shared-subexpression decision DAG of minimum worst-case depth (or, in
// quick mode, the first complete one found).
package dagbuild

import "github.com/gdavidbutler/decisionTableCompiler/fact"

// Node is one memoized search result: a Leaf (resolves a set of
// inferences directly) or a Branch (tests one Value and recurses on both
// outcomes). Nodes are owned by the memoization cache and shared across
// every parent that reaches the same subproblem — never copied (spec §3).
type Node struct {
	Leaf bool

	// Verdict holds the resolved inferences for a Leaf.
	Verdict fact.InferenceSet

	// Test, True, False, InfsV, InfsO are set only for a Branch. True/False
	// is nil (an "absent" child, contributing 0 to Depth) when that edge's
	// InfsV/InfsO leaves nothing undischarged; both are nil when both edges
	// do.
	Test  *fact.Value
	True  *Node
	False *Node
	InfsV fact.InferenceSet
	InfsO fact.InferenceSet

	// Depth is the worst-case number of tests from this node to any Leaf:
	// 0 for a Leaf, 1 + max(True.Depth, False.Depth) for a Branch
	// (absent child treated as depth 0, spec §3).
	Depth int
}

func childDepth(n *Node) int {
	if n == nil {
		return 0
	}

	return n.Depth
}

func branchDepth(trueChild, falseChild *Node) int {
	d := childDepth(trueChild)
	if o := childDepth(falseChild); o > d {
		d = o
	}

	return d + 1
}
