package dagbuild_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gdavidbutler/decisionTableCompiler/dagbuild"
	"github.com/gdavidbutler/decisionTableCompiler/depanalyze"
	"github.com/gdavidbutler/decisionTableCompiler/fact"
	"github.com/gdavidbutler/decisionTableCompiler/ingest"
)

func analyzeCSV(t *testing.T, csvText string) (*fact.Graph, *depanalyze.Result) {
	t.Helper()
	g := fact.New()
	ing := ingest.New(g)
	require.NoError(t, ing.IngestFile(ingest.CSVSource{}, "t.csv", strings.NewReader(csvText)))
	require.NoError(t, g.Validate())
	res, err := depanalyze.Analyze(g)
	require.NoError(t, err)

	return g, res
}

// TestBuildTrafficLightSingleTest confirms the DAG terminates (no infinite
// recursion) for a well-formed two-value independent Name: one test
// resolves both outcomes.
func TestBuildTrafficLightSingleTest(t *testing.T) {
	g, res := analyzeCSV(t, "@proceed,signal\nyes,green\nno,red\n")
	root := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{})
	require.False(t, root.Leaf, "root should test signal")
	require.Equal(t, "signal", root.Test.Name.Sym.String())
	require.Equal(t, 1, root.Depth)
	require.NoError(t, dagbuild.Check(root))

	// Both branches must together account for both rows.
	total := root.InfsV.Len() + root.InfsO.Len()
	require.Equal(t, 2, total)
}

// TestBuildThreeValuedNameFalseBranchUnion pins the resolved open question
// (spec §9, §12): testing one value of a three-valued Name, the false
// branch's resolved set is the union of what each remaining peer alone
// would fire, as long as the peers agree.
func TestBuildThreeValuedNameFalseBranchUnion(t *testing.T) {
	g, res := analyzeCSV(t, "@proceed,signal\nyes,green\nno,red\nno,yellow\n")
	root := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{})
	require.NoError(t, dagbuild.Check(root))
	require.False(t, root.Leaf)

	// Whichever value is tested first, the other two rows agree on
	// proceed=no, so the false branch should resolve both in one step
	// (no second test needed): Depth == 1.
	require.Equal(t, 1, root.Depth)
	require.Equal(t, 2, root.InfsO.Len())
}

// TestBuildChainedTables exercises a dependent second table (signal
// determines proceed, proceed determines go), confirming shared structure
// is reachable from the root in a single pass without mis-resolving the
// transitive inference before its premise is actually established.
func TestBuildChainedTables(t *testing.T) {
	g, res := analyzeCSV(t, "@proceed,signal\nyes,green\nno,red\n@go,proceed\nnow,yes\nnever,no\n")
	root := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{})
	require.NoError(t, dagbuild.Check(root))
	require.False(t, root.Leaf)
	// Testing signal resolves proceed directly, and go transitively in the
	// same step, since resolvedBy expands to a fixed point: both branches
	// leave nothing undischarged, so both children are absent (depth 0).
	require.Equal(t, 1, root.Depth)
	require.Equal(t, 2, root.InfsV.Len())
	require.Equal(t, 2, root.InfsO.Len())
}

// TestBuildContradiction constructs two rules that share a premise (x=m)
// but determine the same Name (a) to two different Values — the post-build
// check (spec §4.6) must catch it rather than silently resolving one.
func TestBuildContradiction(t *testing.T) {
	g := fact.New()
	ing := ingest.New(g)
	require.NoError(t, ing.IngestFile(ingest.CSVSource{}, "t.csv", strings.NewReader(
		"@a,x\np,m\nq,m\nr,n\n")))
	require.NoError(t, g.Validate())
	res, err := depanalyze.Analyze(g)
	require.NoError(t, err)

	root := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{})
	err = dagbuild.Check(root)
	require.ErrorIs(t, err, dagbuild.ErrContradiction)
}

// TestBuildQuickVersusFullDepth confirms full mode never returns a deeper
// tree than quick mode for the same input (spec §1: quick trades optimality
// for speed, never the reverse), using a table shaped so full search can
// find a single disambiguating test while a poorly-ordered quick pass
// might not.
func TestBuildQuickVersusFullDepth(t *testing.T) {
	g, res := analyzeCSV(t, "@proceed,signal\nyes,green\nno,red\nno,yellow\n")
	full := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{Quick: false})
	quick := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{Quick: true})
	require.NoError(t, dagbuild.Check(full))
	require.NoError(t, dagbuild.Check(quick))
	require.LessOrEqual(t, full.Depth, quick.Depth)
}

// TestBuildSymmetricTwoPremiseTable builds a table whose Names a and b
// have symmetric peers, so testing a=p and testing a=x reach equal
// (candidates, undischarged, known) subproblems inside one Build call. The
// returned DAG keeps only the best root candidate, so that reuse is not
// visible here; the test checks that the result is a checked Branch of
// depth 2 (both a and b must be tested to separate yes from no).
func TestBuildSymmetricTwoPremiseTable(t *testing.T) {
	g, res := analyzeCSV(t, "@proceed,a,b\nyes,p,q\nno,p,r\nno,x,q\nno,x,r\n")
	root := dagbuild.Build(res.Independent, g.Inferences, dagbuild.Options{})
	require.NoError(t, dagbuild.Check(root))
	require.False(t, root.Leaf)
	require.Equal(t, 2, root.Depth)
}
