// Package emit performs the single recursive walk (spec §4.7) that turns a
// built decision DAG (dagbuild.Node) into the language-neutral pseudocode
// program: an I/O metadata header, a depth declaration, and the DAG's
// T/J/R/L opcode stream, written as CSV records via encoding/csv (the same
// stdlib writer ingest.CSVSource reads with — there is no third-party CSV
// library in the retrieved pack to prefer over it; see DESIGN.md).
package emit

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/gdavidbutler/decisionTableCompiler/dagbuild"
	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// Program writes the full pseudocode program for root to w: the I/O
// universes declared from g's Names, a D line for depth, root's body, and
// a closing L,0 (spec §4.7, last paragraph: "The driver frames the whole
// program with L, 0 at the end").
func Program(w io.Writer, g *fact.Graph, root *dagbuild.Node, depth int) error {
	cw := csv.NewWriter(w)
	e := &emitter{
		cw:      cw,
		labelOf: make(map[edgeKey]int),
		written: make(map[edgeKey]bool),
		next:    1, // 0 is reserved for the program exit label
	}

	e.writeUniverses(g)
	e.write("D", strconv.Itoa(depth+1))
	e.emitContinuation(root)
	e.write("L", "0")
	if e.err != nil {
		return e.err
	}
	cw.Flush()

	return cw.Error()
}

// edgeKey identifies one emitted body: the inferences resolved along this
// edge (infsV or infsO of some Branch, or empty for the root) paired with
// the Node it leads to. Two occurrences with an equal edgeKey emit
// identical output, so the second reuses the first's label instead of
// duplicating the body (spec §4.7: "(inferenceSet, dagNode)").
type edgeKey struct {
	node *dagbuild.Node
	infs string
}

func newEdgeKey(infs fact.InferenceSet, node *dagbuild.Node) edgeKey {
	return edgeKey{node: node, infs: infsKey(infs)}
}

// infsKey builds a canonical string from an InferenceSet's stable Seq
// numbers (fact.Inference.Seq), the same content-addressing approach
// dagbuild.cacheKey uses for memoization (spec §9).
func infsKey(infs fact.InferenceSet) string {
	buf := make([]byte, 0, 4*infs.Len())
	for _, inf := range infs.Slice() {
		buf = append(buf, byte(inf.Seq>>24), byte(inf.Seq>>16), byte(inf.Seq>>8), byte(inf.Seq))
	}

	return string(buf)
}

type emitter struct {
	cw      *csv.Writer
	labelOf map[edgeKey]int
	written map[edgeKey]bool
	next    int
	err     error
}

func (e *emitter) write(fields ...string) {
	if e.err != nil {
		return
	}
	e.err = e.cw.Write(fields)
}

func (e *emitter) writeR(inf *fact.Inference) {
	e.write("R", inf.Result.Name.Sym.String(), inf.Result.Sym.String())
}

// writeUniverses emits one I or O line per (Name, Value): I for every
// independent Name (never a result), O for every dependent Name (spec
// §4.7: "the input and output universes").
func (e *emitter) writeUniverses(g *fact.Graph) {
	resulted := make(map[int]bool)
	for _, inf := range g.Inferences.Slice() {
		resulted[inf.Result.Name.Order] = true
	}
	for _, n := range g.Names {
		op := "I"
		if resulted[n.Order] {
			op = "O"
		}
		for _, v := range n.Values {
			e.write(op, n.Sym.String(), v.Sym.String())
		}
	}
}

// labelFor returns the label number assigned to k, allocating a fresh one
// on first request. It never writes anything.
func (e *emitter) labelFor(k edgeKey) int {
	if lbl, ok := e.labelOf[k]; ok {
		return lbl
	}
	lbl := e.next
	e.next++
	e.labelOf[k] = lbl

	return lbl
}

// isTrivial reports whether an edge carries no resolutions and leads
// nowhere further — equivalent to falling straight through to the program
// exit without needing its own label.
func isTrivial(infs fact.InferenceSet, node *dagbuild.Node) bool {
	return infs.Empty() && node == nil
}

// emitEdge writes or reuses the body for (infs, node) and returns its
// label: 0 if the edge is trivial, the already-assigned label (with no
// further writing) if this exact body was emitted earlier, or a freshly
// assigned label followed immediately by the body (an `L, n` line, infs's
// R lines, then node's own continuation) otherwise.
func (e *emitter) emitEdge(infs fact.InferenceSet, node *dagbuild.Node) int {
	if isTrivial(infs, node) {
		return 0
	}
	k := newEdgeKey(infs, node)
	lbl := e.labelFor(k)
	if e.written[k] {
		return lbl
	}
	e.written[k] = true
	e.write("L", strconv.Itoa(lbl))
	for _, inf := range infs.Slice() {
		e.writeR(inf)
	}
	e.emitContinuation(node)

	return lbl
}

// emitContinuation writes node's own content in place: a bare exit jump
// for an absent node, a Leaf's verdict resolutions, or a Branch's test and
// two edges.
func (e *emitter) emitContinuation(node *dagbuild.Node) {
	if node == nil {
		e.write("J", "0")

		return
	}
	if node.Leaf {
		for _, inf := range node.Verdict.Slice() {
			e.writeR(inf)
		}
		e.write("J", "0")

		return
	}
	e.emitBranch(node)
}

// emitBranch implements spec §4.7's emission order exactly: the test
// (referencing the true edge's label, reserved but not yet written);
// then the false edge, inlined (or a bare J to an already-emitted body, or
// J,0 when the false edge is trivial);
// then the true edge's own body, written now if this is its first visit.
func (e *emitter) emitBranch(node *dagbuild.Node) {
	trueKey := newEdgeKey(node.InfsV, node.True)
	trueLabel := 0
	if !isTrivial(node.InfsV, node.True) {
		trueLabel = e.labelFor(trueKey)
	}
	e.write("T", node.Test.Name.Sym.String(), node.Test.Sym.String(), strconv.Itoa(trueLabel))

	falseKey := newEdgeKey(node.InfsO, node.False)
	switch {
	case isTrivial(node.InfsO, node.False):
		e.write("J", "0")
	case e.written[falseKey]:
		e.write("J", strconv.Itoa(e.labelOf[falseKey]))
	default:
		e.emitEdge(node.InfsO, node.False)
	}

	if !isTrivial(node.InfsV, node.True) && !e.written[trueKey] {
		e.written[trueKey] = true
		e.write("L", strconv.Itoa(trueLabel))
		for _, inf := range node.InfsV.Slice() {
			e.writeR(inf)
		}
		e.emitContinuation(node.True)
	}
}
