// Package ingest drives an external CSV tokenizer (via TableSource) and
// folds its record/cell events into a fact.Graph, enforcing the
// well-formedness rules of spec §4.2.
//
// State carried across events, per spec §4.2: a flag distinguishing
// comment/header/data for the record currently being assembled, the
// current header's column list (cleared on every header row), and the
// pending inference being built from a data row's cells.
package ingest

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/gdavidbutler/decisionTableCompiler/fact"
)

// recordKind classifies the record currently being assembled, determined
// by its first cell (spec §4.2).
type recordKind int

const (
	kindUnknown recordKind = iota
	kindComment
	kindHeader
	kindInvalidHeader // header or data row with a fatal error; its remaining cells are ignored and RecordEnd commits nothing
	kindData
)

// Ingestor folds CSV events into a fact.Graph across one or more files.
// Not safe for concurrent use (spec §5: single-threaded).
type Ingestor struct {
	graph *fact.Graph

	headerCols []*fact.Name // current table's column -> Name; nil until first header

	file string
	row  int
	kind recordKind

	newHeader   []*fact.Name
	headerSeen  map[*fact.Name]bool
	pendResult  *fact.Value
	pendPremise []*fact.Value

	errs *multierror.Error
}

// New returns an Ingestor that folds events into g.
func New(g *fact.Graph) *Ingestor {
	return &Ingestor{graph: g}
}

// IngestFile drives source over r (named file, for diagnostics) and folds
// its events into the Ingestor's Graph. Malformed headers/rows encountered
// before any tokenizer failure are all accumulated and returned together
// (spec §4.2: "within ingest, all malformed headers/rows up to parser
// failure are reported"); a tokenizer (CsvSyntax) failure is appended to
// the same aggregate and ends ingestion of this file.
func (ing *Ingestor) IngestFile(source TableSource, file string, r io.Reader) error {
	ing.file = file
	ing.row = 0
	ing.kind = kindUnknown

	if err := source.Parse(file, r, ing); err != nil {
		ing.errs = multierror.Append(ing.errs, err)
	}

	err := ing.errs.ErrorOrNil()
	ing.errs = nil

	return err
}

// RecordBegin resets per-record transient state (spec §4.2).
func (ing *Ingestor) RecordBegin() {
	ing.kind = kindUnknown
	ing.newHeader = nil
	ing.headerSeen = nil
	ing.pendResult = nil
	ing.pendPremise = nil
}

// Cell folds one decoded cell into the record currently being assembled.
func (ing *Ingestor) Cell(row, col int, value []byte) {
	ing.row = row
	if col == 0 {
		ing.firstCell(value)
		return
	}

	switch ing.kind {
	case kindComment, kindInvalidHeader:
		// discarded
	case kindHeader:
		ing.headerCell(col, value)
	case kindData:
		ing.dataCell(col, value)
	}
}

// firstCell classifies the record by its first cell (spec §4.2: '#' opens a
// comment, '@' opens a header, anything else is a data row's result cell).
func (ing *Ingestor) firstCell(value []byte) {
	switch {
	case len(value) > 0 && value[0] == '#':
		ing.kind = kindComment
	case len(value) > 0 && value[0] == '@':
		ing.headerCols = nil
		name := value[1:]
		if len(name) == 0 {
			ing.fail(errors.Wrapf(ErrMalformedHeader, "%s:%d: empty header name", ing.file, ing.row))
			ing.kind = kindInvalidHeader
			return
		}
		ing.kind = kindHeader
		n, err := ing.graph.InternName(ing.graph.Pool.Intern(name))
		if err != nil {
			ing.fail(errors.Wrapf(ErrMalformedHeader, "%s:%d: %v", ing.file, ing.row, err))
			ing.kind = kindInvalidHeader
			return
		}
		ing.newHeader = []*fact.Name{n}
		ing.headerSeen = map[*fact.Name]bool{n: true}
	default:
		ing.kind = kindData
		if len(ing.headerCols) == 0 {
			ing.fail(errors.Wrapf(ErrNoActiveHeader, "%s:%d: data row before any header", ing.file, ing.row))
			ing.kind = kindInvalidHeader
			return
		}
		if len(value) == 0 {
			ing.fail(errors.Wrapf(ErrEmptyResult, "%s:%d: row has no result value", ing.file, ing.row))
			ing.kind = kindInvalidHeader
			return
		}
		ing.pendResult = ing.headerCols[0].AddValue(ing.graph.Pool.Intern(value))
	}
}

// headerCell folds one dependent-Name cell (col > 0) of a header record.
func (ing *Ingestor) headerCell(col int, value []byte) {
	if len(value) == 0 {
		ing.fail(errors.Wrapf(ErrMalformedHeader, "%s:%d: empty column %d", ing.file, ing.row, col))
		ing.kind = kindInvalidHeader
		return
	}
	n, err := ing.graph.InternName(ing.graph.Pool.Intern(value))
	if err != nil {
		ing.fail(errors.Wrapf(ErrMalformedHeader, "%s:%d: %v", ing.file, ing.row, err))
		ing.kind = kindInvalidHeader
		return
	}
	if ing.headerSeen[n] {
		ing.fail(errors.Wrapf(ErrMalformedHeader, "%s:%d: duplicate column %q", ing.file, ing.row, n.Sym.String()))
		ing.kind = kindInvalidHeader
		return
	}
	ing.headerSeen[n] = true
	ing.newHeader = append(ing.newHeader, n)
}

// dataCell folds one premise cell (col > 0) of a data row. An empty cell
// means "this premise does not matter" (spec §4.2) and contributes nothing.
func (ing *Ingestor) dataCell(col int, value []byte) {
	if col >= len(ing.headerCols) {
		ing.fail(errors.Wrapf(ErrRowOverflow, "%s:%d: column %d exceeds header width %d", ing.file, ing.row, col, len(ing.headerCols)))
		ing.kind = kindInvalidHeader
		return
	}
	if len(value) == 0 {
		return
	}
	v := ing.headerCols[col].AddValue(ing.graph.Pool.Intern(value))
	ing.pendPremise = append(ing.pendPremise, v)
}

// RecordEnd commits the record currently being assembled (spec §4.2).
func (ing *Ingestor) RecordEnd() {
	switch ing.kind {
	case kindHeader:
		ing.headerCols = ing.newHeader
	case kindData:
		if ing.pendResult == nil {
			return
		}
		if _, err := ing.graph.AddInference(ing.pendResult, ing.pendPremise, ing.file, ing.row); err != nil {
			ing.fail(ing.classifyAddInferenceErr(err))
		}
	}
}

// classifyAddInferenceErr maps a fact.AddInference error onto this
// package's sentinel, with file:row context attached.
func (ing *Ingestor) classifyAddInferenceErr(err error) error {
	switch {
	case errors.Is(err, fact.ErrEmptyPremises):
		return errors.Wrapf(ErrEmptyPremiseRow, "%s:%d: row has a result but no premises", ing.file, ing.row)
	case errors.Is(err, fact.ErrDuplicateInference):
		return errors.Wrapf(ErrDuplicateInference, "%s:%d: duplicate of an earlier row", ing.file, ing.row)
	default:
		return errors.Wrapf(err, "%s:%d", ing.file, ing.row)
	}
}

func (ing *Ingestor) fail(err error) {
	ing.errs = multierror.Append(ing.errs, err)
}
