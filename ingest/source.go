package ingest

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// EventHandler receives the callback-driven CSV parser events named in
// spec §4.2: record-begin, cell (row, column, decoded bytes), record-end.
// row is 1-based; col is 0-based.
type EventHandler interface {
	RecordBegin()
	Cell(row, col int, value []byte)
	RecordEnd()
}

// TableSource drives a CSV tokenizer over one file, invoking h for every
// record/cell/record-end event. It is the boundary named in spec §1: "the
// low-level CSV tokenizer (consumed as a callback-driven parser yielding
// record/column/value events)" is an external, interface-only collaborator.
// CSVSource is the one concrete adapter this repository ships; a different
// tokenizer is wired in by implementing TableSource again, without touching
// Ingestor's fold logic.
type TableSource interface {
	// Parse drives the tokenizer over name, invoking h for each event.
	// A non-nil error is a CsvSyntax failure from the tokenizer itself.
	Parse(name string, r io.Reader, h EventHandler) error
}

// CSVSource implements TableSource over the standard library's RFC-4180
// decoder. Row width is not fixed per-record (FieldsPerRecord = -1): header
// rows and data rows of different subtables may have different widths, and
// RowOverflow is enforced by Ingestor against the *current* header, not by
// the tokenizer.
type CSVSource struct{}

// Parse reads every record from r and replays it as EventHandler calls.
func (CSVSource) Parse(name string, r io.Reader, h EventHandler) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(ErrCsvDecode, "%s: %v", name, err)
		}
		row++
		h.RecordBegin()
		for col, field := range record {
			h.Cell(row, col, []byte(field))
		}
		h.RecordEnd()
	}
}
