package ingest

import "errors"

// Sentinel errors for ingest (spec §4.2, §7). CsvDecodeError (tokenizer
// failure) is its own kind; the rest are all malformed-table errors. The
// driver (compiler.Compile) wraps whichever one occurs without mapping it
// to another kind.
var (
	// ErrCsvDecode wraps a failure from the underlying TableSource/tokenizer.
	ErrCsvDecode = errors.New("ingest: csv decode error")

	// ErrMalformedHeader covers an empty Name in a header cell and a
	// duplicate column Name within one header (spec §4.2).
	ErrMalformedHeader = errors.New("ingest: malformed header")

	// ErrRowOverflow indicates a data row with more cells than the current
	// header's column count.
	ErrRowOverflow = errors.New("ingest: row has more cells than its header")

	// ErrEmptyPremiseRow indicates a data row with a result but no premises.
	ErrEmptyPremiseRow = errors.New("ingest: row has a result but no premises")

	// ErrDuplicateInference indicates a row duplicating an earlier row's
	// result and premise set.
	ErrDuplicateInference = errors.New("ingest: duplicate inference row")

	// ErrNoActiveHeader indicates a data row appeared before any @ header
	// opened a table. Not named as a distinct spec §7 kind but required to
	// keep ingest total: without a header there is no column-to-Name
	// mapping to fold the row's cells against.
	ErrNoActiveHeader = errors.New("ingest: data row before any header")

	// ErrEmptyResult indicates a data row's first cell (the result value)
	// was empty. Not named as a distinct spec §7 kind but required to keep
	// ingest total: an empty result cell has no Value to open a pending
	// inference with.
	ErrEmptyResult = errors.New("ingest: row has an empty result cell")
)
