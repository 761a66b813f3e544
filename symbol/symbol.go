// Package symbol interns byte strings for one compile.
//
// A Symbol is an immutable byte string handle. Two equal byte strings,
// interned through the same Pool, yield the identical Symbol — reference
// equality and value equality coincide, so downstream code may compare
// Symbols with == instead of bytes.Equal.
//
// Canonical order is lexicographic on bytes, then short-before-long on an
// equal prefix (spec §4.1). This order is not cosmetic: it is the tie-break
// that the search heuristic (depanalyze) and the memoization key (dagbuild)
// both rely on for determinism.
package symbol

import "bytes"

// Symbol is an interned, immutable byte string. The zero Symbol is never
// produced by Pool.Intern; it is reserved to mean "absent".
type Symbol struct {
	id    int
	bytes *[]byte // shared by every copy of this Symbol, so Symbol stays comparable
}

// Bytes returns the interned byte string. Callers must not mutate it.
func (s Symbol) Bytes() []byte {
	if s.bytes == nil {
		return nil
	}
	return *s.bytes
}

// String returns the interned string.
func (s Symbol) String() string { return string(s.Bytes()) }

// Cmp orders two Symbols lexicographically on bytes, then short-before-long
// on an equal prefix (spec §4.1). It does not compare intern identity: two
// Symbols from different Pools with equal bytes compare equal under Cmp
// even though they are not ==.
func Cmp(a, b Symbol) int {
	ab, bb := a.Bytes(), b.Bytes()
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	if c := bytes.Compare(ab[:n], bb[:n]); c != 0 {
		return c
	}
	switch {
	case len(ab) < len(bb):
		return -1
	case len(ab) > len(bb):
		return 1
	default:
		return 0
	}
}

// Pool interns byte strings for the lifetime of one compile. The zero value
// is ready to use. Pool is not safe for concurrent use — the compiler is
// single-threaded by design (spec §5).
type Pool struct {
	index map[string]Symbol
	next  int
}

// Intern returns the Symbol for b, allocating a new one on first sight.
// Re-interning an equal byte string returns the existing Symbol instance
// (spec §8.5: idempotence of intern).
func (p *Pool) Intern(b []byte) Symbol {
	if p.index == nil {
		p.index = make(map[string]Symbol)
	}
	key := string(b) // copies b; safe to retain as the map key and Symbol payload
	if s, ok := p.index[key]; ok {
		return s
	}
	buf := []byte(key)
	s := Symbol{id: p.next, bytes: &buf}
	p.next++
	p.index[key] = s

	return s
}

// Len reports how many distinct Symbols have been interned.
func (p *Pool) Len() int { return len(p.index) }
