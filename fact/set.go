package fact

import "sort"

// ValueSet is a sorted-vector set of Values, ordered by CmpValue (spec §9:
// "sorted-vector sets serve every set ... these replace any hash-based
// collection"). Insertion is binary-search-to-position + slice insert;
// union/difference are linear merges. The zero value is an empty set.
type ValueSet struct {
	items []*Value
}

// NewValueSet builds a ValueSet from vs, deduplicating and sorting by
// CmpValue.
func NewValueSet(vs ...*Value) ValueSet {
	var s ValueSet
	for _, v := range vs {
		s.Insert(v)
	}

	return s
}

// Len reports the number of Values in the set.
func (s *ValueSet) Len() int { return len(s.items) }

// Empty reports whether the set has no Values.
func (s *ValueSet) Empty() bool { return len(s.items) == 0 }

// Slice returns the set's Values in canonical order. Callers must not
// mutate the returned slice.
func (s *ValueSet) Slice() []*Value { return s.items }

// search returns the position at which v belongs, and whether it is
// already present at that position.
func (s *ValueSet) search(v *Value) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return CmpValue(s.items[i], v) >= 0 })
	return i, i < len(s.items) && s.items[i] == v
}

// Insert adds v to the set if not already present, preserving canonical
// order. Returns true if v was newly added (idempotence, spec §8.5).
func (s *ValueSet) Insert(v *Value) bool {
	i, found := s.search(v)
	if found {
		return false
	}
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v

	return true
}

// Contains reports whether v is a member of the set.
func (s *ValueSet) Contains(v *Value) bool {
	_, found := s.search(v)
	return found
}

// Union returns a new ValueSet containing every Value in s or other.
func (s *ValueSet) Union(other *ValueSet) ValueSet {
	var out ValueSet
	out.items = make([]*Value, 0, len(s.items)+len(other.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(other.items) {
		switch c := CmpValue(s.items[i], other.items[j]); {
		case c < 0:
			out.items = append(out.items, s.items[i])
			i++
		case c > 0:
			out.items = append(out.items, other.items[j])
			j++
		default:
			out.items = append(out.items, s.items[i])
			i++
			j++
		}
	}
	out.items = append(out.items, s.items[i:]...)
	out.items = append(out.items, other.items[j:]...)

	return out
}

// Minus returns a new ValueSet containing every Value in s that is not in
// other.
func (s *ValueSet) Minus(other *ValueSet) ValueSet {
	var out ValueSet
	i, j := 0, 0
	for i < len(s.items) {
		if j >= len(other.items) {
			out.items = append(out.items, s.items[i:]...)
			break
		}
		switch c := CmpValue(s.items[i], other.items[j]); {
		case c < 0:
			out.items = append(out.items, s.items[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}

	return out
}

// Intersects reports whether s and other share at least one Value.
func (s *ValueSet) Intersects(other *ValueSet) bool {
	i, j := 0, 0
	for i < len(s.items) && j < len(other.items) {
		switch c := CmpValue(s.items[i], other.items[j]); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			return true
		}
	}

	return false
}

// Equal reports whether s and other contain the same Values.
func (s *ValueSet) Equal(other *ValueSet) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}

	return true
}

// Cmp gives ValueSet a total order (lexicographic on canonically-ordered
// members), used by CmpInference to order Inferences with equal results by
// their premise sets.
func (s *ValueSet) Cmp(other ValueSet) int {
	n := len(s.items)
	if len(other.items) < n {
		n = len(other.items)
	}
	for i := 0; i < n; i++ {
		if c := CmpValue(s.items[i], other.items[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(s.items) < len(other.items):
		return -1
	case len(s.items) > len(other.items):
		return 1
	default:
		return 0
	}
}

// InferenceSet is a sorted-vector set of Inferences, ordered by
// CmpInference.
type InferenceSet struct {
	items []*Inference
}

// NewInferenceSet builds an InferenceSet from is, deduplicating (by Equal)
// and sorting by CmpInference.
func NewInferenceSet(is ...*Inference) InferenceSet {
	var s InferenceSet
	for _, inf := range is {
		s.Insert(inf)
	}

	return s
}

// Len reports the number of Inferences in the set.
func (s *InferenceSet) Len() int { return len(s.items) }

// Empty reports whether the set has no Inferences.
func (s *InferenceSet) Empty() bool { return len(s.items) == 0 }

// Slice returns the set's Inferences in canonical order. Callers must not
// mutate the returned slice.
func (s *InferenceSet) Slice() []*Inference { return s.items }

func (s *InferenceSet) search(inf *Inference) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return CmpInference(s.items[i], inf) >= 0 })
	return i, i < len(s.items) && CmpInference(s.items[i], inf) == 0
}

// Insert adds inf to the set if no equal Inference (same result, same
// premises) is already present. Returns true if inf was newly added.
func (s *InferenceSet) Insert(inf *Inference) bool {
	i, found := s.search(inf)
	if found {
		return false
	}
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = inf

	return true
}

// Contains reports whether an Inference equal to inf is a member.
func (s *InferenceSet) Contains(inf *Inference) bool {
	_, found := s.search(inf)
	return found
}

// Union returns a new InferenceSet containing every Inference in s or other.
func (s *InferenceSet) Union(other *InferenceSet) InferenceSet {
	var out InferenceSet
	out.items = make([]*Inference, 0, len(s.items)+len(other.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(other.items) {
		switch c := CmpInference(s.items[i], other.items[j]); {
		case c < 0:
			out.items = append(out.items, s.items[i])
			i++
		case c > 0:
			out.items = append(out.items, other.items[j])
			j++
		default:
			out.items = append(out.items, s.items[i])
			i++
			j++
		}
	}
	out.items = append(out.items, s.items[i:]...)
	out.items = append(out.items, other.items[j:]...)

	return out
}

// Minus returns a new InferenceSet containing every Inference in s that is
// not in other.
func (s *InferenceSet) Minus(other *InferenceSet) InferenceSet {
	var out InferenceSet
	i, j := 0, 0
	for i < len(s.items) {
		if j >= len(other.items) {
			out.items = append(out.items, s.items[i:]...)
			break
		}
		switch c := CmpInference(s.items[i], other.items[j]); {
		case c < 0:
			out.items = append(out.items, s.items[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}

	return out
}
