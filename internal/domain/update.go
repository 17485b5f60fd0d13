package domain

// FieldSet records which attributes of an update intent the caller supplied.
// A field missing from the set leaves the stored column untouched; a field in
// the set whose value is nil overwrites the column with NULL.
type FieldSet[F comparable] map[F]struct{}

func NewFieldSet[F comparable](fields ...F) FieldSet[F] {
	s := make(FieldSet[F], len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

func (s FieldSet[F]) Has(f F) bool {
	_, ok := s[f]
	return ok
}

// Add inserts f, allocating the set on first use.
func (s *FieldSet[F]) Add(f F) {
	if *s == nil {
		*s = make(FieldSet[F])
	}
	(*s)[f] = struct{}{}
}

func (s FieldSet[F]) Len() int {
	return len(s)
}
