package core

// IdentifierSequence hands out dense, monotonically increasing ids starting at 0.
// Unlike slot allocators, released ids are never handed out again.
type IdentifierSequence struct {
	next uint32
}

// Next returns the next free id and advances the sequence.
func (s *IdentifierSequence) Next() uint32 {
	id := s.next
	s.next++
	return id
}

// Issued reports how many ids have been handed out so far.
func (s *IdentifierSequence) Issued() uint32 {
	return s.next
}
