package dict

// KeyGenerator assigns the key of a value that is seen for the first time.
// A generator must never return the same key twice.
type KeyGenerator interface {
	Next() uint64
}

// Sequential hands out 0, 1, 2, ... in call order.
type Sequential struct {
	next uint64
}

// NewSequential creates a generator starting at 0.
func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Next() uint64 {
	key := s.next
	s.next++

	return key
}
