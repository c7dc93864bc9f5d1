package interact

import "go.uber.org/atomic"

// Sequence hands out the action sequence ids of one connection. Ids are
// strictly increasing and never reused; every component sending acknowledged
// actions over the same connection must share one Sequence.
type Sequence struct {
	n atomic.Int32
}

// Next consumes and returns a fresh sequence id.
func (s *Sequence) Next() int32 {
	return s.n.Inc()
}
