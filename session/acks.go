package session

import (
	"context"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
)

// ackWaiter receives the result of one acknowledged action: true when the
// server accepted it, false when it rejected it.
type ackWaiter chan bool

// Acks correlates outbound action sequence ids with the acknowledgments the
// server sends back. Acknowledgments are cumulative: resolving sequence N
// settles every pending sequence up to and including N, in submission order.
type Acks struct {
	mu      sync.Mutex
	pending *orderedmap.OrderedMap[int32, ackWaiter]

	// last is the highest sequence id resolved so far, zero before the
	// first resolution, and lastOK the result it resolved with. An Await
	// that races the resolution of its own sequence settles from these
	// instead of blocking on a wakeup that already happened.
	last   int32
	lastOK bool
}

// NewAcks returns an empty acknowledgment registry.
func NewAcks() *Acks {
	return &Acks{pending: orderedmap.NewOrderedMap[int32, ackWaiter]()}
}

// Await blocks until the sequence id passed is acknowledged or the context
// ends. It reports whether the server accepted the action. A sequence that
// was already resolved, even before Await was called, settles immediately.
func (a *Acks) Await(ctx context.Context, seq int32) (bool, error) {
	ch := make(ackWaiter, 1)
	a.mu.Lock()
	if a.last != 0 && seq <= a.last {
		ok := a.lastOK || seq < a.last
		a.mu.Unlock()
		return ok, nil
	}
	a.pending.Set(seq, ch)
	a.mu.Unlock()

	select {
	case accepted := <-ch:
		return accepted, nil
	case <-ctx.Done():
		a.mu.Lock()
		a.pending.Delete(seq)
		a.mu.Unlock()
		return false, ctx.Err()
	}
}

// Resolve settles every pending sequence id up to and including seq.
// Sequences below seq always settle as accepted; seq itself settles with
// the result passed, so a rejection only applies to the exact sequence it
// names. Sequence ids are handed out monotonically, so submission order and
// id order coincide.
func (a *Acks) Resolve(seq int32, accepted bool) {
	type settledAck struct {
		ch ackWaiter
		ok bool
	}

	a.mu.Lock()
	var settled []settledAck
	for el := a.pending.Front(); el != nil; el = el.Next() {
		if el.Key > seq {
			break
		}
		settled = append(settled, settledAck{ch: el.Value, ok: accepted || el.Key < seq})
	}
	for i := a.pending.Front(); i != nil; {
		next := i.Next()
		if i.Key <= seq {
			a.pending.Delete(i.Key)
		}
		i = next
	}
	if seq > a.last {
		a.last = seq
		a.lastOK = accepted
	}
	a.mu.Unlock()

	for _, s := range settled {
		// Waiter channels are buffered; a settle never blocks the caller.
		s.ch <- s.ok
	}
}
