package world

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/hargrave81/minesharp-go/worker"
	"github.com/sirupsen/logrus"
)

const (
	// batchWorkload is the fixed workload constant the desired chunk rate is
	// derived from: rate = batchWorkload / elapsed microseconds.
	batchWorkload = float32(25000)
	// fallbackRate replaces a non-finite rate, which happens when a batch
	// start and finish arrive within the timer's resolution.
	fallbackRate = float32(5.0)
)

// Sender is the outbound send primitive the batcher reports rates through.
type Sender interface {
	Send(pk protocol.Packet) error
}

// Batcher times server chunk batches and reports the rate at which the
// client wants to receive them. At most one batch window is open at a time.
type Batcher struct {
	log  *logrus.Logger
	conn Sender

	mu    sync.Mutex
	open  bool
	start time.Time
}

// NewBatcher returns a batcher reporting throttle hints through conn.
func NewBatcher(log *logrus.Logger, conn Sender) *Batcher {
	return &Batcher{log: log, conn: conn}
}

// StartBatch opens the batch window. A second start with the window still
// open is a protocol anomaly: it is logged and the window restarts.
func (b *Batcher) StartBatch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		b.log.Warnf("chunk batch started while previous batch still open, restarting window")
	}
	b.open = true
	b.start = time.Now()
}

// FinishBatch closes the batch window and reports the desired chunk rate. A
// finish without an open window is a protocol anomaly: it is logged and
// nothing is reported.
func (b *Batcher) FinishBatch() {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		b.log.Warnf("chunk batch finished without a matching start, ignored")
		return
	}
	b.open = false
	elapsed := time.Since(b.start)
	b.mu.Unlock()

	rate := batchRate(elapsed)

	// Rate hints are fire and forget; a lost hint only delays throttling.
	conn := b.conn
	worker.Submit(func() {
		if err := conn.Send(&protocol.ChunkBatchReceived{ChunksPerTick: rate}); err != nil {
			b.log.Debugf("chunk batch rate report failed: %v", err)
		}
	})
}

// batchRate derives the desired chunk rate from the length of a batch
// window. A window shorter than the timer's resolution yields a fixed
// fallback instead of an infinite rate.
func batchRate(elapsed time.Duration) float32 {
	rate := batchWorkload / float32(elapsed.Microseconds())
	if math32.IsNaN(rate) || math32.IsInf(rate, 0) {
		rate = fallbackRate
	}
	return rate
}
