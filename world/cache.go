package world

import (
	"github.com/getsentry/sentry-go"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/zeebo/xxh3"
)

type addChunkRequest struct {
	input  *protocol.ChunkData
	target *World
}

var chunkQueue = make(chan addChunkRequest, 256)

func init() {
	go decodeWorker()
}

// Queue hands a chunk data packet to the decode pipeline, keeping the heavy
// paletted decode off the packet dispatch goroutine. A saturated pipeline
// applies backpressure rather than decoding out of band: successive payloads
// for one position must publish in arrival order, so no request may overtake
// the queue.
func Queue(w *World, pk *protocol.ChunkData) {
	chunkQueue <- addChunkRequest{input: pk, target: w}
}

// decodeWorker drains the queue sequentially so that successive payloads
// for the same position publish in arrival order.
func decodeWorker() {
	defer sentry.Recover()

	for req := range chunkQueue {
		decodeInto(req.target, req.input)
	}
}

// decodeInto builds a chunk shell from the packet and publishes it. A
// payload hashing step skips redundant reloads: servers occasionally resend
// a column unchanged, and replacing it would only churn the chunk map.
func decodeInto(w *World, pk *protocol.ChunkData) {
	hash := xxh3.Hash128(pk.Payload)

	w.RLock()
	prev, seen := w.hashes[pk.Pos]
	w.RUnlock()
	if seen && prev == hash {
		w.log.Debugf("chunk (%d, %d): identical payload resent, reload skipped", pk.Pos.X(), pk.Pos.Z())
		return
	}

	c := NewChunk(pk.Pos, w.Range(), BlockEntitiesFromPacket(pk))
	if err := DecodeChunkPayload(c, pk.Payload); err != nil {
		w.log.Warnf("chunk (%d, %d): payload decode failed: %v", pk.Pos.X(), pk.Pos.Z(), err)
		return
	}

	w.Lock()
	w.chunks[c.Pos()] = c
	w.hashes[c.Pos()] = hash
	w.Unlock()
}
