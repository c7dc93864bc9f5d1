package handler

import (
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/hargrave81/minesharp-go/world"
	"github.com/sirupsen/logrus"
)

const HandlerIDChunks = "minesharp:chunks"

// ChunksHandler applies world-altering server packets to the world and
// feeds batch timing to the batcher. It is the single logical writer of the
// world's chunk map.
type ChunksHandler struct {
	log     *logrus.Logger
	world   *world.World
	batcher *world.Batcher
}

// NewChunksHandler returns a handler mutating w and timing batches with b.
func NewChunksHandler(log *logrus.Logger, w *world.World, b *world.Batcher) *ChunksHandler {
	return &ChunksHandler{log: log, world: w, batcher: b}
}

func (h *ChunksHandler) ID() string {
	return HandlerIDChunks
}

// HandleServerPacket applies one inbound packet. It runs on the session's
// read goroutine, which keeps world writes single-writer.
func (h *ChunksHandler) HandleServerPacket(pk protocol.Packet) {
	switch pk := pk.(type) {
	case *protocol.ChunkData:
		world.Queue(h.world, pk)
	case *protocol.UnloadChunk:
		h.world.RemoveChunk(pk.Pos)
	case *protocol.BlockUpdate:
		if !h.world.SetBlock(pk.Pos, pk.State) {
			h.log.Debugf("block update at %v for unloaded chunk dropped", pk.Pos)
		}
	case *protocol.SectionBlocksUpdate:
		h.world.ApplySectionUpdate(pk)
	case *protocol.ChunkBatchStart:
		h.batcher.StartBatch()
	case *protocol.ChunkBatchFinished:
		h.batcher.FinishBatch()
	}
}

// packetIDs returns the ids the chunks handler subscribes to.
func (h *ChunksHandler) packetIDs() []int32 {
	return []int32{
		protocol.IDChunkData,
		protocol.IDUnloadChunk,
		protocol.IDBlockUpdate,
		protocol.IDSectionBlocksUpdate,
		protocol.IDChunkBatchStart,
		protocol.IDChunkBatchFinished,
	}
}
