package world

import (
	"context"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Overworld is the vertical block range of the overworld dimension.
var Overworld = cube.Range{-64, 319}

// World is the chunk map kept in sync with the server. It has exactly one
// logical writer, the inbound packet handling, and any number of concurrent
// readers. The world owns its chunks exclusively: a chunk reference must not
// be retained past its unload.
type World struct {
	log *logrus.Logger
	r   cube.Range

	chunks map[protocol.ChunkPos]*Chunk
	hashes map[protocol.ChunkPos]xxh3.Uint128

	deadlock.RWMutex
}

// New returns an empty world covering the vertical range passed.
func New(log *logrus.Logger, r cube.Range) *World {
	return &World{
		log:    log,
		r:      r,
		chunks: make(map[protocol.ChunkPos]*Chunk),
		hashes: make(map[protocol.ChunkPos]xxh3.Uint128),
	}
}

// Range returns the vertical block range of the world's dimension.
func (w *World) Range() cube.Range {
	return w.r
}

// AddChunk publishes a fully populated chunk into the world, replacing any
// chunk previously loaded at its position. Only after this call do queries
// observe the chunk.
func (w *World) AddChunk(c *Chunk) {
	w.Lock()
	defer w.Unlock()

	w.chunks[c.Pos()] = c
}

// RemoveChunk drops the chunk at the position passed. Queries for the
// position report not loaded afterwards.
func (w *World) RemoveChunk(pos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	delete(w.chunks, pos)
	delete(w.hashes, pos)
}

// Chunk returns the loaded chunk at the position passed, or nil if none is
// loaded there.
func (w *World) Chunk(pos protocol.ChunkPos) *Chunk {
	w.RLock()
	c := w.chunks[pos]
	w.RUnlock()

	return c
}

// ChunkLoaded reports whether a chunk is loaded at the position passed.
func (w *World) ChunkLoaded(pos protocol.ChunkPos) bool {
	w.RLock()
	_, ok := w.chunks[pos]
	w.RUnlock()

	return ok
}

// BlockLoaded reports whether the block position passed is inside the
// world's vertical range and resident in a loaded chunk.
func (w *World) BlockLoaded(pos cube.Pos) bool {
	if pos.Y() < w.r[0] || pos.Y() > w.r[1] {
		return false
	}
	return w.ChunkLoaded(ChunkPosFromBlock(pos))
}

// Block returns the block state id at the position passed. The second
// return value is false when the position is outside the world's vertical
// range or its owning chunk is not loaded.
func (w *World) Block(pos cube.Pos) (int32, bool) {
	if pos.Y() < w.r[0] || pos.Y() > w.r[1] {
		return 0, false
	}
	w.RLock()
	c, ok := w.chunks[ChunkPosFromBlock(pos)]
	if !ok {
		w.RUnlock()
		return 0, false
	}
	state := c.Block(uint8(pos.X()&0xf), int16(pos.Y()), uint8(pos.Z()&0xf))
	w.RUnlock()

	return state, true
}

// SetBlock sets a single cell of an already loaded chunk to the state id
// passed. It reports false, without any effect, when the owning chunk is
// absent.
func (w *World) SetBlock(pos cube.Pos, state int32) bool {
	w.Lock()
	defer w.Unlock()

	c, ok := w.chunks[ChunkPosFromBlock(pos)]
	if !ok {
		return false
	}
	c.SetBlock(uint8(pos.X()&0xf), int16(pos.Y()), uint8(pos.Z()&0xf), state)
	return true
}

// ApplySectionUpdate applies every record of a section-wide block update.
// All records address the single chunk of the update's section coordinates.
func (w *World) ApplySectionUpdate(pk *protocol.SectionBlocksUpdate) {
	w.Lock()
	defer w.Unlock()

	c, ok := w.chunks[protocol.ChunkPos{pk.Section.X, pk.Section.Z}]
	if !ok {
		w.log.Debugf("section update for unloaded chunk (%d, %d) dropped", pk.Section.X, pk.Section.Z)
		return
	}
	for _, r := range pk.Records {
		c.SetBlock(r.X, int16(int(pk.Section.Y)*16+int(r.Y)), r.Z, r.State)
	}
}

// AwaitChunk blocks until a chunk is loaded at the position passed or the
// context ends, polling with a short fixed backoff.
func (w *World) AwaitChunk(ctx context.Context, pos protocol.ChunkPos) error {
	for {
		if w.ChunkLoaded(pos) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond * 50):
		}
	}
}

// ChunkPosFromBlock returns the position of the chunk column owning the
// block position passed, flooring the division by the chunk size.
func ChunkPosFromBlock(pos cube.Pos) protocol.ChunkPos {
	return protocol.ChunkPos{int32(pos.X() >> 4), int32(pos.Z() >> 4)}
}
