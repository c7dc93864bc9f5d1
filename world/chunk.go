package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/hargrave81/minesharp-go/block"
	"github.com/hargrave81/minesharp-go/protocol"
)

// Chunk is a 16x16 column of block state ids together with the block entity
// data resident in the column. A chunk starts as an unloaded shell: it is
// not visible to any query until published into a World.
type Chunk struct {
	pos protocol.ChunkPos
	r   cube.Range

	blocks        []int32
	blockEntities map[cube.Pos]map[string]any
}

// NewChunk allocates an air-filled shell for the given position and vertical
// range, seeded with pre-parsed block entity data. The shell is not
// queryable until it is published with World.AddChunk.
func NewChunk(pos protocol.ChunkPos, r cube.Range, blockEntities map[cube.Pos]map[string]any) *Chunk {
	if blockEntities == nil {
		blockEntities = map[cube.Pos]map[string]any{}
	}
	return &Chunk{
		pos:           pos,
		r:             r,
		blocks:        make([]int32, 16*16*(r[1]-r[0]+1)),
		blockEntities: blockEntities,
	}
}

// Pos returns the column position of the chunk.
func (c *Chunk) Pos() protocol.ChunkPos {
	return c.pos
}

// Range returns the vertical block range the chunk covers.
func (c *Chunk) Range() cube.Range {
	return c.r
}

func (c *Chunk) index(x uint8, y int16, z uint8) int {
	return (int(y)-c.r[0])<<8 | int(z&0xf)<<4 | int(x&0xf)
}

// Block returns the block state id at a position local to the chunk. Out of
// range heights read as air.
func (c *Chunk) Block(x uint8, y int16, z uint8) int32 {
	if int(y) < c.r[0] || int(y) > c.r[1] {
		return block.StateAir
	}
	return c.blocks[c.index(x, y, z)]
}

// SetBlock sets the block state id at a position local to the chunk. Out of
// range heights are ignored.
func (c *Chunk) SetBlock(x uint8, y int16, z uint8, state int32) {
	if int(y) < c.r[0] || int(y) > c.r[1] {
		return
	}
	c.blocks[c.index(x, y, z)] = state
}

// BlockEntity returns the tag data of the block entity at the absolute
// position passed, if one is present in the column.
func (c *Chunk) BlockEntity(pos cube.Pos) (map[string]any, bool) {
	m, ok := c.blockEntities[pos]
	return m, ok
}

// SetBlockEntity stores tag data for the block entity at the absolute
// position passed. Nil data removes the entry.
func (c *Chunk) SetBlockEntity(pos cube.Pos, data map[string]any) {
	if data == nil {
		delete(c.blockEntities, pos)
		return
	}
	c.blockEntities[pos] = data
}
