package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/hargrave81/minesharp-go/mcerror"
	"github.com/hargrave81/minesharp-go/protocol"
)

// Container bit widths of the chunk payload. Block state containers use an
// indirect palette up to 8 bits per entry and fall back to 15-bit direct
// ids above that; biome containers use 3 and 6.
const (
	blockMinBits      = 4
	blockIndirectBits = 8
	blockDirectBits   = 15
	biomeMinBits      = 1
	biomeIndirectBits = 3
	biomeDirectBits   = 6
)

// DecodeChunkPayload populates a chunk shell's block state array from the
// section payload of a chunk data packet. The payload holds one 16x16x16
// section per 16 blocks of the chunk's vertical range, bottom to top.
func DecodeChunkPayload(c *Chunk, payload []byte) error {
	b := protocol.NewBuffer(payload)
	r := c.Range()
	sections := (r[1] - r[0] + 1) / 16

	for s := 0; s < sections; s++ {
		// Non-air block count, unused by the store.
		if _, err := b.ReadInt16(); err != nil {
			return err
		}
		states, err := readPalettedContainer(b, 16*16*16, blockMinBits, blockIndirectBits, blockDirectBits)
		if err != nil {
			return err
		}
		baseY := r[0] + s*16
		for i, state := range states {
			// Entries are ordered y, then z, then x within the section.
			c.SetBlock(uint8(i&0xf), int16(baseY+i>>8), uint8(i>>4&0xf), state)
		}
		if _, err := readPalettedContainer(b, 4*4*4, biomeMinBits, biomeIndirectBits, biomeDirectBits); err != nil {
			return err
		}
	}
	return nil
}

// readPalettedContainer reads one paletted container of size entries. A
// zero bit width is a single-valued container; widths up to maxIndirect read
// an explicit palette; anything above reads direct values of directBits.
func readPalettedContainer(b *protocol.Buffer, size int, minBits, maxIndirect, directBits uint8) ([]int32, error) {
	bits, err := b.ReadUint8()
	if err != nil {
		return nil, err
	}

	out := make([]int32, size)
	if bits == 0 {
		v, err := b.ReadVarint()
		if err != nil {
			return nil, err
		}
		// Single-valued containers still carry an (empty) data array length.
		if _, err := b.ReadVarint(); err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = v
		}
		return out, nil
	}

	var palette []int32
	if bits <= maxIndirect {
		if bits < minBits {
			bits = minBits
		}
		if palette, err = protocol.Slice(b, b.ReadVarint); err != nil {
			return nil, err
		}
	} else {
		bits = directBits
	}

	longs, err := protocol.Slice(b, b.ReadInt64)
	if err != nil {
		return nil, err
	}

	perLong := 64 / int(bits)
	mask := uint64(1)<<bits - 1
	idx := 0
	for _, l := range longs {
		for j := 0; j < perLong && idx < size; j++ {
			v := uint64(l) >> (int(bits) * j) & mask
			if palette != nil {
				if int(v) >= len(palette) {
					return nil, mcerror.New("palette index %d out of range (%d entries)", v, len(palette))
				}
				out[idx] = palette[v]
			} else {
				out[idx] = int32(v)
			}
			idx++
		}
	}
	if idx < size {
		return nil, protocol.ErrBufferUnderflow
	}
	return out, nil
}

// BlockEntitiesFromPacket converts the block entities of a chunk data packet
// into a map keyed by absolute block position, the shape chunk shells are
// seeded with.
func BlockEntitiesFromPacket(pk *protocol.ChunkData) map[cube.Pos]map[string]any {
	out := make(map[cube.Pos]map[string]any, len(pk.BlockEntities))
	for _, e := range pk.BlockEntities {
		pos := cube.Pos{
			int(pk.Pos.X())*16 + int(e.X),
			int(e.Y),
			int(pk.Pos.Z())*16 + int(e.Z),
		}
		out[pos] = e.Data
	}
	return out
}
