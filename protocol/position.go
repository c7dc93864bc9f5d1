package protocol

import (
	"github.com/ethaniccc/float32-cube/cube"
)

// ChunkPos holds the coordinates of a chunk column. Increasing X/Z by one
// moves by 16 blocks on the respective axis.
type ChunkPos [2]int32

// X returns the X coordinate of the chunk position.
func (p ChunkPos) X() int32 {
	return p[0]
}

// Z returns the Z coordinate of the chunk position.
func (p ChunkPos) Z() int32 {
	return p[1]
}

// SectionPos addresses a single 16x16x16 chunk section in the world.
type SectionPos struct {
	X, Y, Z int32
}

// BlockRecord is one cell change inside a section-wide block update. The
// coordinates are local to the section.
type BlockRecord struct {
	X, Y, Z uint8
	State   int32
}

// ReadBlockPos reads a block position packed into a single 64-bit value:
// x in the top 26 bits, z in the next 26 and y in the low 12, each
// sign-extended on decode.
func (b *Buffer) ReadBlockPos() (cube.Pos, error) {
	v, err := b.ReadInt64()
	if err != nil {
		return cube.Pos{}, err
	}
	return cube.Pos{
		int(v >> 38),
		int(v << 52 >> 52),
		int(v << 26 >> 38),
	}, nil
}

// WriteBlockPos writes the packed 64-bit form of a block position. It is the
// exact inverse of ReadBlockPos for every position in the valid range.
func (b *Buffer) WriteBlockPos(p cube.Pos) {
	b.WriteInt64(((int64(p.X()) & 0x3ffffff) << 38) |
		((int64(p.Z()) & 0x3ffffff) << 12) |
		(int64(p.Y()) & 0xfff))
}

// ReadSectionPos reads the packed 64-bit section id used by section-wide
// block updates: x in the top 22 bits, z in the 22 below it and y in the low
// 20, each sign-extended by an arithmetic shift pair.
func (b *Buffer) ReadSectionPos() (SectionPos, error) {
	v, err := b.ReadInt64()
	if err != nil {
		return SectionPos{}, err
	}
	return SectionPos{
		X: int32(v >> 42),
		Y: int32(v << 44 >> 44),
		Z: int32(v << 22 >> 42),
	}, nil
}

// WriteSectionPos writes the packed 64-bit form of a section id.
func (b *Buffer) WriteSectionPos(p SectionPos) {
	b.WriteInt64(((int64(p.X) & 0x3fffff) << 42) |
		((int64(p.Z) & 0x3fffff) << 20) |
		(int64(p.Y) & 0xfffff))
}

// ReadBlockRecord reads one varlong-encoded section block record: the new
// state id in bits 12 and up, local x in bits 8-11, local z in bits 4-7 and
// local y in bits 0-3.
func (b *Buffer) ReadBlockRecord() (BlockRecord, error) {
	v, err := b.ReadVarlong()
	if err != nil {
		return BlockRecord{}, err
	}
	return BlockRecord{
		State: int32(v >> 12),
		X:     uint8(v >> 8 & 0xf),
		Z:     uint8(v >> 4 & 0xf),
		Y:     uint8(v & 0xf),
	}, nil
}

// WriteBlockRecord writes the varlong form of a section block record.
func (b *Buffer) WriteBlockRecord(r BlockRecord) {
	b.WriteVarlong(int64(r.State)<<12 |
		int64(r.X&0xf)<<8 |
		int64(r.Z&0xf)<<4 |
		int64(r.Y&0xf))
}

// Pos returns the absolute world position of a record under the section
// passed. The section's y index offsets the record's local y by 16 per unit.
func (r BlockRecord) Pos(s SectionPos) cube.Pos {
	return cube.Pos{
		int(s.X)*16 + int(r.X),
		int(s.Y)*16 + int(r.Y),
		int(s.Z)*16 + int(r.Z),
	}
}
