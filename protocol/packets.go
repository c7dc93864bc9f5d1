package protocol

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Version764 (game version 1.20.2) is the protocol version at which network
// tag trees dropped the root compound's name field.
const Version764 = 764

// AnonymousNBTRoot reports whether tag trees of the given protocol version
// omit the root compound name.
func AnonymousNBTRoot(version int32) bool {
	return version >= Version764
}

// Clientbound play packet ids.
const (
	IDBlockChangedAck     int32 = 0x05
	IDBlockUpdate         int32 = 0x09
	IDChunkBatchFinished  int32 = 0x0c
	IDChunkBatchStart     int32 = 0x0d
	IDUnloadChunk         int32 = 0x1f
	IDChunkData           int32 = 0x25
	IDSectionBlocksUpdate int32 = 0x41
)

// Serverbound play packet ids.
const (
	IDChunkBatchReceived int32 = 0x07
	IDPlayerAction       int32 = 0x21
	IDSwingArm           int32 = 0x33
	IDUseItemOn          int32 = 0x35
)

// Player action kinds carried by PlayerAction.
const (
	ActionStartDigging int32 = iota
	ActionCancelDigging
	ActionFinishDigging
)

// Interaction hands carried by SwingArm and UseItemOn.
const (
	HandMain int32 = iota
	HandOff
)

// Packet is a single typed play packet. Marshal and Unmarshal operate on a
// packet body without the id; the session layer frames ids and lengths.
type Packet interface {
	// ID returns the play-state packet id.
	ID() int32
	// Marshal writes the packet body for the given protocol version.
	Marshal(b *Buffer, version int32) error
	// Unmarshal reads the packet body for the given protocol version.
	Unmarshal(b *Buffer, version int32) error
}

// BlockEntityData is one block entity inside a chunk data packet. X and Z
// are local to the chunk column.
type BlockEntityData struct {
	X, Z uint8
	Y    int16
	Type int32
	Data map[string]any
}

// ChunkData carries a full chunk column: its position, heightmaps, the
// section payload and the block entities resident in the column.
type ChunkData struct {
	Pos           ChunkPos
	Heightmaps    map[string]any
	Payload       []byte
	BlockEntities []BlockEntityData
}

func (*ChunkData) ID() int32 { return IDChunkData }

func (pk *ChunkData) Marshal(b *Buffer, version int32) error {
	b.WriteInt32(pk.Pos.X())
	b.WriteInt32(pk.Pos.Z())
	if err := b.WriteNBT(pk.Heightmaps, AnonymousNBTRoot(version)); err != nil {
		return err
	}
	b.WriteVarint(int32(len(pk.Payload)))
	b.WriteBytes(pk.Payload)
	WriteSlice(b, pk.BlockEntities, func(e BlockEntityData) {
		b.WriteUint8(e.X<<4 | e.Z&0xf)
		b.WriteInt16(e.Y)
		b.WriteVarint(e.Type)
		_ = b.WriteNBT(e.Data, AnonymousNBTRoot(version))
	})
	return nil
}

func (pk *ChunkData) Unmarshal(b *Buffer, version int32) error {
	x, err := b.ReadInt32()
	if err != nil {
		return err
	}
	z, err := b.ReadInt32()
	if err != nil {
		return err
	}
	pk.Pos = ChunkPos{x, z}
	if pk.Heightmaps, err = b.ReadNBT(AnonymousNBTRoot(version)); err != nil {
		return err
	}
	n, err := b.ReadVarint()
	if err != nil {
		return err
	}
	if pk.Payload, err = b.ReadBytes(int(n)); err != nil {
		return err
	}
	pk.BlockEntities, err = Slice(b, func() (BlockEntityData, error) {
		var e BlockEntityData
		packed, err := b.ReadUint8()
		if err != nil {
			return e, err
		}
		e.X, e.Z = packed>>4, packed&0xf
		if e.Y, err = b.ReadInt16(); err != nil {
			return e, err
		}
		if e.Type, err = b.ReadVarint(); err != nil {
			return e, err
		}
		e.Data, err = b.ReadNBT(AnonymousNBTRoot(version))
		return e, err
	})
	return err
}

// UnloadChunk orders the client to drop a chunk column.
type UnloadChunk struct {
	Pos ChunkPos
}

func (*UnloadChunk) ID() int32 { return IDUnloadChunk }

func (pk *UnloadChunk) Marshal(b *Buffer, version int32) error {
	b.WriteInt32(pk.Pos.Z())
	b.WriteInt32(pk.Pos.X())
	return nil
}

func (pk *UnloadChunk) Unmarshal(b *Buffer, version int32) error {
	z, err := b.ReadInt32()
	if err != nil {
		return err
	}
	x, err := b.ReadInt32()
	if err != nil {
		return err
	}
	pk.Pos = ChunkPos{x, z}
	return nil
}

// BlockUpdate changes a single cell to a new block state.
type BlockUpdate struct {
	Pos   cube.Pos
	State int32
}

func (*BlockUpdate) ID() int32 { return IDBlockUpdate }

func (pk *BlockUpdate) Marshal(b *Buffer, version int32) error {
	b.WriteBlockPos(pk.Pos)
	b.WriteVarint(pk.State)
	return nil
}

func (pk *BlockUpdate) Unmarshal(b *Buffer, version int32) error {
	var err error
	if pk.Pos, err = b.ReadBlockPos(); err != nil {
		return err
	}
	pk.State, err = b.ReadVarint()
	return err
}

// SectionBlocksUpdate changes multiple cells of one chunk section at once.
type SectionBlocksUpdate struct {
	Section SectionPos
	Records []BlockRecord
}

func (*SectionBlocksUpdate) ID() int32 { return IDSectionBlocksUpdate }

func (pk *SectionBlocksUpdate) Marshal(b *Buffer, version int32) error {
	b.WriteSectionPos(pk.Section)
	WriteSlice(b, pk.Records, b.WriteBlockRecord)
	return nil
}

func (pk *SectionBlocksUpdate) Unmarshal(b *Buffer, version int32) error {
	var err error
	if pk.Section, err = b.ReadSectionPos(); err != nil {
		return err
	}
	pk.Records, err = Slice(b, b.ReadBlockRecord)
	return err
}

// BlockChangedAck acknowledges every world-altering action up to and
// including the sequence id carried.
type BlockChangedAck struct {
	Sequence int32
}

func (*BlockChangedAck) ID() int32 { return IDBlockChangedAck }

func (pk *BlockChangedAck) Marshal(b *Buffer, version int32) error {
	b.WriteVarint(pk.Sequence)
	return nil
}

func (pk *BlockChangedAck) Unmarshal(b *Buffer, version int32) error {
	var err error
	pk.Sequence, err = b.ReadVarint()
	return err
}

// ChunkBatchStart marks the start of a batch of chunk data packets.
type ChunkBatchStart struct{}

func (*ChunkBatchStart) ID() int32 { return IDChunkBatchStart }

func (*ChunkBatchStart) Marshal(b *Buffer, version int32) error { return nil }

func (*ChunkBatchStart) Unmarshal(b *Buffer, version int32) error { return nil }

// ChunkBatchFinished marks the end of a batch of chunk data packets.
type ChunkBatchFinished struct {
	BatchSize int32
}

func (*ChunkBatchFinished) ID() int32 { return IDChunkBatchFinished }

func (pk *ChunkBatchFinished) Marshal(b *Buffer, version int32) error {
	b.WriteVarint(pk.BatchSize)
	return nil
}

func (pk *ChunkBatchFinished) Unmarshal(b *Buffer, version int32) error {
	var err error
	pk.BatchSize, err = b.ReadVarint()
	return err
}

// ChunkBatchReceived reports the rate at which the client wants to receive
// chunk batches, in chunks per tick.
type ChunkBatchReceived struct {
	ChunksPerTick float32
}

func (*ChunkBatchReceived) ID() int32 { return IDChunkBatchReceived }

func (pk *ChunkBatchReceived) Marshal(b *Buffer, version int32) error {
	b.WriteFloat32(pk.ChunksPerTick)
	return nil
}

func (pk *ChunkBatchReceived) Unmarshal(b *Buffer, version int32) error {
	var err error
	pk.ChunksPerTick, err = b.ReadFloat32()
	return err
}

// PlayerAction notifies the server of a digging action on a block. Sequence
// correlates the action with a later BlockChangedAck.
type PlayerAction struct {
	Action   int32
	Pos      cube.Pos
	Face     cube.Face
	Sequence int32
}

func (*PlayerAction) ID() int32 { return IDPlayerAction }

func (pk *PlayerAction) Marshal(b *Buffer, version int32) error {
	b.WriteVarint(pk.Action)
	b.WriteBlockPos(pk.Pos)
	b.WriteUint8(uint8(pk.Face))
	b.WriteVarint(pk.Sequence)
	return nil
}

func (pk *PlayerAction) Unmarshal(b *Buffer, version int32) error {
	var err error
	if pk.Action, err = b.ReadVarint(); err != nil {
		return err
	}
	if pk.Pos, err = b.ReadBlockPos(); err != nil {
		return err
	}
	f, err := b.ReadUint8()
	if err != nil {
		return err
	}
	pk.Face = cube.Face(f)
	pk.Sequence, err = b.ReadVarint()
	return err
}

// SwingArm plays the arm swing animation on the server side.
type SwingArm struct {
	Hand int32
}

func (*SwingArm) ID() int32 { return IDSwingArm }

func (pk *SwingArm) Marshal(b *Buffer, version int32) error {
	b.WriteVarint(pk.Hand)
	return nil
}

func (pk *SwingArm) Unmarshal(b *Buffer, version int32) error {
	var err error
	pk.Hand, err = b.ReadVarint()
	return err
}

// UseItemOn places or uses the held item against the face of a block.
type UseItemOn struct {
	Hand        int32
	Pos         cube.Pos
	Face        cube.Face
	Cursor      mgl32.Vec3
	InsideBlock bool
	Sequence    int32
}

func (*UseItemOn) ID() int32 { return IDUseItemOn }

func (pk *UseItemOn) Marshal(b *Buffer, version int32) error {
	b.WriteVarint(pk.Hand)
	b.WriteBlockPos(pk.Pos)
	b.WriteVarint(int32(pk.Face))
	b.WriteFloat32(pk.Cursor.X())
	b.WriteFloat32(pk.Cursor.Y())
	b.WriteFloat32(pk.Cursor.Z())
	b.WriteBool(pk.InsideBlock)
	b.WriteVarint(pk.Sequence)
	return nil
}

func (pk *UseItemOn) Unmarshal(b *Buffer, version int32) error {
	var err error
	if pk.Hand, err = b.ReadVarint(); err != nil {
		return err
	}
	if pk.Pos, err = b.ReadBlockPos(); err != nil {
		return err
	}
	f, err := b.ReadVarint()
	if err != nil {
		return err
	}
	pk.Face = cube.Face(f)
	for i := 0; i < 3; i++ {
		if pk.Cursor[i], err = b.ReadFloat32(); err != nil {
			return err
		}
	}
	if pk.InsideBlock, err = b.ReadBool(); err != nil {
		return err
	}
	pk.Sequence, err = b.ReadVarint()
	return err
}
