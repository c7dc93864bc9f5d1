package protocol

// Pool maps packet ids to constructors for one direction of the connection.
type Pool map[int32]func() Packet

// NewClientboundPool returns constructors for every clientbound play packet
// the codec understands.
func NewClientboundPool() Pool {
	return Pool{
		IDBlockChangedAck:     func() Packet { return &BlockChangedAck{} },
		IDBlockUpdate:         func() Packet { return &BlockUpdate{} },
		IDChunkBatchFinished:  func() Packet { return &ChunkBatchFinished{} },
		IDChunkBatchStart:     func() Packet { return &ChunkBatchStart{} },
		IDUnloadChunk:         func() Packet { return &UnloadChunk{} },
		IDChunkData:           func() Packet { return &ChunkData{} },
		IDSectionBlocksUpdate: func() Packet { return &SectionBlocksUpdate{} },
	}
}

// NewServerboundPool returns constructors for every serverbound play packet
// the codec understands.
func NewServerboundPool() Pool {
	return Pool{
		IDChunkBatchReceived: func() Packet { return &ChunkBatchReceived{} },
		IDPlayerAction:       func() Packet { return &PlayerAction{} },
		IDSwingArm:           func() Packet { return &SwingArm{} },
		IDUseItemOn:          func() Packet { return &UseItemOn{} },
	}
}
