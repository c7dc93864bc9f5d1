package handler

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/hargrave81/minesharp-go/session"
	"github.com/hargrave81/minesharp-go/world"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type nopSender struct{}

func (nopSender) Send(pk protocol.Packet) error { return nil }

func newHandler(t *testing.T) (*ChunksHandler, *world.World) {
	w := world.New(testLogger(), cube.Range{0, 15})
	h := NewChunksHandler(testLogger(), w, world.NewBatcher(testLogger(), nopSender{}))
	return h, w
}

func singleValuePayload(state int32) []byte {
	b := protocol.NewBuffer(nil)
	b.WriteInt16(0)
	b.WriteUint8(0)
	b.WriteVarint(state)
	b.WriteVarint(0)
	b.WriteUint8(0)
	b.WriteVarint(1)
	b.WriteVarint(0)
	return b.Bytes()
}

func TestHandlerAppliesWorldPackets(t *testing.T) {
	h, w := newHandler(t)
	pos := protocol.ChunkPos{1, 2}

	h.HandleServerPacket(&protocol.ChunkData{Pos: pos, Payload: singleValuePayload(1)})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	require.NoError(t, w.AwaitChunk(ctx, pos))

	h.HandleServerPacket(&protocol.BlockUpdate{Pos: cube.Pos{16 + 3, 5, 32 + 9}, State: 9})
	state, ok := w.Block(cube.Pos{16 + 3, 5, 32 + 9})
	require.True(t, ok)
	assert.Equal(t, int32(9), state)

	h.HandleServerPacket(&protocol.SectionBlocksUpdate{
		Section: protocol.SectionPos{X: 1, Y: 0, Z: 2},
		Records: []protocol.BlockRecord{{X: 0, Z: 0, Y: 0, State: 25}},
	})
	state, _ = w.Block(cube.Pos{16, 0, 32})
	assert.Equal(t, int32(25), state)

	h.HandleServerPacket(&protocol.UnloadChunk{Pos: pos})
	assert.False(t, w.ChunkLoaded(pos))
}

func TestHandlerDropsUpdateForUnloadedChunk(t *testing.T) {
	h, w := newHandler(t)

	h.HandleServerPacket(&protocol.BlockUpdate{Pos: cube.Pos{3, 5, 9}, State: 9})
	_, ok := w.Block(cube.Pos{3, 5, 9})
	assert.False(t, ok)
}

func TestRegisterResolvesAcks(t *testing.T) {
	client, server := net.Pipe()
	s := session.New(testLogger(), client, protocol.Version764)
	defer s.Close()

	w := world.New(testLogger(), world.Overworld)
	acks := Register(testLogger(), s, w)
	s.Start()

	res := make(chan bool, 1)
	go func() {
		ok, err := acks.Await(context.Background(), 4)
		res <- ok && err == nil
	}()
	// Give the waiter a moment to register before the ack frame lands.
	time.Sleep(time.Millisecond * 20)

	body := protocol.NewBuffer(nil)
	body.WriteVarint(protocol.IDBlockChangedAck)
	require.NoError(t, (&protocol.BlockChangedAck{Sequence: 4}).Marshal(body, protocol.Version764))
	frame := protocol.NewBuffer(nil)
	frame.WriteVarint(int32(len(body.Bytes())))
	frame.WriteBytes(body.Bytes())
	go server.Write(frame.Bytes())

	select {
	case ok := <-res:
		assert.True(t, ok)
	case <-time.After(time.Second * 2):
		t.Fatal("acknowledgment not resolved")
	}
}
