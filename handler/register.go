package handler

import (
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/hargrave81/minesharp-go/session"
	"github.com/hargrave81/minesharp-go/world"
	"github.com/sirupsen/logrus"
)

// Register wires the world and acknowledgment handling onto a session and
// returns the acknowledgment registry interaction code awaits on.
func Register(log *logrus.Logger, s *session.Session, w *world.World) *session.Acks {
	chunks := NewChunksHandler(log, w, world.NewBatcher(log, s))
	for _, id := range chunks.packetIDs() {
		s.Subscribe(id, chunks.HandleServerPacket)
	}

	acks := session.NewAcks()
	s.Subscribe(protocol.IDBlockChangedAck, func(pk protocol.Packet) {
		acks.Resolve(pk.(*protocol.BlockChangedAck).Sequence, true)
	})
	return acks
}
