package interact

import (
	"context"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hargrave81/minesharp-go/block"
	"github.com/hargrave81/minesharp-go/game"
	"github.com/hargrave81/minesharp-go/protocol"
)

// Sender is the outbound send primitive of the connection.
type Sender interface {
	Send(pk protocol.Packet) error
	SendCtx(ctx context.Context, pk protocol.Packet) error
}

// AckSource resolves the server acknowledgment of an action sequence id. It
// reports whether the server accepted the action.
type AckSource interface {
	Await(ctx context.Context, seq int32) (bool, error)
}

// BlockSource is the world query surface interactions check their
// preconditions against.
type BlockSource interface {
	Block(pos cube.Pos) (int32, bool)
	BlockLoaded(pos cube.Pos) bool
}

// Actor provides the live state of the acting entity.
type Actor interface {
	// Position returns the actor's eye position.
	Position() mgl32.Vec3
	// HeldTool returns the tool currently held, the zero Tool for an empty
	// hand.
	HeldTool() block.Tool
	// EffectLevel returns the level of an active status effect, zero when
	// the effect is absent.
	EffectLevel(id int) int
	// GameMode returns the game mode the actor plays in.
	GameMode() game.Mode
}
