package interact

import (
	"context"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hargrave81/minesharp-go/game"
	"github.com/hargrave81/minesharp-go/protocol"
)

// Place uses the held item against the given face of the block at pos,
// placing a block when the item is placeable, and blocks until the server
// settles the action. Preconditions mirror mining: the target must be in a
// loaded chunk and within reach, and nothing is sent when they fail.
func (in *Interactor) Place(ctx context.Context, pos cube.Pos, face cube.Face) (Outcome, error) {
	in.acquire()
	defer in.release()

	if !in.cfg.World.BlockLoaded(pos) {
		return OutcomeBlockNotLoaded, nil
	}
	if in.distanceTo(pos) > game.BreakReach {
		return OutcomeTooFar, nil
	}

	seq := in.cfg.Seq.Next()
	if err := in.cfg.Conn.SendCtx(ctx, &protocol.UseItemOn{
		Hand:     protocol.HandMain,
		Pos:      pos,
		Face:     face,
		Cursor:   mgl32.Vec3{0.5, 0.5, 0.5},
		Sequence: seq,
	}); err != nil {
		return OutcomeFailed, err
	}
	if err := in.cfg.Conn.SendCtx(ctx, &protocol.SwingArm{Hand: protocol.HandMain}); err != nil {
		return OutcomeFailed, err
	}

	ok, err := in.awaitAck(ctx, seq)
	switch {
	case cancellation(err):
		return OutcomeCancelled, nil
	case err != nil:
		return OutcomeFailed, err
	case !ok:
		return OutcomeFailed, nil
	}
	return OutcomeFinished, nil
}
