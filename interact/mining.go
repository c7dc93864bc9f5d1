package interact

import (
	"context"
	"errors"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hargrave81/minesharp-go/assert"
	"github.com/hargrave81/minesharp-go/block"
	"github.com/hargrave81/minesharp-go/game"
	"github.com/hargrave81/minesharp-go/mcerror"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/sirupsen/logrus"
)

// Config wires an Interactor to its collaborators. World, Actor, Conn, Acks
// and Seq are required; the rest defaults.
type Config struct {
	Log   *logrus.Logger
	World BlockSource
	Actor Actor
	Conn  Sender
	Acks  AckSource
	// Seq is the connection's shared action sequence counter.
	Seq *Sequence
	// Blocks looks up static block metadata by state id. Defaults to the
	// registry lookup.
	Blocks func(state int32) (block.Block, bool)
	// AckTimeout bounds every wait for a server acknowledgment. An expired
	// wait cancels the interaction. Defaults to 10 seconds.
	AckTimeout time.Duration
	// SwingCadence is the interval of the repeated arm swing while a block
	// breaks. Defaults to game.SwingCadence.
	SwingCadence time.Duration
}

// Interactor performs acknowledged block interactions for a single actor.
// At most one interaction may run at a time; starting a second one while the
// first is unsettled is a caller error.
type Interactor struct {
	cfg  Config
	busy chan struct{}
}

// New returns an interactor for the collaborators passed.
func New(cfg Config) *Interactor {
	assert.IsTrue(cfg.World != nil, "interact: Config.World is required")
	assert.IsTrue(cfg.Actor != nil, "interact: Config.Actor is required")
	assert.IsTrue(cfg.Conn != nil, "interact: Config.Conn is required")
	assert.IsTrue(cfg.Acks != nil, "interact: Config.Acks is required")
	assert.IsTrue(cfg.Seq != nil, "interact: Config.Seq is required")
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	if cfg.Blocks == nil {
		cfg.Blocks = block.ByState
	}
	if cfg.AckTimeout == 0 {
		cfg.AckTimeout = time.Second * 10
	}
	if cfg.SwingCadence == 0 {
		cfg.SwingCadence = game.SwingCadence
	}
	return &Interactor{cfg: cfg, busy: make(chan struct{}, 1)}
}

type ackResult struct {
	ok  bool
	err error
}

// Mine digs the block at pos, facing the given face, and blocks until the
// interaction settles. Failed preconditions settle immediately without a
// single packet sent. Cancelling ctx mid-break notifies the server with one
// cancel action and settles OutcomeCancelled.
func (in *Interactor) Mine(ctx context.Context, pos cube.Pos, face cube.Face) (Outcome, error) {
	in.acquire()
	defer in.release()

	// Preconditions, all checked before any network traffic. Residency and
	// state come from one world query so an unload between the two cannot
	// turn a missing chunk into a diggable air block.
	state, loaded := in.cfg.World.Block(pos)
	if !loaded {
		return OutcomeBlockNotLoaded, nil
	}
	info, known := in.cfg.Blocks(state)
	if !known || info.Unbreakable {
		return OutcomeNotDiggable, nil
	}
	if in.distanceTo(pos) > game.BreakReach {
		return OutcomeTooFar, nil
	}

	duration := time.Duration(0)
	if in.cfg.Actor.GameMode() != game.ModeCreative {
		duration = block.BreakDuration(
			info,
			in.cfg.Actor.HeldTool(),
			in.cfg.Actor.EffectLevel(game.EffectHaste),
			in.cfg.Actor.EffectLevel(game.EffectMiningFatigue),
		)
	}

	breakCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startSeq := in.cfg.Seq.Next()
	if err := in.cfg.Conn.SendCtx(breakCtx, &protocol.PlayerAction{
		Action: protocol.ActionStartDigging, Pos: pos, Face: face, Sequence: startSeq,
	}); err != nil {
		return OutcomeFailed, err
	}

	go in.swingLoop(breakCtx)

	startRes := make(chan ackResult, 1)
	go func() {
		ok, err := in.awaitAck(breakCtx, startSeq)
		startRes <- ackResult{ok: ok, err: err}
	}()

	// The deferred finish sleeps out the break duration, then sends the
	// finish action and waits for its acknowledgment. It must not overtake
	// the start acknowledgment, so it additionally gates on startAccepted.
	startAccepted := make(chan struct{})
	finishRes := make(chan ackResult, 1)
	go func() {
		select {
		case <-time.After(duration):
		case <-breakCtx.Done():
			finishRes <- ackResult{err: breakCtx.Err()}
			return
		}
		select {
		case <-startAccepted:
		case <-breakCtx.Done():
			finishRes <- ackResult{err: breakCtx.Err()}
			return
		}
		seq := in.cfg.Seq.Next()
		if err := in.cfg.Conn.SendCtx(breakCtx, &protocol.PlayerAction{
			Action: protocol.ActionFinishDigging, Pos: pos, Face: face, Sequence: seq,
		}); err != nil {
			finishRes <- ackResult{err: err}
			return
		}
		ok, err := in.awaitAck(breakCtx, seq)
		finishRes <- ackResult{ok: ok, err: err}
	}()

	res := <-startRes
	switch {
	case cancellation(res.err):
		cancel()
		return in.cancelDig(pos, face)
	case res.err != nil:
		return OutcomeFailed, res.err
	case !res.ok:
		return OutcomeFailed, nil
	}
	close(startAccepted)

	res = <-finishRes
	switch {
	case cancellation(res.err):
		cancel()
		return in.cancelDig(pos, face)
	case res.err != nil:
		return OutcomeFailed, res.err
	case !res.ok:
		return OutcomeFailed, nil
	}
	return OutcomeFinished, nil
}

// cancelDig notifies the server that the dig was abandoned. It is the only
// path out of a cancelled interaction: cancellation is never silent.
func (in *Interactor) cancelDig(pos cube.Pos, face cube.Face) (Outcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := in.cfg.Conn.SendCtx(ctx, &protocol.PlayerAction{
		Action: protocol.ActionCancelDigging, Pos: pos, Face: face, Sequence: in.cfg.Seq.Next(),
	}); err != nil {
		in.cfg.Log.Warnf("mining: cancel notification failed: %v", err)
	}
	return OutcomeCancelled, nil
}

// swingLoop repeats the arm swing animation on a fixed cadence until the
// context ends.
func (in *Interactor) swingLoop(ctx context.Context) {
	t := time.NewTicker(in.cfg.SwingCadence)
	defer t.Stop()

	if err := in.cfg.Conn.SendCtx(ctx, &protocol.SwingArm{Hand: protocol.HandMain}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := in.cfg.Conn.SendCtx(ctx, &protocol.SwingArm{Hand: protocol.HandMain}); err != nil {
				return
			}
		}
	}
}

// awaitAck waits for the acknowledgment of seq, bounded by the configured
// timeout on top of the interaction's own cancellation.
func (in *Interactor) awaitAck(ctx context.Context, seq int32) (bool, error) {
	actx, cancel := context.WithTimeout(ctx, in.cfg.AckTimeout)
	defer cancel()
	return in.cfg.Acks.Await(actx, seq)
}

// distanceTo returns the distance from the actor to the centre of the block
// at pos.
func (in *Interactor) distanceTo(pos cube.Pos) float32 {
	centre := mgl32.Vec3{
		float32(pos.X()) + 0.5,
		float32(pos.Y()) + 0.5,
		float32(pos.Z()) + 0.5,
	}
	return in.cfg.Actor.Position().Sub(centre).Len()
}

// acquire claims the interactor for one interaction. Two overlapping
// interactions on one actor are a programming error, not a runtime state.
func (in *Interactor) acquire() {
	select {
	case in.busy <- struct{}{}:
	default:
		panic(mcerror.New("interact: interaction started while another is unsettled"))
	}
}

func (in *Interactor) release() {
	<-in.busy
}

// cancellation reports whether an acknowledgment error came from the
// interaction being cancelled or timed out rather than from the connection.
func cancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
