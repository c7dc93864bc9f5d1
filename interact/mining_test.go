package interact

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hargrave81/minesharp-go/block"
	"github.com/hargrave81/minesharp-go/game"
	"github.com/hargrave81/minesharp-go/protocol"
	"github.com/hargrave81/minesharp-go/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	mu   sync.Mutex
	sent []protocol.Packet
	ch   chan protocol.Packet
	err  error
}

func newStubConn() *stubConn {
	return &stubConn{ch: make(chan protocol.Packet, 64)}
}

func (c *stubConn) Send(pk protocol.Packet) error {
	c.mu.Lock()
	err := c.err
	if err == nil {
		c.sent = append(c.sent, pk)
	}
	c.mu.Unlock()
	if err == nil {
		c.ch <- pk
	}
	return err
}

func (c *stubConn) SendCtx(ctx context.Context, pk protocol.Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Send(pk)
}

func (c *stubConn) packets() []protocol.Packet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Packet(nil), c.sent...)
}

func (c *stubConn) actions() []*protocol.PlayerAction {
	var out []*protocol.PlayerAction
	for _, pk := range c.packets() {
		if a, ok := pk.(*protocol.PlayerAction); ok {
			out = append(out, a)
		}
	}
	return out
}

type stubWorld struct {
	blocks map[cube.Pos]int32
}

func (w *stubWorld) Block(pos cube.Pos) (int32, bool) {
	state, ok := w.blocks[pos]
	return state, ok
}

func (w *stubWorld) BlockLoaded(pos cube.Pos) bool {
	_, ok := w.blocks[pos]
	return ok
}

type stubActor struct {
	pos     mgl32.Vec3
	tool    block.Tool
	effects map[int]int
	mode    game.Mode
}

func (a *stubActor) Position() mgl32.Vec3   { return a.pos }
func (a *stubActor) HeldTool() block.Tool   { return a.tool }
func (a *stubActor) EffectLevel(id int) int { return a.effects[id] }
func (a *stubActor) GameMode() game.Mode    { return a.mode }

// fastBlocks resolves every known state to a soft block that digs in a few
// ticks with a bare hand, keeping interaction tests quick.
func fastBlocks(state int32) (block.Block, bool) {
	switch state {
	case 1:
		return block.Block{Name: "soft", Hardness: 0.05}, true
	case 25:
		return block.Block{Name: "bedrock", Unbreakable: true}, true
	}
	return block.Block{}, false
}

type fixture struct {
	conn  *stubConn
	acks  *session.Acks
	world *stubWorld
	actor *stubActor
	in    *Interactor
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		conn: newStubConn(),
		acks: session.NewAcks(),
		world: &stubWorld{blocks: map[cube.Pos]int32{
			{1, 64, 1}:  1,
			{2, 64, 1}:  25,
			{40, 64, 1}: 1,
		}},
		actor: &stubActor{pos: mgl32.Vec3{0.5, 65.6, 0.5}},
	}
	cfg := Config{
		Log:        log,
		World:      f.world,
		Actor:      f.actor,
		Conn:       f.conn,
		Acks:       f.acks,
		Seq:        &Sequence{},
		Blocks:     fastBlocks,
		AckTimeout: time.Second * 2,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.in = New(cfg)
	return f
}

// acceptAll acknowledges every dig action as accepted, the way a compliant
// server does. It returns a stop function.
func (f *fixture) acceptAll() func() {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case pk := <-f.conn.ch:
				if a, ok := pk.(*protocol.PlayerAction); ok {
					f.acks.Resolve(a.Sequence, true)
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// instantAckConn acknowledges every acknowledged action before Send returns,
// the way a server faster than the local goroutine scheduler appears.
type instantAckConn struct {
	*stubConn
	acks *session.Acks
}

func (c *instantAckConn) Send(pk protocol.Packet) error {
	if err := c.stubConn.Send(pk); err != nil {
		return err
	}
	switch pk := pk.(type) {
	case *protocol.PlayerAction:
		c.acks.Resolve(pk.Sequence, true)
	case *protocol.UseItemOn:
		c.acks.Resolve(pk.Sequence, true)
	}
	return nil
}

func (c *instantAckConn) SendCtx(ctx context.Context, pk protocol.Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Send(pk)
}

// vanishingWorld reports every chunk loaded while every block query misses,
// the shape a concurrent unload between two world calls produces.
type vanishingWorld struct{}

func (vanishingWorld) Block(cube.Pos) (int32, bool) { return 0, false }
func (vanishingWorld) BlockLoaded(cube.Pos) bool    { return true }

func TestMinePreconditions(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.in.Mine(context.Background(), cube.Pos{9, 64, 9}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlockNotLoaded, out)

	out, err = f.in.Mine(context.Background(), cube.Pos{2, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotDiggable, out)

	out, err = f.in.Mine(context.Background(), cube.Pos{40, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTooFar, out)

	assert.Empty(t, f.conn.packets(), "failed preconditions must not reach the wire")
}

func TestMineFinishes(t *testing.T) {
	f := newFixture(t, nil)
	stop := f.acceptAll()
	defer stop()

	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	require.Equal(t, OutcomeFinished, out)

	actions := f.conn.actions()
	require.Len(t, actions, 2)
	assert.Equal(t, protocol.ActionStartDigging, actions[0].Action)
	assert.Equal(t, protocol.ActionFinishDigging, actions[1].Action)
	assert.Equal(t, cube.Pos{1, 64, 1}, actions[0].Pos)
	assert.Equal(t, cube.FaceUp, actions[0].Face)
	assert.Greater(t, actions[1].Sequence, actions[0].Sequence)

	var swings int
	for _, pk := range f.conn.packets() {
		if _, ok := pk.(*protocol.SwingArm); ok {
			swings++
		}
	}
	assert.NotZero(t, swings, "digging swings the arm")
}

func TestMineWithImmediateAcks(t *testing.T) {
	var conn *instantAckConn
	f := newFixture(t, func(cfg *Config) {
		conn = &instantAckConn{stubConn: newStubConn(), acks: cfg.Acks.(*session.Acks)}
		cfg.Conn = conn
	})

	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	require.Equal(t, OutcomeFinished, out)

	out, err = f.in.Place(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	require.Equal(t, OutcomeFinished, out)

	for _, pk := range conn.stubConn.packets() {
		if a, ok := pk.(*protocol.PlayerAction); ok {
			assert.NotEqual(t, protocol.ActionCancelDigging, a.Action,
				"an accepted dig must not be cancelled")
		}
	}
}

func TestMineUnloadRaceSettlesNotLoaded(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.World = vanishingWorld{}
	})

	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBlockNotLoaded, out)
	assert.Empty(t, f.conn.packets())
}

func TestMineCreativeIsInstant(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Blocks = func(state int32) (block.Block, bool) {
			// Hard enough that survival digging would take many seconds.
			return block.Block{Name: "obsidian", Hardness: 50}, true
		}
	})
	f.actor.mode = game.ModeCreative
	stop := f.acceptAll()
	defer stop()

	start := time.Now()
	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFinished, out)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMineRejectedStart(t *testing.T) {
	f := newFixture(t, nil)
	go func() {
		pk := <-f.conn.ch
		f.acks.Resolve(pk.(*protocol.PlayerAction).Sequence, false)
	}()

	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out)

	for _, a := range f.conn.actions() {
		assert.NotEqual(t, protocol.ActionFinishDigging, a.Action,
			"a rejected start must not be finished")
	}
}

func TestMineCancelledMidBreak(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Blocks = func(state int32) (block.Block, bool) {
			return block.Block{Name: "obsidian", Hardness: 50}, true
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		pk := <-f.conn.ch
		f.acks.Resolve(pk.(*protocol.PlayerAction).Sequence, true)
		time.Sleep(time.Millisecond * 100)
		cancel()
	}()

	out, err := f.in.Mine(ctx, cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	require.Equal(t, OutcomeCancelled, out)

	var cancels, finishes int
	for _, a := range f.conn.actions() {
		switch a.Action {
		case protocol.ActionCancelDigging:
			cancels++
		case protocol.ActionFinishDigging:
			finishes++
		}
	}
	assert.Equal(t, 1, cancels, "cancellation notifies the server exactly once")
	assert.Zero(t, finishes)
}

func TestMineAckTimeout(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.AckTimeout = time.Millisecond * 50
	})

	// The server never acknowledges anything.
	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, out)

	actions := f.conn.actions()
	require.NotEmpty(t, actions)
	assert.Equal(t, protocol.ActionCancelDigging, actions[len(actions)-1].Action)
}

func TestMineOverlapPanics(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Blocks = func(state int32) (block.Block, bool) {
			return block.Block{Name: "obsidian", Hardness: 50}, true
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settled := make(chan struct{})
	go func() {
		defer close(settled)
		f.in.Mine(ctx, cube.Pos{1, 64, 1}, cube.FaceUp)
	}()
	<-f.conn.ch // first interaction is on the wire

	assert.Panics(t, func() {
		f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	})

	cancel()
	<-settled
}

func TestMineSendFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.conn.err = io.ErrClosedPipe

	out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
	require.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, OutcomeFailed, out)
}

func TestSequenceMonotonic(t *testing.T) {
	f := newFixture(t, nil)
	stop := f.acceptAll()
	defer stop()

	for i := 0; i < 3; i++ {
		out, err := f.in.Mine(context.Background(), cube.Pos{1, 64, 1}, cube.FaceUp)
		require.NoError(t, err)
		require.Equal(t, OutcomeFinished, out)
	}

	actions := f.conn.actions()
	require.Len(t, actions, 6)
	for i := 1; i < len(actions); i++ {
		assert.Greater(t, actions[i].Sequence, actions[i-1].Sequence)
	}
}
