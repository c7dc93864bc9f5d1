package entity

import (
	"context"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hargrave81/minesharp-go/block"
	"github.com/hargrave81/minesharp-go/game"
)

// Actor tracks the live state of the controlled player: position, held
// tool, active status effects and game mode. It is written by inbound packet
// handling and read by interaction code, so every accessor locks.
type Actor struct {
	mu      sync.RWMutex
	pos     mgl32.Vec3
	tool    block.Tool
	effects map[int]int
	mode    game.Mode

	readyOnce sync.Once
	ready     chan struct{}
}

// NewActor returns an actor in survival mode with no effects, not yet
// marked ready.
func NewActor() *Actor {
	return &Actor{
		effects: make(map[int]int),
		ready:   make(chan struct{}),
	}
}

// MarkReady marks the actor as initialized: spawned, with its first
// position received. Safe to call more than once.
func (a *Actor) MarkReady() {
	a.readyOnce.Do(func() {
		close(a.ready)
	})
}

// WaitReady blocks until the actor is initialized or the context ends.
func (a *Actor) WaitReady(ctx context.Context) error {
	select {
	case <-a.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Position returns the actor's eye position.
func (a *Actor) Position() mgl32.Vec3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}

// SetPosition updates the actor's eye position.
func (a *Actor) SetPosition(pos mgl32.Vec3) {
	a.mu.Lock()
	a.pos = pos
	a.mu.Unlock()
}

// HeldTool returns the tool currently held.
func (a *Actor) HeldTool() block.Tool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tool
}

// SetHeldTool updates the tool currently held.
func (a *Actor) SetHeldTool(t block.Tool) {
	a.mu.Lock()
	a.tool = t
	a.mu.Unlock()
}

// EffectLevel returns the level of an active status effect, zero when it is
// absent.
func (a *Actor) EffectLevel(id int) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.effects[id]
}

// SetEffect records an active status effect level. A level of zero removes
// the effect.
func (a *Actor) SetEffect(id, level int) {
	a.mu.Lock()
	if level == 0 {
		delete(a.effects, id)
	} else {
		a.effects[id] = level
	}
	a.mu.Unlock()
}

// GameMode returns the game mode the actor plays in.
func (a *Actor) GameMode() game.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// SetGameMode updates the game mode the actor plays in.
func (a *Actor) SetGameMode(m game.Mode) {
	a.mu.Lock()
	a.mode = m
	a.mu.Unlock()
}
