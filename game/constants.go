package game

import "time"

const (
	// BreakReach is the maximum distance at which an actor may dig a block.
	BreakReach = float32(6.0)
	// SwingCadence is the interval at which the arm swing animation repeats
	// while a block is being broken.
	SwingCadence = 350 * time.Millisecond
)

// Effect ids of the status effects that alter digging speed.
const (
	EffectHaste         = 2
	EffectMiningFatigue = 4
)
