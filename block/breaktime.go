package block

import (
	"time"

	"github.com/chewxy/math32"
)

// BreakDuration returns how long digging the block with the tool passed
// takes in survival mode. haste and miningFatigue are the active status
// effect levels of the digging actor, zero when absent.
func BreakDuration(b Block, t Tool, haste, miningFatigue int) time.Duration {
	if b.Unbreakable {
		return 0
	}

	// The tool multiplier is the best speed the tool reaches against any of
	// the block's materials.
	mult := float32(1)
	for _, m := range b.Materials {
		mult = math32.Max(mult, t.SpeedAgainst(m))
	}

	mult /= math32.Pow(1.3, float32(t.Efficiency))
	mult /= math32.Pow(1.2, float32(haste))
	mult *= math32.Pow(0.3, float32(miningFatigue))

	damage := mult / b.Hardness
	if b.HarvestableBy(t) {
		damage /= 30
	} else {
		damage /= 100
	}

	if damage > 1 || math32.IsNaN(damage) || math32.IsInf(damage, 1) || damage < 0 {
		return 0
	}
	// One tick is 1000/20 ms.
	ticks := int(math32.Ceil(1 / damage))
	return time.Duration(ticks) * 1000 * time.Millisecond / 20
}
