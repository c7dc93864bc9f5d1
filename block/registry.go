package block

import "github.com/hargrave81/minesharp-go/assert"

// registry maps wire block state ids to their static metadata. State ids are
// dense per protocol version; the full table is registered by generated data
// at startup, the entries below are the seed set.
var registry = map[int32]Block{}

// Register adds the metadata of a block state id to the registry. It panics
// on a duplicate id, which would mean two data sources disagree.
func Register(state int32, b Block) {
	_, dup := registry[state]
	assert.IsTrue(!dup, "block state %d registered twice", state)
	registry[state] = b
}

// ByState looks up the metadata of a block state id.
func ByState(state int32) (Block, bool) {
	b, ok := registry[state]
	return b, ok
}

// StateAir is the block state id of air.
const StateAir int32 = 0

func init() {
	Register(StateAir, Block{Name: "air"})
	Register(1, Block{Name: "stone", Hardness: 1.5, Materials: []Material{MaterialRock}, HarvestTools: []ToolType{ToolPickaxe}})
	Register(9, Block{Name: "grass_block", Hardness: 0.6, Materials: []Material{MaterialDirt}})
	Register(10, Block{Name: "dirt", Hardness: 0.5, Materials: []Material{MaterialDirt}})
	Register(25, Block{Name: "bedrock", Hardness: -1, Unbreakable: true, Materials: []Material{MaterialRock}})
	Register(80, Block{Name: "oak_log", Hardness: 2, Materials: []Material{MaterialWood}})
	Register(116, Block{Name: "iron_ore", Hardness: 3, Materials: []Material{MaterialRock, MaterialMetal}, HarvestTools: []ToolType{ToolPickaxe}})
	Register(1688, Block{Name: "cobweb", Hardness: 4, Materials: []Material{MaterialWeb}})
	Register(2092, Block{Name: "obsidian", Hardness: 50, Materials: []Material{MaterialRock}, HarvestTools: []ToolType{ToolPickaxe}})
}
