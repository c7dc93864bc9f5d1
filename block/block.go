package block

// Material is a coarse tag describing what a block is made of. A block may
// carry several tags; tools are matched against each of them.
type Material string

const (
	MaterialRock  Material = "rock"
	MaterialWood  Material = "wood"
	MaterialDirt  Material = "dirt"
	MaterialSand  Material = "sand"
	MaterialPlant Material = "plant"
	MaterialWeb   Material = "web"
	MaterialWool  Material = "wool"
	MaterialMetal Material = "metal"
)

// ToolType is the class of a digging tool.
type ToolType uint8

const (
	ToolNone ToolType = iota
	ToolPickaxe
	ToolShovel
	ToolAxe
	ToolSword
	ToolShears
	ToolHoe
)

// ToolTier is the quality tier of a tool, which scales its digging speed.
type ToolTier uint8

const (
	TierWood ToolTier = iota
	TierStone
	TierIron
	TierDiamond
	TierGold
	TierNetherite
)

// tierSpeed is the base digging speed multiplier of each tool tier.
var tierSpeed = map[ToolTier]float32{
	TierWood:      2,
	TierStone:     4,
	TierIron:      6,
	TierDiamond:   8,
	TierGold:      12,
	TierNetherite: 9,
}

// materialTool maps each material to the tool class that digs it quickly.
var materialTool = map[Material]ToolType{
	MaterialRock:  ToolPickaxe,
	MaterialMetal: ToolPickaxe,
	MaterialWood:  ToolAxe,
	MaterialDirt:  ToolShovel,
	MaterialSand:  ToolShovel,
	MaterialPlant: ToolSword,
	MaterialWeb:   ToolSword,
	MaterialWool:  ToolShears,
}

// Tool is the digging tool held by an actor. The zero value is an empty
// hand.
type Tool struct {
	Type ToolType
	Tier ToolTier
	// Efficiency is the level of the tool's efficiency enchantment, zero
	// when unenchanted.
	Efficiency int
}

// SpeedAgainst returns the digging speed multiplier of the tool against a
// single material, 1.0 when the tool class does not match.
func (t Tool) SpeedAgainst(m Material) float32 {
	if t.Type == ToolNone || materialTool[m] != t.Type {
		return 1
	}
	return tierSpeed[t.Tier]
}

// Block holds the static, version-dependent metadata of a block state.
type Block struct {
	Name     string
	Hardness float32
	// Unbreakable marks blocks that survival digging can never remove.
	Unbreakable bool
	Materials   []Material
	// HarvestTools lists the tool classes that harvest the block. An empty
	// list means any tool, including an empty hand, is effective.
	HarvestTools []ToolType
}

// HarvestableBy reports whether the tool passed counts as an effective
// harvest tool for the block.
func (b Block) HarvestableBy(t Tool) bool {
	if len(b.HarvestTools) == 0 {
		return true
	}
	for _, h := range b.HarvestTools {
		if h == t.Type {
			return true
		}
	}
	return false
}
