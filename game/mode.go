package game

// Mode is the game mode an actor plays in.
type Mode uint8

const (
	ModeSurvival Mode = iota
	ModeCreative
	ModeAdventure
	ModeSpectator
)

// String ...
func (m Mode) String() string {
	switch m {
	case ModeSurvival:
		return "survival"
	case ModeCreative:
		return "creative"
	case ModeAdventure:
		return "adventure"
	case ModeSpectator:
		return "spectator"
	}
	return "unknown"
}
