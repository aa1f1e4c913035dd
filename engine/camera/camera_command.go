package camera

import "github.com/Carmen-Shannon/flycam/common"

// CommandKind enumerates the discrete camera motions a key can trigger.
type CommandKind uint8

const (
	CommandForward CommandKind = iota + 1
	CommandBackward
	CommandLeft
	CommandRight
	CommandUp
	CommandDown
	CommandReset
)

// String returns a lowercase name for the command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandForward:
		return "forward"
	case CommandBackward:
		return "backward"
	case CommandLeft:
		return "left"
	case CommandRight:
		return "right"
	case CommandUp:
		return "up"
	case CommandDown:
		return "down"
	case CommandReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is a directional command tagged with the press state of the key event that produced it.
type Command struct {
	Kind    CommandKind
	Pressed bool
}

// KeyMap maps platform key codes to the command they produce.
type KeyMap map[uint32]CommandKind

// DefaultKeyMap returns the WASD layout: W/S move along the view direction, A/D strafe,
// Space/LeftShift move along up and Enter recentres the target on the origin.
//
// Returns:
//   - KeyMap: a freshly allocated map the caller may modify
func DefaultKeyMap() KeyMap {
	return KeyMap{
		common.KeyW:         CommandForward,
		common.KeyS:         CommandBackward,
		common.KeyA:         CommandLeft,
		common.KeyD:         CommandRight,
		common.KeySpace:     CommandUp,
		common.KeyLeftShift: CommandDown,
		common.KeyEnter:     CommandReset,
	}
}

// MovementMode selects how key events turn into per-tick motion.
type MovementMode uint8

const (
	// MovementLatched keeps exactly one pending command. Each key event replaces it and motion
	// repeats every tick until a release or another key replaces it.
	MovementLatched MovementMode = iota
	// MovementHeld tracks every key currently held and applies each held command once per tick.
	MovementHeld
)

// ParseMovementMode converts a config string to a MovementMode.
//
// Parameters:
//   - s: "latched", "held" or empty (latched)
//
// Returns:
//   - MovementMode: the parsed mode
//   - bool: false if s names no known mode
func ParseMovementMode(s string) (MovementMode, bool) {
	switch s {
	case "", "latched":
		return MovementLatched, true
	case "held":
		return MovementHeld, true
	default:
		return MovementLatched, false
	}
}
