package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController translates discrete input events into incremental camera motion.
// Input is ingested through HandleKey and HandleCursor as events arrive; UpdateCamera is called
// once per rendered frame and applies the accumulated input to a Camera in place.
// A controller never fails, it only no-ops.
type CameraController interface {
	// HandleKey ingests one keyboard event.
	// A key present in the key map replaces the pending command with that command tagged by
	// pressed. Keys outside the map leave all state untouched.
	//
	// Parameters:
	//   - keyCode: the platform key code (GLFW)
	//   - pressed: true for a press or repeat, false for a release
	//
	// Returns:
	//   - bool: true if the key was recognized
	HandleKey(keyCode uint32, pressed bool) bool

	// HandleCursor ingests one pointer-moved event.
	// The delta from the last known pointer position is summed into the mouse delta
	// and the last known position becomes (x, y).
	//
	// Parameters:
	//   - x, y: pointer position in framebuffer pixels
	HandleCursor(x, y float64)

	// UpdateCamera applies at most one discrete motion from the pending command, then the
	// mouse look, to cam. The mouse delta is zeroed afterwards.
	//
	// Parameters:
	//   - cam: the camera to mutate
	UpdateCamera(cam Camera)

	// PendingCommand returns the latched command.
	//
	// Returns:
	//   - Command: the pending command
	//   - bool: false if no recognized key has been seen yet
	PendingCommand() (Command, bool)

	// MouseDelta returns the pointer motion accumulated since the last UpdateCamera.
	//
	// Returns:
	//   - mgl32.Vec2: accumulated (dx, dy) in pixels
	MouseDelta() mgl32.Vec2

	// Speed returns the distance moved per tick by a discrete command.
	//
	// Returns:
	//   - float32: world units per tick
	Speed() float32

	// MouseSlowdown returns the divisor applied to pointer deltas before they move the target.
	//
	// Returns:
	//   - float32: pixels per world unit
	MouseSlowdown() float32

	// Mode returns the movement mode.
	//
	// Returns:
	//   - MovementMode: latched or held
	Mode() MovementMode
}
