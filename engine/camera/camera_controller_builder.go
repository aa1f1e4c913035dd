package camera

import "maps"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the distance a discrete command moves the camera each tick.
//
// Parameters:
//   - speed: world units per tick
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithMouseSlowdown sets the divisor applied to pointer deltas.
// Non-positive values are ignored.
//
// Parameters:
//   - slowdown: pixels of pointer motion per world unit of target motion
//
// Returns:
//   - CameraControllerOption: functional option to set the mouse slowdown
func WithMouseSlowdown(slowdown float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if slowdown > 0 {
			cc.mouseSlowdown = slowdown
		}
	}
}

// WithKeyMap replaces the default key bindings. The map is copied.
//
// Parameters:
//   - keyMap: key code to command bindings
//
// Returns:
//   - CameraControllerOption: functional option to set the key map
func WithKeyMap(keyMap KeyMap) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keyMap = maps.Clone(keyMap)
	}
}

// WithMovementMode selects latched or held movement.
func WithMovementMode(mode MovementMode) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mode = mode
	}
}
