package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultSpeed         = 0.05
	defaultMouseSlowdown = 100.0
)

// motionOrder fixes the order held commands are applied in so a tick is deterministic.
var motionOrder = [...]CommandKind{
	CommandForward,
	CommandBackward,
	CommandRight,
	CommandLeft,
	CommandUp,
	CommandDown,
	CommandReset,
}

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	speed         float32
	mouseSlowdown float32
	keyMap        KeyMap
	mode          MovementMode

	// Latched mode
	pending    Command
	hasPending bool

	// Held mode
	held map[CommandKind]bool

	lastCursor mgl32.Vec2
	mouseDelta mgl32.Vec2
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller.
// Defaults: speed 0.05, mouse slowdown 100, the WASD key map and latched movement.
// The last known pointer position starts at (0, 0), so the first cursor event produces a
// delta equal to its absolute position.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:            &sync.Mutex{},
		speed:         defaultSpeed,
		mouseSlowdown: defaultMouseSlowdown,
		keyMap:        DefaultKeyMap(),
		mode:          MovementLatched,
		held:          make(map[CommandKind]bool),
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) HandleKey(keyCode uint32, pressed bool) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	kind, ok := cc.keyMap[keyCode]
	if !ok {
		return false
	}

	cc.pending = Command{Kind: kind, Pressed: pressed}
	cc.hasPending = true
	if pressed {
		cc.held[kind] = true
	} else {
		delete(cc.held, kind)
	}
	return true
}

func (cc *cameraControllerImpl) HandleCursor(x, y float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	pos := mgl32.Vec2{float32(x), float32(y)}
	cc.mouseDelta = cc.mouseDelta.Add(pos.Sub(cc.lastCursor))
	cc.lastCursor = pos
}

func (cc *cameraControllerImpl) UpdateCamera(cam Camera) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	switch cc.mode {
	case MovementHeld:
		for _, kind := range motionOrder {
			if cc.held[kind] {
				cc.apply(cam, kind)
			}
		}
	default:
		if cc.hasPending && cc.pending.Pressed {
			cc.apply(cam, cc.pending.Kind)
		}
	}

	target := cam.Target()
	target[0] += cc.mouseDelta.X() / cc.mouseSlowdown
	target[1] -= cc.mouseDelta.Y() / cc.mouseSlowdown
	cam.SetTarget(target)
	cc.mouseDelta = mgl32.Vec2{}
}

// apply performs one discrete motion on cam. The basis is recomputed from the camera's
// current state so held commands applied in sequence compose.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) apply(cam Camera, kind CommandKind) {
	eye, target, up := cam.Eye(), cam.Target(), cam.Up()

	forward := target.Sub(eye)
	forwardMag := forward.Len()
	forwardNorm := forward.Normalize()
	rightNorm := forwardNorm.Cross(up).Normalize()
	upNorm := up.Normalize()

	switch kind {
	case CommandForward:
		// stepping past the target would flip the view direction
		if forwardMag > cc.speed {
			cam.SetEye(eye.Add(forwardNorm.Mul(cc.speed)))
		}
	case CommandBackward:
		cam.SetEye(eye.Sub(forwardNorm.Mul(cc.speed)))
	case CommandRight:
		step := rightNorm.Mul(cc.speed)
		cam.SetEye(eye.Add(step))
		cam.SetTarget(target.Add(step))
	case CommandLeft:
		step := rightNorm.Mul(cc.speed)
		cam.SetEye(eye.Sub(step))
		cam.SetTarget(target.Sub(step))
	case CommandUp:
		step := upNorm.Mul(cc.speed)
		cam.SetEye(eye.Add(step))
		cam.SetTarget(target.Add(step))
	case CommandDown:
		step := upNorm.Mul(cc.speed)
		cam.SetEye(eye.Sub(step))
		cam.SetTarget(target.Sub(step))
	case CommandReset:
		cam.SetTarget(mgl32.Vec3{})
	}
}

func (cc *cameraControllerImpl) PendingCommand() (Command, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pending, cc.hasPending
}

func (cc *cameraControllerImpl) MouseDelta() mgl32.Vec2 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseDelta
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) MouseSlowdown() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSlowdown
}

func (cc *cameraControllerImpl) Mode() MovementMode {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mode
}
