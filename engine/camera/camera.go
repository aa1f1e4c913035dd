package camera

import (
	"sync"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32
}

// Camera defines the interface for the viewer frame.
// The camera is plain simulation state: it owns no GPU resources. The CameraController mutates
// eye and target once per tick and the frame loop reads the view-projection matrix back out.
type Camera interface {
	// Eye returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye point
	Eye() mgl32.Vec3

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the target point
	Target() mgl32.Vec3

	// Up returns the camera's up direction.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector, not necessarily normalized
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetEye moves the camera to a new world-space position.
	//
	// Parameters:
	//   - eye: the new eye point
	SetEye(eye mgl32.Vec3)

	// SetTarget changes the point the camera looks at.
	//
	// Parameters:
	//   - target: the new target point
	SetTarget(target mgl32.Vec3)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Resize derives the aspect ratio from a framebuffer size.
	// A zero width or height is ignored so a minimized window never produces a degenerate projection.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height uint32)

	// BuildViewProjectionMatrix combines a right-handed look-at view with a perspective projection
	// and remaps depth into the WebGPU clip range.
	//
	// Returns:
	//   - mgl32.Mat4: OpenGLToWGPU * Perspective(fov, aspect, near, far) * LookAt(eye, target, up)
	BuildViewProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera.
// Defaults place the eye at (0, 1, 2) looking at the origin with +Y up, a 45 degree vertical
// field of view, an aspect of 1 and clip planes at 0.1 and 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		eye:    mgl32.Vec3{0, 1, 2},
		target: mgl32.Vec3{0, 0, 0},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    mgl32.DegToRad(45),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetEye(eye mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = eye
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) BuildViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := mgl32.LookAtV(c.eye, c.target, c.up)
	proj := mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	return common.OpenGLToWGPU.Mul4(proj).Mul4(view)
}
