package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/Carmen-Shannon/flycam/engine/camera"
	"github.com/Carmen-Shannon/flycam/engine/model"
	"github.com/Carmen-Shannon/flycam/engine/profiler"
	"github.com/Carmen-Shannon/flycam/engine/renderer"
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// frameLoop implements the FrameLoop interface.
// Everything runs on the window's thread: input callbacks and frames are interleaved by ProcessMessages.
type frameLoop struct {
	window   window.Window
	renderer renderer.Renderer

	camera     camera.Camera
	controller camera.CameraController
	uniform    *camera.GPUCameraUniform

	model          model.Model
	pipelineKey    string
	textureGroup   bind_group_provider.BindGroupProvider
	cameraGroup    bind_group_provider.BindGroupProvider
	cameraBinding  int
	clearFollowsXY bool

	profiler *profiler.Profiler
	debug    bool
	logf     func(format string, args ...any)

	maxAcquireFailures int
	acquireFailures    int

	frames uint64
	err    error
}

// DefaultMaxAcquireFailures is how many frames in a row may fail to acquire a surface
// texture before Frame gives up.
const DefaultMaxAcquireFailures = 10

// FrameLoop owns the application state of the demo and drives one frame per window update.
type FrameLoop interface {
	// Run registers the frame callback, blocks in the window message loop until the window
	// closes, then releases every GPU resource and the window.
	//
	// Returns:
	//   - error: the error that stopped the loop, nil on a normal close
	Run() error

	// Frame performs one update and render: controller update, uniform upload, one draw, present.
	// A failed frame acquisition reconfigures the surface and is not an error.
	//
	// Returns:
	//   - error: an error if the draw could not be encoded
	Frame() error

	// Camera returns the camera the loop updates.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Controller returns the controller fed by window input.
	//
	// Returns:
	//   - camera.CameraController: the controller
	Controller() camera.CameraController

	// Frames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: presented frame count
	Frames() uint64

	// Quit asks the window to close; Run returns after the current frame.
	Quit()
}

var _ FrameLoop = &frameLoop{}

// NewFrameLoop wires input callbacks and validates that every collaborator is present.
// The renderer resources (pipeline, mesh buffers, bind groups) must already be initialized.
//
// Parameters:
//   - options: functional options supplying the collaborators
//
// Returns:
//   - FrameLoop: the configured loop
//   - error: an error naming the first missing collaborator
func NewFrameLoop(options ...FrameLoopBuilderOption) (FrameLoop, error) {
	l := &frameLoop{
		uniform:     camera.NewGPUCameraUniform(),
		pipelineKey:        "main",
		logf:               log.Printf,
		maxAcquireFailures: DefaultMaxAcquireFailures,
	}
	for _, opt := range options {
		opt(l)
	}

	switch {
	case l.window == nil:
		return nil, errors.New("frame loop needs a window")
	case l.renderer == nil:
		return nil, errors.New("frame loop needs a renderer")
	case l.model == nil:
		return nil, errors.New("frame loop needs a model")
	case l.cameraGroup == nil:
		return nil, errors.New("frame loop needs a camera bind group")
	}
	if l.camera == nil {
		l.camera = camera.NewCamera()
	}
	if l.controller == nil {
		l.controller = camera.NewCameraController()
	}
	if l.logf == nil {
		l.logf = func(string, ...any) {}
	}

	if l.window.Width() > 0 && l.window.Height() > 0 {
		l.camera.Resize(uint32(l.window.Width()), uint32(l.window.Height()))
	}

	l.window.SetKeyCallback(l.handleKey)
	l.window.SetCursorCallback(l.handleCursor)
	l.window.SetResizeCallback(l.handleResize)

	return l, nil
}

func (l *frameLoop) Camera() camera.Camera {
	return l.camera
}

func (l *frameLoop) Controller() camera.CameraController {
	return l.controller
}

func (l *frameLoop) Frames() uint64 {
	return l.frames
}

func (l *frameLoop) Quit() {
	l.window.RequestClose()
}

func (l *frameLoop) Run() error {
	l.logf("[FrameLoop] starting with pipeline %q", l.pipelineKey)
	l.window.SetUpdateCallback(func() {
		if err := l.Frame(); err != nil {
			l.err = err
			l.window.RequestClose()
		}
	})
	l.window.ProcessMessages()
	l.logf("[FrameLoop] stopped after %d frames", l.frames)

	l.release()
	if err := l.window.Close(); err != nil {
		return errors.Join(l.err, fmt.Errorf("failed to close window: %w", err))
	}
	return l.err
}

func (l *frameLoop) Frame() error {
	l.controller.UpdateCamera(l.camera)
	if l.debug {
		eye, target := l.camera.Eye(), l.camera.Target()
		l.logf("[FrameLoop] eye=(%.3f, %.3f, %.3f) target=(%.3f, %.3f, %.3f)",
			eye.X(), eye.Y(), eye.Z(), target.X(), target.Y(), target.Z())
	}

	l.uniform.Update(l.camera)
	if err := l.renderer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: l.cameraGroup,
		Binding:  l.cameraBinding,
		Offset:   0,
		Data:     l.uniform.Marshal(),
	}}); err != nil {
		l.logf("[FrameLoop] camera upload skipped: %v", err)
	}

	if err := l.renderer.BeginFrame(); err != nil {
		l.acquireFailures++
		if l.maxAcquireFailures > 0 && l.acquireFailures >= l.maxAcquireFailures {
			return fmt.Errorf("surface lost for %d frames: %w", l.acquireFailures, err)
		}
		// Lost or outdated swapchain: reconfigure at the current size and try again next frame.
		l.logf("[FrameLoop] %v, reconfiguring surface", err)
		l.renderer.Resize(l.window.Width(), l.window.Height())
		return nil
	}
	l.acquireFailures = 0

	groups := make([]bind_group_provider.BindGroupProvider, 0, 2)
	if l.textureGroup != nil {
		groups = append(groups, l.textureGroup)
	}
	groups = append(groups, l.cameraGroup)
	drawErr := l.renderer.DrawCall(l.pipelineKey, l.model.MeshProvider(), groups...)

	// The pass is always ended and presented so the surface texture is released.
	l.renderer.EndFrame()
	l.renderer.Present()
	if drawErr != nil {
		return fmt.Errorf("frame %d: %w", l.frames, drawErr)
	}
	l.frames++

	if l.profiler != nil {
		l.profiler.Tick()
	}
	return nil
}

func (l *frameLoop) handleKey(keyCode uint32, pressed bool) {
	l.controller.HandleKey(keyCode, pressed)
}

func (l *frameLoop) handleCursor(x, y float64) {
	l.controller.HandleCursor(x, y)
	if !l.clearFollowsXY {
		return
	}
	r := common.Ratio(x, l.window.Width())
	l.renderer.SetClearColor(wgpu.Color{R: r, G: r, B: common.Ratio(y, l.window.Height()), A: 1.0})
}

func (l *frameLoop) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.renderer.Resize(width, height)
	l.camera.Resize(uint32(width), uint32(height))
}

func (l *frameLoop) release() {
	l.model.MeshProvider().Release()
	if l.textureGroup != nil {
		l.textureGroup.Release()
	}
	l.cameraGroup.Release()
	l.renderer.Release()
}
