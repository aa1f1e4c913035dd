package engine

import (
	"github.com/Carmen-Shannon/flycam/engine/camera"
	"github.com/Carmen-Shannon/flycam/engine/model"
	"github.com/Carmen-Shannon/flycam/engine/profiler"
	"github.com/Carmen-Shannon/flycam/engine/renderer"
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/window"
)

// FrameLoopBuilderOption is a functional option for configuring a FrameLoop.
type FrameLoopBuilderOption func(*frameLoop)

// WithWindow sets the window providing input and the message loop.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - FrameLoopBuilderOption: option function to apply
func WithWindow(w window.Window) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.window = w
	}
}

// WithRenderer sets the renderer that owns the surface.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - FrameLoopBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.renderer = r
	}
}

// WithCamera sets the camera. Defaults to camera.NewCamera().
func WithCamera(c camera.Camera) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.camera = c
	}
}

// WithController sets the camera controller. Defaults to camera.NewCameraController().
func WithController(c camera.CameraController) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.controller = c
	}
}

// WithModel sets the model whose mesh provider is drawn every frame.
func WithModel(m model.Model) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.model = m
	}
}

// WithPipelineKey sets the registered pipeline used for the draw. Defaults to "main".
func WithPipelineKey(key string) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.pipelineKey = key
	}
}

// WithTextureGroup sets the bind group holding the diffuse texture and sampler.
func WithTextureGroup(p bind_group_provider.BindGroupProvider) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.textureGroup = p
	}
}

// WithCameraGroup sets the bind group holding the camera uniform and the binding it lives at.
//
// Parameters:
//   - p: the camera bind group provider
//   - binding: the uniform's binding index within the group
//
// Returns:
//   - FrameLoopBuilderOption: option function to apply
func WithCameraGroup(p bind_group_provider.BindGroupProvider, binding int) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.cameraGroup = p
		l.cameraBinding = binding
	}
}

// WithClearColorFollowsCursor makes the clear colour track the pointer (r=g=x/width, b=y/height).
func WithClearColorFollowsCursor(enabled bool) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.clearFollowsXY = enabled
	}
}

// WithProfiler ticks the given profiler after every presented frame. Nil disables profiling.
func WithProfiler(p *profiler.Profiler) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.profiler = p
	}
}

// WithMaxAcquireFailures sets how many consecutive failed surface acquisitions Frame tolerates
// before returning an error. Zero retries forever.
//
// Parameters:
//   - n: the failure limit
//
// Returns:
//   - FrameLoopBuilderOption: option function to apply
func WithMaxAcquireFailures(n int) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.maxAcquireFailures = n
	}
}

// WithDebug logs the camera eye and target every frame.
func WithDebug(enabled bool) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.debug = enabled
	}
}

// WithLogger replaces log.Printf. Nil silences the loop.
func WithLogger(logf func(format string, args ...any)) FrameLoopBuilderOption {
	return func(l *frameLoop) {
		l.logf = logf
	}
}
