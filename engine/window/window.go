package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	// Minimizing a window reports a zero size; the callback still receives it.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the callback for key events.
	// Press and repeat are delivered as pressed=true, release as pressed=false.
	// The close key never reaches the callback.
	//
	// Parameters:
	//   - callback: function receiving the key code and press state
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// SetCursorCallback sets the callback for pointer movement.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in framebuffer pixels
	SetCursorCallback(callback func(x, y float64))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth, minHeight, maxWidth, maxHeight bound interactive resizing. Zero leaves a bound open.
	minWidth, minHeight, maxWidth, maxHeight int

	// resizable controls whether the user can resize the window.
	resizable bool

	// closeKey is the key that requests the window to close.
	closeKey uint32

	// width and height are the current framebuffer size in pixels.
	width, height int

	// cursorScaleX and cursorScaleY convert GLFW screen coordinates to framebuffer pixels.
	cursorScaleX, cursorScaleY float64

	// closeRequested is set by the close key or RequestClose.
	closeRequested bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	// onKey is called for every key event except the close key.
	onKey func(keyCode uint32, pressed bool)

	// onCursor is called when the pointer moves within the window.
	onCursor func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order, then spawns the platform window.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured and spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

// newEngineWindow applies defaults and options without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:        "flycam",
		width:        800,
		height:       600,
		resizable:    true,
		closeKey:     common.KeyEsc,
		cursorScaleX: 1,
		cursorScaleY: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetCursorCallback(callback func(x, y float64)) {
	w.onCursor = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return !w.closeRequested && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.closeRequested = true
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleKey routes one key event. The close key stops the loop on press and is swallowed.
func (w *engineWindow) handleKey(keyCode uint32, pressed bool) {
	if keyCode == w.closeKey {
		if pressed {
			w.closeRequested = true
		}
		return
	}
	if w.onKey != nil {
		w.onKey(keyCode, pressed)
	}
}

// handleCursor converts a pointer position from screen coordinates to framebuffer pixels.
func (w *engineWindow) handleCursor(x, y float64) {
	if w.onCursor != nil {
		w.onCursor(x*w.cursorScaleX, y*w.cursorScaleY)
	}
}

// handleResize records the new framebuffer size and forwards it.
func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// updateCursorScale derives the screen to framebuffer ratio. Zero sizes keep the previous ratio.
func (w *engineWindow) updateCursorScale(winWidth, winHeight, fbWidth, fbHeight int) {
	if winWidth <= 0 || winHeight <= 0 || fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	w.cursorScaleX = float64(fbWidth) / float64(winWidth)
	w.cursorScaleY = float64(fbHeight) / float64(winHeight)
}
