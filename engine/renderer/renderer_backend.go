package renderer

import (
	"strings"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a config name ("vsync", "uncapped") to a PresentMode.
// The empty string selects VSync.
//
// Parameters:
//   - s: the mode name, case-insensitive
//
// Returns:
//   - PresentMode: the parsed mode
//   - bool: false if the name is unknown
func ParsePresentMode(s string) (PresentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vsync":
		return PresentModeVSync, true
	case "uncapped":
		return PresentModeUncapped, true
	default:
		return PresentModeVSync, false
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4
)

// ParseMSAA maps a sample count from config to an MSAASampleCount. Zero selects MSAAOff.
//
// Parameters:
//   - n: the sample count (0, 1 or 4)
//
// Returns:
//   - MSAASampleCount: the parsed count
//   - bool: false if the count is unsupported
func ParseMSAA(n int) (MSAASampleCount, bool) {
	switch n {
	case 0, 1:
		return MSAAOff, true
	case 4:
		return MSAA4x, true
	default:
		return MSAAOff, false
	}
}

// RendererBackend is the GPU-facing half of the Renderer. The facade validates arguments and
// resolves pipelines and bindings; the backend only talks to the device.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and any size-dependent attachments.
	// Non-positive sizes are ignored.
	ConfigureSurface(width, height int)

	// SetPresentMode stores the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the colour the render pass clears to.
	SetClearColor(c wgpu.Color)

	// ClearColor returns the current clear colour.
	ClearColor() wgpu.Color

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout and
	// render pipeline for p, storing the GPU objects on p.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data into new GPU buffers stored on the provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitTextureView uploads RGBA pixels to a new texture and stores the texture and view on the provider.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, cfg common.SamplerStagingData) error

	// InitBindGroup creates uniform buffers for buffer entries and the bind group itself.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues already validated writes.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the render pass.
	BeginFrame() error

	// DrawCall encodes one indexed draw in the current pass.
	DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the acquired surface texture.
	Present()

	// Release frees every device object the backend owns.
	Release()
}
