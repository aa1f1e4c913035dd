package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/flycam/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultClearColor is the colour the render pass clears to until SetClearColor is called.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backend RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// It drives a single render pass per frame: BeginFrame, any number of DrawCall, EndFrame, Present.
// Pipelines are created once through RegisterPipeline and looked up by key on every draw.
// GPU resources for a component live on its BindGroupProvider and are created through the Init* calls.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipeline creates the GPU objects for a pipeline and caches it by PipelineKey.
	// A pipeline whose key is already registered is skipped.
	//
	// Parameters:
	//   - p: the Pipeline to register
	//
	// Returns:
	//   - error: an error if a shader stage is missing or pipeline creation fails
	RegisterPipeline(p pipeline.Pipeline) error

	// Resize reconfigures the surface for a new framebuffer size. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw uint32 index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if either slice is empty or buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitTextureView uploads every texture staged on the provider and stores the resulting views.
	// Must be called before InitBindGroup for any texture bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding staged textures
	//
	// Returns:
	//   - error: an error if a staged texture is empty or texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider) error

	// InitSampler creates every sampler staged on the provider.
	// Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding staged sampler configs
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider) error

	// InitBindGroup creates the provider's uniform buffers and bind group against the
	// layout the pipeline declares for the provider's group.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - p: a registered Pipeline whose layout covers provider.Group()
	//
	// Returns:
	//   - error: an error if the pipeline is not registered, the group is not declared,
	//     or a texture or sampler binding has not been initialized
	InitBindGroup(provider bind_group_provider.BindGroupProvider, p pipeline.Pipeline) error

	// WriteBuffers validates and queues buffer writes. Invalid writes are skipped and reported.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	//
	// Returns:
	//   - error: the joined validation errors of the skipped writes, nil if all were queued
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// SetClearColor sets the colour the next render pass clears to.
	//
	// Parameters:
	//   - c: the clear colour
	SetClearColor(c wgpu.Color)

	// ClearColor returns the current clear colour.
	//
	// Returns:
	//   - wgpu.Color: the clear colour
	ClearColor() wgpu.Color

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame after all DrawCall invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a single indexed draw command within the current render pass.
	// Each bind group provider is set at its own group index.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the registered Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - bindGroups: the BindGroupProviders whose BindGroups will be set on the render pass
	//
	// Returns:
	//   - error: an error if the pipeline is not found or a resource has not been initialized
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release frees the registered pipelines and every device object.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing into the given window's surface.
// Panics if no adapter or device can be obtained.
//
// Parameters:
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified options
func NewRenderer(win window.Window, options ...RendererBuilderOption) Renderer {
	r := newRenderer(options...)
	r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

// newRenderer applies options without creating a backend.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		presentMode:   PresentModeVSync,
		msaa:          MSAAOff,
		clearColor:    DefaultClearColor,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c wgpu.Color) {
	r.backend.SetClearColor(c)
}

func (r *renderer) ClearColor() wgpu.Color {
	return r.backend.ClearColor()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.PipelineKey()
	if _, exists := r.pipelineCache[key]; exists {
		return nil
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return fmt.Errorf("failed to register pipeline %q: %w", key, err)
	}
	r.pipelineCache[key] = p
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("mesh %s needs vertex and index data", provider.Label())
	}
	if indexCount <= 0 || indexCount*4 > len(indexData) {
		return fmt.Errorf("mesh %s: index count %d does not fit %d bytes of uint32 indices", provider.Label(), indexCount, len(indexData))
	}
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider) error {
	for _, binding := range provider.Bindings() {
		data, ok := provider.StagedTexture(binding)
		if !ok {
			continue
		}
		if data.Width == 0 || data.Height == 0 || len(data.Pixels) < int(data.Width*data.Height*4) {
			return fmt.Errorf("texture %s/%d: %dx%d needs %d bytes, have %d",
				provider.Label(), binding, data.Width, data.Height, data.Width*data.Height*4, len(data.Pixels))
		}
		if err := r.backend.InitTextureView(provider, binding, data); err != nil {
			return fmt.Errorf("failed to create texture %s/%d: %w", provider.Label(), binding, err)
		}
	}
	return nil
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider) error {
	for _, binding := range provider.Bindings() {
		cfg, ok := provider.StagedSampler(binding)
		if !ok {
			continue
		}
		if err := r.backend.InitSampler(provider, binding, cfg); err != nil {
			return fmt.Errorf("failed to create sampler %s/%d: %w", provider.Label(), binding, err)
		}
	}
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, p pipeline.Pipeline) error {
	group := provider.Group()
	descriptors := p.BindGroupLayoutDescriptors()
	if int(group) >= len(descriptors) {
		return fmt.Errorf("pipeline %q declares no bind group %d for %s", p.PipelineKey(), group, provider.Label())
	}
	layout := p.BindGroupLayout(group)
	if layout == nil {
		return fmt.Errorf("pipeline %q is not registered", p.PipelineKey())
	}

	descriptor := descriptors[group]
	for _, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			if provider.TextureView(binding) == nil {
				return fmt.Errorf("texture binding %s/%d has no texture view, call InitTextureView first", provider.Label(), binding)
			}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			if provider.Sampler(binding) == nil {
				return fmt.Errorf("sampler binding %s/%d has no sampler, call InitSampler first", provider.Label(), binding)
			}
		default:
			if _, ok := provider.UniformSize(binding); !ok && provider.Buffer(binding) == nil {
				return fmt.Errorf("buffer binding %s/%d has no staged uniform size", provider.Label(), binding)
			}
		}
	}
	return r.backend.InitBindGroup(provider, layout, descriptor)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	valid := make([]bind_group_provider.BufferWrite, 0, len(writes))
	var errs []error
	for _, w := range writes {
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if w.Provider.Buffer(w.Binding) == nil {
			errs = append(errs, fmt.Errorf("provider %s has no GPU buffer at binding %d, call InitBindGroup first", w.Provider.Label(), w.Binding))
			continue
		}
		valid = append(valid, w)
	}

	r.mu.Lock()
	r.backend.WriteBuffers(valid)
	r.mu.Unlock()
	return errors.Join(errs...)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups ...bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	if meshProvider.VertexBuffer() == nil || meshProvider.IndexBuffer() == nil {
		return fmt.Errorf("mesh %s has no GPU buffers, call InitMeshBuffers first", meshProvider.Label())
	}
	for _, bg := range bindGroups {
		if bg.BindGroup() == nil {
			return fmt.Errorf("bind group %s has not been created, call InitBindGroup first", bg.Label())
		}
	}

	r.backend.DrawCall(p, meshProvider, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
