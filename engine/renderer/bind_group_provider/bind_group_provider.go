package bind_group_provider

import (
	"slices"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label used for every GPU object created on behalf of this provider.
	label string
	// group is the bind group index this provider is bound at (@group(n) in WGSL).
	group uint32

	// The following fields stage data on the CPU before the Renderer creates GPU resources from them.

	// uniformSizes holds the byte size of each uniform buffer binding, keyed by binding index.
	uniformSizes map[int]uint64
	// textures holds the decoded pixels for each texture binding, keyed by binding index.
	textures map[int]common.TextureStagingData
	// samplerConfigs holds the sampler configuration for each sampler binding, keyed by binding index.
	samplerConfigs map[int]common.SamplerStagingData

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// gpuTextures holds the GPU textures backing textureViews, keyed by binding index.
	gpuTextures map[int]*wgpu.Texture
	// textureViews holds the GPU texture views created for this provider, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds the GPU samplers created for this provider, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// vertexBuffer is the GPU vertex buffer for mesh providers, or nil.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer for mesh providers, or nil.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices drawn by DrawIndexed for this provider.
	indexCount int
}

// BindGroupProvider defines the interface for components that require GPU bind group resources.
// A provider first stages what a bind group needs (uniform sizes, texture pixels, sampler settings)
// and the Renderer then creates the GPU objects from that staging data and stores the handles back.
//
// Usage pattern:
//  1. The frame loop creates a provider per bind group with a label, group index and staged bindings
//  2. Renderer.InitTextureView / InitSampler create the GPU objects for staged textures and samplers
//  3. Renderer.InitBindGroup creates uniform buffers and the bind group against a pipeline layout
//  4. Renderer.WriteBuffers uploads per-frame data through BufferWrite values
//  5. Renderer.DrawCall binds BindGroup() at Group()
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider. Staged CPU data is kept.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the bind group index this provider is bound at.
	//
	// Returns:
	//   - uint32: the @group index
	Group() uint32

	// Bindings returns every binding index that has staged data, in ascending order.
	//
	// Returns:
	//   - []int: sorted binding indices
	Bindings() []int

	// UniformSize returns the staged size of a uniform buffer binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the size in bytes
	//   - bool: false if the binding has no staged uniform
	UniformSize(binding int) (uint64, bool)

	// StagedTexture returns the pixels staged for a texture binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - common.TextureStagingData: the staged pixels
	//   - bool: false if the binding has no staged texture
	StagedTexture(binding int) (common.TextureStagingData, bool)

	// StagedSampler returns the sampler configuration staged for a sampler binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - common.SamplerStagingData: the staged configuration
	//   - bool: false if the binding has no staged sampler
	StagedSampler(binding int) (common.SamplerStagingData, bool)

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the GPU buffer for a binding, or nil if not created.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the GPU texture view for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the GPU sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	IndexCount() int

	// SetBindGroup stores the bind group created by Renderer.InitBindGroup.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer stores a GPU buffer for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores a GPU texture and its view for a binding. Both are released by Release.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the texture
	//   - tv: the view created from tex
	SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView)

	// SetSampler stores a GPU sampler for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)

	// SetMesh stores the GPU vertex and index buffers and the number of indices to draw.
	//
	// Parameters:
	//   - vb: the vertex buffer
	//   - ib: the index buffer
	//   - indexCount: number of indices in ib
	SetMesh(vb, ib *wgpu.Buffer, indexCount int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: debug label for the provider and its GPU objects
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:          label,
		uniformSizes:   make(map[int]uint64),
		textures:       make(map[int]common.TextureStagingData),
		samplerConfigs: make(map[int]common.SamplerStagingData),
		buffers:        make(map[int]*wgpu.Buffer),
		gpuTextures:    make(map[int]*wgpu.Texture),
		textureViews:   make(map[int]*wgpu.TextureView),
		samplers:       make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() uint32 {
	return p.group
}

func (p *bindGroupProvider) Bindings() []int {
	seen := make(map[int]struct{})
	for b := range p.uniformSizes {
		seen[b] = struct{}{}
	}
	for b := range p.textures {
		seen[b] = struct{}{}
	}
	for b := range p.samplerConfigs {
		seen[b] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

func (p *bindGroupProvider) UniformSize(binding int) (uint64, bool) {
	s, ok := p.uniformSizes[binding]
	return s, ok
}

func (p *bindGroupProvider) StagedTexture(binding int) (common.TextureStagingData, bool) {
	t, ok := p.textures[binding]
	return t, ok
}

func (p *bindGroupProvider) StagedSampler(binding int) (common.SamplerStagingData, bool) {
	s, ok := p.samplerConfigs[binding]
	return s, ok
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, tv *wgpu.TextureView) {
	p.gpuTextures[binding] = tex
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetMesh(vb, ib *wgpu.Buffer, indexCount int) {
	p.vertexBuffer = vb
	p.indexBuffer = ib
	p.indexCount = indexCount
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.gpuTextures {
		if tex != nil {
			tex.Release()
		}
		delete(p.gpuTextures, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
