package pipeline

import (
	"github.com/Carmen-Shannon/flycam/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the CPU-side description of a render pipeline and, once the renderer has created them,
// the GPU pipeline and bind group layout handles.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// vertexShader and fragmentShader are required before the renderer can create the pipeline.
	vertexShader, fragmentShader shader.Shader

	// bindGroupLayouts describes every bind group in @group order.
	bindGroupLayouts []wgpu.BindGroupLayoutDescriptor
	// vertexLayouts describes the vertex buffer slots in SetVertexBuffer order.
	vertexLayouts []wgpu.VertexBufferLayout

	// The following are GPU handles populated by the renderer.

	renderPipeline *wgpu.RenderPipeline
	layouts        []*wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	// The following properties configure the pipeline during creation and can be set with the builder options.

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline (vertex + fragment shaders) and its explicit
// resource layout: bind group layouts, vertex buffer layouts, blend, cull and topology settings.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified stage if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the stage of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified stage, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayoutDescriptors returns the bind group layouts in @group order.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per group
	BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns the vertex buffer layouts in slot order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// RenderPipeline returns the created GPU pipeline, or nil before RegisterPipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the created GPU layout for a group, or nil if out of range or not created.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout or nil
	BindGroupLayout(group uint32) *wgpu.BindGroupLayout

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline (e.g., wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline (e.g., wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline, or nil if blending is not enabled
	BlendState() *wgpu.BlendState

	// SetGPUObjects stores the GPU objects created by the renderer for this pipeline.
	//
	// Parameters:
	//   - rp: the render pipeline
	//   - pl: the pipeline layout
	//   - layouts: the bind group layouts in @group order
	SetGPUObjects(rp *wgpu.RenderPipeline, pl *wgpu.PipelineLayout, layouts []*wgpu.BindGroupLayout)

	// Release frees the GPU objects. The CPU description is kept so the pipeline can be registered again.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new render Pipeline.
// Defaults: triangle list, counter-clockwise front faces, back-face culling, opaque writes to all channels.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		blendEnabled: false,
		cullMode:     wgpu.CullModeBack,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group uint32) *wgpu.BindGroupLayout {
	if int(group) >= len(p.layouts) {
		return nil
	}
	return p.layouts[group]
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) SetGPUObjects(rp *wgpu.RenderPipeline, pl *wgpu.PipelineLayout, layouts []*wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.pipelineLayout = pl
	p.layouts = layouts
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	for _, l := range p.layouts {
		if l != nil {
			l.Release()
		}
	}
	p.layouts = nil
}
