package bind_group_provider

import "github.com/Carmen-Shannon/flycam/common"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithGroup sets the bind group index the provider is bound at.
//
// Parameters:
//   - group: the @group index in WGSL
//
// Returns:
//   - BindGroupProviderOption: a function that sets the group index
func WithGroup(group uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.group = group
	}
}

// WithUniform stages a uniform buffer binding of the given size.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - size: the buffer size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that stages the uniform binding
func WithUniform(binding int, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.uniformSizes[binding] = size
	}
}

// WithTexture stages decoded pixels for a texture binding.
//
// Parameters:
//   - binding: the binding index for this texture
//   - data: RGBA pixels and dimensions
//
// Returns:
//   - BindGroupProviderOption: a function that stages the texture binding
func WithTexture(binding int, data common.TextureStagingData) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textures[binding] = data
	}
}

// WithSampler stages a sampler binding. Zero-valued fields use the renderer defaults.
//
// Parameters:
//   - binding: the binding index for this sampler
//   - cfg: the sampler configuration
//
// Returns:
//   - BindGroupProviderOption: a function that stages the sampler binding
func WithSampler(binding int, cfg common.SamplerStagingData) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplerConfigs[binding] = cfg
	}
}
