package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// TextureSamplerLayout describes a group holding a filterable 2D texture at binding 0
// and a filtering sampler at binding 1, both visible to the fragment stage.
//
// Parameters:
//   - label: debug label for the layout
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func TextureSamplerLayout(label string) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// UniformLayout describes a group holding a single uniform buffer at binding 0.
//
// Parameters:
//   - label: debug label for the layout
//   - visibility: the stages that read the uniform
//   - size: the minimum binding size in bytes, 0 to skip validation
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func UniformLayout(label string, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: false,
					MinBindingSize:   size,
				},
			},
		},
	}
}
