package bind_group_provider

import (
	"slices"
	"testing"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewBindGroupProvider(t *testing.T) {
	tex := common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}
	p := NewBindGroupProvider("diffuse",
		WithGroup(1),
		WithTexture(0, tex),
		WithSampler(1, common.SamplerStagingData{MagFilter: wgpu.FilterModeNearest}),
	)

	if p.Label() != "diffuse" {
		t.Fatalf("Label\nhave %q\nwant %q", p.Label(), "diffuse")
	}
	if p.Group() != 1 {
		t.Fatalf("Group\nhave %d\nwant 1", p.Group())
	}
	if b := p.Bindings(); !slices.Equal(b, []int{0, 1}) {
		t.Fatalf("Bindings\nhave %v\nwant [0 1]", b)
	}
	if got, ok := p.StagedTexture(0); !ok || got.Width != 2 || got.Height != 2 {
		t.Fatalf("StagedTexture(0)\nhave %v %v\nwant 2x2 true", got, ok)
	}
	if _, ok := p.StagedTexture(1); ok {
		t.Fatal("StagedTexture(1)\nhave true\nwant false")
	}
	if s, ok := p.StagedSampler(1); !ok || s.MagFilter != wgpu.FilterModeNearest {
		t.Fatalf("StagedSampler(1)\nhave %v %v\nwant nearest true", s, ok)
	}
	if p.BindGroup() != nil || p.TextureView(0) != nil || p.Sampler(1) != nil {
		t.Fatal("GPU handles set before initialization")
	}
}

func TestBindingsSortedAndDeduplicated(t *testing.T) {
	p := NewBindGroupProvider("mixed",
		WithUniform(3, 64),
		WithTexture(0, common.TextureStagingData{}),
		WithSampler(3, common.SamplerStagingData{}),
		WithUniform(1, 16),
	)
	if b := p.Bindings(); !slices.Equal(b, []int{0, 1, 3}) {
		t.Fatalf("Bindings\nhave %v\nwant [0 1 3]", b)
	}
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("mesh", WithUniform(0, 64))
	p.SetMesh(nil, nil, 9)
	if p.IndexCount() != 9 {
		t.Fatalf("IndexCount\nhave %d\nwant 9", p.IndexCount())
	}
	p.Release()
	if p.IndexCount() != 0 {
		t.Fatalf("IndexCount after Release\nhave %d\nwant 0", p.IndexCount())
	}
	if size, ok := p.UniformSize(0); !ok || size != 64 {
		t.Fatalf("UniformSize after Release\nhave %d %v\nwant 64 true", size, ok)
	}
}

func TestBufferWriteValidate(t *testing.T) {
	p := NewBindGroupProvider("camera", WithUniform(0, 64))

	testCases := []struct {
		name    string
		write   BufferWrite
		wantErr bool
	}{
		{"full", BufferWrite{Provider: p, Binding: 0, Data: make([]byte, 64)}, false},
		{"tail", BufferWrite{Provider: p, Binding: 0, Offset: 48, Data: make([]byte, 16)}, false},
		{"overflow", BufferWrite{Provider: p, Binding: 0, Offset: 8, Data: make([]byte, 64)}, true},
		{"unknown binding", BufferWrite{Provider: p, Binding: 2, Data: make([]byte, 4)}, true},
		{"no provider", BufferWrite{Binding: 0, Data: make([]byte, 4)}, true},
	}
	for _, tt := range testCases {
		err := tt.write.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate\nhave %v\nwant error=%v", tt.name, err, tt.wantErr)
		}
	}
}
