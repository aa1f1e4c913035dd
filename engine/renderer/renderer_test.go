package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend records calls without touching a device.
type fakeBackend struct {
	configured [][2]int
	pipelines  []string
	registerFn func(p pipeline.Pipeline) error
	textures   []int
	samplers   []int
	bindGroups []string
	writes     []bind_group_provider.BufferWrite
	draws      int
	clear      wgpu.Color
	mode       PresentMode
	released   bool
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.mode = mode }
func (f *fakeBackend) SetClearColor(c wgpu.Color) { f.clear = c }
func (f *fakeBackend) ClearColor() wgpu.Color { return f.clear }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p.PipelineKey())
	if f.registerFn != nil {
		return f.registerFn(p)
	}
	return nil
}
func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (f *fakeBackend) InitTextureView(_ bind_group_provider.BindGroupProvider, binding int, _ common.TextureStagingData) error {
	f.textures = append(f.textures, binding)
	return nil
}
func (f *fakeBackend) InitSampler(_ bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	f.samplers = append(f.samplers, binding)
	return nil
}
func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, _ *wgpu.BindGroupLayout, _ wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroups = append(f.bindGroups, provider.Label())
	return nil
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}
func (f *fakeBackend) BeginFrame() error { return nil }
func (f *fakeBackend) DrawCall(pipeline.Pipeline, bind_group_provider.BindGroupProvider, []bind_group_provider.BindGroupProvider) {
	f.draws++
}
func (f *fakeBackend) EndFrame() {}
func (f *fakeBackend) Present() {}
func (f *fakeBackend) Release() { f.released = true }

func newTestRenderer(opts ...RendererBuilderOption) (*renderer, *fakeBackend) {
	r := newRenderer(opts...)
	fb := &fakeBackend{clear: r.clearColor, mode: r.presentMode}
	r.backend = fb
	return r, fb
}

func TestParsePresentMode(t *testing.T) {
	testCases := []struct {
		in   string
		want PresentMode
		ok   bool
	}{
		{"", PresentModeVSync, true},
		{"vsync", PresentModeVSync, true},
		{"Uncapped", PresentModeUncapped, true},
		{"mailbox", PresentModeVSync, false},
	}
	for _, tc := range testCases {
		have, ok := ParsePresentMode(tc.in)
		if have != tc.want || ok != tc.ok {
			t.Fatalf("ParsePresentMode(%q)\nhave %v, %t\nwant %v, %t", tc.in, have, ok, tc.want, tc.ok)
		}
	}
}

func TestParseMSAA(t *testing.T) {
	testCases := []struct {
		in   int
		want MSAASampleCount
		ok   bool
	}{
		{0, MSAAOff, true},
		{1, MSAAOff, true},
		{4, MSAA4x, true},
		{8, MSAAOff, false},
	}
	for _, tc := range testCases {
		have, ok := ParseMSAA(tc.in)
		if have != tc.want || ok != tc.ok {
			t.Fatalf("ParseMSAA(%d)\nhave %v, %t\nwant %v, %t", tc.in, have, ok, tc.want, tc.ok)
		}
	}
}

func TestRendererOptions(t *testing.T) {
	c := wgpu.Color{R: 1, A: 1}
	r := newRenderer(WithPresentMode(PresentModeUncapped), WithMSAA(MSAA4x), WithClearColor(c), WithForceSoftwareRenderer(true))
	if r.presentMode != PresentModeUncapped || r.msaa != MSAA4x || r.clearColor != c || !r.forceFallbackAdapter {
		t.Fatalf("options not applied: %+v", r)
	}

	d := newRenderer()
	if d.presentMode != PresentModeVSync || d.msaa != MSAAOff || d.clearColor != DefaultClearColor {
		t.Fatalf("defaults\nhave %v %v %v\nwant vsync, off, %v", d.presentMode, d.msaa, d.clearColor, DefaultClearColor)
	}
}

func TestRegisterPipelineSkipsDuplicates(t *testing.T) {
	r, fb := newTestRenderer()
	p := pipeline.NewPipeline("main")
	if err := r.RegisterPipeline(p); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterPipeline(pipeline.NewPipeline("main")); err != nil {
		t.Fatal(err)
	}
	if len(fb.pipelines) != 1 {
		t.Fatalf("backend registrations\nhave %d\nwant 1", len(fb.pipelines))
	}
	if r.Pipeline("main") != p {
		t.Fatal("Pipeline does not return the first registered pipeline")
	}
	if r.Pipeline("missing") != nil {
		t.Fatal("Pipeline returned a value for an unknown key")
	}
}

func TestRegisterPipelineError(t *testing.T) {
	r, fb := newTestRenderer()
	fb.registerFn = func(pipeline.Pipeline) error { return errShaderStage }
	err := r.RegisterPipeline(pipeline.NewPipeline("broken"))
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("RegisterPipeline error\nhave %v\nwant wrapped error naming the pipeline", err)
	}
	if r.Pipeline("broken") != nil {
		t.Fatal("failed pipeline was cached")
	}
}

func TestResizeIgnoresZero(t *testing.T) {
	r, fb := newTestRenderer()
	r.Resize(0, 600)
	r.Resize(800, 0)
	r.Resize(1024, 768)
	if len(fb.configured) != 1 || fb.configured[0] != [2]int{1024, 768} {
		t.Fatalf("ConfigureSurface calls\nhave %v\nwant [[1024 768]]", fb.configured)
	}
}

func TestInitMeshBuffersValidates(t *testing.T) {
	r, _ := newTestRenderer()
	mesh := bind_group_provider.NewBindGroupProvider("mesh")
	if err := r.InitMeshBuffers(mesh, nil, []byte{0, 0, 0, 0}, 1); err == nil {
		t.Fatal("empty vertex data accepted")
	}
	if err := r.InitMeshBuffers(mesh, []byte{1}, []byte{0, 0, 0, 0}, 2); err == nil {
		t.Fatal("index count larger than index data accepted")
	}
	if err := r.InitMeshBuffers(mesh, []byte{1}, make([]byte, 12), 3); err != nil {
		t.Fatalf("valid mesh rejected: %v", err)
	}
}

func TestInitTextureAndSampler(t *testing.T) {
	r, fb := newTestRenderer()
	p := bind_group_provider.NewBindGroupProvider("diffuse",
		bind_group_provider.WithTexture(0, common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}),
		bind_group_provider.WithSampler(1, common.SamplerStagingData{}),
	)
	if err := r.InitTextureView(p); err != nil {
		t.Fatal(err)
	}
	if err := r.InitSampler(p); err != nil {
		t.Fatal(err)
	}
	if len(fb.textures) != 1 || fb.textures[0] != 0 || len(fb.samplers) != 1 || fb.samplers[0] != 1 {
		t.Fatalf("backend calls\nhave textures %v samplers %v\nwant [0] [1]", fb.textures, fb.samplers)
	}

	short := bind_group_provider.NewBindGroupProvider("short",
		bind_group_provider.WithTexture(0, common.TextureStagingData{Pixels: make([]byte, 4), Width: 2, Height: 2}),
	)
	if err := r.InitTextureView(short); err == nil {
		t.Fatal("texture with too few pixels accepted")
	}
}

func TestInitBindGroupRequiresRegisteredPipeline(t *testing.T) {
	r, _ := newTestRenderer()
	p := pipeline.NewPipeline("main",
		pipeline.WithBindGroupLayouts(pipeline.UniformLayout("camera", wgpu.ShaderStageVertex, 64)),
	)
	cam := bind_group_provider.NewBindGroupProvider("camera", bind_group_provider.WithUniform(0, 64))
	if err := r.InitBindGroup(cam, p); err == nil {
		t.Fatal("InitBindGroup accepted an unregistered pipeline")
	}

	outOfRange := bind_group_provider.NewBindGroupProvider("other", bind_group_provider.WithGroup(3))
	if err := r.InitBindGroup(outOfRange, p); err == nil {
		t.Fatal("InitBindGroup accepted a group the pipeline does not declare")
	}
}

func TestWriteBuffersSkipsInvalid(t *testing.T) {
	r, fb := newTestRenderer()
	cam := bind_group_provider.NewBindGroupProvider("camera", bind_group_provider.WithUniform(0, 64))

	err := r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: cam, Binding: 0, Data: make([]byte, 64)},
		{Provider: cam, Binding: 0, Data: make([]byte, 128)},
		{Provider: nil, Binding: 0, Data: make([]byte, 4)},
	})
	if err == nil {
		t.Fatal("WriteBuffers returned nil for invalid writes")
	}
	// Without a GPU buffer even the well-formed write is skipped.
	if len(fb.writes) != 0 {
		t.Fatalf("queued writes\nhave %d\nwant 0", len(fb.writes))
	}
}

func TestDrawCallPreconditions(t *testing.T) {
	r, fb := newTestRenderer()
	mesh := bind_group_provider.NewBindGroupProvider("mesh")

	if err := r.DrawCall("missing", mesh); err == nil {
		t.Fatal("DrawCall accepted an unknown pipeline")
	}
	if err := r.RegisterPipeline(pipeline.NewPipeline("main")); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawCall("main", mesh); err == nil {
		t.Fatal("DrawCall accepted a mesh without buffers")
	}
	if fb.draws != 0 {
		t.Fatalf("backend draws\nhave %d\nwant 0", fb.draws)
	}
}

func TestClearColorAndRelease(t *testing.T) {
	r, fb := newTestRenderer()
	if r.ClearColor() != DefaultClearColor {
		t.Fatalf("ClearColor\nhave %v\nwant %v", r.ClearColor(), DefaultClearColor)
	}
	c := wgpu.Color{R: 0.5, G: 0.5, B: 0.25, A: 1}
	r.SetClearColor(c)
	if r.ClearColor() != c {
		t.Fatalf("ClearColor\nhave %v\nwant %v", r.ClearColor(), c)
	}
	r.SetPresentMode(PresentModeUncapped)
	if fb.mode != PresentModeUncapped {
		t.Fatal("SetPresentMode not forwarded")
	}

	if err := r.RegisterPipeline(pipeline.NewPipeline("main")); err != nil {
		t.Fatal(err)
	}
	r.Release()
	if !fb.released || r.Pipeline("main") != nil {
		t.Fatal("Release did not clear pipelines and backend")
	}
}

var errShaderStage = errors.New("missing shader stage")
