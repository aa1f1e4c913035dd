package engine

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/Carmen-Shannon/flycam/engine/camera"
	"github.com/Carmen-Shannon/flycam/engine/config"
	"github.com/Carmen-Shannon/flycam/engine/loader"
	"github.com/Carmen-Shannon/flycam/engine/model"
	"github.com/Carmen-Shannon/flycam/engine/profiler"
	"github.com/Carmen-Shannon/flycam/engine/renderer"
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/flycam/engine/renderer/shader"
	"github.com/Carmen-Shannon/flycam/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	mainPipelineKey   = "main"
	textureGroupIndex = 0
	cameraGroupIndex  = 1
	cameraStructName  = "camera"
)

// NewFromConfig builds the window, renderer and every draw resource described by cfg
// and returns a FrameLoop ready to Run.
//
// Parameters:
//   - cfg: validated settings
//
// Returns:
//   - FrameLoop: the ready loop
//   - error: an error if an asset fails to load or a GPU resource cannot be created
func NewFromConfig(cfg config.Config) (FrameLoop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Shaders and textures are read before any OS or GPU object exists.
	vs, err := shader.NewShader("shader.vs", shader.ShaderTypeVertex, cfg.Assets.Shader)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader("shader.fs", shader.ShaderTypeFragment, cfg.Assets.Shader)
	if err != nil {
		return nil, err
	}
	if err := checkCameraDeclaration(vs); err != nil {
		return nil, err
	}
	texture, err := loadTexture(cfg.Assets.Texture)
	if err != nil {
		return nil, err
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	)

	presentMode, _ := renderer.ParsePresentMode(cfg.Renderer.PresentMode)
	msaa, _ := renderer.ParseMSAA(cfg.Renderer.MSAA)
	cc := cfg.Renderer.ClearColor
	r := renderer.NewRenderer(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
	)

	return buildFrameLoop(cfg, win, r, vs, fs, texture)
}

// buildFrameLoop creates the draw resources on r and assembles the loop around win.
// On error r is released and win closed.
func buildFrameLoop(cfg config.Config, win window.Window, r renderer.Renderer, vs, fs shader.Shader, texture common.TextureStagingData) (_ FrameLoop, err error) {
	defer func() {
		if err == nil {
			return
		}
		r.Release()
		if closeErr := win.Close(); closeErr != nil {
			log.Printf("[FrameLoop] failed to close window: %v", closeErr)
		}
	}()

	uniform := camera.NewGPUCameraUniform()
	p := pipeline.NewPipeline(mainPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBindGroupLayouts(
			pipeline.TextureSamplerLayout("Texture Bind Group Layout"),
			pipeline.UniformLayout("Camera Bind Group Layout", wgpu.ShaderStageVertex, uint64(uniform.Size())),
		),
		pipeline.WithVertexLayouts(model.VertexLayout()),
	)
	if err := r.RegisterPipeline(p); err != nil {
		return nil, err
	}

	pentagon := model.NewPentagon()
	if err := r.InitMeshBuffers(pentagon.MeshProvider(), pentagon.VertexData(), pentagon.IndexData(), pentagon.IndexCount()); err != nil {
		return nil, err
	}

	textureGroup := bind_group_provider.NewBindGroupProvider("Diffuse",
		bind_group_provider.WithGroup(textureGroupIndex),
		bind_group_provider.WithTexture(0, texture),
		bind_group_provider.WithSampler(1, SamplerDefaults()),
	)
	if err := r.InitTextureView(textureGroup); err != nil {
		return nil, err
	}
	if err := r.InitSampler(textureGroup); err != nil {
		return nil, err
	}
	if err := r.InitBindGroup(textureGroup, p); err != nil {
		return nil, err
	}

	cameraGroup := bind_group_provider.NewBindGroupProvider("Camera",
		bind_group_provider.WithGroup(cameraGroupIndex),
		bind_group_provider.WithUniform(0, uint64(uniform.Size())),
	)
	if err := r.InitBindGroup(cameraGroup, p); err != nil {
		return nil, err
	}

	movement, _ := camera.ParseMovementMode(strings.ToLower(cfg.Camera.Movement))
	c := cfg.Camera
	cam := camera.NewCamera(
		camera.WithEye(c.Eye[0], c.Eye[1], c.Eye[2]),
		camera.WithTarget(c.Target[0], c.Target[1], c.Target[2]),
		camera.WithUp(c.Up[0], c.Up[1], c.Up[2]),
		camera.WithFov(mgl32.DegToRad(c.FovDegrees)),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
	)
	controller := camera.NewCameraController(
		camera.WithSpeed(c.Speed),
		camera.WithMouseSlowdown(c.MouseSlowdown),
		camera.WithMovementMode(movement),
	)

	var prof *profiler.Profiler
	if cfg.Profiling.Enabled {
		prof = profiler.NewProfiler(
			profiler.WithInterval(time.Duration(cfg.Profiling.IntervalSeconds)*time.Second),
			profiler.WithMemStats(cfg.Profiling.MemStats),
		)
	}

	return NewFrameLoop(
		WithWindow(win),
		WithRenderer(r),
		WithCamera(cam),
		WithController(controller),
		WithModel(pentagon),
		WithPipelineKey(mainPipelineKey),
		WithTextureGroup(textureGroup),
		WithCameraGroup(cameraGroup, 0),
		WithClearColorFollowsCursor(cfg.Renderer.ClearColorFollowsCursor),
		WithProfiler(prof),
		WithDebug(cfg.Debug),
	)
}

// SamplerDefaults returns the diffuse sampler: clamp to edge, linear magnification, nearest minification.
func SamplerDefaults() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeNearest,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
	}
}

// checkCameraDeclaration requires the vertex shader to declare the camera uniform where the pipeline layout puts it.
func checkCameraDeclaration(vs shader.Shader) error {
	for _, d := range vs.Declarations() {
		if d.Struct != cameraStructName {
			continue
		}
		if d.Group != cameraGroupIndex || d.Binding != 0 {
			return fmt.Errorf("shader %s declares %s at @group(%d) @binding(%d), want @group(%d) @binding(0)",
				vs.Key(), cameraStructName, d.Group, d.Binding, cameraGroupIndex)
		}
		return nil
	}
	return fmt.Errorf("shader %s does not declare a %s uniform", vs.Key(), cameraStructName)
}

func loadTexture(path string) (common.TextureStagingData, error) {
	if path == "" {
		log.Printf("[FrameLoop] no texture configured, using checkerboard")
		return loader.Checkerboard(256, 32), nil
	}
	ld := loader.NewLoader(loader.WithWorkers(1), loader.WithFallback(false))
	return ld.LoadFile(path)
}
