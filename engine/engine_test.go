package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/Carmen-Shannon/flycam/engine/camera"
	"github.com/Carmen-Shannon/flycam/engine/model"
	"github.com/Carmen-Shannon/flycam/engine/renderer"
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/flycam/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeWindow struct {
	width, height int
	onUpdate      func()
	onResize      func(int, int)
	onKey         func(uint32, bool)
	onCursor      func(float64, float64)
	closeRequests int
	updates       int
	closed        bool
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyCallback(cb func(uint32, bool)) { w.onKey = cb }
func (w *fakeWindow) SetCursorCallback(cb func(x, y float64)) { w.onCursor = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.closeRequests == 0 && w.updates < 3 }
func (w *fakeWindow) RequestClose() { w.closeRequests++ }
func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }
func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.updates++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

// fakeRenderer records the order of frame calls.
type fakeRenderer struct {
	calls      []string
	initErr    error
	beginErr   error
	drawErr    error
	resizes    [][2]int
	clear      wgpu.Color
	writes     []bind_group_provider.BufferWrite
	drawGroups []uint32
	released   bool
}

func (r *fakeRenderer) Pipeline(string) pipeline.Pipeline { return nil }
func (r *fakeRenderer) RegisterPipeline(pipeline.Pipeline) error { return nil }
func (r *fakeRenderer) Resize(width, height int) { r.resizes = append(r.resizes, [2]int{width, height}) }
func (r *fakeRenderer) SetClearColor(c wgpu.Color) { r.clear = c }
func (r *fakeRenderer) ClearColor() wgpu.Color { return r.clear }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) Release() { r.released = true }
func (r *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider) error { return nil }
func (r *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider) error { return nil }
func (r *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, pipeline.Pipeline) error {
	return r.initErr
}
func (r *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}
func (r *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	r.calls = append(r.calls, "write")
	r.writes = append(r.writes, writes...)
	return nil
}
func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) DrawCall(_ string, _ bind_group_provider.BindGroupProvider, groups ...bind_group_provider.BindGroupProvider) error {
	r.calls = append(r.calls, "draw")
	r.drawGroups = r.drawGroups[:0]
	for _, g := range groups {
		r.drawGroups = append(r.drawGroups, g.Group())
	}
	return r.drawErr
}
func (r *fakeRenderer) EndFrame() { r.calls = append(r.calls, "end") }
func (r *fakeRenderer) Present() { r.calls = append(r.calls, "present") }

func newTestLoop(t *testing.T, opts ...FrameLoopBuilderOption) (*frameLoop, *fakeWindow, *fakeRenderer) {
	t.Helper()
	w := &fakeWindow{width: 800, height: 600}
	r := &fakeRenderer{}
	base := []FrameLoopBuilderOption{
		WithWindow(w),
		WithRenderer(r),
		WithModel(model.NewPentagon()),
		WithTextureGroup(bind_group_provider.NewBindGroupProvider("Diffuse", bind_group_provider.WithGroup(0))),
		WithCameraGroup(bind_group_provider.NewBindGroupProvider("Camera",
			bind_group_provider.WithGroup(1), bind_group_provider.WithUniform(0, 64)), 0),
		WithLogger(nil),
	}
	fl, err := NewFrameLoop(append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return fl.(*frameLoop), w, r
}

func TestNewFrameLoopRequiresCollaborators(t *testing.T) {
	if _, err := NewFrameLoop(); err == nil {
		t.Fatal("NewFrameLoop() accepted no window")
	}
	if _, err := NewFrameLoop(WithWindow(&fakeWindow{})); err == nil {
		t.Fatal("NewFrameLoop accepted no renderer")
	}
	if _, err := NewFrameLoop(WithWindow(&fakeWindow{}), WithRenderer(&fakeRenderer{}), WithModel(model.NewPentagon())); err == nil {
		t.Fatal("NewFrameLoop accepted no camera group")
	}
}

func TestNewFrameLoopSetsAspect(t *testing.T) {
	l, _, _ := newTestLoop(t)
	if have, want := l.Camera().Aspect(), float32(800)/600; have != want {
		t.Fatalf("Aspect\nhave %v\nwant %v", have, want)
	}
}

func TestFrameOrder(t *testing.T) {
	l, _, r := newTestLoop(t)
	if err := l.Frame(); err != nil {
		t.Fatal(err)
	}
	want := []string{"write", "begin", "draw", "end", "present"}
	if fmt.Sprint(r.calls) != fmt.Sprint(want) {
		t.Fatalf("calls\nhave %v\nwant %v", r.calls, want)
	}
	if len(r.writes) != 1 || len(r.writes[0].Data) != 64 || r.writes[0].Binding != 0 {
		t.Fatalf("camera write\nhave %+v\nwant one 64-byte write at binding 0", r.writes)
	}
	if fmt.Sprint(r.drawGroups) != "[0 1]" {
		t.Fatalf("draw groups\nhave %v\nwant [0 1]", r.drawGroups)
	}
	if l.Frames() != 1 {
		t.Fatalf("Frames\nhave %d\nwant 1", l.Frames())
	}
}

func TestFrameUploadsUpdatedCamera(t *testing.T) {
	l, w, r := newTestLoop(t)
	w.onKey(common.KeyW, true)
	if err := l.Frame(); err != nil {
		t.Fatal(err)
	}
	if have := l.Camera().Eye().Z(); have >= 2 {
		t.Fatalf("eye z after forward\nhave %v\nwant < 2", have)
	}

	u := camera.NewGPUCameraUniform()
	u.Update(l.Camera())
	if fmt.Sprint(r.writes[0].Data) != fmt.Sprint(u.Marshal()) {
		t.Fatal("uploaded uniform does not match the updated camera")
	}
}

func TestFrameAcquireFailureReconfigures(t *testing.T) {
	l, _, r := newTestLoop(t)
	r.beginErr = errors.New("surface outdated")
	if err := l.Frame(); err != nil {
		t.Fatalf("Frame\nhave %v\nwant nil", err)
	}
	if len(r.resizes) != 1 || r.resizes[0] != [2]int{800, 600} {
		t.Fatalf("resizes\nhave %v\nwant [[800 600]]", r.resizes)
	}
	if l.Frames() != 0 {
		t.Fatalf("Frames\nhave %d\nwant 0", l.Frames())
	}
}

func TestFrameAcquireFailureLimit(t *testing.T) {
	l, _, r := newTestLoop(t, WithMaxAcquireFailures(3))
	acquire := errors.New("surface lost")
	r.beginErr = acquire
	for i := 0; i < 2; i++ {
		if err := l.Frame(); err != nil {
			t.Fatalf("Frame %d\nhave %v\nwant nil", i, err)
		}
	}
	r.beginErr = nil
	if err := l.Frame(); err != nil {
		t.Fatal(err)
	}

	r.beginErr = acquire
	for i := 0; i < 2; i++ {
		if err := l.Frame(); err != nil {
			t.Fatalf("Frame after recovery %d\nhave %v\nwant nil", i, err)
		}
	}
	if err := l.Frame(); !errors.Is(err, acquire) {
		t.Fatalf("Frame\nhave %v\nwant %v", err, acquire)
	}
}

func TestFrameDrawErrorStillPresents(t *testing.T) {
	l, _, r := newTestLoop(t)
	r.drawErr = errors.New("no pipeline")
	if err := l.Frame(); err == nil {
		t.Fatal("Frame swallowed the draw error")
	}
	if last := r.calls[len(r.calls)-1]; last != "present" {
		t.Fatalf("last call\nhave %s\nwant present", last)
	}
}

func TestResizeIgnoresZero(t *testing.T) {
	l, w, r := newTestLoop(t)
	w.onResize(0, 0)
	if len(r.resizes) != 0 {
		t.Fatalf("resizes\nhave %v\nwant none", r.resizes)
	}
	w.onResize(1000, 500)
	if len(r.resizes) != 1 || l.Camera().Aspect() != 2 {
		t.Fatalf("resize\nhave %v aspect %v\nwant one resize aspect 2", r.resizes, l.Camera().Aspect())
	}
}

func TestClearColorFollowsCursor(t *testing.T) {
	_, w, r := newTestLoop(t, WithClearColorFollowsCursor(true))
	w.onCursor(400, 150)
	want := wgpu.Color{R: 0.5, G: 0.5, B: 0.25, A: 1}
	if r.clear != want {
		t.Fatalf("clear colour\nhave %v\nwant %v", r.clear, want)
	}

	l2, w2, r2 := newTestLoop(t)
	w2.onCursor(400, 150)
	if r2.clear != (wgpu.Color{}) {
		t.Fatalf("clear colour changed while disabled: %v", r2.clear)
	}
	if have := l2.Controller().MouseDelta(); have.X() != 400 || have.Y() != 150 {
		t.Fatalf("MouseDelta\nhave %v\nwant (400, 150)", have)
	}
}

func TestRunReleasesOnClose(t *testing.T) {
	l, w, r := newTestLoop(t)
	if err := l.Run(); err != nil {
		t.Fatal(err)
	}
	if w.updates != 3 || l.Frames() != 3 {
		t.Fatalf("frames\nhave updates %d frames %d\nwant 3 and 3", w.updates, l.Frames())
	}
	if !r.released {
		t.Fatal("renderer not released")
	}
}

func TestRunStopsOnFrameError(t *testing.T) {
	l, w, r := newTestLoop(t)
	r.drawErr = errors.New("broken")
	if err := l.Run(); err == nil {
		t.Fatal("Run returned nil after a frame error")
	}
	if w.closeRequests != 1 || w.updates != 1 {
		t.Fatalf("close\nhave requests %d updates %d\nwant 1 and 1", w.closeRequests, w.updates)
	}
}
