package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-4

func near(a, b float32, eps float64) bool {
	return math.Abs(float64(a-b)) <= eps
}

// projectPoint applies m to p and performs the perspective divide. ok is false when w is zero.
func projectPoint(m mgl32.Mat4, p mgl32.Vec3) (ndc mgl32.Vec3, ok bool) {
	clip := m.Mul4x1(p.Vec4(1))
	if clip.W() == 0 {
		return mgl32.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if e := c.Eye(); e != (mgl32.Vec3{0, 1, 2}) {
		t.Fatalf("Eye\nhave %v\nwant [0 1 2]", e)
	}
	if tg := c.Target(); tg != (mgl32.Vec3{}) {
		t.Fatalf("Target\nhave %v\nwant [0 0 0]", tg)
	}
	if u := c.Up(); u != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("Up\nhave %v\nwant [0 1 0]", u)
	}
	if !near(c.Fov(), mgl32.DegToRad(45), 1e-6) {
		t.Fatalf("Fov\nhave %v\nwant %v", c.Fov(), mgl32.DegToRad(45))
	}
	if c.Aspect() != 1 || c.Near() != 0.1 || c.Far() != 100 {
		t.Fatalf("Aspect/Near/Far\nhave %v/%v/%v\nwant 1/0.1/100", c.Aspect(), c.Near(), c.Far())
	}
}

func TestCameraOptions(t *testing.T) {
	c := NewCamera(
		WithEye(1, 2, 3),
		WithTarget(4, 5, 6),
		WithUp(0, 0, 1),
		WithFov(1),
		WithAspect(2),
		WithNear(0.5),
		WithFar(50),
	)
	if c.Eye() != (mgl32.Vec3{1, 2, 3}) || c.Target() != (mgl32.Vec3{4, 5, 6}) || c.Up() != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("vectors\nhave %v %v %v\nwant [1 2 3] [4 5 6] [0 0 1]", c.Eye(), c.Target(), c.Up())
	}
	if c.Fov() != 1 || c.Aspect() != 2 || c.Near() != 0.5 || c.Far() != 50 {
		t.Fatalf("scalars\nhave %v %v %v %v\nwant 1 2 0.5 50", c.Fov(), c.Aspect(), c.Near(), c.Far())
	}
}

func TestCameraResize(t *testing.T) {
	c := NewCamera()
	c.Resize(800, 400)
	if c.Aspect() != 2 {
		t.Fatalf("Resize(800, 400)\nhave %v\nwant 2", c.Aspect())
	}
	c.Resize(0, 600)
	c.Resize(600, 0)
	if c.Aspect() != 2 {
		t.Fatalf("Resize with zero size\nhave %v\nwant 2 (unchanged)", c.Aspect())
	}
}

func TestBuildViewProjectionMatrix(t *testing.T) {
	c := NewCamera(WithEye(0, 0, 2))

	testCases := []struct {
		name  string
		point mgl32.Vec3
		depth float32
	}{
		{"near plane", mgl32.Vec3{0, 0, 1.9}, 0},
		{"far plane", mgl32.Vec3{0, 0, -98}, 1},
	}
	vp := c.BuildViewProjectionMatrix()
	for _, tt := range testCases {
		p, ok := projectPoint(vp, tt.point)
		if !ok {
			t.Fatalf("%s: ProjectPoint\nhave ok=false\nwant ok=true", tt.name)
		}
		if !near(p.X(), 0, tolerance) || !near(p.Y(), 0, tolerance) {
			t.Errorf("%s: x/y\nhave %v %v\nwant 0 0", tt.name, p.X(), p.Y())
		}
		if !near(p.Z(), tt.depth, 1e-3) {
			t.Errorf("%s: depth\nhave %v\nwant %v", tt.name, p.Z(), tt.depth)
		}
	}

	p, _ := projectPoint(vp, mgl32.Vec3{})
	if p.Z() <= 0 || p.Z() >= 1 {
		t.Fatalf("target depth\nhave %v\nwant in (0, 1)", p.Z())
	}

	right, _ := projectPoint(vp, mgl32.Vec3{0.5, 0, 0})
	if right.X() <= 0 {
		t.Fatalf("+X point\nhave ndc x %v\nwant > 0 (right-handed view)", right.X())
	}
	above, _ := projectPoint(vp, mgl32.Vec3{0, 0.5, 0})
	if above.Y() <= 0 {
		t.Fatalf("+Y point\nhave ndc y %v\nwant > 0", above.Y())
	}
}

func TestBuildViewProjectionMatrixIsPure(t *testing.T) {
	c := NewCamera()
	a := c.BuildViewProjectionMatrix()
	b := c.BuildViewProjectionMatrix()
	if a != b {
		t.Fatalf("BuildViewProjectionMatrix\nhave %v\nwant %v", b, a)
	}
	if c.Eye() != (mgl32.Vec3{0, 1, 2}) || c.Target() != (mgl32.Vec3{}) {
		t.Fatal("BuildViewProjectionMatrix mutated the camera")
	}
}

func TestGPUCameraUniform(t *testing.T) {
	u := NewGPUCameraUniform()
	if u.Size() != 64 {
		t.Fatalf("Size\nhave %d\nwant 64", u.Size())
	}

	c := NewCamera(WithAspect(1.5))
	u.Update(c)
	want := c.BuildViewProjectionMatrix()
	if mgl32.Mat4(u.ViewProj) != want {
		t.Fatalf("ViewProj\nhave %v\nwant %v", u.ViewProj, want)
	}

	buf := u.Marshal()
	if len(buf) != 64 {
		t.Fatalf("len(Marshal)\nhave %d\nwant 64", len(buf))
	}
	for i := range 16 {
		bits := uint32(buf[i*4]) | uint32(buf[i*4+1])<<8 | uint32(buf[i*4+2])<<16 | uint32(buf[i*4+3])<<24
		if f := math.Float32frombits(bits); f != want[i] {
			t.Fatalf("element %d\nhave %v\nwant %v", i, f, want[i])
		}
	}

	if GPUCameraUniformSource == "" {
		t.Fatal("GPUCameraUniformSource is empty")
	}
}
