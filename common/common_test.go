package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOpenGLToWGPU(t *testing.T) {
	testCases := []struct {
		zIn, zOut float32
	}{
		{-1, 0},
		{0, 0.5},
		{1, 1},
	}
	for i, tt := range testCases {
		v := OpenGLToWGPU.Mul4x1(mgl32.Vec4{0.25, -0.75, tt.zIn, 1})
		if v.X() != 0.25 || v.Y() != -0.75 || v.W() != 1 {
			t.Errorf("[%d] x/y/w changed\nhave %v\nwant [0.25 -0.75 _ 1]", i, v)
		}
		if math.Abs(float64(v.Z()-tt.zOut)) > 1e-6 {
			t.Errorf("[%d] z\nhave %v\nwant %v", i, v.Z(), tt.zOut)
		}
	}
}

func TestSliceToBytes(t *testing.T) {
	if b := SliceToBytes([]uint32{}); b != nil {
		t.Fatalf("SliceToBytes(empty)\nhave %v\nwant nil", b)
	}
	b := SliceToBytes([]uint32{1, 2, 3})
	if len(b) != 12 {
		t.Fatalf("len(SliceToBytes)\nhave %d\nwant 12", len(b))
	}
}

func TestCoalesceClampRatio(t *testing.T) {
	if v := Coalesce(0, 0, 3, 4); v != 3 {
		t.Fatalf("Coalesce\nhave %v\nwant 3", v)
	}
	if v := Coalesce("", ""); v != "" {
		t.Fatalf("Coalesce(all zero)\nhave %q\nwant empty", v)
	}
	if v := Clamp(5, 0, 2); v != 2 {
		t.Fatalf("Clamp\nhave %v\nwant 2", v)
	}
	if v := Clamp(-1.5, 0, 2); v != 0 {
		t.Fatalf("Clamp\nhave %v\nwant 0", v)
	}

	testCases := []struct {
		num      float64
		den      int
		expected float64
	}{
		{400, 800, 0.5},
		{-10, 800, 0},
		{900, 800, 1},
		{10, 0, 0},
	}
	for i, tt := range testCases {
		if r := Ratio(tt.num, tt.den); r != tt.expected {
			t.Errorf("[%d] Ratio(%v, %d)\nhave %v\nwant %v", i, tt.num, tt.den, r, tt.expected)
		}
	}
}

func TestTextureSourceDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	data, err := TextureSource{Name: "mem", Data: buf.Bytes()}.Decode()
	if err != nil {
		t.Fatalf("Decode\nhave %v\nwant nil", err)
	}
	if data.Width != 3 || data.Height != 2 {
		t.Fatalf("Decode size\nhave %dx%d\nwant 3x2", data.Width, data.Height)
	}
	if len(data.Pixels) != 3*2*4 {
		t.Fatalf("len(Pixels)\nhave %d\nwant 24", len(data.Pixels))
	}
	if p := data.Pixels[0:4]; !bytes.Equal(p, []byte{255, 0, 0, 255}) {
		t.Fatalf("pixel (0,0)\nhave %v\nwant [255 0 0 255]", p)
	}
	last := (1*3 + 2) * 4
	if p := data.Pixels[last : last+4]; !bytes.Equal(p, []byte{0, 0, 255, 255}) {
		t.Fatalf("pixel (2,1)\nhave %v\nwant [0 0 255 255]", p)
	}
}

func TestTextureSourceDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  TextureSource
	}{
		{"empty", TextureSource{Name: "empty"}},
		{"missing file", TextureSource{Name: "missing", Path: "does/not/exist.png"}},
		{"garbage", TextureSource{Name: "garbage", Data: []byte("not an image")}},
	}
	for _, tt := range testCases {
		if _, err := tt.src.Decode(); err == nil {
			t.Errorf("%s: Decode\nhave nil error\nwant error", tt.name)
		}
	}
}
