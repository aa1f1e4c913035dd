package model

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/flycam/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for textured meshes.
// Matches GPUVertex layout exactly (20 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU representation of a single textured vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 20 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoord [2]float32 // offset 12: UV texture coordinate, v grows downward (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 20-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.TexCoord[1]))
	return buf
}

// VertexLayout describes GPUVertex to a render pipeline: position at location 0, UV at location 1.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for vertex buffer slot 0
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 20,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// MarshalVertices copies a vertex slice to bytes. GPUVertex has no padding so the
// in-memory layout is the buffer layout on little-endian hosts.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*20 bytes, nil for an empty slice
func MarshalVertices(vertices []GPUVertex) []byte {
	return bytes.Clone(common.SliceToBytes(vertices))
}

// MarshalIndices serializes uint32 indices little-endian.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices)*4 bytes, always a multiple of 4 as buffer writes require
func MarshalIndices(indices []uint32) []byte {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}
