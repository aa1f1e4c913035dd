package model

// PentagonVertices is a flat pentagon in the z=0 plane, UVs mapped so the texture appears upright.
var PentagonVertices = []GPUVertex{
	{Position: [3]float32{-0.0868241, 0.49240386, 0}, TexCoord: [2]float32{0.4131759, 0.00759614}},
	{Position: [3]float32{-0.49513406, 0.06958647, 0}, TexCoord: [2]float32{0.0048659444, 0.43041354}},
	{Position: [3]float32{-0.21918549, -0.44939706, 0}, TexCoord: [2]float32{0.28081453, 0.949397}},
	{Position: [3]float32{0.35966998, -0.3473291, 0}, TexCoord: [2]float32{0.85967, 0.84732914}},
	{Position: [3]float32{0.44147372, 0.2347359, 0}, TexCoord: [2]float32{0.9414737, 0.2652641}},
}

// PentagonIndices triangulates PentagonVertices as a fan around vertex 4, counter-clockwise.
var PentagonIndices = []uint32{
	0, 1, 4,
	1, 2, 4,
	2, 3, 4,
}

// NewPentagon returns the pentagon as a Model ready for Renderer.InitMeshBuffers.
func NewPentagon() Model {
	return NewModel(
		WithName("pentagon"),
		WithVertices(PentagonVertices),
		WithIndices(PentagonIndices),
	)
}
