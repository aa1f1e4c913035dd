package model

import (
	"github.com/Carmen-Shannon/flycam/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	vertices              []GPUVertex
	indices               []uint32
	meshProvider          bind_group_provider.BindGroupProvider
	vertexData, indexData []byte
}

// Model defines the interface for an indexed, textured mesh.
// A Model keeps both the typed vertex/index slices and their serialized byte form;
// the Renderer uploads the bytes into the buffers held by MeshProvider.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices returns the typed vertex data.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the triangle list indices.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// VertexData returns the serialized vertex buffer contents.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the serialized index buffer contents.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh buffers.
	// Created on first use and labelled after the model.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.vertexData == nil {
		m.vertexData = MarshalVertices(m.vertices)
	}
	if m.indexData == nil {
		m.indexData = MarshalIndices(m.indices)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name + " Mesh")
	}
	return m.meshProvider
}
