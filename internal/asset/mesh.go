// Package asset holds the non-scene datablock families: meshes, materials
// and textures. They are created through the engine's managers and shared
// between scene objects by Ref.
package asset

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/core/datablock"
)

// Vertex is one mesh vertex as uploaded to the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is indexed triangle geometry with an optional material.
type Mesh struct {
	datablock.Block

	vertices []Vertex
	indices  []uint32
	material datablock.Ref[*Material]
}

func NewMesh() *Mesh { return &Mesh{} }

// SetGeometry replaces the vertex and index buffers.
func (m *Mesh) SetGeometry(vertices []Vertex, indices []uint32) {
	m.vertices = vertices
	m.indices = indices
}

func (m *Mesh) Vertices() []Vertex { return m.vertices }
func (m *Mesh) Indices() []uint32  { return m.indices }

// Triangles returns the number of indexed triangles.
func (m *Mesh) Triangles() int { return len(m.indices) / 3 }

// AssignMaterial shares ownership of mat; a null Ref clears the material.
func (m *Mesh) AssignMaterial(mat datablock.Ref[*Material]) {
	m.material.Release()
	m.material = mat.Clone()
}

// Material returns the mesh's material Ref. It is borrowed: Clone to keep.
func (m *Mesh) Material() datablock.Ref[*Material] { return m.material }

func (m *Mesh) Retire() {
	m.material.Release()
	m.vertices = nil
	m.indices = nil
}
