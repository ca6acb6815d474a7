package scene

import (
	"github.com/l1jgo/renderengine/internal/asset"
	"github.com/l1jgo/renderengine/internal/core/datablock"
)

// MeshObject places a mesh in the scene.
type MeshObject struct {
	GameObject

	mesh datablock.Ref[*asset.Mesh]
}

func NewMeshObject() *MeshObject {
	m := &MeshObject{}
	m.init(m)
	return m
}

func (m *MeshObject) TypeName() string { return "Mesh" }

// AssignMesh shares ownership of mesh; a null Ref clears it.
func (m *MeshObject) AssignMesh(mesh datablock.Ref[*asset.Mesh]) {
	m.mesh.Release()
	m.mesh = mesh.Clone()
}

// Mesh returns the assigned mesh. The Ref is borrowed: Clone to keep.
func (m *MeshObject) Mesh() datablock.Ref[*asset.Mesh] { return m.mesh }

func (m *MeshObject) Retire() {
	m.mesh.Release()
	m.GameObject.Retire()
}
