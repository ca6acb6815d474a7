package asset

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/renderengine/internal/core/datablock"
)

// Material describes surface shading. Texture slots hold Refs, so a texture
// stays registered for as long as a material uses it.
type Material struct {
	datablock.Block

	Name         string
	DiffuseColor mgl32.Vec4
	Metalness    float32
	Roughness    float32

	diffuse   datablock.Ref[*Texture]
	metalness datablock.Ref[*Texture]
	roughness datablock.Ref[*Texture]
	normal    datablock.Ref[*Texture]
}

func NewMaterial() *Material {
	return &Material{
		DiffuseColor: mgl32.Vec4{1, 1, 1, 1},
		Roughness:    0.5,
	}
}

func assign(slot *datablock.Ref[*Texture], tex datablock.Ref[*Texture]) {
	slot.Release()
	*slot = tex.Clone()
}

func (m *Material) AssignDiffuseTexture(t datablock.Ref[*Texture])   { assign(&m.diffuse, t) }
func (m *Material) AssignMetalnessTexture(t datablock.Ref[*Texture]) { assign(&m.metalness, t) }
func (m *Material) AssignRoughnessTexture(t datablock.Ref[*Texture]) { assign(&m.roughness, t) }
func (m *Material) AssignNormalTexture(t datablock.Ref[*Texture])    { assign(&m.normal, t) }

func (m *Material) DiffuseTexture() datablock.Ref[*Texture]   { return m.diffuse }
func (m *Material) MetalnessTexture() datablock.Ref[*Texture] { return m.metalness }
func (m *Material) RoughnessTexture() datablock.Ref[*Texture] { return m.roughness }
func (m *Material) NormalTexture() datablock.Ref[*Texture]    { return m.normal }

func (m *Material) Retire() {
	m.diffuse.Release()
	m.metalness.Release()
	m.roughness.Release()
	m.normal.Release()
}
