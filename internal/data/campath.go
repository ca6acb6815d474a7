package data

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/l1jgo/renderengine/internal/core/transform"
)

// PoseEntry is one camera pose. Either Matrix (16 floats, column major) or
// the position/rotation/scale triple is given; Matrix wins when both are.
type PoseEntry struct {
	Matrix   []float32   `yaml:"matrix,omitempty"`
	Position *[3]float32 `yaml:"position,omitempty"`
	Rotation *[3]float32 `yaml:"rotation,omitempty"` // yaw, pitch, roll in radians
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// CameraPathFile is the on-disk layout shared with cmd/campath.
type CameraPathFile struct {
	Name  string      `yaml:"name"`
	Poses []PoseEntry `yaml:"poses"`
}

// CameraPath is a sequence of camera local matrices, one per frame.
type CameraPath struct {
	Name  string
	Poses []mgl32.Mat4
}

func (p *CameraPath) Len() int { return len(p.Poses) }

// Matrix4 returns the pose as a local matrix.
func (e PoseEntry) Matrix4() (mgl32.Mat4, error) {
	if len(e.Matrix) > 0 {
		if len(e.Matrix) != 16 {
			return mgl32.Mat4{}, fmt.Errorf("matrix has %d values, want 16", len(e.Matrix))
		}
		var m mgl32.Mat4
		copy(m[:], e.Matrix)
		return m, nil
	}
	t := transform.New()
	if e.Position != nil {
		t.SetPosition(mgl32.Vec3(*e.Position))
	}
	if e.Rotation != nil {
		t.SetRotation(mgl32.Vec3(*e.Rotation))
	}
	if e.Scale != nil {
		t.SetScale(mgl32.Vec3(*e.Scale))
	}
	return t.Matrix(), nil
}

// LoadCameraPath loads a camera path from a YAML file.
func LoadCameraPath(path string) (*CameraPath, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read camera path: %w", err)
	}
	var f CameraPathFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse camera path: %w", err)
	}
	if len(f.Poses) == 0 {
		return nil, fmt.Errorf("camera path %s has no poses", path)
	}
	p := &CameraPath{Name: f.Name, Poses: make([]mgl32.Mat4, 0, len(f.Poses))}
	for i, e := range f.Poses {
		m, err := e.Matrix4()
		if err != nil {
			return nil, fmt.Errorf("camera path pose %d: %w", i, err)
		}
		p.Poses = append(p.Poses, m)
	}
	return p, nil
}
