package asset

import (
	"path/filepath"

	"github.com/l1jgo/renderengine/internal/core/datablock"
)

// Texture is image metadata. Pixel upload is the graphics backend's job.
type Texture struct {
	datablock.Block

	path     string
	Width    int
	Height   int
	Channels int
}

func NewTexture() *Texture { return &Texture{} }

// SetPath records the file the texture was loaded from, cleaned so that
// lookups by path compare equal for equivalent spellings.
func (t *Texture) SetPath(p string) {
	if p == "" {
		t.path = ""
		return
	}
	t.path = filepath.Clean(p)
}

func (t *Texture) Path() string { return t.path }

// SamePath reports whether the texture was loaded from p.
func (t *Texture) SamePath(p string) bool {
	return t.path != "" && p != "" && t.path == filepath.Clean(p)
}
