package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

// Material holds physically based surface parameters for a mesh.
type Material struct {
	Name string

	// BaseColor is linear RGBA. The alpha channel is mirrored in Opacity.
	BaseColor mgl32.Vec4
	Opacity   float32

	// Transparent marks materials that need blending.
	Transparent bool

	Metalness float32
	Roughness float32

	// Transmission parameters used by glass.
	Transmission        float32
	Thickness           float32
	IOR                 float32
	Reflectivity        float32
	AttenuationColor    mgl32.Vec3
	AttenuationDistance float32

	// Version is bumped whenever parameters change after creation so
	// renderers can refresh cached uniforms.
	Version uint64

	released bool
}

// NewMaterial returns an opaque mid-grey material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:                name,
		BaseColor:           mgl32.Vec4{0.5, 0.5, 0.5, 1},
		Opacity:             1,
		Roughness:           0.6,
		IOR:                 1.5,
		AttenuationColor:    mgl32.Vec3{1, 1, 1},
		AttenuationDistance: 1,
	}
}

// NewGlassMaterial returns the standard transmissive glass every detected
// pane starts from before tinting.
func NewGlassMaterial() *Material {
	return &Material{
		Name:                "glass",
		BaseColor:           mgl32.Vec4{1, 1, 1, 1},
		Opacity:             1,
		Transparent:         true,
		Roughness:           0.05,
		Transmission:        1,
		Thickness:           0.4,
		IOR:                 1.5,
		Reflectivity:        0.06,
		AttenuationColor:    mgl32.Vec3{1, 1, 1},
		AttenuationDistance: 1,
	}
}

// IsTransparent reports whether the material is flagged transparent or has
// opacity below one.
func (m *Material) IsTransparent() bool {
	return m.Transparent || m.Opacity < 1
}

// Clone returns a deep copy of the material. The copy is never released.
func (m *Material) Clone() *Material {
	out := &Material{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen here
		*out = *m
	}
	out.released = false
	return out
}

// Touch marks the material as modified.
func (m *Material) Touch() {
	m.Version++
}

// Released reports whether Dispose has run for this material.
func (m *Material) Released() bool {
	return m.released
}
