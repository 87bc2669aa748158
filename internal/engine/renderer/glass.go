package renderer

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/scene"
)

// Alpha bounds for glass so the darkest film never hides the cabin and the
// lightest is still visible.
const (
	minGlassAlpha = 0.08
	maxGlassAlpha = 0.92
)

// Surface colour for a material, with alpha already folded in.
type shading struct {
	Color        mgl32.Vec4
	Reflectivity float32
	Roughness    float32
	Metalness    float32
}

// shade derives the flat colour the forward shader needs from a material.
// Transmissive glass is approximated by Beer-Lambert absorption through
// Thickness: a shorter attenuation distance gives higher opacity, tinted
// towards AttenuationColor.
func shade(m *scene.Material) shading {
	if m == nil {
		return shading{Color: mgl32.Vec4{0.5, 0.5, 0.5, 1}, Roughness: 0.6}
	}
	s := shading{
		Color:        m.BaseColor,
		Reflectivity: m.Reflectivity,
		Roughness:    m.Roughness,
		Metalness:    m.Metalness,
	}
	s.Color[3] = m.Opacity

	if m.Transmission > 0 {
		s.Color[3] = GlassAlpha(m)
		tint := m.AttenuationColor
		s.Color[0] *= tint[0]
		s.Color[1] *= tint[1]
		s.Color[2] *= tint[2]
	}
	return s
}

// GlassAlpha returns the blend alpha for a transmissive material.
func GlassAlpha(m *scene.Material) float32 {
	thickness := m.Thickness
	if thickness <= 0 {
		thickness = 0.4
	}
	dist := m.AttenuationDistance
	if dist <= 0 {
		return maxGlassAlpha
	}
	absorbed := 1 - math32.Exp(-thickness/dist)
	a := absorbed*m.Transmission + m.Opacity*(1-m.Transmission)
	return mgl32.Clamp(a, minGlassAlpha, maxGlassAlpha)
}

// drawItem is one mesh node queued for a pass.
type drawItem struct {
	node  *scene.Node
	model mgl32.Mat4
	depth float32 // Squared distance from the eye
}

// partition splits mesh nodes into opaque and blended lists. The blended
// list is ordered back to front from eye.
func partition(root *scene.Node, eye mgl32.Vec3) (opaque, blended []drawItem) {
	if root == nil {
		return nil, nil
	}
	for _, n := range root.Meshes() {
		item := drawItem{node: n, model: n.WorldMatrix()}
		mat := n.Mesh.Material
		if mat != nil && mat.IsTransparent() {
			c := n.WorldBounds().Center()
			d := c.Sub(eye)
			item.depth = d.Dot(d)
			blended = append(blended, item)
			continue
		}
		opaque = append(opaque, item)
	}
	sort.SliceStable(blended, func(i, j int) bool {
		return blended[i].depth > blended[j].depth
	})
	return opaque, blended
}
