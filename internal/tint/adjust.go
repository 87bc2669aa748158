package tint

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/scene"
)

var (
	darkAttenuation  = mgl32.Vec3{0.18, 0.18, 0.18}
	lightAttenuation = mgl32.Vec3{0.95, 0.95, 0.95}
)

const (
	baseReflectivity   = 0.04
	carbonReflectivity = 0.06
	dyedReflectivity   = 0.02
	tintedRoughness    = 0.06
)

// Adjustment is the material change for one VLT value.
type Adjustment struct {
	AttenuationDistance float32
	AttenuationColor    mgl32.Vec3
	Reflectivity        float32
}

// Adjust maps a VLT fraction (0.05 to 0.70) and film to material values.
// Darker film means a shorter, darker attenuation.
func Adjust(vlt float32, film Film) Adjustment {
	a := Adjustment{
		AttenuationDistance: 0.15 + vlt*2,
		AttenuationColor:    darkAttenuation.Add(lightAttenuation.Sub(darkAttenuation).Mul(vlt)),
		Reflectivity:        baseReflectivity,
	}
	switch film {
	case Carbon:
		a.Reflectivity = carbonReflectivity
	case Dyed:
		a.Reflectivity = dyedReflectivity
	}
	return a
}

// Apply writes the adjustment for vlt onto mat and bumps its version.
func Apply(mat *scene.Material, vlt float32, film Film) {
	if mat == nil {
		return
	}
	a := Adjust(vlt, film)
	mat.AttenuationColor = a.AttenuationColor
	mat.AttenuationDistance = a.AttenuationDistance
	mat.Reflectivity = a.Reflectivity
	mat.Transmission = 1
	mat.IOR = 1.5
	mat.Roughness = tintedRoughness
	mat.Touch()
}
