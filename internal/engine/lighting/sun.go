// Package lighting provides the ambient and sun presets the viewer offers.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/tint"
)

// SunPosition is where the directional light sits for every preset.
var SunPosition = mgl32.Vec3{5, 8, 4}

// Setup is an ambient light plus one directional sun.
type Setup struct {
	Ambient      float32
	AmbientColor mgl32.Vec3
	Sun          float32
	SunColor     mgl32.Vec3
	// SunDir points from the scene towards the sun.
	SunDir mgl32.Vec3
}

// Preset returns the light setup for a lighting mode. Unknown modes get the
// neutral setup used before any preset is applied.
func Preset(l tint.Lighting) Setup {
	s := Setup{
		Ambient:      0.4,
		AmbientColor: mgl32.Vec3{1, 1, 1},
		Sun:          1.0,
		SunColor:     mgl32.Vec3{1, 1, 1},
		SunDir:       SunPosition.Normalize(),
	}
	switch l {
	case tint.Day:
		s.Ambient, s.Sun = 0.5, 1.2
	case tint.Dusk:
		s.Ambient, s.Sun, s.SunColor = 0.35, 0.8, Hex(0xffd2a6)
	case tint.Night:
		s.Ambient, s.Sun, s.SunColor = 0.15, 0.25, Hex(0xa7c7ff)
	case tint.Storm:
		s.Ambient, s.Sun, s.SunColor = 0.25, 0.6, Hex(0xdfe5ee)
	}
	return s
}

// Hex converts a 0xRRGGBB colour to [0,1] components.
func Hex(rgb uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(rgb>>16&0xff) / 255,
		float32(rgb>>8&0xff) / 255,
		float32(rgb&0xff) / 255,
	}
}

// SunDirection converts longitude/latitude angles in degrees to a light
// direction. Longitude rotates around Y, latitude is elevation from the
// horizon. The result points towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := mgl32.DegToRad(longitude)
	lat := mgl32.DegToRad(latitude)

	return mgl32.Vec3{
		math32.Cos(lat) * math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat) * math32.Cos(lon),
	}
}
