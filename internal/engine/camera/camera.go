// Package camera provides the orbit camera used to inspect the car.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/engine/picking"
	"github.com/Faultbox/tintview/internal/scene"
	"github.com/Faultbox/tintview/internal/tint"
)

// Projection defaults.
const (
	DefaultFOV  = 50 // Vertical field of view in degrees
	DefaultNear = 0.1
	DefaultFar  = 200
)

// Preset places the camera for a view mode.
type Preset struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	MinDistance float32
	MaxDistance float32
	Pan         bool
}

// Presets for the outside and inside views.
var (
	Outside = Preset{
		Position:    mgl32.Vec3{4, 1.7, 5},
		Target:      mgl32.Vec3{0, 1.2, 0},
		MinDistance: 2.5,
		MaxDistance: 8,
		Pan:         true,
	}
	Inside = Preset{
		Position:    mgl32.Vec3{0.15, 1.3, 0.25},
		Target:      mgl32.Vec3{2.2, 1.0, 0.3},
		MinDistance: 0.1,
		MaxDistance: 1.5,
	}
)

// PresetFor returns the preset for a view mode.
func PresetFor(v tint.View) Preset {
	if v == tint.Inside {
		return Inside
	}
	return Outside
}

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // Elevation above the target, radians
	Yaw      float32 // Rotation around Y, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32
	AllowPan    bool

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
	PanSensitivity  float32

	FOV, Near, Far float32
}

// NewOrbitCamera creates a camera in the outside preset.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		MinPitch:        -math32.Pi/2 + 0.01,
		MaxPitch:        math32.Pi/2 - 0.01,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSensitivity:  0.002,
		FOV:             DefaultFOV,
		Near:            DefaultNear,
		Far:             DefaultFar,
	}
	c.Apply(Outside)
	return c
}

// Apply moves the camera to a preset. Distance is clamped to the preset's
// range, so a preset position outside it ends up on the nearest allowed
// sphere along the same direction.
func (c *OrbitCamera) Apply(p Preset) {
	c.Target = p.Target
	c.MinDistance = p.MinDistance
	c.MaxDistance = p.MaxDistance
	c.AllowPan = p.Pan

	offset := p.Position.Sub(p.Target)
	c.Distance = offset.Len()
	if c.Distance > 0 {
		c.Pitch = math32.Asin(mgl32.Clamp(offset.Y()/c.Distance, -1, 1))
		c.Yaw = math32.Atan2(offset.X(), offset.Z())
	}
	c.clamp()
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := math32.Cos(c.Pitch), math32.Sin(c.Pitch)
	return c.Target.Add(mgl32.Vec3{
		c.Distance * cp * math32.Sin(c.Yaw),
		c.Distance * sp,
		c.Distance * cp * math32.Cos(c.Yaw),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// ScreenRay returns the world-space ray under a screen pixel.
func (c *OrbitCamera) ScreenRay(x, y float32, width, height int) picking.Ray {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	inv := c.ViewProjection(aspect).Inv()
	return picking.ScreenToRay(x, y, float32(width), float32(height), inv)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.clamp()
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clamp()
}

// HandlePan slides the target in the view plane. It does nothing when the
// current preset disables panning.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	if !c.AllowPan {
		return
	}
	forward := c.Target.Sub(c.Position()).Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := right.Cross(forward)

	speed := c.Distance * c.PanSensitivity
	c.Target = c.Target.
		Add(right.Mul(-deltaX * speed)).
		Add(up.Mul(deltaY * speed))
}

// FitToBounds centres the target on the box and backs off far enough to
// see all of it, widening the distance limits when needed.
func (c *OrbitCamera) FitToBounds(b scene.Box3) {
	if b.IsEmpty() {
		return
	}
	c.Target = b.Center()
	radius := b.Size().Len() / 2
	dist := radius / math32.Tan(mgl32.DegToRad(c.FOV)/2)
	if dist > c.MaxDistance {
		c.MaxDistance = dist
	}
	c.Distance = dist
	c.clamp()
}

func (c *OrbitCamera) clamp() {
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
	c.Pitch = mgl32.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}
