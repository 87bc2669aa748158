package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/tintview/internal/scene"
)

func TestIntersectBox(t *testing.T) {
	unit := scene.Box3{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	flat := scene.Box3{Min: mgl32.Vec3{2, -1, -1}, Max: mgl32.Vec3{2, 1, 1}}

	tests := []struct {
		name string
		ray  Ray
		box  scene.Box3
		hit  bool
		t    float32
	}{
		{"hit from front", NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}), unit, true, 4},
		{"miss beside", NewRay(mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}), unit, false, 0},
		{"behind origin", NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}), unit, false, 0},
		{"inside returns exit", NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}), unit, true, 1},
		{"flat pane", NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}), flat, true, 2},
		{"parallel outside slab", NewRay(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}), unit, false, 0},
		{"empty box", NewRay(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}), scene.EmptyBox(), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBox(tt.box)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.t, got, 1e-5)
			}
		})
	}
}

func TestScreenToRay(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(50), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(400, 400, 800, 800, inv)
	assert.InDelta(t, 0, r.Direction.X(), 1e-4)
	assert.InDelta(t, 0, r.Direction.Y(), 1e-4)
	assert.InDelta(t, -1, r.Direction.Z(), 1e-4)
	assert.InDelta(t, 4.9, r.Origin.Z(), 1e-3)

	left := ScreenToRay(0, 400, 800, 800, inv)
	assert.Less(t, left.Direction.X(), float32(0))

	top := ScreenToRay(400, 0, 800, 800, inv)
	assert.Greater(t, top.Direction.Y(), float32(0))
}

func TestRayAt(t *testing.T) {
	r := NewRay(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 2, 0})
	assert.Equal(t, mgl32.Vec3{1, 3, 0}, r.At(3))
}
