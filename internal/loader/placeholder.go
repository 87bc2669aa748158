package loader

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/scene"
)

type placeholderPane struct {
	name          string
	width, height float32
	pos           mgl32.Vec3
	axis          mgl32.Vec3
	angle         float32
}

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
)

var placeholderPanes = []placeholderPane{
	{"windshield", 1.9, 0.7, mgl32.Vec3{0.2, 1.3, 0.86}, axisX, -math32.Pi / 9},
	{"lf", 0.9, 0.6, mgl32.Vec3{-1.95, 1.15, 0.3}, axisY, math32.Pi / 2},
	{"rf", 0.9, 0.6, mgl32.Vec3{1.95, 1.15, 0.3}, axisY, -math32.Pi / 2},
	{"lr", 0.9, 0.6, mgl32.Vec3{-1.95, 1.15, -0.3}, axisY, math32.Pi / 2},
	{"rr", 0.9, 0.6, mgl32.Vec3{1.95, 1.15, -0.3}, axisY, -math32.Pi / 2},
	{"rear", 1.6, 0.6, mgl32.Vec3{-0.2, 1.2, -0.86}, axisX, math32.Pi / 10},
}

// Placeholder builds the stand-in car shown when no model is available: a
// grey body box and six glass panes already named by role.
func Placeholder() *scene.Node {
	car := scene.NewNode("placeholder")

	paint := scene.NewMaterial("body")
	paint.BaseColor = mgl32.Vec4{0x6b / 255.0, 0x72 / 255.0, 0x80 / 255.0, 1}
	paint.Roughness = 0.6
	paint.Metalness = 0.2
	body := scene.NewMeshNode("body", scene.Box(3.8, 1.2, 1.7, paint))
	body.Translation = mgl32.Vec3{0, 1, 0}
	car.Add(body)

	base := scene.NewGlassMaterial()
	for _, p := range placeholderPanes {
		n := scene.NewMeshNode(p.name, scene.Plane(p.width, p.height, base.Clone()))
		n.Translation = p.pos
		n.Rotation = mgl32.QuatRotate(p.angle, p.axis)
		car.Add(n)
	}
	return car
}
