package glass

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/scene"
)

// MinRealPanes is the detected-glass count below which proxy panes replace
// the candidate pool.
const MinRealPanes = 3

// Proxy pane sizing relative to the model bounding box.
const (
	basisWidth  = 0.9
	basisHeight = 0.55
	basisDepth  = 0.9

	windshieldW, windshieldH = 0.45, 0.5
	rearW, rearH             = 0.42, 0.45
	sideW, sideH             = 0.35, 0.45

	// paneLift raises panes above the box centre, as a fraction of height.
	paneLift = 0.2
	// sideOffset moves side panes fore and aft, as a fraction of depth.
	sideOffset = 0.15
)

// Synthesize builds six planar proxy panes around bounds using the given
// axes, one per canonical role. Each node's mesh is tagged as a proxy with
// its intended role, so classification passes them through unchanged.
// The nodes are returned in key order and are not attached to any parent.
func Synthesize(bounds scene.Box3, axes Axes) []*scene.Node {
	if bounds.IsEmpty() {
		bounds = scene.Box3{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	}
	center := bounds.Center()
	size := bounds.Size()
	up := axes.up()

	width := size[axes.Lateral] * basisWidth
	height := size[up] * basisHeight
	depth := size[axes.Depth] * basisDepth

	place := func(lateral, depthOff float32) mgl32.Vec3 {
		var p mgl32.Vec3
		p[axes.Lateral] = center[axes.Lateral] + lateral
		p[axes.Depth] = center[axes.Depth] + depthOff
		p[up] = center[up] + size[up]*paneLift
		return p
	}

	depthDir := axisVector(axes.Depth)
	lateralDir := axisVector(axes.Lateral)
	upDir := axisVector(up)

	type pane struct {
		key    Key
		w, h   float32
		pos    mgl32.Vec3
		normal mgl32.Vec3
	}
	panes := []pane{
		{Windshield, width * windshieldW, height * windshieldH, place(0, depth/2), depthDir},
		{LeftFront, depth * sideW, height * sideH, place(-width/2, depth*sideOffset), lateralDir.Mul(-1)},
		{RightFront, depth * sideW, height * sideH, place(width/2, depth*sideOffset), lateralDir},
		{LeftRear, depth * sideW, height * sideH, place(-width/2, -depth*sideOffset), lateralDir.Mul(-1)},
		{RightRear, depth * sideW, height * sideH, place(width/2, -depth*sideOffset), lateralDir},
		{Rear, width * rearW, height * rearH, place(0, -depth/2), depthDir.Mul(-1)},
	}

	out := make([]*scene.Node, 0, len(panes))
	for _, p := range panes {
		mesh := scene.Plane(p.w, p.h, scene.NewGlassMaterial())
		mesh.Proxy = true
		mesh.ProxyKey = string(p.key)

		n := scene.NewMeshNode("proxy_"+string(p.key), mesh)
		n.Translation = p.pos
		n.Rotation = facing(p.normal, upDir)
		out = append(out, n)
	}
	return out
}

// facing returns the rotation that turns the plane's +Z normal toward
// normal while keeping its +Y edge along up.
func facing(normal, up mgl32.Vec3) mgl32.Quat {
	right := up.Cross(normal).Normalize()
	trueUp := normal.Cross(right)
	m := mgl32.Mat3FromCols(right, trueUp, normal)
	return mgl32.Mat4ToQuat(m.Mat4())
}

func axisVector(axis int) mgl32.Vec3 {
	var v mgl32.Vec3
	v[axis] = 1
	return v
}
