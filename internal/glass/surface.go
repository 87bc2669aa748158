package glass

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/tintview/internal/scene"
)

// Surface is one window pane, either detected on the model or synthesized.
type Surface struct {
	Node *scene.Node

	// Label is the source asset name, kept after the node is renamed.
	Label string

	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Bounds      scene.Box3
	// Area is the pane footprint in square world units, reported by
	// diagnostics. Classification works from Position alone.
	Area float32

	Synthesized bool
	ProxyKey    Key

	// Transparent records whether the source material looked transparent
	// before the glass material was applied.
	Transparent bool
}

// NewSurface measures node in world space. Position is the centre of the
// world bounding box, or the node origin when the node has no geometry.
func NewSurface(node *scene.Node) *Surface {
	s := &Surface{
		Node:        node,
		Label:       node.Name,
		Orientation: node.WorldRotation(),
	}
	s.Bounds = node.WorldBounds()
	if s.Bounds.IsEmpty() {
		s.Position = node.WorldPosition()
	} else {
		s.Position = s.Bounds.Center()
	}
	s.Area = footprint(s.Bounds)
	if m := node.Mesh; m != nil {
		s.Synthesized = m.Proxy
		if k := Key(m.ProxyKey); k.Valid() {
			s.ProxyKey = k
		}
		if m.Material != nil {
			s.Transparent = m.Material.IsTransparent()
		}
	}
	return s
}

// footprint is the product of the two largest box extents, the area of a
// near-planar pane regardless of which way it faces.
func footprint(b scene.Box3) float32 {
	size := b.Size()
	ext := []float32{size[0], size[1], size[2]}
	sort.Slice(ext, func(i, j int) bool { return ext[i] > ext[j] })
	return ext[0] * ext[1]
}
