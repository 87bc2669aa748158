// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/tintview/internal/scene"
)

// BoxVertexCount is the number of line vertices per box (12 edges x 2).
const BoxVertexCount = 24

// DefaultBoxPadding keeps pane boxes visible around flat panes.
const DefaultBoxPadding = 0.01

// BoxLines returns line vertices for a wireframe box, [x, y, z] per vertex.
// The box is grown by padding on every side. Empty boxes yield nil.
func BoxLines(b scene.Box3, padding float32) []float32 {
	if b.IsEmpty() {
		return nil
	}
	minX, minY, minZ := b.Min[0]-padding, b.Min[1]-padding, b.Min[2]-padding
	maxX, maxY, maxZ := b.Max[0]+padding, b.Max[1]+padding, b.Max[2]+padding

	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoxesLines concatenates the wireframes of several boxes.
func BoxesLines(boxes []scene.Box3, padding float32) []float32 {
	out := make([]float32, 0, len(boxes)*BoxVertexCount*3)
	for _, b := range boxes {
		out = append(out, BoxLines(b, padding)...)
	}
	return out
}
