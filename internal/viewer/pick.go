package viewer

import (
	"github.com/Faultbox/tintview/internal/engine/picking"
	"github.com/Faultbox/tintview/internal/glass"
)

// Hit is the result of a successful pick.
type Hit struct {
	Key      glass.Key
	Surface  *glass.Surface
	Distance float32
}

// Pick returns the nearest mapped pane along ray. Bounds are measured at
// call time so picking follows any transform changes since the rebuild.
func (c *Context) Pick(ray picking.Ray) (Hit, bool) {
	var best Hit
	found := false
	for _, e := range c.registry.Mapped() {
		if e.Surface == nil || e.Surface.Node == nil {
			continue
		}
		t, ok := ray.IntersectBox(e.Surface.Node.WorldBounds())
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Key: e.Key, Surface: e.Surface, Distance: t}
			found = true
		}
	}
	return best, found
}

// Click picks along ray and updates the selection the way a pointer click
// does. It returns the hit, if any.
func (c *Context) Click(ray picking.Ray, shift bool) (Hit, bool) {
	hit, ok := c.Pick(ray)
	c.selection.Click(hit.Key, ok, shift)
	return hit, ok
}
