// Package registry owns the mapping from canonical window roles to the
// panes of the currently loaded model.
package registry

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/scene"
)

// Entry is one mapped role.
type Entry struct {
	Key     glass.Key
	Surface *glass.Surface
}

// Mapping is an immutable snapshot of the six role slots.
type Mapping struct {
	slots      [len(glass.Keys)]*glass.Surface
	generation uint64
}

// Lookup returns the surface mapped to k.
func (m *Mapping) Lookup(k glass.Key) (*glass.Surface, bool) {
	i := k.Index()
	if m == nil || i < 0 || m.slots[i] == nil {
		return nil, false
	}
	return m.slots[i], true
}

// Entries returns the mapped roles in slot order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, len(m.slots))
	for i, s := range m.slots {
		if s != nil {
			out = append(out, Entry{Key: glass.Keys[i], Surface: s})
		}
	}
	return out
}

// Generation returns the rebuild count that produced this mapping.
func (m *Mapping) Generation() uint64 {
	if m == nil {
		return 0
	}
	return m.generation
}

// Report describes one rebuild.
type Report struct {
	Generation uint64
	Matches    []glass.Match
	Proxies    []glass.Key
	Mapped     []glass.Key
}

// Options configures a Registry. Zero values select the defaults.
type Options struct {
	Detector     *glass.Detector
	Classifier   *glass.Classifier
	MinRealPanes int
	// Device releases proxy panes left over from a previous rebuild of the
	// same model.
	Device scene.Device
}

// Registry runs detection, synthesis and classification for a model and
// publishes the resulting mapping as a single unit.
type Registry struct {
	detector     *glass.Detector
	classifier   *glass.Classifier
	minRealPanes int
	device       scene.Device

	mapping atomic.Pointer[Mapping]
	builds  uint64
}

// New creates an empty registry.
func New(opts Options) *Registry {
	r := &Registry{
		detector:     opts.Detector,
		classifier:   opts.Classifier,
		minRealPanes: opts.MinRealPanes,
		device:       opts.Device,
	}
	if r.detector == nil {
		r.detector = glass.NewDetector()
	}
	if r.classifier == nil {
		r.classifier = glass.NewClassifier(glass.DefaultAxes)
	}
	if r.minRealPanes <= 0 {
		r.minRealPanes = glass.MinRealPanes
	}
	r.mapping.Store(&Mapping{})
	return r
}

// Rebuild identifies the panes of root and replaces the mapping. It mutates
// the scene: detected panes get the standard glass material, proxy panes
// are attached to root when needed, and mapped nodes are renamed to their
// role. A nil root clears the mapping.
func (r *Registry) Rebuild(root *scene.Node) Report {
	r.builds++
	report := Report{Generation: r.builds}

	if root == nil {
		r.mapping.Store(&Mapping{generation: r.builds})
		return report
	}

	r.stripProxies(root)

	matches := r.detector.Detect(root)
	glass.CommitMaterials(matches)
	report.Matches = matches

	var pool []*glass.Surface
	if len(matches) < r.minRealPanes {
		bounds := root.SubtreeBounds().Transform(root.WorldMatrix().Inv())
		proxies := glass.Synthesize(bounds, r.classifier.Axes)
		root.Add(proxies...)
		for _, n := range proxies {
			pool = append(pool, glass.NewSurface(n))
		}
	} else {
		pool = glass.Surfaces(matches)
	}

	assigned := glass.Commit(pool, r.classifier.Classify(glass.Candidates(pool)))

	next := &Mapping{generation: r.builds}
	for i, k := range glass.Keys {
		if s, ok := assigned[k]; ok {
			next.slots[i] = s
			report.Mapped = append(report.Mapped, k)
			if s.Synthesized {
				report.Proxies = append(report.Proxies, k)
			}
		}
	}
	r.mapping.Store(next)

	logger.Debug("glass detected",
		zap.Uint64("generation", r.builds),
		zap.Int("matches", len(matches)),
		zap.Int("pool", len(pool)),
	)
	if len(report.Proxies) > 0 {
		logger.Info("proxy panes used", zap.Stringers("keys", report.Proxies))
	}
	if len(report.Mapped) < len(glass.Keys) {
		logger.Warn("incomplete window mapping",
			zap.Int("mapped", len(report.Mapped)),
			zap.Stringers("keys", report.Mapped),
		)
	}
	return report
}

// stripProxies removes proxy panes attached by an earlier rebuild so a
// repeated rebuild of the same model starts from the asset's own meshes.
func (r *Registry) stripProxies(root *scene.Node) {
	var stale []*scene.Node
	root.Traverse(func(n *scene.Node) bool {
		if n.Mesh != nil && n.Mesh.Proxy {
			stale = append(stale, n)
		}
		return true
	})
	for _, n := range stale {
		if p := n.Parent(); p != nil {
			p.Remove(n)
		}
		scene.Dispose(n, r.device)
	}
}

// Mapping returns the current snapshot. Callers must fetch it again after
// every rebuild instead of holding on to surfaces.
func (r *Registry) Mapping() *Mapping {
	return r.mapping.Load()
}

// Lookup returns the surface currently mapped to k.
func (r *Registry) Lookup(k glass.Key) (*glass.Surface, bool) {
	return r.Mapping().Lookup(k)
}

// Mapped returns the current entries in slot order.
func (r *Registry) Mapped() []Entry {
	return r.Mapping().Entries()
}

// Surfaces returns each mapped surface once, in slot order of its first
// role.
func (r *Registry) Surfaces() []*glass.Surface {
	var out []*glass.Surface
	seen := map[*glass.Surface]bool{}
	for _, e := range r.Mapped() {
		if !seen[e.Surface] {
			seen[e.Surface] = true
			out = append(out, e.Surface)
		}
	}
	return out
}

// Generation returns the number of rebuilds so far.
func (r *Registry) Generation() uint64 {
	return r.Mapping().Generation()
}

// Reset clears the mapping without touching any scene.
func (r *Registry) Reset() {
	r.builds++
	r.mapping.Store(&Mapping{generation: r.builds})
}
