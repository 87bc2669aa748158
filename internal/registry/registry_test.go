package registry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/scene"
)

type pane struct {
	name string
	pos  mgl32.Vec3
}

func model(panes ...pane) *scene.Node {
	root := scene.NewNode("car")
	body := scene.NewMeshNode("body", scene.Box(6, 2, 12, scene.NewMaterial("paint")))
	root.Add(body)
	for _, p := range panes {
		n := scene.NewMeshNode(p.name, scene.Plane(1, 0.5, scene.NewMaterial("paint")))
		n.Translation = p.pos
		root.Add(n)
	}
	return root
}

var sixPanes = []pane{
	{"glass_a", mgl32.Vec3{0, 0, 5}},
	{"glass_b", mgl32.Vec3{0, 0, -5}},
	{"glass_c", mgl32.Vec3{-3, 0, 2}},
	{"glass_d", mgl32.Vec3{3, 0, 2}},
	{"glass_e", mgl32.Vec3{-3, 0, -2}},
	{"glass_f", mgl32.Vec3{3, 0, -2}},
}

type fakeDevice struct {
	live map[*scene.Mesh]bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{live: map[*scene.Mesh]bool{}}
}

func (d *fakeDevice) Upload(m *scene.Mesh) error {
	m.GPU = &scene.Buffers{VAO: 1}
	d.live[m] = true
	return nil
}

func (d *fakeDevice) Release(m *scene.Mesh) {
	delete(d.live, m)
	m.GPU = nil
}

func assertUniqueMapping(t *testing.T, entries []Entry) {
	t.Helper()
	assert.LessOrEqual(t, len(entries), 6)
	keys := map[glass.Key]bool{}
	for _, e := range entries {
		assert.False(t, keys[e.Key], "key %s mapped twice", e.Key)
		keys[e.Key] = true
		require.NotNil(t, e.Surface)
	}
}

func TestRebuildRealPanes(t *testing.T) {
	r := New(Options{})
	root := model(sixPanes...)

	report := r.Rebuild(root)

	assert.Len(t, report.Matches, 6)
	assert.Empty(t, report.Proxies)
	assert.Equal(t, glass.Keys[:], report.Mapped)

	entries := r.Mapped()
	require.Len(t, entries, 6)
	assertUniqueMapping(t, entries)

	want := map[glass.Key]string{
		glass.Windshield: "glass_a",
		glass.Rear:       "glass_b",
		glass.LeftFront:  "glass_c",
		glass.RightFront: "glass_d",
		glass.LeftRear:   "glass_e",
		glass.RightRear:  "glass_f",
	}
	for k, label := range want {
		s, ok := r.Lookup(k)
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, label, s.Label)
		assert.Equal(t, string(k), s.Node.Name)
		assert.False(t, s.Synthesized)
		assert.True(t, s.Node.Mesh.Material.IsTransparent())
	}

	body := root.Find("body")
	require.NotNil(t, body)
	assert.False(t, body.Mesh.Material.IsTransparent())
}

func TestRebuildPartialPool(t *testing.T) {
	r := New(Options{})
	r.Rebuild(model(sixPanes[:4]...))

	entries := r.Mapped()
	assertUniqueMapping(t, entries)
	assert.Len(t, entries, 4)

	_, ok := r.Lookup(glass.LeftRear)
	assert.False(t, ok)
	_, ok = r.Lookup(glass.RightRear)
	assert.False(t, ok)
}

func TestRebuildFallsBackToProxies(t *testing.T) {
	for n := 0; n < glass.MinRealPanes; n++ {
		r := New(Options{})
		root := model(sixPanes[:n]...)

		report := r.Rebuild(root)

		assert.Len(t, report.Matches, n)
		assert.Equal(t, glass.Keys[:], report.Proxies)

		entries := r.Mapped()
		require.Len(t, entries, 6)
		for i, e := range entries {
			assert.Equal(t, glass.Keys[i], e.Key)
			assert.True(t, e.Surface.Synthesized)
			assert.Equal(t, e.Key, e.Surface.ProxyKey)
			assert.Same(t, root, e.Surface.Node.Parent())
		}
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		panes []pane
	}{
		{"real panes", sixPanes},
		{"proxy panes", sixPanes[:1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			r := New(Options{Device: dev})
			root := model(tt.panes...)

			r.Rebuild(root)
			require.NoError(t, scene.UploadAll(root, dev))
			first := map[glass.Key]mgl32.Vec3{}
			for _, e := range r.Mapped() {
				first[e.Key] = e.Surface.Position
			}
			meshCount := len(root.Meshes())

			r.Rebuild(root)
			second := map[glass.Key]mgl32.Vec3{}
			for _, e := range r.Mapped() {
				second[e.Key] = e.Surface.Position
			}

			assert.Equal(t, first, second)
			assert.Len(t, root.Meshes(), meshCount, "proxies must not accumulate")
			assert.Equal(t, uint64(2), r.Generation())
		})
	}
}

func TestRebuildReleasesStaleProxies(t *testing.T) {
	dev := newFakeDevice()
	r := New(Options{Device: dev})
	root := model()

	r.Rebuild(root)
	require.NoError(t, scene.UploadAll(root, dev))
	old, ok := r.Lookup(glass.Windshield)
	require.True(t, ok)
	require.NotNil(t, old.Node.Mesh.GPU)

	r.Rebuild(root)

	assert.Nil(t, old.Node.Mesh.GPU)
	assert.False(t, dev.live[old.Node.Mesh])
	assert.True(t, old.Node.Mesh.Material.Released())
	assert.Nil(t, old.Node.Parent())

	current, _ := r.Lookup(glass.Windshield)
	assert.NotSame(t, old, current)
}

func TestSingleCandidateHoldsBothEnds(t *testing.T) {
	r := New(Options{MinRealPanes: 1})
	r.Rebuild(model(pane{"glass", mgl32.Vec3{0, 0, 5}}))

	ws, ok := r.Lookup(glass.Windshield)
	require.True(t, ok)
	rear, ok := r.Lookup(glass.Rear)
	require.True(t, ok)
	assert.Same(t, ws, rear)
	assert.Len(t, r.Mapped(), 2)
	assert.Len(t, r.Surfaces(), 1)
}

func TestRebuildNilRootClears(t *testing.T) {
	r := New(Options{})
	r.Rebuild(model(sixPanes...))
	require.Len(t, r.Mapped(), 6)

	r.Rebuild(nil)
	assert.Empty(t, r.Mapped())

	r.Reset()
	assert.Equal(t, uint64(3), r.Generation())
}

func TestMappingSnapshotIsStable(t *testing.T) {
	r := New(Options{})
	r.Rebuild(model(sixPanes...))
	snap := r.Mapping()

	r.Rebuild(model())

	// the old snapshot still reads the first model only
	s, ok := snap.Lookup(glass.Windshield)
	require.True(t, ok)
	assert.False(t, s.Synthesized)
	cur, _ := r.Lookup(glass.Windshield)
	assert.True(t, cur.Synthesized)
	assert.Equal(t, uint64(1), snap.Generation())
}
