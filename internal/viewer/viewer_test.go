package viewer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tintview/internal/engine/picking"
	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/loader"
	"github.com/Faultbox/tintview/internal/scene"
	"github.com/Faultbox/tintview/internal/tint"
)

type fakeDevice struct {
	mu   sync.Mutex
	live map[*scene.Mesh]bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{live: map[*scene.Mesh]bool{}}
}

func (d *fakeDevice) Upload(m *scene.Mesh) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	m.GPU = &scene.Buffers{VAO: uint32(len(d.live) + 1)}
	d.live[m] = true
	return nil
}

func (d *fakeDevice) Release(m *scene.Mesh) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.live, m)
	m.GPU = nil
}

func (d *fakeDevice) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

func named(root *scene.Node, name string) *scene.Node {
	root.Name = name
	return root
}

func bodyOnly(name string) *scene.Node {
	root := scene.NewNode(name)
	root.Add(scene.NewMeshNode("body", scene.Box(4, 1.2, 1.8, scene.NewMaterial("paint"))))
	return root
}

func rootOf(n *scene.Node) *scene.Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// pollUntil polls on the test goroutine until cond holds.
func pollUntil(t *testing.T, c *Context, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		c.Poll()
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestRequestPlaceholder(t *testing.T) {
	dev := newFakeDevice()
	c := New(Options{Device: dev})
	defer c.Close()

	var got []Ready
	c.OnReady(func(r Ready) {
		// the mapping is complete before ready fires
		_, ok := c.Registry().Lookup(glass.Windshield)
		assert.True(t, ok)
		got = append(got, r)
	})

	gen := c.Request(Source{})
	require.NoError(t, c.Wait(waitCtx(t)))

	require.Len(t, got, 1)
	assert.Equal(t, gen, got[0].Generation)
	assert.False(t, got[0].Fallback())
	assert.Len(t, c.Registry().Mapped(), 6)
	assert.Equal(t, len(c.Model().Meshes()), dev.count())
	assert.Equal(t, 0, c.Pending())

	// tints from the default state are already applied
	ws, _ := c.Registry().Lookup(glass.Windshield)
	want := tint.Adjust(0.10, tint.Ceramic)
	assert.InDelta(t, want.AttenuationDistance, ws.Node.Mesh.Material.AttenuationDistance, 1e-5)
}

func TestLoadFailureFallsBackToPlaceholder(t *testing.T) {
	boom := errors.New("network down")
	c := New(Options{Load: func(context.Context, Source) (*scene.Node, error) {
		return nil, boom
	}})
	defer c.Close()

	var ready Ready
	c.OnReady(func(r Ready) { ready = r })

	c.Request(FileSource("car.glb"))
	require.NoError(t, c.Wait(waitCtx(t)))

	assert.True(t, ready.Fallback())
	assert.ErrorIs(t, ready.Err, boom)
	assert.Equal(t, "placeholder", c.Model().Name)
	assert.Len(t, c.Registry().Mapped(), 6)
}

func TestMalformedPayloadFallsBack(t *testing.T) {
	bad := []byte(`{"asset":{"version":"2.0"},"scene":0,"scenes":[{"nodes":[0]}],` +
		`"nodes":[{"mesh":0}],"meshes":[{"primitives":[{"attributes":{"POSITION":7}}]}]}`)
	c := New(Options{})
	defer c.Close()

	var ready Ready
	c.OnReady(func(r Ready) { ready = r })
	c.Request(BytesSource("bad.gltf", bad))
	require.NoError(t, c.Wait(waitCtx(t)))

	assert.ErrorIs(t, ready.Err, loader.ErrBadAccessor)
	assert.Equal(t, "placeholder", c.Model().Name)
	assert.Len(t, c.Registry().Mapped(), 6)
}

func TestLoadPanicFallsBack(t *testing.T) {
	c := New(Options{Load: func(context.Context, Source) (*scene.Node, error) {
		panic("decoder bug")
	}})
	defer c.Close()

	var ready Ready
	c.OnReady(func(r Ready) { ready = r })
	c.Request(FileSource("car.glb"))
	require.NoError(t, c.Wait(waitCtx(t)))

	assert.ErrorIs(t, ready.Err, ErrLoadPanic)
	assert.True(t, ready.Fallback())
	assert.Equal(t, "placeholder", c.Model().Name)
}

func TestNilModelFallsBack(t *testing.T) {
	c := New(Options{Load: func(context.Context, Source) (*scene.Node, error) {
		return nil, nil
	}})
	defer c.Close()

	var ready Ready
	c.OnReady(func(r Ready) { ready = r })
	c.Request(FileSource("x"))
	require.NoError(t, c.Wait(waitCtx(t)))

	assert.ErrorIs(t, ready.Err, loader.ErrNoScene)
	assert.NotNil(t, c.Model())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	dev := newFakeDevice()
	releaseA := make(chan struct{})

	var mu sync.Mutex
	roots := map[string]*scene.Node{}
	load := func(ctx context.Context, src Source) (*scene.Node, error) {
		if src.Path == "a" {
			<-releaseA
		}
		root := named(loader.Placeholder(), src.Path)
		mu.Lock()
		roots[src.Path] = root
		mu.Unlock()
		return root, nil
	}

	c := New(Options{Device: dev, Load: load})
	defer c.Close()

	var ready []Ready
	c.OnReady(func(r Ready) { ready = append(ready, r) })

	genA := c.Request(FileSource("a"))
	genB := c.Request(FileSource("b"))
	require.Less(t, genA, genB)

	pollUntil(t, c, func() bool { return c.Generation() == genB })
	assert.Equal(t, "b", c.Model().Name)

	// A resolves after B
	close(releaseA)
	require.NoError(t, c.Wait(waitCtx(t)))

	assert.Equal(t, "b", c.Model().Name)
	assert.Equal(t, genB, c.Generation())
	require.Len(t, ready, 1)
	assert.Equal(t, genB, ready[0].Generation)

	for _, e := range c.Registry().Mapped() {
		assert.Equal(t, "b", rootOf(e.Surface.Node).Name)
	}

	mu.Lock()
	a := roots["a"]
	mu.Unlock()
	require.NotNil(t, a)
	for _, n := range a.Meshes() {
		assert.Nil(t, n.Mesh.GPU)
		assert.True(t, n.Mesh.Material.Released())
	}
	assert.Equal(t, len(c.Model().Meshes()), dev.count())
}

func TestRepeatedLoadsReleaseDisplacedModels(t *testing.T) {
	dev := newFakeDevice()
	models := map[string]func() *scene.Node{
		"one":   func() *scene.Node { return named(loader.Placeholder(), "one") },
		"two":   func() *scene.Node { return bodyOnly("two") },
		"three": func() *scene.Node { return named(loader.Placeholder(), "three") },
	}
	c := New(Options{Device: dev, Load: func(_ context.Context, src Source) (*scene.Node, error) {
		return models[src.Path](), nil
	}})
	defer c.Close()

	var displaced []*scene.Node
	var surfaces []*glass.Surface
	for _, name := range []string{"one", "two", "three"} {
		c.Request(FileSource(name))
		require.NoError(t, c.Wait(waitCtx(t)))
		require.Equal(t, name, c.Model().Name)
		require.Len(t, c.Registry().Mapped(), 6)
		if name != "three" {
			displaced = append(displaced, c.Model())
			for _, e := range c.Registry().Mapped() {
				surfaces = append(surfaces, e.Surface)
			}
		}
	}

	current := c.Model()
	for _, e := range c.Registry().Mapped() {
		assert.Same(t, current, rootOf(e.Surface.Node))
		for _, old := range surfaces {
			assert.NotSame(t, old, e.Surface)
		}
	}
	for _, old := range displaced {
		for _, n := range old.Meshes() {
			assert.Nil(t, n.Mesh.GPU, "%s/%s still uploaded", old.Name, n.Name)
			assert.True(t, n.Mesh.Material.Released())
		}
	}
	for _, s := range surfaces {
		assert.Nil(t, s.Node.Mesh.GPU)
	}
	assert.Equal(t, len(current.Meshes()), dev.count())
}

func TestPick(t *testing.T) {
	c := New(Options{})
	defer c.Close()
	c.Request(Source{})
	require.NoError(t, c.Wait(waitCtx(t)))

	tests := []struct {
		name string
		ray  picking.Ray
		key  glass.Key
		hit  bool
	}{
		{"front", picking.NewRay(mgl32.Vec3{0, 1.3, 5}, mgl32.Vec3{0, 0, -1}), glass.Windshield, true},
		{"back", picking.NewRay(mgl32.Vec3{-0.2, 1.2, -5}, mgl32.Vec3{0, 0, 1}), glass.Rear, true},
		{"left front", picking.NewRay(mgl32.Vec3{-5, 1.15, 0.3}, mgl32.Vec3{1, 0, 0}), glass.LeftFront, true},
		{"right rear", picking.NewRay(mgl32.Vec3{5, 1.15, -0.3}, mgl32.Vec3{-1, 0, 0}), glass.RightRear, true},
		{"sky", picking.NewRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 1, 0}), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := c.Pick(tt.ray)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.Equal(t, tt.key, hit.Key)
				assert.Greater(t, hit.Distance, float32(0))
			}
		})
	}
}

func TestClickUpdatesSelection(t *testing.T) {
	c := New(Options{})
	defer c.Close()
	c.Request(Source{})
	require.NoError(t, c.Wait(waitCtx(t)))

	front := picking.NewRay(mgl32.Vec3{0, 1.3, 5}, mgl32.Vec3{0, 0, -1})
	left := picking.NewRay(mgl32.Vec3{-5, 1.15, 0.3}, mgl32.Vec3{1, 0, 0})
	sky := picking.NewRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 1, 0})

	c.Click(front, false)
	c.Click(left, true)
	assert.Equal(t, "Selected: WINDSHIELD, LF", c.Selection().Label())

	c.Click(sky, true)
	assert.Equal(t, 2, c.Selection().Len())

	c.ApplyToSelected(60)
	st := c.State()
	assert.Equal(t, 60, st.Windows[glass.Windshield])
	assert.Equal(t, 60, st.Windows[glass.LeftFront])
	lf, _ := c.Registry().Lookup(glass.LeftFront)
	assert.InDelta(t, tint.Adjust(0.6, tint.Ceramic).AttenuationDistance, lf.Node.Mesh.Material.AttenuationDistance, 1e-5)

	c.Click(sky, false)
	assert.Equal(t, 0, c.Selection().Len())
}

func TestSelectionPrunedOnSwap(t *testing.T) {
	c := New(Options{Load: func(_ context.Context, src Source) (*scene.Node, error) {
		if src.Path == "partial" {
			root := scene.NewNode("partial")
			for i, x := range []float32{0, -3, 3} {
				n := scene.NewMeshNode("glass", scene.Plane(1, 1, scene.NewGlassMaterial()))
				n.Translation = mgl32.Vec3{x, 0, float32(2 - i*2)}
				root.Add(n)
			}
			return root, nil
		}
		return loader.Placeholder(), nil
	}})
	defer c.Close()

	c.Request(Source{})
	require.NoError(t, c.Wait(waitCtx(t)))
	c.Selection().Add(glass.LeftRear)
	c.Selection().Add(glass.Windshield)

	c.Request(FileSource("partial"))
	require.NoError(t, c.Wait(waitCtx(t)))

	_, ok := c.Registry().Lookup(glass.LeftRear)
	require.False(t, ok)
	assert.Equal(t, []glass.Key{glass.Windshield}, c.Selection().Keys())
}

func TestInitialStateIsCopied(t *testing.T) {
	s := tint.Default()
	s.Uniform = true
	s.Shade = 50
	c := New(Options{State: &s})
	defer c.Close()

	s.Shade = 5
	assert.Equal(t, 50, c.State().Shade)

	c.Request(Source{})
	require.NoError(t, c.Wait(waitCtx(t)))
	rear, _ := c.Registry().Lookup(glass.Rear)
	assert.InDelta(t, tint.Adjust(0.5, tint.Ceramic).AttenuationDistance, rear.Node.Mesh.Material.AttenuationDistance, 1e-5)
}

func TestWaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	c := New(Options{Load: func(ctx context.Context, _ Source) (*scene.Node, error) {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil, ctx.Err()
	}})
	defer c.Close()

	c.Request(Source{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, 1, c.Pending())
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "car.glb")
	require.NoError(t, loader.Export(loader.Placeholder(), path))

	c := New(Options{})
	defer c.Close()
	c.Request(FileSource(path))
	require.NoError(t, c.Wait(waitCtx(t)))
	first := c.Generation()

	require.NoError(t, c.Watch(waitCtx(t), path))

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, loader.Export(bodyOnly("updated"), path))

	pollUntil(t, c, func() bool {
		if err := c.Wait(waitCtx(t)); err != nil {
			return false
		}
		return c.Generation() > first && c.Model().Find("updated") != nil
	})
	assert.NotNil(t, c.Model().Find("body"))
}

func TestSelectionClick(t *testing.T) {
	tests := []struct {
		name   string
		start  []glass.Key
		key    glass.Key
		hit    bool
		shift  bool
		expect []glass.Key
	}{
		{"miss clears", []glass.Key{glass.LeftFront}, "", false, false, nil},
		{"shift miss keeps", []glass.Key{glass.LeftFront}, "", false, true, []glass.Key{glass.LeftFront}},
		{"click replaces", []glass.Key{glass.LeftFront, glass.Rear}, glass.RightFront, true, false, []glass.Key{glass.RightFront}},
		{"click same single keeps", []glass.Key{glass.Rear}, glass.Rear, true, false, []glass.Key{glass.Rear}},
		{"shift adds", []glass.Key{glass.Rear}, glass.LeftRear, true, true, []glass.Key{glass.Rear, glass.LeftRear}},
		{"shift toggles off", []glass.Key{glass.Rear, glass.LeftRear}, glass.Rear, true, true, []glass.Key{glass.LeftRear}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			for _, k := range tt.start {
				s.Add(k)
			}
			s.Click(tt.key, tt.hit, tt.shift)
			if len(tt.expect) == 0 {
				assert.Empty(t, s.Keys())
				assert.Equal(t, "Selected: -", s.Label())
				return
			}
			assert.Equal(t, tt.expect, s.Keys())
		})
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "placeholder", Source{}.String())
	assert.True(t, Source{}.IsPlaceholder())
	assert.Equal(t, "car.glb", FileSource("/tmp/models/car.glb").String())
	assert.Equal(t, "upload", BytesSource("upload", []byte{1}).String())
	assert.Equal(t, "<memory>", BytesSource("", []byte{1}).String())
}
