// Package viewer ties model loading, pane mapping, tinting and selection
// together behind one application context.
//
// Loads run on goroutines. Their results are applied only from Poll or
// Wait, on the caller's thread, so the registry, the scene and the tint
// state are never touched concurrently.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/loader"
	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/registry"
	"github.com/Faultbox/tintview/internal/scene"
	"github.com/Faultbox/tintview/internal/tint"
)

// ErrLoadPanic wraps a panic raised while loading a model.
var ErrLoadPanic = errors.New("model load panicked")

// Ready describes a model that has been mapped and tinted.
type Ready struct {
	Generation uint64
	Source     Source
	Report     registry.Report
	// Err is the load error when the placeholder was used instead.
	Err error
}

// Fallback reports whether the placeholder replaced a failed load.
func (r Ready) Fallback() bool { return r.Err != nil }

// Options configures a Context.
type Options struct {
	// Device uploads meshes. Nil keeps everything on the CPU.
	Device scene.Device
	// Registry configures detection and classification.
	Registry registry.Options
	// State is the initial tint state. The zero value means tint.Default.
	State *tint.State
	// Load defaults to DefaultLoad.
	Load LoadFunc
}

type result struct {
	gen  uint64
	src  Source
	root *scene.Node
	err  error
}

// Context is the application state of one viewer.
type Context struct {
	device    scene.Device
	registry  *registry.Registry
	load      LoadFunc
	state     tint.State
	selection Selection
	model     *scene.Node
	hooks     []func(Ready)

	latest   atomic.Uint64
	applied  uint64
	inflight int

	results chan result
	reloads chan Source
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a context with no model. Call Request to load one.
func New(opts Options) *Context {
	regOpts := opts.Registry
	if regOpts.Device == nil {
		regOpts.Device = opts.Device
	}
	state := tint.Default()
	if opts.State != nil {
		state = opts.State.Clone()
	}
	load := opts.Load
	if load == nil {
		load = DefaultLoad
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Context{
		device:   opts.Device,
		registry: registry.New(regOpts),
		load:     load,
		state:    state,
		results:  make(chan result, 8),
		reloads:  make(chan Source, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnReady registers fn to run after each model is mapped, uploaded and
// tinted.
func (c *Context) OnReady(fn func(Ready)) {
	c.hooks = append(c.hooks, fn)
}

// Request starts loading src and returns its generation. Only the most
// recent request is ever applied; earlier ones are discarded when they
// resolve, whatever order they finish in.
func (c *Context) Request(src Source) uint64 {
	gen := c.latest.Add(1)
	c.inflight++
	logger.Info("loading model", zap.Uint64("generation", gen), zap.Stringer("source", src))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		root, err := c.run(src)
		if err == nil && root == nil {
			err = loader.ErrNoScene
		}
		if err != nil {
			root = loader.Placeholder()
		}
		select {
		case c.results <- result{gen: gen, src: src, root: root, err: err}:
		case <-c.ctx.Done():
			scene.Dispose(root, nil)
		}
	}()
	return gen
}

// run calls the load function, turning a panic into an error so the
// placeholder is shown instead.
func (c *Context) run(src Source) (root *scene.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("model load panicked", zap.Stringer("source", src), zap.Any("panic", r))
			root, err = nil, fmt.Errorf("%w: %v", ErrLoadPanic, r)
		}
	}()
	return c.load(c.ctx, src)
}

// Poll applies every finished load and pending reload without blocking.
// It returns the number of results handled.
func (c *Context) Poll() int {
	n := 0
	for {
		select {
		case src := <-c.reloads:
			c.Request(src)
		case r := <-c.results:
			c.handle(r)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every requested load has been applied or discarded.
func (c *Context) Wait(ctx context.Context) error {
	for c.inflight > 0 {
		select {
		case r := <-c.results:
			c.handle(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pending returns the number of loads not yet handled.
func (c *Context) Pending() int {
	return c.inflight
}

func (c *Context) handle(r result) {
	c.inflight--
	if r.gen != c.latest.Load() {
		logger.Debug("discarding stale load",
			zap.Uint64("generation", r.gen),
			zap.Uint64("latest", c.latest.Load()),
		)
		scene.Dispose(r.root, c.device)
		return
	}
	if r.err != nil {
		logger.Warn("model load failed, using placeholder",
			zap.Stringer("source", r.src),
			zap.Error(r.err),
		)
	}
	c.replace(r)
}

// replace swaps in a new model. The displaced model's GPU buffers are
// released before anything reads the new mapping.
func (c *Context) replace(r result) {
	if c.model != nil {
		scene.Dispose(c.model, c.device)
	}
	c.model = r.root

	report := c.registry.Rebuild(r.root)
	if err := scene.UploadAll(r.root, c.device); err != nil {
		logger.Error("uploading model", zap.Error(err))
	}
	tint.ApplyAll(c.registry, c.state)
	c.selection.Retain(func(k glass.Key) bool {
		_, ok := c.registry.Lookup(k)
		return ok
	})
	c.applied = r.gen

	ready := Ready{Generation: r.gen, Source: r.src, Report: report, Err: r.err}
	for _, fn := range c.hooks {
		fn(ready)
	}
}

// Model returns the model currently shown, or nil before the first load.
func (c *Context) Model() *scene.Node {
	return c.model
}

// Registry returns the pane mapping of the current model.
func (c *Context) Registry() *registry.Registry {
	return c.registry
}

// Generation returns the generation of the model currently shown.
func (c *Context) Generation() uint64 {
	return c.applied
}

// Selection returns the selected window roles.
func (c *Context) Selection() *Selection {
	return &c.selection
}

// State returns a copy of the tint state.
func (c *Context) State() tint.State {
	return c.state.Clone()
}

// Update mutates the tint state and reapplies it to every mapped pane.
func (c *Context) Update(fn func(s *tint.State)) {
	fn(&c.state)
	tint.ApplyAll(c.registry, c.state)
}

// ApplyToSelected sets the selected windows to shade.
func (c *Context) ApplyToSelected(shade int) {
	keys := c.selection.Keys()
	c.Update(func(s *tint.State) { s.ApplyToSelected(keys, shade) })
}

// ApplyToAll sets every window to shade.
func (c *Context) ApplyToAll(shade int) {
	c.Update(func(s *tint.State) { s.ApplyToAll(shade) })
}

// Close stops pending loads and releases the current model.
func (c *Context) Close() {
	c.cancel()
	c.wg.Wait()
	for len(c.results) > 0 {
		r := <-c.results
		scene.Dispose(r.root, nil)
	}
	c.inflight = 0
	if c.model != nil {
		scene.Dispose(c.model, c.device)
		c.model = nil
	}
	c.registry.Reset()
}
