package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/config"
	"github.com/Faultbox/tintview/internal/engine/camera"
	"github.com/Faultbox/tintview/internal/engine/debug"
	"github.com/Faultbox/tintview/internal/engine/input"
	"github.com/Faultbox/tintview/internal/engine/lighting"
	"github.com/Faultbox/tintview/internal/engine/renderer"
	"github.com/Faultbox/tintview/internal/engine/ui"
	"github.com/Faultbox/tintview/internal/engine/window"
	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/logger"
	"github.com/Faultbox/tintview/internal/registry"
	"github.com/Faultbox/tintview/internal/scene"
	"github.com/Faultbox/tintview/internal/tint"
	"github.com/Faultbox/tintview/internal/viewer"
)

// boundsColor draws pane boxes in the debug overlay.
var boundsColor = mgl32.Vec4{1, 0.8, 0.2, 1}

const (
	title     = "TintView"
	shadeStep = ui.ShadeStep
	// Pointer travel in pixels below which a press and release is a click.
	clickSlop  = 4
	panelWidth = 300
)

// app is the interactive viewer. It runs either as a keyboard-driven SDL
// window or as an ImGui front end with the tint panel beside the car.
type app struct {
	cfg    *config.Config
	window *window.Window
	// Panel front end, nil in keyboard mode.
	backend   *ui.Backend
	panel     *ui.Panel
	target    *renderer.Target
	lastMouse imgui.Vec2

	renderer *renderer.Renderer
	device   *renderer.Device
	input    *input.Input
	camera   *camera.OrbitCamera
	viewer   *viewer.Context
	shots    *debug.Screenshots

	ctx    context.Context
	cancel context.CancelFunc
	// opened receives paths picked in the file dialog.
	opened chan string

	running    bool
	view       tint.View
	model      string
	showBounds bool
	capture    bool
	pressX     int
	pressY     int
	dragging   uint8 // Button held since press, zero when none
	moved      bool
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, opened: make(chan string, 1)}

	state, err := tint.Decode(cfg.Tint.State, tint.Default())
	if err != nil {
		logger.Warn("ignoring initial tint state", zap.Error(err))
		state = tint.Default()
	}

	axes, err := glass.ParseAxes(cfg.Glass.DepthAxis, cfg.Glass.LateralAxis)
	if err != nil {
		return nil, fmt.Errorf("glass axes: %w", err)
	}

	if cfg.Window.Panel {
		if err := a.initPanel(); err != nil {
			return nil, err
		}
	} else {
		// Create window (this also creates OpenGL context)
		a.window, err = window.New(title, cfg.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to create window: %w", err)
		}

		// Create renderer (AFTER window, since OpenGL context must exist)
		w, h := a.window.DrawableSize()
		a.renderer, err = renderer.New(w, h)
		if err != nil {
			a.window.Close()
			return nil, fmt.Errorf("failed to create renderer: %w", err)
		}
	}
	a.device = renderer.NewDevice()
	a.input = input.New()
	a.camera = camera.NewOrbitCamera()
	a.shots = debug.NewScreenshots(cfg.Window.ScreenshotDir, "tintview")

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.viewer = viewer.New(viewer.Options{
		Device: a.device,
		Registry: registry.Options{
			Detector:     glass.NewDetector(cfg.Glass.Keywords...),
			Classifier:   glass.NewClassifier(axes),
			MinRealPanes: cfg.Glass.MinRealPanes,
		},
		State: &state,
		Load:  a.load,
	})
	a.viewer.OnReady(a.onReady)

	a.view = state.View
	a.camera.Apply(camera.PresetFor(a.view))

	src := viewer.Source{}
	if cfg.Model.Path != "" {
		src = viewer.FileSource(cfg.Model.Path)
	}
	a.viewer.Request(src)

	if cfg.Model.Watch && cfg.Model.Path != "" {
		if err := a.viewer.Watch(a.ctx, cfg.Model.Path); err != nil {
			logger.Warn("file watch disabled", zap.Error(err))
		}
	}

	logger.Info("viewer initialized successfully")
	return a, nil
}

// initPanel creates the ImGui window and the offscreen target the car is
// drawn into.
func (a *app) initPanel() error {
	var err error
	a.backend, err = ui.NewBackend(title, a.cfg.Window.Width, a.cfg.Window.Height)
	if err != nil {
		return fmt.Errorf("failed to create panel window: %w", err)
	}

	w, h := a.cfg.Window.Width-panelWidth, a.cfg.Window.Height
	a.renderer, err = renderer.New(w, h)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	a.target, err = renderer.NewTarget(w, h)
	if err != nil {
		return fmt.Errorf("failed to create render target: %w", err)
	}
	a.panel = ui.NewPanel()
	return nil
}

// load bounds each model load by the configured timeout.
func (a *app) load(ctx context.Context, src viewer.Source) (*scene.Node, error) {
	if a.cfg.Model.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Model.LoadTimeout)
		defer cancel()
	}
	return viewer.DefaultLoad(ctx, src)
}

func (a *app) onReady(r viewer.Ready) {
	if r.Fallback() {
		logger.Warn("model failed to load, showing placeholder",
			zap.Stringer("source", r.Source),
			zap.Error(r.Err),
		)
	}
	logger.Info("model ready",
		zap.Uint64("generation", r.Generation),
		zap.Stringer("source", r.Source),
		zap.Int("detected", len(r.Report.Matches)),
		zap.Int("proxies", len(r.Report.Proxies)),
		zap.Int("mapped", len(r.Report.Mapped)),
	)
	a.model = r.Source.String()
	if r.Fallback() {
		a.model += " (placeholder)"
	}
	a.refresh()
}

// Run starts the main loop.
func (a *app) Run() error {
	a.running = true
	if a.backend != nil {
		logger.Info("starting panel loop")
		a.refresh()
		a.backend.Run(a.panelFrame)
		return nil
	}

	var frameBudget time.Duration
	if limit := a.window.FPSLimit(); limit > 0 {
		frameBudget = time.Second / time.Duration(limit)
	}

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")
	a.refresh()

	for a.running {
		frameStart := time.Now()

		if a.input.Update() {
			a.running = false
			break
		}
		for _, e := range a.input.Events() {
			a.handle(e)
		}
		a.poll()
		a.render()
		a.window.SwapBuffers()

		if frameBudget > 0 {
			if spent := time.Since(frameStart); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// poll picks up dialog results and finished loads.
func (a *app) poll() {
	select {
	case path := <-a.opened:
		logger.Info("loading model", zap.String("path", path))
		a.viewer.Request(viewer.FileSource(path))
	default:
	}
	a.viewer.Poll()
	a.syncView()
}

// panelFrame lays out the tint panel and the viewport for one ImGui frame.
func (a *app) panelFrame() {
	a.poll()

	x, y, w, h := ui.Viewport()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	var actions []ui.Action
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, h))
	if imgui.BeginV("Tint", nil, flags) {
		actions = a.panel.Draw(a.snapshot())
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(x+panelWidth, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w-panelWidth, h))
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	viewFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse
	if imgui.BeginV("Viewport", nil, viewFlags) {
		a.drawViewport()
	}
	imgui.End()
	imgui.PopStyleVar()

	a.perform(actions...)
}

// drawViewport renders the car into the target, shows it and feeds mouse
// input over the image to the camera and the picker.
func (a *app) drawViewport() {
	avail := imgui.ContentRegionAvail()
	if avail.X < 1 || avail.Y < 1 {
		return
	}
	a.target.Resize(int(avail.X), int(avail.Y))
	restore := a.renderer.Bind(a.target)
	a.render()
	restore()

	origin := imgui.CursorScreenPos()
	tex := imgui.NewTextureRefTextureID(imgui.TextureID(a.target.Texture()))
	imgui.ImageV(*tex, avail, imgui.NewVec2(0, 1), imgui.NewVec2(1, 0))

	if !imgui.IsItemHovered() {
		return
	}
	mouse := imgui.MousePos()
	dx, dy := mouse.X-a.lastMouse.X, mouse.Y-a.lastMouse.Y
	switch {
	case imgui.IsMouseDragging(imgui.MouseButtonLeft):
		a.camera.HandleDrag(dx, dy)
	case imgui.IsMouseDragging(imgui.MouseButtonRight), imgui.IsMouseDragging(imgui.MouseButtonMiddle):
		a.camera.HandlePan(dx, dy)
	}
	a.lastMouse = mouse

	if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
		a.camera.HandleZoom(wheel)
	}
	if imgui.IsItemClicked() {
		w, h := a.target.Size()
		a.click(mouse.X-origin.X, mouse.Y-origin.Y, w, h, ui.ShiftHeld())
	}
}

func (a *app) snapshot() ui.Snapshot {
	sel := a.viewer.Selection()
	return ui.Snapshot{
		State:     a.viewer.State(),
		Selection: sel.Label(),
		Selected:  sel.Len(),
		Model:     a.model,
	}
}

// Close cleans up viewer resources.
func (a *app) Close() {
	logger.Info("closing viewer")
	if a.cancel != nil {
		a.cancel()
	}
	if a.viewer != nil {
		a.viewer.Close()
	}
	if a.target != nil {
		a.target.Delete()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *app) handle(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		w, h := a.window.DrawableSize()
		a.renderer.Resize(w, h)

	case input.EventKeyDown:
		a.handleKey(e)

	case input.EventMouseDown:
		a.pressX, a.pressY = e.MouseX, e.MouseY
		a.dragging = e.Button
		a.moved = false

	case input.EventMouseMove:
		if a.dragging == 0 {
			return
		}
		dx, dy := e.MouseX-a.pressX, e.MouseY-a.pressY
		if dx*dx+dy*dy > clickSlop*clickSlop {
			a.moved = true
		}
		switch a.dragging {
		case sdl.BUTTON_LEFT:
			a.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
		case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
			a.camera.HandlePan(float32(e.DeltaX), float32(e.DeltaY))
		}

	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT && !a.moved {
			ww, wh := a.window.GetSize()
			a.click(float32(e.MouseX), float32(e.MouseY), ww, wh, input.ShiftHeld())
		}
		a.dragging = 0

	case input.EventMouseWheel:
		a.camera.HandleZoom(e.Wheel)

	case input.EventDrop:
		logger.Info("loading dropped model", zap.String("path", e.Path))
		a.viewer.Request(viewer.FileSource(e.Path))
	}
}

func (a *app) handleKey(e input.Event) {
	if act, ok := keyAction(e.Key, a.viewer.State()); ok {
		a.perform(act)
	}
}

// keyAction maps a key to the action the panel would send for it.
func keyAction(key sdl.Scancode, s tint.State) (ui.Action, bool) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		return ui.Action{Kind: ui.Quit}, true
	case sdl.SCANCODE_V:
		v := tint.Inside
		if s.View == tint.Inside {
			v = tint.Outside
		}
		return ui.Action{Kind: ui.SetView, View: v}, true
	case sdl.SCANCODE_L:
		return ui.Action{Kind: ui.SetLighting, Lighting: nextLighting(s.Lighting)}, true
	case sdl.SCANCODE_F:
		return ui.Action{Kind: ui.SetFilm, Film: nextFilm(s.Film)}, true
	case sdl.SCANCODE_U:
		return ui.Action{Kind: ui.SetUniform, Uniform: !s.Uniform}, true
	case sdl.SCANCODE_UP, sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		return ui.Action{Kind: ui.SetShade, Shade: s.Shade + shadeStep}, true
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		return ui.Action{Kind: ui.SetShade, Shade: s.Shade - shadeStep}, true
	case sdl.SCANCODE_RETURN, sdl.SCANCODE_KP_ENTER:
		return ui.Action{Kind: ui.ApplySelected, Shade: s.Shade}, true
	case sdl.SCANCODE_A:
		return ui.Action{Kind: ui.ApplyAll, Shade: s.Shade}, true
	case sdl.SCANCODE_R:
		return ui.Action{Kind: ui.ResetTint}, true
	case sdl.SCANCODE_HOME:
		return ui.Action{Kind: ui.ResetCamera}, true
	case sdl.SCANCODE_C:
		return ui.Action{Kind: ui.ClearSelection}, true
	case sdl.SCANCODE_P:
		return ui.Action{Kind: ui.LoadPlaceholder}, true
	case sdl.SCANCODE_O:
		return ui.Action{Kind: ui.OpenModel}, true
	case sdl.SCANCODE_B:
		return ui.Action{Kind: ui.ToggleBounds}, true
	case sdl.SCANCODE_S, sdl.SCANCODE_F12:
		return ui.Action{Kind: ui.Screenshot}, true
	}
	return ui.Action{}, false
}

// perform carries out actions from the panel or the keyboard. Tint actions
// go to the viewer context; the rest are handled here.
func (a *app) perform(actions ...ui.Action) {
	changed := false
	for _, act := range actions {
		if ui.Apply(a.viewer, act) {
			changed = true
			continue
		}
		switch act.Kind {
		case ui.Quit:
			a.running = false
		case ui.ResetCamera:
			a.camera.Apply(camera.PresetFor(a.viewer.State().View))
		case ui.ClearSelection:
			a.viewer.Selection().Clear()
			changed = true
		case ui.LoadPlaceholder:
			a.viewer.Request(viewer.Source{})
		case ui.OpenModel:
			a.openFileDialog()
		case ui.ToggleBounds:
			a.showBounds = !a.showBounds
		case ui.Screenshot:
			a.capture = true
		case ui.CopyLink:
			ui.SetClipboard("?" + tint.Encode(a.viewer.State()))
		}
	}
	if changed {
		a.refresh()
	}
}

// openFileDialog asks for a model without blocking the frame loop. The
// chosen path is picked up on the main thread.
func (a *app) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("glTF Models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Open Vehicle Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case a.opened <- filename:
		case <-a.ctx.Done():
		}
	}()
}

// click picks at (x, y) in a viewport of w by h pixels.
func (a *app) click(x, y float32, w, h int, shift bool) {
	ray := a.camera.ScreenRay(x, y, w, h)
	hit, ok := a.viewer.Click(ray, shift)
	if ok {
		logger.Debug("pane picked",
			zap.Stringer("key", hit.Key),
			zap.Float32("distance", hit.Distance),
		)
	}
	a.refresh()
}

// syncView moves the camera when the view mode changed.
func (a *app) syncView() {
	if v := a.viewer.State().View; v != a.view {
		a.view = v
		a.camera.Apply(camera.PresetFor(v))
	}
}

func (a *app) render() {
	state := a.viewer.State()
	sel := a.selectedNodes()

	a.renderer.Begin()
	a.renderer.Draw(a.viewer.Model(), renderer.Frame{
		View:       a.camera.ViewMatrix(),
		Projection: a.camera.ProjectionMatrix(a.renderer.Aspect()),
		Eye:        a.camera.Position(),
		Light:      lighting.Preset(state.Lighting),
		Highlight: func(n *scene.Node) bool {
			_, ok := sel[n]
			return ok
		},
	})
	if a.showBounds {
		a.renderer.DrawLines(debug.BoxesLines(a.paneBounds(), debug.DefaultBoxPadding), boundsColor)
	}
	if a.capture {
		a.capture = false
		a.screenshot()
	}
	a.renderer.End()
}

// paneBounds returns the current world bounds of every mapped pane.
func (a *app) paneBounds() []scene.Box3 {
	surfaces := a.viewer.Registry().Surfaces()
	out := make([]scene.Box3, 0, len(surfaces))
	for _, s := range surfaces {
		if s.Node != nil {
			out = append(out, s.Node.WorldBounds())
		}
	}
	return out
}

func (a *app) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.Save(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (a *app) selectedNodes() map[*scene.Node]struct{} {
	out := make(map[*scene.Node]struct{})
	for _, k := range a.viewer.Selection().Keys() {
		if s, ok := a.viewer.Registry().Lookup(k); ok && s.Node != nil {
			out[s.Node] = struct{}{}
		}
	}
	return out
}

// refresh updates the title and prints the shareable state.
func (a *app) refresh() {
	state := a.viewer.State()
	line := statusLine(state, a.viewer.Selection())
	switch {
	case a.window != nil:
		a.window.SetTitle(line)
	case a.backend != nil:
		a.backend.SetWindowTitle(line)
	}
	fmt.Println("?" + tint.Encode(state))
}

func statusLine(s tint.State, sel *viewer.Selection) string {
	mode := "per-window"
	if s.Uniform {
		mode = "uniform"
	}
	parts := []string{
		title,
		sel.Label(),
		fmt.Sprintf("VLT %d%%", s.Shade),
		mode,
		string(s.Film),
		string(s.Lighting),
		string(s.View),
	}
	return strings.Join(parts, " | ")
}

func nextLighting(l tint.Lighting) tint.Lighting {
	for i, v := range tint.Lightings {
		if v == l {
			return tint.Lightings[(i+1)%len(tint.Lightings)]
		}
	}
	return tint.Day
}

func nextFilm(f tint.Film) tint.Film {
	for i, v := range tint.Films {
		if v == f {
			return tint.Films[(i+1)%len(tint.Films)]
		}
	}
	return tint.Ceramic
}
