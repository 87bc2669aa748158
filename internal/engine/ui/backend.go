// Package ui hosts the Dear ImGui front end: a window owned by the ImGui
// SDL backend and the tint control panel drawn into it.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tintview/internal/logger"
)

// fontPaths are tried in order for a UI font. The ImGui default is used
// when none exists.
var fontPaths = []string{
	"/System/Library/Fonts/SFNS.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\segoeui.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
}

const fontSize = 16

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window and its GL context.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetAfterCreateContextHook(loadFont)
	b.backend.SetBgColor(imgui.NewVec4(0x0f/255.0, 0x11/255.0, 0x15/255.0, 1))
	b.backend.CreateWindow(title, width, height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}
	logger.Info("panel window created",
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return b, nil
}

func loadFont() {
	var path string
	for _, p := range fontPaths {
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		logger.Debug("no UI font found, using the ImGui default")
		return
	}

	cfg := imgui.NewFontConfig()
	defer cfg.Destroy()
	if imgui.CurrentIO().Fonts().AddFontFromFileTTFV(path, fontSize, cfg, nil) == nil {
		logger.Warn("failed to load UI font", zap.String("path", path))
		return
	}
	logger.Debug("UI font loaded", zap.String("path", path))
}

// Run calls frame once per frame until the window closes.
func (b *Backend) Run(frame func()) {
	b.backend.Run(frame)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	pos := viewport.WorkPos()
	size := viewport.WorkSize()
	return pos.X, pos.Y, size.X, size.Y
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// ShiftHeld reports whether a shift key is down.
func ShiftHeld() bool {
	return imgui.IsKeyDown(imgui.ModShift)
}

// SetClipboard copies text to the system clipboard.
func SetClipboard(text string) {
	imgui.SetClipboardText(text)
}
