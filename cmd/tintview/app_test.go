package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tintview/internal/engine/ui"
	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/tint"
	"github.com/Faultbox/tintview/internal/viewer"
)

func TestNextLightingCycles(t *testing.T) {
	l := tint.Day
	seen := []tint.Lighting{l}
	for range 4 {
		l = nextLighting(l)
		seen = append(seen, l)
	}
	assert.Equal(t, []tint.Lighting{tint.Day, tint.Dusk, tint.Night, tint.Storm, tint.Day}, seen)
	assert.Equal(t, tint.Day, nextLighting("fog"))
}

func TestNextFilmCycles(t *testing.T) {
	assert.Equal(t, tint.Carbon, nextFilm(tint.Ceramic))
	assert.Equal(t, tint.Dyed, nextFilm(tint.Carbon))
	assert.Equal(t, tint.Ceramic, nextFilm(tint.Dyed))
	assert.Equal(t, tint.Ceramic, nextFilm(""))
}

func TestStatusLine(t *testing.T) {
	var sel viewer.Selection
	sel.Add(glass.LeftFront)

	s := tint.Default()
	assert.Equal(t, "TintView | Selected: LF | VLT 15% | per-window | ceramic | day | outside", statusLine(s, &sel))

	s.Uniform = true
	s.Shade = 35
	sel.Clear()
	assert.Equal(t, "TintView | Selected: - | VLT 35% | uniform | ceramic | day | outside", statusLine(s, &sel))
}

func TestKeyAction(t *testing.T) {
	s := tint.Default()

	tests := []struct {
		name string
		key  sdl.Scancode
		want ui.Action
	}{
		{"toggle view", sdl.SCANCODE_V, ui.Action{Kind: ui.SetView, View: tint.Inside}},
		{"next lighting", sdl.SCANCODE_L, ui.Action{Kind: ui.SetLighting, Lighting: tint.Dusk}},
		{"next film", sdl.SCANCODE_F, ui.Action{Kind: ui.SetFilm, Film: tint.Carbon}},
		{"uniform on", sdl.SCANCODE_U, ui.Action{Kind: ui.SetUniform, Uniform: true}},
		{"shade up", sdl.SCANCODE_UP, ui.Action{Kind: ui.SetShade, Shade: 20}},
		{"shade down", sdl.SCANCODE_MINUS, ui.Action{Kind: ui.SetShade, Shade: 10}},
		{"apply selected", sdl.SCANCODE_RETURN, ui.Action{Kind: ui.ApplySelected, Shade: 15}},
		{"apply all", sdl.SCANCODE_A, ui.Action{Kind: ui.ApplyAll, Shade: 15}},
		{"reset tint", sdl.SCANCODE_R, ui.Action{Kind: ui.ResetTint}},
		{"reset camera", sdl.SCANCODE_HOME, ui.Action{Kind: ui.ResetCamera}},
		{"clear selection", sdl.SCANCODE_C, ui.Action{Kind: ui.ClearSelection}},
		{"placeholder", sdl.SCANCODE_P, ui.Action{Kind: ui.LoadPlaceholder}},
		{"open", sdl.SCANCODE_O, ui.Action{Kind: ui.OpenModel}},
		{"bounds", sdl.SCANCODE_B, ui.Action{Kind: ui.ToggleBounds}},
		{"screenshot", sdl.SCANCODE_F12, ui.Action{Kind: ui.Screenshot}},
		{"quit", sdl.SCANCODE_ESCAPE, ui.Action{Kind: ui.Quit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyAction(tt.key, s)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := keyAction(sdl.SCANCODE_Z, s)
	assert.False(t, ok)
}

func TestKeyActionTogglesBack(t *testing.T) {
	s := tint.Default()
	s.View = tint.Inside
	s.Uniform = true

	got, _ := keyAction(sdl.SCANCODE_V, s)
	assert.Equal(t, tint.Outside, got.View)

	got, _ = keyAction(sdl.SCANCODE_U, s)
	assert.False(t, got.Uniform)
}
