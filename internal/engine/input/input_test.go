package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{
			name:  "quit",
			event: &sdl.QuitEvent{Type: sdl.QUIT},
			want:  Event{Type: EventQuit},
			ok:    true,
		},
		{
			name:  "resize",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			want:  Event{Type: EventWindowResize, Width: 800, Height: 600},
			ok:    true,
		},
		{
			name:  "window focus ignored",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
			ok:    false,
		},
		{
			name: "shifted key down",
			event: &sdl.KeyboardEvent{
				Type:   sdl.KEYDOWN,
				Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_A, Mod: sdl.KMOD_LSHIFT},
			},
			want: Event{Type: EventKeyDown, Key: sdl.SCANCODE_A, Shift: true},
			ok:   true,
		},
		{
			name: "key repeat",
			event: &sdl.KeyboardEvent{
				Type:   sdl.KEYDOWN,
				Repeat: 1,
				Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_UP},
			},
			want: Event{Type: EventKeyDown, Key: sdl.SCANCODE_UP, Repeat: true},
			ok:   true,
		},
		{
			name:  "key up",
			event: &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_B}},
			want:  Event{Type: EventKeyUp, Key: sdl.SCANCODE_B},
			ok:    true,
		},
		{
			name:  "mouse drag",
			event: &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -2, State: 1},
			want:  Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: 3, DeltaY: -2, Buttons: 1},
			ok:    true,
		},
		{
			name:  "mouse down",
			event: &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, X: 5, Y: 6, Button: sdl.BUTTON_LEFT},
			want:  Event{Type: EventMouseDown, MouseX: 5, MouseY: 6, Button: sdl.BUTTON_LEFT},
			ok:    true,
		},
		{
			name:  "mouse up",
			event: &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, X: 5, Y: 6, Button: sdl.BUTTON_RIGHT},
			want:  Event{Type: EventMouseUp, MouseX: 5, MouseY: 6, Button: sdl.BUTTON_RIGHT},
			ok:    true,
		},
		{
			name:  "wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2, Direction: sdl.MOUSEWHEEL_NORMAL},
			want:  Event{Type: EventMouseWheel, Wheel: 2},
			ok:    true,
		},
		{
			name:  "flipped wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED},
			want:  Event{Type: EventMouseWheel, Wheel: -2},
			ok:    true,
		},
		{
			name:  "dropped file",
			event: &sdl.DropEvent{Type: sdl.DROPFILE, File: "/tmp/car.glb"},
			want:  Event{Type: EventDrop, Path: "/tmp/car.glb"},
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestIsKeyPressed(t *testing.T) {
	in := New()
	in.events = append(in.events,
		Event{Type: EventKeyUp, Key: sdl.SCANCODE_A},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_S},
	)

	if in.IsKeyPressed(sdl.SCANCODE_A) {
		t.Error("key up should not count as pressed")
	}
	if !in.IsKeyPressed(sdl.SCANCODE_S) {
		t.Error("expected S to be pressed")
	}
	if len(in.Events()) != 2 {
		t.Errorf("expected 2 events, got %d", len(in.Events()))
	}
}
