// Package tint holds the user-facing tint state and turns it into glass
// material parameters on the mapped panes.
package tint

import (
	"fmt"
	"strings"

	"github.com/Faultbox/tintview/internal/glass"
)

// View selects the camera preset.
type View string

const (
	Outside View = "outside"
	Inside  View = "inside"
)

// Lighting selects the light preset.
type Lighting string

const (
	Day   Lighting = "day"
	Dusk  Lighting = "dusk"
	Night Lighting = "night"
	Storm Lighting = "storm"
)

// Film selects the film type, which only changes reflectivity.
type Film string

const (
	Ceramic Film = "ceramic"
	Carbon  Film = "carbon"
	Dyed    Film = "dyed"
)

// Choices in display order.
var (
	Views     = []View{Outside, Inside}
	Lightings = []Lighting{Day, Dusk, Night, Storm}
	Films     = []Film{Ceramic, Carbon, Dyed}
)

// Shade limits in VLT percent.
const (
	MinShade = 5
	MaxShade = 70
)

// Valid reports whether v is a known view.
func (v View) Valid() bool { return v == Outside || v == Inside }

// Valid reports whether l is a known lighting preset.
func (l Lighting) Valid() bool {
	switch l {
	case Day, Dusk, Night, Storm:
		return true
	}
	return false
}

// Valid reports whether f is a known film.
func (f Film) Valid() bool {
	switch f {
	case Ceramic, Carbon, Dyed:
		return true
	}
	return false
}

// State is the complete tint configuration. Per-window shades are keyed by
// canonical role so they survive model swaps.
type State struct {
	View     View
	Lighting Lighting
	Film     Film
	// Uniform makes Shade drive every window.
	Uniform bool
	Shade   int
	Windows map[glass.Key]int
}

// Default returns the startup state.
func Default() State {
	return State{
		View:     Outside,
		Lighting: Day,
		Film:     Ceramic,
		Uniform:  false,
		Shade:    15,
		Windows: map[glass.Key]int{
			glass.Windshield: 10,
			glass.LeftFront:  15,
			glass.RightFront: 15,
			glass.LeftRear:   5,
			glass.RightRear:  5,
			glass.Rear:       5,
		},
	}
}

// Clone returns a copy that shares no map with s.
func (s State) Clone() State {
	out := s
	out.Windows = make(map[glass.Key]int, len(s.Windows))
	for k, v := range s.Windows {
		out.Windows[k] = v
	}
	return out
}

// ShadeFor returns the effective VLT percent for k.
func (s State) ShadeFor(k glass.Key) int {
	if s.Uniform {
		return s.Shade
	}
	if v, ok := s.Windows[k]; ok {
		return v
	}
	return s.Shade
}

// ApplyToSelected sets the given windows to shade and leaves uniform mode,
// since a per-window shade would otherwise be hidden.
func (s *State) ApplyToSelected(keys []glass.Key, shade int) {
	if s.Windows == nil {
		s.Windows = map[glass.Key]int{}
	}
	for _, k := range keys {
		if k.Valid() {
			s.Windows[k] = shade
		}
	}
	s.Uniform = false
}

// ApplyToAll sets every window to shade. Uniform mode is unchanged.
func (s *State) ApplyToAll(shade int) {
	if s.Windows == nil {
		s.Windows = map[glass.Key]int{}
	}
	for _, k := range glass.Keys {
		s.Windows[k] = shade
	}
}

// SetShade changes the global shade. In uniform mode every window follows.
func (s *State) SetShade(shade int) {
	s.Shade = ClampShade(shade)
	if s.Uniform {
		s.ApplyToAll(s.Shade)
	}
}

// ClampShade limits v to the supported VLT range.
func ClampShade(v int) int {
	if v < MinShade {
		return MinShade
	}
	if v > MaxShade {
		return MaxShade
	}
	return v
}

func (s State) String() string {
	parts := make([]string, 0, len(glass.Keys))
	for _, k := range glass.Keys {
		parts = append(parts, fmt.Sprintf("%s=%d%%", k.Label(), s.ShadeFor(k)))
	}
	mode := "per-window"
	if s.Uniform {
		mode = "uniform"
	}
	return fmt.Sprintf("%s/%s/%s %s [%s]", s.View, s.Lighting, s.Film, mode, strings.Join(parts, " "))
}
