package ui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/tintview/internal/glass"
	"github.com/Faultbox/tintview/internal/tint"
)

// ActionKind identifies a user request from the panel or the keyboard.
type ActionKind int

// Tint actions change the tint state. The rest are commands the
// application carries out itself.
const (
	SetView ActionKind = iota + 1
	SetLighting
	SetFilm
	SetShade
	SetUniform
	ApplySelected
	ApplyAll
	ResetTint

	ResetCamera
	ClearSelection
	OpenModel
	LoadPlaceholder
	ToggleBounds
	Screenshot
	CopyLink
	Quit
)

// Action is one user request. Only the field matching Kind is read.
type Action struct {
	Kind     ActionKind
	View     tint.View
	Lighting tint.Lighting
	Film     tint.Film
	Shade    int
	Uniform  bool
}

// Controller receives tint actions. *viewer.Context implements it.
type Controller interface {
	Update(fn func(s *tint.State))
	ApplyToSelected(shade int)
	ApplyToAll(shade int)
}

// Apply performs a tint action on c. It reports false for commands, which
// are left to the caller.
func Apply(c Controller, a Action) bool {
	switch a.Kind {
	case SetView:
		c.Update(func(s *tint.State) { s.View = a.View })
	case SetLighting:
		c.Update(func(s *tint.State) { s.Lighting = a.Lighting })
	case SetFilm:
		c.Update(func(s *tint.State) { s.Film = a.Film })
	case SetShade:
		c.Update(func(s *tint.State) { s.SetShade(a.Shade) })
	case SetUniform:
		c.Update(func(s *tint.State) { s.Uniform = a.Uniform })
	case ApplySelected:
		c.ApplyToSelected(tint.ClampShade(a.Shade))
	case ApplyAll:
		c.ApplyToAll(tint.ClampShade(a.Shade))
	case ResetTint:
		c.Update(func(s *tint.State) { *s = tint.Default() })
	default:
		return false
	}
	return true
}

// ShadeStep is the granularity of the shade slider.
const ShadeStep = 5

// SnapShade rounds v to the nearest slider step inside the shade range.
func SnapShade(v int) int {
	v = (v + ShadeStep/2) / ShadeStep * ShadeStep
	return tint.ClampShade(v)
}

// Snapshot is what the panel shows for one frame.
type Snapshot struct {
	State     tint.State
	Selection string // e.g. "Selected: LF, RF"
	Selected  int
	Model     string
}

// Panel draws the tint controls.
type Panel struct{}

// NewPanel creates a panel.
func NewPanel() *Panel {
	return &Panel{}
}

const choiceWidth = 80

// Draw renders the controls into the current ImGui window and returns the
// actions requested this frame.
func (p *Panel) Draw(snap Snapshot) []Action {
	s := snap.State
	var out []Action

	imgui.TextDisabled("Model")
	imgui.TextWrapped(snap.Model)
	if imgui.Button("Open...") {
		out = append(out, Action{Kind: OpenModel})
	}
	imgui.SameLine()
	if imgui.Button("Placeholder") {
		out = append(out, Action{Kind: LoadPlaceholder})
	}
	imgui.Separator()

	imgui.TextDisabled("View")
	for i, v := range tint.Views {
		if choice(i, string(v), s.View == v) && s.View != v {
			out = append(out, Action{Kind: SetView, View: v})
		}
	}
	if imgui.ButtonV("Reset camera", imgui.NewVec2(-1, 0)) {
		out = append(out, Action{Kind: ResetCamera})
	}

	imgui.Spacing()
	imgui.TextDisabled("Lighting")
	for i, l := range tint.Lightings {
		if choice(i, string(l), s.Lighting == l) && s.Lighting != l {
			out = append(out, Action{Kind: SetLighting, Lighting: l})
		}
	}

	imgui.Spacing()
	imgui.TextDisabled("Film")
	for i, f := range tint.Films {
		if choice(i, string(f), s.Film == f) && s.Film != f {
			out = append(out, Action{Kind: SetFilm, Film: f})
		}
	}
	imgui.Separator()

	imgui.TextDisabled("Shade (VLT)")
	shade := int32(s.Shade)
	imgui.SetNextItemWidth(-1)
	if imgui.SliderIntV("##shade", &shade, tint.MinShade, tint.MaxShade, "%d%%", imgui.SliderFlagsNone) {
		if v := SnapShade(int(shade)); v != s.Shade {
			out = append(out, Action{Kind: SetShade, Shade: v})
		}
	}
	uniform := s.Uniform
	if imgui.Checkbox("Uniform shade", &uniform) {
		out = append(out, Action{Kind: SetUniform, Uniform: uniform})
	}

	imgui.BeginDisabledV(snap.Selected == 0)
	if imgui.ButtonV("Apply to selected", imgui.NewVec2(-1, 0)) {
		out = append(out, Action{Kind: ApplySelected, Shade: s.Shade})
	}
	imgui.EndDisabled()
	if imgui.ButtonV("Apply to all", imgui.NewVec2(-1, 0)) {
		out = append(out, Action{Kind: ApplyAll, Shade: s.Shade})
	}
	if imgui.ButtonV("Reset tint", imgui.NewVec2(-1, 0)) {
		out = append(out, Action{Kind: ResetTint})
	}
	imgui.Separator()

	imgui.Text(snap.Selection)
	imgui.BeginDisabledV(snap.Selected == 0)
	if imgui.Button("Clear selection") {
		out = append(out, Action{Kind: ClearSelection})
	}
	imgui.EndDisabled()
	imgui.TextDisabled("Click a window to select it, shift-click to add.")
	imgui.Separator()

	imgui.TextDisabled("Windows")
	for _, line := range WindowLines(s) {
		imgui.Text(line)
	}
	imgui.Spacing()
	if imgui.Button("Copy link") {
		out = append(out, Action{Kind: CopyLink})
	}
	imgui.SameLine()
	if imgui.Button("Bounds") {
		out = append(out, Action{Kind: ToggleBounds})
	}
	imgui.SameLine()
	if imgui.Button("Screenshot") {
		out = append(out, Action{Kind: Screenshot})
	}
	return out
}

// choice draws one selectable of a horizontal group and reports a click.
func choice(i int, label string, selected bool) bool {
	if i > 0 {
		imgui.SameLine()
	}
	return imgui.SelectableBoolV(Title(label), selected, 0, imgui.NewVec2(choiceWidth, 0))
}

// WindowLines lists the effective shade of every window.
func WindowLines(s tint.State) []string {
	lines := make([]string, 0, len(glass.Keys))
	for _, k := range glass.Keys {
		lines = append(lines, fmt.Sprintf("%-10s %3d%%", k.Label(), s.ShadeFor(k)))
	}
	return lines
}

// Title capitalises the first letter of s.
func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
