package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquarium/controls"
	"github.com/pthm-cable/aquarium/renderer"
	"github.com/pthm-cable/aquarium/scene"
	"github.com/pthm-cable/aquarium/telemetry"
)

// Theme holds panel styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	PendingColor   rl.Color
	ErrorColor     rl.Color
	Padding        float32
	LineHeight     float32
	ControlHeight  float32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default panel theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 28, B: 44, A: 240},
		PanelBorder:    rl.Color{R: 50, G: 90, B: 120, A: 255},
		SectionHeader:  rl.Color{R: 120, G: 210, B: 230, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		PendingColor:   rl.Color{R: 240, G: 200, B: 90, A: 255},
		ErrorColor:     rl.Color{R: 230, G: 100, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		ControlHeight:  24,
		LabelWidth:     90,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// PanelInfo is the read-only status the panel displays.
type PanelInfo struct {
	Status    string
	Failed    bool
	Loading   bool
	Animating bool
	Time      float64
	Zoom      float32
	FPS       int32
	Scene     telemetry.SceneStats
	Cache     renderer.CacheStats
}

// PanelActions reports buttons pressed this frame that the viewer must act
// on. Slider and toggle edits go straight to the controls state.
type PanelActions struct {
	Generate      bool
	Reseed        bool
	ToggleAnimate bool
	Fit           bool
	Save          bool
}

// Panel draws the control panel on the left of the window.
type Panel struct {
	Theme Theme
	width float32
}

// NewPanel creates a panel of the given width.
func NewPanel(width float32) *Panel {
	return &Panel{Theme: DefaultTheme(), width: width}
}

// Width returns the panel width in pixels.
func (p *Panel) Width() float32 { return p.width }

// Draw renders the panel, applies edits to state and returns pressed
// buttons.
func (p *Panel) Draw(state *controls.State, info PanelInfo, height float32) PanelActions {
	var act PanelActions
	th := p.Theme
	pad := th.Padding
	x := pad
	w := p.width - 2*pad

	rl.DrawRectangle(0, 0, int32(p.width), int32(height), th.PanelBg)
	rl.DrawRectangleLines(0, 0, int32(p.width), int32(height), th.PanelBorder)

	y := pad
	rl.DrawText("Emoji Aquarium", int32(x), int32(y), 20, rl.RayWhite)
	y += 30

	s := state.Settings()

	y = p.header(x, y, "Scene")
	y = p.labelValue(x, y, "Seed", s.Seed)
	y = p.labelValue(x, y, "Canvas", state.PresetLabel())
	glyphs := "default pool"
	if len(s.Glyphs) > 0 {
		glyphs = fmt.Sprintf("%d chosen", len(s.Glyphs))
	}
	y = p.labelValue(x, y, "Glyphs", glyphs)

	half := (w - pad) / 2
	if gui.Button(rl.NewRectangle(x, y, half, th.ControlHeight), "Reseed [R]") {
		act.Reseed = true
	}
	if gui.Button(rl.NewRectangle(x+half+pad, y, half, th.ControlHeight), "Preset [P]") {
		state.NextPreset()
	}
	y += th.ControlHeight + 6
	if gui.Button(rl.NewRectangle(x, y, half, th.ControlHeight), "Random glyphs") {
		state.RandomGlyphs(glyphRNG())
	}
	if gui.Button(rl.NewRectangle(x+half+pad, y, half, th.ControlHeight), "Default glyphs") {
		state.SetGlyphs(nil)
	}
	y += th.ControlHeight + 12

	y = p.header(x, y, "Population")
	y = p.slider(x, y, w, fmt.Sprintf("Density %d", s.Density), float32(s.Density), controls.MinDensity, controls.MaxDensity, func(v float32) {
		state.SetDensity(float64(v))
	})
	y = p.slider(x, y, w, fmt.Sprintf("Chaos %.0f", s.Chaos), float32(s.Chaos), controls.MinChaos, controls.MaxChaos, func(v float32) {
		state.SetChaos(float64(v))
	})

	if gui.Button(rl.NewRectangle(x, y, half, th.ControlHeight), toggleText("Strict", s.Strict)) {
		state.ToggleStrict()
	}
	if gui.Button(rl.NewRectangle(x+half+pad, y, half, th.ControlHeight), toggleText("Add-on", s.ChaosAddon)) {
		state.ToggleAddon()
	}
	y += th.ControlHeight + 12

	y = p.header(x, y, "Render")
	mode := "Glyphs: image"
	if s.RenderMode == scene.RenderNativeFont {
		mode = "Glyphs: font"
	}
	if gui.Button(rl.NewRectangle(x, y, half, th.ControlHeight), mode) {
		state.ToggleMode()
	}
	if gui.Button(rl.NewRectangle(x+half+pad, y, half, th.ControlHeight), toggleText("Frame", s.Frame)) {
		state.ToggleFrame()
	}
	y += th.ControlHeight + 6
	if gui.Button(rl.NewRectangle(x, y, half, th.ControlHeight), toggleText("Animate", info.Animating)) {
		act.ToggleAnimate = true
	}
	if gui.Button(rl.NewRectangle(x+half+pad, y, half, th.ControlHeight), "Fit [Home]") {
		act.Fit = true
	}
	y += th.ControlHeight + 6

	label := "Generate [N]"
	if state.Pending() != 0 {
		label = "Generate* [N]"
	}
	if gui.Button(rl.NewRectangle(x, y, half, th.ControlHeight), label) {
		act.Generate = true
	}
	if gui.Button(rl.NewRectangle(x+half+pad, y, half, th.ControlHeight), "Save PNG [S]") {
		act.Save = true
	}
	y += th.ControlHeight + 12

	y = p.header(x, y, "Status")
	statusColor := th.ValueColor
	switch {
	case info.Failed:
		statusColor = th.ErrorColor
	case info.Loading || state.Pending() != 0:
		statusColor = th.PendingColor
	}
	rl.DrawText(info.Status, int32(x), int32(y), th.FontSize, statusColor)
	y += th.LineHeight

	st := info.Scene
	y = p.labelValue(x, y, "Creatures", fmt.Sprintf("%d (+%d static)", st.Creatures, st.Static))
	y = p.labelValue(x, y, "Placements", fmt.Sprintf("%d", st.Placements))
	y = p.labelValue(x, y, "Coverage", fmt.Sprintf("%.1f%%", st.Coverage*100))
	y = p.labelValue(x, y, "Spacing", fmt.Sprintf("%.0f / %.0f", st.SpacingP50, st.SpacingMean))
	y = p.labelValue(x, y, "Glyph cache", fmt.Sprintf("%d hit %d miss %d fail", info.Cache.Hits, info.Cache.Misses, info.Cache.Failures))
	y = p.labelValue(x, y, "Time", fmt.Sprintf("%.1fs", info.Time))
	y = p.labelValue(x, y, "Zoom", fmt.Sprintf("%.2fx", info.Zoom))
	p.labelValue(x, y, "FPS", fmt.Sprintf("%d", info.FPS))

	return act
}

func (p *Panel) header(x, y float32, title string) float32 {
	rl.DrawText(title, int32(x), int32(y), p.Theme.HeaderFontSize, p.Theme.SectionHeader)
	return y + p.Theme.LineHeight + 2
}

func (p *Panel) labelValue(x, y float32, label, value string) float32 {
	rl.DrawText(label+":", int32(x), int32(y), p.Theme.FontSize, p.Theme.LabelColor)
	rl.DrawText(value, int32(x)+p.Theme.LabelWidth, int32(y), p.Theme.FontSize, p.Theme.ValueColor)
	return y + p.Theme.LineHeight
}

// slider draws a captioned slider and calls set when the value moves.
func (p *Panel) slider(x, y, w float32, caption string, value, lo, hi float32, set func(float32)) float32 {
	rl.DrawText(caption, int32(x), int32(y), p.Theme.FontSize, p.Theme.LabelColor)
	y += p.Theme.LineHeight
	v := gui.SliderBar(
		rl.NewRectangle(x+24, y, w-48, 18),
		fmt.Sprintf("%.0f", lo), fmt.Sprintf("%.0f", hi),
		value, lo, hi,
	)
	if v != value {
		set(v)
	}
	return y + 28
}

func toggleText(name string, on bool) string {
	if on {
		return name + ": on"
	}
	return name + ": off"
}
