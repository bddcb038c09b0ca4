package components

import "math"

// Point is a 2D position in scene units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is a single glyph instance.
// Scale is the glyph's edge length in scene units and is always positive.
// Layer orders drawing only; higher layers draw later.
type Placement struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Scale    float64  `json:"scale"`
	Rotation float64  `json:"rotation"`
	Layer    int      `json:"layer"`
	Glyph    string   `json:"glyph"`
	Tag      Tag      `json:"tag"`
	Opacity  *float64 `json:"opacity,omitempty"`
}

// Alpha returns the draw opacity, 1 when unset.
func (p Placement) Alpha() float64 {
	if p.Opacity == nil {
		return 1
	}
	return math.Max(0, math.Min(1, *p.Opacity))
}

// WithOpacity returns a copy of p with the given opacity.
func (p Placement) WithOpacity(a float64) Placement {
	p.Opacity = &a
	return p
}

// RockShape is a decorative seabed ellipse.
type RockShape struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Tilt float64 `json:"tilt"`
}

// WavePoint is a seabed contour control point.
type WavePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
