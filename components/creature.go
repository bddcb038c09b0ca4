package components

import "math"

// Bounds is an axis-aligned bounding box in scene units.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Creature groups the placements of one organism.
type Creature struct {
	ID         string      `json:"id"`
	Placements []Placement `json:"placements"`
	Bounds     Bounds      `json:"bounds"`
	Center     Point       `json:"center"`
	Layer      int         `json:"layer"`
	MotionSeed uint32      `json:"motion_seed"`
	Static     bool        `json:"static,omitempty"`
}

// NewCreature derives bounds, center and layer from the member placements.
// Each placement contributes a square of half its scale around its position.
func NewCreature(id string, placements []Placement, motionSeed uint32, static bool) Creature {
	c := Creature{
		ID:         id,
		Placements: placements,
		MotionSeed: motionSeed,
		Static:     static,
	}
	if len(placements) == 0 {
		return c
	}

	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	layer := placements[0].Layer
	for _, p := range placements {
		half := p.Scale / 2
		b.MinX = math.Min(b.MinX, p.X-half)
		b.MinY = math.Min(b.MinY, p.Y-half)
		b.MaxX = math.Max(b.MaxX, p.X+half)
		b.MaxY = math.Max(b.MaxY, p.Y+half)
		if p.Layer < layer {
			layer = p.Layer
		}
	}

	c.Bounds = b
	c.Center = b.Center()
	c.Layer = layer
	return c
}
