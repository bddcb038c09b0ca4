package templates

import (
	"math"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/prng"
)

// SpinePoint is a centerline sample. T runs from 0 at the head to 1 at the tail.
type SpinePoint struct {
	X, Y, T float64
}

// Part is the glyph, tag and draw layer a primitive stamps.
type Part struct {
	Glyph string
	Tag   components.Tag
	Layer int
}

func (p Part) at(x, y, scale, rotation float64) components.Placement {
	return components.Placement{
		X:        x,
		Y:        y,
		Scale:    scale,
		Rotation: rotation,
		Layer:    p.Layer,
		Glyph:    p.Glyph,
		Tag:      p.Tag,
	}
}

// perpendicular returns the unit vector a quarter turn from angle.
func perpendicular(angle float64) (float64, float64) {
	return math.Cos(angle + math.Pi/2), math.Sin(angle + math.Pi/2)
}

// Spine builds segments+1 points along angle centred on (cx, cy), displaced
// sideways by a sine wave of random amplitude, frequency and phase.
func Spine(rng *prng.RNG, cx, cy, length, angle float64, segments int) []SpinePoint {
	dx := math.Cos(angle) * length
	dy := math.Sin(angle) * length
	startX := cx - dx*0.5
	startY := cy - dy*0.5
	px, py := perpendicular(angle)

	amp := length * rng.Range(0.03, 0.08)
	freq := rng.Range(1.6, 3.1)
	phase := rng.Range(0, 2*math.Pi)

	points := make([]SpinePoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		wave := math.Sin(t*math.Pi*freq+phase) * amp
		points = append(points, SpinePoint{
			X: startX + dx*t + px*wave,
			Y: startY + dy*t + py*wave,
			T: t,
		})
	}
	return points
}

// Row lays a symmetric cross-section of glyphs through (x, y) along the
// perpendicular (px, py), spanning thickness on each side.
func Row(dst []components.Placement, rng *prng.RNG, x, y, px, py, thickness, size float64, part Part, rotation float64) []components.Placement {
	count := max(1, jsRound(thickness/(size*0.8)))
	for i := -count; i <= count; i++ {
		offset := float64(i) / float64(count) * thickness
		jitter := rng.Range(-size*0.08, size*0.08)
		dst = append(dst, part.at(
			x+px*offset+jitter,
			y+py*offset+jitter,
			size,
			rotation+rng.Range(-0.2, 0.2),
		))
	}
	return dst
}

// Fan scatters count glyphs in a cone of half-width spread around baseAngle.
// Each glyph is rotated to its own direction from the apex.
func Fan(dst []components.Placement, rng *prng.RNG, x, y, baseAngle, spread float64, count int, size float64, part Part) []components.Placement {
	for i := 0; i < count; i++ {
		angle := baseAngle + rng.Range(-spread, spread)
		dist := rng.Range(size*0.4, size*1.4)
		dst = append(dst, part.at(
			x+math.Cos(angle)*dist,
			y+math.Sin(angle)*dist,
			size*rng.Range(0.7, 1.05),
			angle,
		))
	}
	return dst
}

// Oval fills an ellipse with uniform areal density. The sample count scales
// with the area and never drops below 12.
func Oval(dst []components.Placement, rng *prng.RNG, cx, cy, rx, ry, size float64, part Part) []components.Placement {
	area := math.Pi * rx * ry
	count := max(12, jsRound(area/(size*size*1.2)))
	for i := 0; i < count; i++ {
		t := math.Sqrt(rng.Float64())
		angle := rng.Range(0, 2*math.Pi)
		dst = append(dst, part.at(
			cx+math.Cos(angle)*rx*t,
			cy+math.Sin(angle)*ry*t,
			size*rng.Range(0.8, 1.1),
			rng.Range(-math.Pi, math.Pi),
		))
	}
	return dst
}

// Chain walks segments steps of length/segments from (x, y) along angle,
// wobbling each point sideways by up to wobble steps.
func Chain(rng *prng.RNG, x, y, angle, length float64, segments int, wobble float64) []SpinePoint {
	step := length / float64(segments)
	px, py := perpendicular(angle)
	points := make([]SpinePoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		wave := math.Sin(t*2*math.Pi+rng.Range(0, 2*math.Pi)) * step * wobble
		points = append(points, SpinePoint{X: x + px*wave, Y: y + py*wave, T: t})
		x += math.Cos(angle) * step
		y += math.Sin(angle) * step
	}
	return points
}

// Around returns a point jittered up to radius on each axis.
func Around(rng *prng.RNG, x, y, radius float64) (float64, float64) {
	return x + rng.Range(-radius, radius), y + rng.Range(-radius, radius)
}

// at returns the spine point a fraction f of the way along points.
func at(points []SpinePoint, f float64) SpinePoint {
	i := int(math.Floor(float64(len(points)) * f))
	return points[min(i, len(points)-1)]
}

// jsRound rounds halves toward positive infinity.
func jsRound(x float64) int {
	return int(math.Floor(x + 0.5))
}
