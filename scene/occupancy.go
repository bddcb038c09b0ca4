package scene

import (
	"math"

	"github.com/pthm-cable/aquarium/prng"
)

const (
	// maxAttempts bounds the rejection sampler before it accepts an overlap.
	maxAttempts = 30
	// spacing is the fraction of summed radii two circles must keep apart.
	spacing = 0.65
	// edgeMargin keeps sampled centres this far inside the radius-padded canvas.
	edgeMargin = 20
)

// Circle is an occupied region.
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Record is one entry of the occupancy accumulator.
type Record struct {
	Circle
	Kind     string `json:"kind"`
	Attempts int    `json:"attempts"` // rejected draws before acceptance
	Fallback bool   `json:"fallback"` // accepted unconditionally after maxAttempts
	Anchored bool   `json:"anchored"` // placed at a fixed anchor, not sampled
}

// Occupancy accumulates the circles claimed so far in one generation.
// It is a value: Reserve and Place return the updated accumulator and
// leave the receiver unchanged.
type Occupancy struct {
	records []Record
}

// Records returns a copy of the recorded circles in insertion order.
func (o Occupancy) Records() []Record {
	return append([]Record(nil), o.records...)
}

// Len reports the number of recorded circles.
func (o Occupancy) Len() int { return len(o.records) }

func (o Occupancy) with(r Record) Occupancy {
	// Full slice expression forces a copy so earlier values stay intact.
	return Occupancy{records: append(o.records[:len(o.records):len(o.records)], r)}
}

// Reserve records a circle at a fixed anchor.
func (o Occupancy) Reserve(kind string, c Circle) Occupancy {
	return o.with(Record{Circle: c, Kind: kind, Anchored: true})
}

// Free reports whether c keeps the required distance from every recorded circle.
func (o Occupancy) Free(c Circle) bool {
	for _, r := range o.records {
		if math.Hypot(c.X-r.X, c.Y-r.Y) < (c.R+r.R)*spacing {
			return false
		}
	}
	return true
}

// Place samples a centre for a circle of radius within the canvas width and
// the band [yMin, yMax). It tries maxAttempts draws; if all collide it
// accepts one more draw unconditionally.
func (o Occupancy) Place(rng *prng.RNG, kind string, radius, width, yMin, yMax float64) (Circle, Occupancy) {
	xMin := radius + edgeMargin
	xMax := width - radius - edgeMargin
	for i := 0; i < maxAttempts; i++ {
		c := Circle{X: rng.Range(xMin, xMax), Y: rng.Range(yMin, yMax), R: radius}
		if o.Free(c) {
			return c, o.with(Record{Circle: c, Kind: kind, Attempts: i})
		}
	}
	c := Circle{X: rng.Range(xMin, xMax), Y: rng.Range(yMin, yMax), R: radius}
	return c, o.with(Record{Circle: c, Kind: kind, Attempts: maxAttempts, Fallback: true})
}
