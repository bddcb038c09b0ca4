package templates

import (
	"math"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/prng"
)

// Picker supplies a glyph for a tag. Every call is an independent draw.
type Picker interface {
	Pick(tag components.Tag) string
}

// Input is the shared argument of every archetype generator.
type Input struct {
	RNG    *prng.RNG
	X, Y   float64
	Size   float64
	Angle  float64
	Picker Picker
}

// parts picks the four glyphs most archetypes need, in a fixed order.
type parts struct {
	body, fin, eye, accent string
}

func pickParts(p Picker, accent bool) parts {
	pp := parts{
		body: p.Pick(components.TagBody),
		fin:  p.Pick(components.TagFin),
		eye:  p.Pick(components.TagEye),
	}
	if accent {
		pp.accent = p.Pick(components.TagAccent)
	}
	return pp
}

func eye(dst []components.Placement, x, y, size float64, glyph string, layer int) []components.Placement {
	return append(dst, components.Placement{
		X: x, Y: y, Scale: size, Layer: layer, Glyph: glyph, Tag: components.TagEye,
	})
}

// body lays tapered rows along a spine. taper maps spine progress to a
// thickness factor; size is drawn per row when sizeLo < sizeHi.
func body(dst []components.Placement, rng *prng.RNG, spine []SpinePoint, angle, thickness float64, taper func(t float64) float64, sizeLo, sizeHi float64, part Part) []components.Placement {
	px, py := perpendicular(angle)
	for _, pt := range spine {
		w := thickness * taper(pt.T)
		size := sizeLo
		if sizeHi > sizeLo {
			size = rng.Range(sizeLo, sizeHi)
		}
		dst = Row(dst, rng, pt.X, pt.Y, px, py, w, size, part, angle)
	}
	return dst
}

func spindle(t float64) float64 { return math.Sin(math.Pi * t) }

func fishLong(in Input) []components.Placement {
	rng, s, a := in.RNG, in.Size, in.Angle
	g := pickParts(in.Picker, true)

	length := s * rng.Range(5.8, 7.6)
	thickness := s * rng.Range(1.5, 2.3)
	spine := Spine(rng, in.X, in.Y, length, a, 20)
	px, py := perpendicular(a)

	var out []components.Placement
	out = body(out, rng, spine, a, thickness, spindle, s*0.75, s, Part{g.body, components.TagBody, 5})

	fin := Part{g.fin, components.TagFin, 6}
	tail := spine[len(spine)-1]
	out = Fan(out, rng, tail.X, tail.Y, a+math.Pi, 0.8, 6, s*0.9, fin)
	dorsal := at(spine, 0.45)
	out = Fan(out, rng, dorsal.X, dorsal.Y, a-math.Pi/2, 0.6, 4, s*0.7, fin)

	head := at(spine, 0.18)
	out = eye(out, head.X+px*s*0.4, head.Y+py*s*0.3, s*1.1, g.eye, 7)

	accent := Part{g.accent, components.TagAccent, 7}
	for i := 0; i < 3; i++ {
		pt := at(spine, rng.Range(0.25, 0.75))
		out = append(out, accent.at(
			pt.X+px*s*rng.Range(-0.8, 0.8),
			pt.Y+py*s*rng.Range(-0.8, 0.8),
			s*0.7,
			rng.Range(-1, 1),
		))
	}
	return out
}

func fishRound(in Input) []components.Placement {
	rng, s, a := in.RNG, in.Size, in.Angle
	g := pickParts(in.Picker, true)

	r := s * rng.Range(2.4, 3.1)
	out := Oval(nil, rng, in.X, in.Y, r, r*0.9, s*0.9, Part{g.body, components.TagBody, 5})

	fin := Part{g.fin, components.TagFin, 6}
	out = Fan(out, rng, in.X-r*0.6, in.Y, a-math.Pi/2, 0.6, 5, s*0.8, fin)
	out = Fan(out, rng, in.X+r*0.6, in.Y, a+math.Pi/2, 0.6, 5, s*0.8, fin)

	out = eye(out, in.X+r*0.25, in.Y-r*0.1, s*1.1, g.eye, 7)

	// ring of accents around the rim
	accent := Part{g.accent, components.TagAccent, 7}
	for i := 0; i < 8; i++ {
		theta := 2 * math.Pi * float64(i) / 8
		out = append(out, accent.at(in.X+math.Cos(theta)*r, in.Y+math.Sin(theta)*r, s*0.6, theta))
	}
	return out
}

func mosaicGiant(in Input) []components.Placement {
	rng, s, a := in.RNG, in.Size, in.Angle
	g := pickParts(in.Picker, true)
	headGlyph := g.eye
	if rng.Chance(0.6) {
		headGlyph = g.accent
	}

	length := s * rng.Range(9.5, 12.5)
	thickness := s * rng.Range(3.1, 4.4)
	spine := Spine(rng, in.X, in.Y, length, a, 30)
	px, py := perpendicular(a)
	tile := s * rng.Range(0.45, 0.6)

	var out []components.Placement
	out = body(out, rng, spine, a, thickness, spindle, tile, tile, Part{g.body, components.TagBody, 6})

	head := at(spine, 0.12)
	tail := spine[len(spine)-1]
	fin := Part{g.fin, components.TagFin, 7}
	out = Fan(out, rng, tail.X, tail.Y, a+math.Pi, 0.9, 10, s*1.2, fin)
	out = Fan(out, rng, head.X, head.Y, a-math.Pi/2, 0.6, 5, s*0.9, fin)

	out = eye(out, head.X+px*s*1.1, head.Y+py*s*0.4, s*1.7, g.eye, 8)
	out = append(out, Part{headGlyph, components.TagAccent, 9}.at(
		head.X+px*s*2.2, head.Y+py*s*0.15, s*4.4, a*0.2,
	))

	accent := Part{g.accent, components.TagAccent, 8}
	for i := 0; i < 6; i++ {
		pt := at(spine, rng.Range(0.25, 0.8))
		out = append(out, accent.at(
			pt.X+px*s*rng.Range(-1.6, 1.6),
			pt.Y+py*s*rng.Range(-1.6, 1.6),
			s*rng.Range(0.7, 1.1),
			rng.Range(-1, 1),
		))
	}
	return out
}

func eel(in Input) []components.Placement {
	rng, s, a := in.RNG, in.Size, in.Angle
	bodyGlyph := in.Picker.Pick(components.TagBody)
	eyeGlyph := in.Picker.Pick(components.TagEye)

	spine := Spine(rng, in.X, in.Y, s*rng.Range(7.5, 9.5), a, 16)
	px, py := perpendicular(a)

	taper := func(t float64) float64 { return 0.6 + math.Sin(math.Pi*t)*0.4 }
	out := body(nil, rng, spine, a, s*0.7, taper, s*0.7, s*0.7, Part{bodyGlyph, components.TagBody, 4})

	head := at(spine, 0.1)
	return eye(out, head.X+px*s*0.3, head.Y+py*s*0.2, s*0.9, eyeGlyph, 6)
}

func jellyfish(in Input) []components.Placement {
	rng, s := in.RNG, in.Size
	g := pickParts(in.Picker, true)

	r := s * rng.Range(2.0, 2.8)
	out := Oval(nil, rng, in.X, in.Y, r, r*0.7, s*0.85, Part{g.body, components.TagBody, 4})

	fin := Part{g.fin, components.TagFin, 5}
	tentacles := rng.IntRange(4, 7)
	for i := 0; i < tentacles; i++ {
		offset := rng.Range(-r*0.7, r*0.7)
		chain := Chain(rng, in.X+offset, in.Y+r*0.3, math.Pi/2, s*4.2, 6, 0.35)
		for j, pt := range chain {
			scale := s * 0.7
			if j == len(chain)-1 {
				scale = s * 0.6
			}
			out = append(out, fin.at(pt.X, pt.Y, scale, rng.Range(-0.4, 0.4)))
		}
	}

	out = eye(out, in.X+r*0.2, in.Y, s*0.85, g.eye, 6)
	out = append(out, Part{g.accent, components.TagAccent, 6}.at(
		in.X-r*0.4, in.Y-r*0.2, s*0.7, rng.Range(-0.5, 0.5),
	))
	return out
}

func shrimp(in Input) []components.Placement {
	rng, s, a := in.RNG, in.Size, in.Angle
	g := pickParts(in.Picker, true)

	spine := Spine(rng, in.X, in.Y, s*rng.Range(4.2, 5.2), a, 12)
	px, py := perpendicular(a)

	out := body(nil, rng, spine, a, s*1.1, spindle, s*0.8, s*0.8, Part{g.body, components.TagBody, 5})

	tail := spine[len(spine)-1]
	out = Fan(out, rng, tail.X, tail.Y, a+math.Pi, 0.9, 5, s*0.8, Part{g.fin, components.TagFin, 6})

	head := at(spine, 0.1)
	antenna := Part{g.accent, components.TagAccent, 6}
	for _, pt := range Chain(rng, head.X, head.Y, a-math.Pi/2, s*3, 4, 0.2) {
		out = append(out, antenna.at(pt.X, pt.Y, s*0.5, a-math.Pi/2))
	}

	return eye(out, head.X+px*s*0.3, head.Y+py*s*0.3, s*0.9, g.eye, 7)
}

func crab(in Input) []components.Placement {
	rng, s := in.RNG, in.Size
	g := pickParts(in.Picker, true)

	rx := s * rng.Range(2.2, 2.8)
	ry := s * rng.Range(1.6, 2.1)
	out := Oval(nil, rng, in.X, in.Y, rx, ry, s*0.9, Part{g.body, components.TagBody, 5})

	// claws
	fin := Part{g.fin, components.TagFin, 6}
	out = Fan(out, rng, in.X-rx*0.9, in.Y-ry*0.2, math.Pi*0.9, 0.6, 4, s*0.8, fin)
	out = Fan(out, rng, in.X+rx*0.9, in.Y-ry*0.2, math.Pi*0.1, 0.6, 4, s*0.8, fin)

	// legs
	for i := 0; i < 4; i++ {
		offset := rng.Range(-rx*0.7, rx*0.7)
		out = append(out, fin.at(
			in.X+offset,
			in.Y+ry*0.9+rng.Range(0, s*0.6),
			s*0.6,
			rng.Range(-1, 1),
		))
	}

	out = eye(out, in.X-rx*0.2, in.Y-ry*0.3, s*0.8, g.eye, 7)
	return append(out, Part{g.accent, components.TagAccent, 7}.at(
		in.X+rx*0.2, in.Y-ry*0.3, s*0.8, rng.Range(-0.3, 0.3),
	))
}

func miniFish(in Input) []components.Placement {
	rng, s, a := in.RNG, in.Size, in.Angle
	g := pickParts(in.Picker, false)

	spine := Spine(rng, in.X, in.Y, s*rng.Range(3.5, 4.4), a, 8)
	px, py := perpendicular(a)

	out := body(nil, rng, spine, a, s*0.9, spindle, s*0.7, s*0.7, Part{g.body, components.TagBody, 4})

	tail := spine[len(spine)-1]
	out = Fan(out, rng, tail.X, tail.Y, a+math.Pi, 0.7, 3, s*0.6, Part{g.fin, components.TagFin, 5})

	head := at(spine, 0.2)
	return eye(out, head.X+px*s*0.2, head.Y+py*s*0.2, s*0.6, g.eye, 6)
}

func schoolOfFish(in Input) []components.Placement {
	rng := in.RNG
	var out []components.Placement
	count := rng.IntRange(4, 7)
	for i := 0; i < count; i++ {
		x, y := Around(rng, in.X, in.Y, in.Size*1.8)
		size := in.Size * rng.Range(0.7, 0.95)
		angle := in.Angle + rng.Range(-0.4, 0.4)
		out = append(out, miniFish(Input{
			RNG:    rng,
			X:      x,
			Y:      y,
			Size:   size,
			Angle:  angle,
			Picker: in.Picker,
		})...)
	}
	return out
}

func coralCluster(in Input) []components.Placement {
	rng, s := in.RNG, in.Size
	propGlyph := in.Picker.Pick(components.TagProp)
	accentGlyph := in.Picker.Pick(components.TagAccent)
	altTag := components.TagProp
	if rng.Chance(0.5) {
		altTag = components.TagAccent
	}
	altGlyph := in.Picker.Pick(altTag)

	choose := func(p float64, a, b string) string {
		if rng.Chance(p) {
			return a
		}
		return b
	}

	var out []components.Placement
	base := rng.IntRange(10, 18)
	for i := 0; i < base; i++ {
		x := in.X + rng.Range(-s*2.2, s*2.2)
		y := in.Y + rng.Range(-s*0.4, s*0.8)
		scale := s * rng.Range(0.7, 1.2)
		rot := rng.Range(-0.8, 0.8)
		out = append(out, Part{choose(0.6, propGlyph, altGlyph), components.TagProp, 7}.at(x, y, scale, rot))
	}

	branches := rng.IntRange(4, 7)
	for i := 0; i < branches; i++ {
		baseX := in.X + rng.Range(-s*1.8, s*1.8)
		height := s * rng.Range(2.4, 4.6)
		chain := Chain(rng, baseX, in.Y, -math.Pi/2+rng.Range(-0.4, 0.4), height, 5, 0.3)
		for _, pt := range chain {
			scale := s * rng.Range(0.7, 1.05)
			rot := rng.Range(-0.6, 0.6)
			out = append(out, Part{choose(0.7, propGlyph, altGlyph), components.TagProp, 7}.at(pt.X, pt.Y, scale, rot))
		}
		tip := chain[len(chain)-1]
		rot := rng.Range(-0.6, 0.6)
		out = append(out, Part{choose(0.5, accentGlyph, altGlyph), components.TagAccent, 8}.at(tip.X, tip.Y-s*0.3, s*0.6, rot))
	}
	return out
}

func octopus(in Input) []components.Placement {
	rng, s := in.RNG, in.Size
	g := pickParts(in.Picker, false)

	r := s * rng.Range(2.0, 2.6)
	out := Oval(nil, rng, in.X, in.Y, r, r, s*0.9, Part{g.body, components.TagBody, 5})

	fin := Part{g.fin, components.TagFin, 6}
	tentacles := 6 + rng.IntRange(0, 2)
	for i := 0; i < tentacles; i++ {
		angle := rng.Range(math.Pi*0.2, math.Pi*0.8)
		chain := Chain(rng, in.X+math.Cos(angle)*r*0.4, in.Y+r*0.4, math.Pi/2, s*3.6, 6, 0.2)
		for _, pt := range chain {
			out = append(out, fin.at(pt.X, pt.Y, s*0.7, rng.Range(-0.4, 0.4)))
		}
	}

	out = eye(out, in.X-r*0.3, in.Y-r*0.1, s*0.8, g.eye, 7)
	return eye(out, in.X+r*0.3, in.Y-r*0.1, s*0.8, g.eye, 7)
}

func seahorse(in Input) []components.Placement {
	rng, s := in.RNG, in.Size
	g := pickParts(in.Picker, false)
	const upright = -math.Pi / 2

	spine := Spine(rng, in.X, in.Y, s*rng.Range(4.2, 5.4), upright, 12)
	taper := func(t float64) float64 { return 0.4 + math.Sin(math.Pi*t)*0.6 }
	out := body(nil, rng, spine, upright, s*0.8, taper, s*0.7, s*0.7, Part{g.body, components.TagBody, 5})

	head := at(spine, 0.15)
	out = eye(out, head.X+s*0.4, head.Y-s*0.1, s*0.8, g.eye, 7)

	dorsal := at(spine, 0.5)
	return Fan(out, rng, dorsal.X, dorsal.Y, upright, 0.6, 4, s*0.6, Part{g.fin, components.TagFin, 6})
}
