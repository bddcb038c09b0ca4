package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// stop is a gradient colour stop. Offsets run from 0 to 1.
type stop struct {
	at float64
	c  color.NRGBA
}

// sample interpolates the stops at t, clamping outside [0, 1].
func sample(stops []stop, t float64) color.NRGBA {
	if t <= stops[0].at {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].at {
			a, b := stops[i-1], stops[i]
			f := (t - a.at) / (b.at - a.at)
			return lerpColor(a.c, b.c, f)
		}
	}
	return stops[len(stops)-1].c
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// verticalGradient is an image whose colour depends only on y.
// y0 and y1 are pixel rows mapped to offsets 0 and 1.
type verticalGradient struct {
	rect   image.Rectangle
	y0, y1 float64
	stops  []stop
}

func (g verticalGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g verticalGradient) Bounds() image.Rectangle { return g.rect }
func (g verticalGradient) At(_, y int) color.Color {
	t := (float64(y) + 0.5 - g.y0) / (g.y1 - g.y0)
	return sample(g.stops, t)
}

// blendOver composites c over the pixel at (x, y).
func blendOver(img *image.RGBA, x, y int, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	a := uint32(c.A)
	inv := 255 - a
	p[0] = uint8((uint32(c.R)*a + uint32(p[0])*inv + 127) / 255)
	p[1] = uint8((uint32(c.G)*a + uint32(p[1])*inv + 127) / 255)
	p[2] = uint8((uint32(c.B)*a + uint32(p[2])*inv + 127) / 255)
	p[3] = uint8((a*255 + uint32(p[3])*inv + 127) / 255)
}

// path collects polygon vertices in pixel space for the vector rasterizer.
type path struct {
	z *vector.Rasterizer
}

func newPath(r image.Rectangle) *path {
	return &path{z: vector.NewRasterizer(r.Dx(), r.Dy())}
}

func (p *path) polygon(pts ...[2]float64) *path {
	if len(pts) == 0 {
		return p
	}
	p.z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, pt := range pts[1:] {
		p.z.LineTo(float32(pt[0]), float32(pt[1]))
	}
	p.z.ClosePath()
	return p
}

// kappa places cubic control points so four curves approximate an ellipse.
const kappa = 0.5522847498

// ellipse adds a rotated ellipse centred on (cx, cy) with semi-axes rx, ry.
func (p *path) ellipse(cx, cy, rx, ry, angle float64) *path {
	sin, cos := math.Sincos(angle)
	pt := func(x, y float64) (float32, float32) {
		return float32(cx + x*cos - y*sin), float32(cy + x*sin + y*cos)
	}
	kx, ky := rx*kappa, ry*kappa

	p.z.MoveTo(pt(rx, 0))
	cubic := func(x1, y1, x2, y2, x3, y3 float64) {
		ax, ay := pt(x1, y1)
		bx, by := pt(x2, y2)
		ex, ey := pt(x3, y3)
		p.z.CubeTo(ax, ay, bx, by, ex, ey)
	}
	cubic(rx, ky, kx, ry, 0, ry)
	cubic(-kx, ry, -rx, ky, -rx, 0)
	cubic(-rx, -ky, -kx, -ry, 0, -ry)
	cubic(kx, -ry, rx, -ky, rx, 0)
	p.z.ClosePath()
	return p
}

// segment adds a straight stroke of the given width from a to b.
func (p *path) segment(a, b [2]float64, width float64) *path {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return p
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return p.polygon(
		[2]float64{a[0] + nx, a[1] + ny},
		[2]float64{b[0] + nx, b[1] + ny},
		[2]float64{b[0] - nx, b[1] - ny},
		[2]float64{a[0] - nx, a[1] - ny},
	)
}

// fill draws the accumulated path onto dst with src, compositing over.
func (p *path) fill(dst draw.Image, src image.Image) {
	p.z.DrawOp = draw.Over
	p.z.Draw(dst, dst.Bounds(), src, image.Point{})
}

// blit draws src onto dst with its centre at (cx, cy), its longer side
// scaled to size pixels and rotated by angle radians.
func blit(dst draw.Image, src image.Image, cx, cy, size, angle, alpha float64) {
	sr := src.Bounds()
	side := math.Max(float64(sr.Dx()), float64(sr.Dy()))
	if side == 0 || size <= 0 || alpha <= 0 {
		return
	}
	k := size / side
	sin, cos := math.Sincos(angle)
	sx := float64(sr.Min.X) + float64(sr.Dx())/2
	sy := float64(sr.Min.Y) + float64(sr.Dy())/2

	m := f64.Aff3{
		k * cos, -k * sin, cx - k*(cos*sx-sin*sy),
		k * sin, k * cos, cy - k*(sin*sx+cos*sy),
	}
	draw.BiLinear.Transform(dst, m, src, sr, draw.Over, alphaOptions(alpha))
}

// alphaOptions returns a uniform source mask for partial opacity.
func alphaOptions(alpha float64) *draw.Options {
	if alpha >= 1 {
		return nil
	}
	a := uint16(math.Round(math.Max(0, alpha) * 0xffff))
	return &draw.Options{SrcMask: image.NewUniform(color.Alpha16{A: a})}
}
