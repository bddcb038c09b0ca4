package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/ojrac/opensimplex-go"
	"golang.org/x/image/draw"

	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/scene"
)

var (
	waterStops = []stop{
		{0, color.NRGBA{R: 0x08, G: 0x23, B: 0x57, A: 0xff}},
		{0.55, color.NRGBA{R: 0x0b, G: 0x4a, B: 0x85, A: 0xff}},
		{1, color.NRGBA{R: 0x0d, G: 0x7c, B: 0xb0, A: 0xff}},
	}
	vignetteStops = []stop{
		{0, color.NRGBA{R: 5, G: 12, B: 24, A: 0}},
		{1, color.NRGBA{R: 4, G: 8, B: 20, A: 153}},
	}
	sandStops = []stop{
		{0, color.NRGBA{R: 0xd6, G: 0xb6, B: 0x84, A: 0xff}},
		{1, color.NRGBA{R: 0xa4, G: 0x79, B: 0x47, A: 0xff}},
	}
	rockColor = color.NRGBA{R: 80, G: 60, B: 30, A: 89}
)

// Sand grain noise parameters.
const (
	grainPeriod   = 1.6 // scene units per noise unit
	grainStrength = 0.2 // peak-to-peak brightness variation
)

// drawBackground paints water, vignette, seabed and rocks at scale.
func drawBackground(sc *scene.Scene, r image.Rectangle, scale float64) *image.RGBA {
	img := image.NewRGBA(r)
	drawWater(img)
	drawVignette(img, sc, scale)
	drawSeabed(img, sc, scale)
	drawRocks(img, sc, scale)
	return img
}

func drawWater(img *image.RGBA) {
	b := img.Bounds()
	h := float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		c := sample(waterStops, (float64(y)+0.5)/h)
		row := img.Pix[img.PixOffset(b.Min.X, y) : img.PixOffset(b.Max.X-1, y)+4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

// drawVignette darkens the edges with a radial gradient centred a little
// above the middle of the canvas.
func drawVignette(img *image.RGBA, sc *scene.Scene, scale float64) {
	w, h := float64(sc.Width)*scale, float64(sc.Height)*scale
	cx, cy := w*0.5, h*0.4
	r0, r1 := w*0.2, w*0.9
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			blendOver(img, x, y, sample(vignetteStops, (d-r0)/(r1-r0)))
		}
	}
}

// drawSeabed fills the sand polygon under the wave contour and roughens it
// with simplex grain.
func drawSeabed(img *image.RGBA, sc *scene.Scene, scale float64) {
	b := img.Bounds()
	w, h := float64(sc.Width)*scale, float64(sc.Height)*scale
	top := (sc.SeabedY + 10) * scale

	pts := [][2]float64{{0, top}}
	for _, p := range sc.SeabedWave {
		pts = append(pts, [2]float64{p.X * scale, p.Y * scale})
	}
	pts = append(pts, [2]float64{w, top}, [2]float64{w, h}, [2]float64{0, h})

	sand := image.NewRGBA(b)
	grad := verticalGradient{rect: b, y0: sc.SeabedY * scale, y1: h, stops: sandStops}
	newPath(b).polygon(pts...).fill(sand, grad)

	noise := opensimplex.NewNormalized(int64(seabedSeed(sc)))
	period := grainPeriod * scale
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := sand.PixOffset(x, y)
			a := sand.Pix[i+3]
			if a == 0 {
				continue
			}
			f := 1 - grainStrength/2 + grainStrength*noise.Eval2(float64(x)/period, float64(y)/period)
			for c := 0; c < 3; c++ {
				v := math.Round(float64(sand.Pix[i+c]) * f)
				sand.Pix[i+c] = uint8(math.Min(v, float64(a)))
			}
		}
	}
	draw.Draw(img, b, sand, b.Min, draw.Over)
}

// seabedSeed derives the grain seed from the seabed contour, so the grain
// is fixed for a scene.
func seabedSeed(sc *scene.Scene) uint32 {
	h := prng.HashString("seabed")
	for _, p := range sc.SeabedWave {
		h ^= uint32(int64(p.Y*1000)) * 16777619
	}
	return h
}

func drawRocks(img *image.RGBA, sc *scene.Scene, scale float64) {
	if len(sc.Rocks) == 0 {
		return
	}
	p := newPath(img.Bounds())
	for _, r := range sc.Rocks {
		p.ellipse(r.X*scale, r.Y*scale, r.W/2*scale, r.H/2*scale, r.Tilt)
	}
	p.fill(img, image.NewUniform(rockColor))
}

// Frame overlay colours.
var (
	barColor    = color.NRGBA{R: 5, G: 8, B: 16, A: 140}
	strokeColor = color.NRGBA{R: 255, G: 255, B: 255, A: 31}
)

// barHeight is the height of the frame's caption bar in scene units.
const barHeight = 46

// drawOverlay paints the optional frame: a translucent caption bar along the
// bottom and a faint glint line across the top right.
func drawOverlay(sc *scene.Scene, r image.Rectangle, scale float64) *image.RGBA {
	img := image.NewRGBA(r)
	w, h := float64(sc.Width)*scale, float64(sc.Height)*scale

	newPath(r).polygon(
		[2]float64{0, h - barHeight*scale},
		[2]float64{w, h - barHeight*scale},
		[2]float64{w, h},
		[2]float64{0, h},
	).fill(img, image.NewUniform(barColor))

	width := math.Max(1, scale)
	newPath(r).
		segment([2]float64{0, 20 * scale}, [2]float64{w, 0}, width).
		segment([2]float64{w, 0}, [2]float64{w, 40 * scale}, width).
		fill(img, image.NewUniform(strokeColor))
	return img
}
