package renderer

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/pthm-cable/aquarium/prng"
)

// nativeFaceSize is the pixel size font glyphs are rasterised at before scaling.
const nativeFaceSize = 64

// DefaultFace returns the built-in bitmap face.
func DefaultFace() font.Face {
	return basicfont.Face7x13
}

// LoadFace parses an OpenType or TrueType font file. An empty path returns
// DefaultFace.
func LoadFace(path string) (font.Face, error) {
	if path == "" {
		return DefaultFace(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    nativeFaceSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	return face, nil
}

// nativePalette tints font glyphs, which carry no colour of their own.
var nativePalette = []color.NRGBA{
	{R: 0xff, G: 0xd1, B: 0x66, A: 0xff},
	{R: 0xff, G: 0x8c, B: 0x69, A: 0xff},
	{R: 0x7e, G: 0xe0, B: 0xc6, A: 0xff},
	{R: 0xf7, G: 0xa8, B: 0xd8, A: 0xff},
	{R: 0xa5, G: 0xd8, B: 0xff, A: 0xff},
	{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff},
}

func nativeColor(glyph string) color.NRGBA {
	return nativePalette[prng.HashString(glyph)%uint32(len(nativePalette))]
}

// renderNative draws glyph with face onto a square transparent canvas.
// When the face has none of the glyph's runes a tinted disc stands in.
func renderNative(face font.Face, glyph string) image.Image {
	c := nativeColor(glyph)
	if !faceCovers(face, glyph) {
		return disc(nativeFaceSize, c)
	}

	bounds, _ := font.BoundString(face, glyph)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return disc(nativeFaceSize, c)
	}
	side := max(w, h)
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((side-w)/2) - bounds.Min.X,
			Y: fixed.I((side-h)/2) - bounds.Min.Y,
		},
	}
	d.DrawString(glyph)
	return img
}

// faceCovers reports whether face has a glyph for any visible rune of s.
func faceCovers(face font.Face, s string) bool {
	for _, r := range s {
		if r == '\ufe0f' || r == '\u200d' {
			continue
		}
		if _, _, _, _, ok := face.Glyph(fixed.P(0, 0), r); ok {
			return true
		}
	}
	return false
}

func disc(size int, c color.NRGBA) image.Image {
	r := image.Rect(0, 0, size, size)
	img := image.NewRGBA(r)
	half := float64(size) / 2
	newPath(r).ellipse(half, half, half*0.8, half*0.8, 0).fill(img, image.NewUniform(c))
	return img
}
