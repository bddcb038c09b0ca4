package viewer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquarium/renderer"
)

// rgbaPixels copies img row by row into the layout rl.UpdateTexture expects.
// The values stay premultiplied.
func rgbaPixels(img *image.RGBA) []color.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			out[y*w+x] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return out
}

// uploadImage creates a GPU texture holding img.
func uploadImage(img *image.RGBA) rl.Texture2D {
	b := img.Bounds()
	blank := rl.GenImageColor(b.Dx(), b.Dy(), rl.Blank)
	tex := rl.LoadTextureFromImage(blank)
	rl.UnloadImage(blank)
	rl.UpdateTexture(tex, rgbaPixels(img))
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return tex
}

// sceneTextures holds the GPU copies of one prepared scene.
type sceneTextures struct {
	background rl.Texture2D
	under      rl.Texture2D
	over       rl.Texture2D
	overlay    rl.Texture2D
	hasOverlay bool
	sprites    []rl.Texture2D
	loaded     bool
}

func uploadScene(p *renderer.PreparedScene) sceneTextures {
	t := sceneTextures{
		background: uploadImage(p.Background),
		under:      uploadImage(p.Under),
		over:       uploadImage(p.Over),
		sprites:    make([]rl.Texture2D, len(p.Sprites)),
		loaded:     true,
	}
	if p.Overlay != nil {
		t.overlay = uploadImage(p.Overlay)
		t.hasOverlay = true
	}
	for i, s := range p.Sprites {
		t.sprites[i] = uploadImage(s.Image)
	}
	return t
}

func (t *sceneTextures) unload() {
	if !t.loaded {
		return
	}
	rl.UnloadTexture(t.background)
	rl.UnloadTexture(t.under)
	rl.UnloadTexture(t.over)
	if t.hasOverlay {
		rl.UnloadTexture(t.overlay)
	}
	for _, s := range t.sprites {
		rl.UnloadTexture(s)
	}
	*t = sceneTextures{}
}
