package viewer

import (
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	clearColor = rl.Color{R: 4, G: 14, B: 24, A: 255}
	spriteTint = rl.White
)

// Draw renders the scene and the control panel.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(clearColor)

	v.drawScene()
	v.drawPanel()

	rl.EndDrawing()
}

func (v *Viewer) drawScene() {
	if v.prepared == nil {
		rl.DrawText("preparing...", int32(v.camera.ViewX)+20, int32(v.camera.ViewY)+20, 20, rl.LightGray)
		return
	}

	c := v.camera
	rl.BeginScissorMode(int32(c.ViewX), int32(c.ViewY), int32(c.ViewW), int32(c.ViewH))
	// image.RGBA pixels are premultiplied
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)

	x, y, w, h := c.SceneRect()
	dst := rl.NewRectangle(x, y, w, h)
	v.drawLayer(v.textures.background, dst)
	v.drawLayer(v.textures.under, dst)
	v.drawSprites()
	v.drawLayer(v.textures.over, dst)
	if v.textures.hasOverlay {
		v.drawLayer(v.textures.overlay, dst)
	}

	rl.EndBlendMode()
	rl.EndScissorMode()
}

func (v *Viewer) drawLayer(tex rl.Texture2D, dst rl.Rectangle) {
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, spriteTint)
}

// drawSprites draws every creature at its current pose, rotating about the
// creature centre.
func (v *Viewer) drawSprites() {
	c := v.camera
	scale := float32(v.prepared.Options.Scale)
	minX, minY, maxX, maxY := c.VisibleWorldBounds()

	for _, in := range v.stage.Instances() {
		sp := &v.prepared.Sprites[in.Sprite]
		tex := v.textures.sprites[in.Sprite]

		w := float32(tex.Width) / scale
		h := float32(tex.Height) / scale
		px := float32(sp.Center.X - sp.Origin.X)
		py := float32(sp.Center.Y - sp.Origin.Y)

		// cull on the unrotated canvas grown by its diagonal
		reach := w + h
		cx, cy := float32(in.X), float32(in.Y)
		if cx+reach < minX || cx-reach > maxX || cy+reach < minY || cy-reach > maxY {
			continue
		}

		sx, sy := c.WorldToScreen(cx, cy)
		src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
		dst := rl.NewRectangle(sx, sy, w*c.Zoom, h*c.Zoom)
		origin := rl.NewVector2(px*c.Zoom, py*c.Zoom)
		rl.DrawTexturePro(tex, src, dst, origin, float32(in.Rotation*180/math.Pi), spriteTint)
	}
}

func (v *Viewer) drawPanel() {
	info := PanelInfo{
		Status:    v.status,
		Failed:    v.failed,
		Loading:   v.inflight,
		Animating: v.loop.Running(),
		Time:      v.stage.Time(),
		Zoom:      v.camera.Zoom / v.camera.MinZoom,
		FPS:       rl.GetFPS(),
		Scene:     v.stats,
		Cache:     v.cache.Stats(),
	}
	act := v.panel.Draw(v.state, info, v.screenH)
	v.apply(act)
}

// apply performs panel and keyboard actions.
func (v *Viewer) apply(act PanelActions) {
	if act.Reseed {
		v.reseed()
	}
	if act.Generate {
		v.commit()
	}
	if act.ToggleAnimate {
		v.toggleAnimation()
	}
	if act.Fit {
		v.camera.Fit()
	}
	if act.Save {
		if path, err := v.savePNG(); err != nil {
			v.logger.Error("saving frame", "err", err)
		} else {
			v.status = "saved " + filepath.Base(path)
			v.logger.Info("saved frame", "path", path)
		}
	}
}

// savePNG writes the frame on screen at full resolution.
func (v *Viewer) savePNG() (string, error) {
	if v.prepared == nil {
		return "", fmt.Errorf("no scene prepared")
	}
	img, err := v.prepared.Frame(v.stage.Time())
	if err != nil {
		return "", err
	}

	dir := v.output.Dir()
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fmt.Sprintf("aquarium-%s.png", fileSafe(v.shown.Seed)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding png: %w", err)
	}
	return path, f.Close()
}

// fileSafe replaces path separators and other awkward runes in seed.
func fileSafe(seed string) string {
	out := []rune(seed)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			out[i] = '_'
		}
	}
	return string(out)
}
