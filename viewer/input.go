package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	var act PanelActions
	if rl.IsKeyPressed(rl.KeySpace) {
		act.ToggleAnimate = true
	}
	if rl.IsKeyPressed(rl.KeyR) {
		act.Reseed = true
	}
	if rl.IsKeyPressed(rl.KeyN) || rl.IsKeyPressed(rl.KeyEnter) {
		act.Generate = true
	}
	if rl.IsKeyPressed(rl.KeyS) {
		act.Save = true
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		act.Fit = true
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.state.NextPreset()
	}
	v.apply(act)

	v.handleCameraInput()
}

// handleResize propagates the window size to the camera when it changes.
func (v *Viewer) handleResize() {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h
	v.camera.Resize(v.panel.Width(), 0, max(w-v.panel.Width(), 1), h)
}

// handleCameraInput processes pan and zoom controls.
func (v *Viewer) handleCameraInput() {
	c := v.camera

	// Pan speed in screen pixels per frame
	const panSpeed = 8
	if rl.IsKeyDown(rl.KeyRight) {
		c.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		c.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		c.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		c.Pan(0, -panSpeed)
	}

	mouse := rl.GetMousePosition()
	over := c.InViewport(mouse.X, mouse.Y)

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && over {
		c.ZoomAt(1+wheel*0.1, mouse.X, mouse.Y)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		c.ZoomAt(1.25, c.ViewX+c.ViewW/2, c.ViewY+c.ViewH/2)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		c.ZoomAt(0.8, c.ViewX+c.ViewW/2, c.ViewY+c.ViewH/2)
	}

	// Drag to pan; a drag that starts on the panel belongs to its widgets
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.dragging = over
	}
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		v.dragging = false
	}
	if v.dragging {
		d := rl.GetMouseDelta()
		c.Pan(-d.X, -d.Y)
	}
}
