// Package camera maps a scene onto a screen viewport with fit, zoom and pan.
package camera

// Camera controls the viewport into a scene.
// At MinZoom the whole scene fits the viewport; zooming in lets the view
// pan, always keeping its centre inside the scene.
type Camera struct {
	// Position is the view centre in scene coordinates
	X, Y float32

	// Zoom is screen pixels per scene unit
	Zoom float32

	// Viewport rectangle on screen
	ViewX, ViewY, ViewW, ViewH float32

	// Scene dimensions
	SceneW, SceneH float32

	// Zoom constraints; MinZoom is the fit zoom
	MinZoom, MaxZoom float32
}

// maxZoomFactor bounds magnification relative to the fit zoom.
const maxZoomFactor = 6

// New creates a camera showing the whole scene inside the viewport.
func New(viewX, viewY, viewW, viewH, sceneW, sceneH float32) *Camera {
	c := &Camera{
		ViewX: viewX, ViewY: viewY, ViewW: viewW, ViewH: viewH,
		SceneW: max(sceneW, 1), SceneH: max(sceneH, 1),
	}
	c.updateLimits()
	c.Fit()
	return c
}

// FitZoom returns the largest zoom that shows the whole scene.
func (c *Camera) FitZoom() float32 {
	return min(c.ViewW/c.SceneW, c.ViewH/c.SceneH)
}

func (c *Camera) updateLimits() {
	c.MinZoom = c.FitZoom()
	c.MaxZoom = c.MinZoom * maxZoomFactor
}

// Fit centres the scene at the fit zoom.
func (c *Camera) Fit() {
	c.X = c.SceneW / 2
	c.Y = c.SceneH / 2
	c.Zoom = c.MinZoom
}

// WorldToScreen converts scene coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewX + c.ViewW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewY + c.ViewH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to scene coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewX-c.ViewW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewY-c.ViewH/2)/c.Zoom
	return wx, wy
}

// InViewport reports whether a screen point lies inside the viewport.
func (c *Camera) InViewport(sx, sy float32) bool {
	return sx >= c.ViewX && sx < c.ViewX+c.ViewW && sy >= c.ViewY && sy < c.ViewY+c.ViewH
}

// SceneRect returns the screen rectangle the whole scene maps to.
func (c *Camera) SceneRect() (x, y, w, h float32) {
	x, y = c.WorldToScreen(0, 0)
	return x, y, c.SceneW * c.Zoom, c.SceneH * c.Zoom
}

// Resize updates the viewport and recalculates zoom constraints.
func (c *Camera) Resize(viewX, viewY, viewW, viewH float32) {
	if viewX == c.ViewX && viewY == c.ViewY && viewW == c.ViewW && viewH == c.ViewH {
		return
	}
	fitted := c.Zoom == c.MinZoom
	c.ViewX, c.ViewY, c.ViewW, c.ViewH = viewX, viewY, viewW, viewH
	c.updateLimits()
	if fitted {
		c.Fit()
		return
	}
	c.SetZoom(c.Zoom)
}

// SetScene changes the scene size and refits the view.
func (c *Camera) SetScene(sceneW, sceneH float32) {
	c.SceneW, c.SceneH = max(sceneW, 1), max(sceneH, 1)
	c.updateLimits()
	c.Fit()
}

// Pan moves the view by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCentre()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCentre()
}

// ZoomAt multiplies the zoom by factor, keeping the scene point under the
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	ax, ay := c.ScreenToWorld(sx, sy)
	c.X += wx - ax
	c.Y += wy - ay
	c.clampCentre()
}

// VisibleWorldBounds returns the scene-coordinate bounds of the viewport.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewW / (2 * c.Zoom)
	halfH := c.ViewH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCentre keeps the view inside the scene on each axis where the
// scene is larger than the view, and centred where it is smaller.
func (c *Camera) clampCentre() {
	halfW := c.ViewW / (2 * c.Zoom)
	halfH := c.ViewH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, c.SceneW)
	c.Y = clampAxis(c.Y, halfH, c.SceneH)
}

func clampAxis(centre, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(centre, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
