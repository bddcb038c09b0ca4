package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsScene(t *testing.T) {
	tests := []struct {
		name           string
		viewW, viewH   float32
		sceneW, sceneH float32
		wantZoom       float32
	}{
		{"wide view", 1000, 500, 1200, 675, 500.0 / 675},
		{"tall view", 600, 1000, 1200, 675, 0.5},
		{"exact", 1200, 675, 1200, 675, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(0, 0, tt.viewW, tt.viewH, tt.sceneW, tt.sceneH)
			if !near(cam.Zoom, tt.wantZoom) {
				t.Errorf("zoom = %f, want %f", cam.Zoom, tt.wantZoom)
			}
			x, y, w, h := cam.SceneRect()
			if w > tt.viewW+0.01 || h > tt.viewH+0.01 {
				t.Errorf("scene rect %fx%f exceeds viewport", w, h)
			}
			if !near(x+w/2, tt.viewW/2) || !near(y+h/2, tt.viewH/2) {
				t.Errorf("scene not centred: rect (%f,%f,%f,%f)", x, y, w, h)
			}
		})
	}
}

func TestViewportOffset(t *testing.T) {
	cam := New(260, 0, 1000, 600, 1000, 600)
	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 260) || !near(sy, 0) {
		t.Errorf("scene origin at (%f,%f), want (260,0)", sx, sy)
	}
	if cam.InViewport(100, 100) {
		t.Error("panel area reported inside viewport")
	}
	if !cam.InViewport(300, 100) {
		t.Error("scene area reported outside viewport")
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(100, 20, 1280, 720, 2400, 1350)
	cam.SetZoom(cam.MinZoom * 2)
	cam.Pan(150, -40)

	for _, tc := range []struct{ sx, sy float32 }{{740, 380}, {120, 40}, {1300, 700}} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomClamping(t *testing.T) {
	cam := New(0, 0, 800, 450, 1200, 675)

	cam.SetZoom(100)
	if !near(cam.Zoom, cam.MaxZoom) {
		t.Errorf("zoom = %f, want max %f", cam.Zoom, cam.MaxZoom)
	}
	cam.SetZoom(0.001)
	if !near(cam.Zoom, cam.MinZoom) {
		t.Errorf("zoom = %f, want min %f", cam.Zoom, cam.MinZoom)
	}
}

func TestPanStaysInsideScene(t *testing.T) {
	cam := New(0, 0, 800, 450, 1200, 675)

	cam.Pan(5000, 5000)
	if !near(cam.X, 600) || !near(cam.Y, 337.5) {
		t.Errorf("fitted camera moved to (%f,%f)", cam.X, cam.Y)
	}

	cam.SetZoom(cam.MinZoom * 3)
	cam.Pan(100000, -100000)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX < -0.01 || minY < -0.01 || maxX > 1200.01 || maxY > 675.01 {
		t.Errorf("view (%f,%f)-(%f,%f) left the scene", minX, minY, maxX, maxY)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(0, 0, 800, 450, 1200, 675)
	cam.SetZoom(cam.MinZoom * 2)

	sx, sy := float32(420), float32(230)
	wx, wy := cam.ScreenToWorld(sx, sy)
	cam.ZoomAt(1.5, sx, sy)
	ax, ay := cam.ScreenToWorld(sx, sy)
	if !near(wx, ax) || !near(wy, ay) {
		t.Errorf("point under cursor moved from (%f,%f) to (%f,%f)", wx, wy, ax, ay)
	}
}

func TestResizeKeepsFit(t *testing.T) {
	cam := New(0, 0, 800, 450, 1200, 675)
	cam.Resize(0, 0, 1600, 900)
	if !near(cam.Zoom, cam.FitZoom()) {
		t.Errorf("zoom = %f after resize, want fit %f", cam.Zoom, cam.FitZoom())
	}

	cam.SetScene(600, 600)
	if !near(cam.X, 300) || !near(cam.Zoom, 1.5) {
		t.Errorf("SetScene: centre %f zoom %f", cam.X, cam.Zoom)
	}
}
