package scene

import (
	"math"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/glyph"
	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/templates"
)

// Layer offsets added to template layers per creature class.
const (
	heroLayerOffset   = 1
	bigLayerOffset    = 1
	midLayerOffset    = 2
	smallLayerOffset  = 3
	schoolLayerOffset = 2
	coralLayerOffset  = 4
)

// radiusPerSize converts a creature size into its occupancy radius.
const radiusPerSize = 3.2

// Counts is the creature population split by size class.
type Counts struct {
	Big   int `json:"big"`
	Mid   int `json:"mid"`
	Small int `json:"small"`
}

// Total returns the sum of all classes.
func (c Counts) Total() int { return c.Big + c.Mid + c.Small }

// PopulationCounts splits density into size classes. Big and mid always get
// at least one creature each.
func PopulationCounts(density int) Counts {
	total := max(0, density)
	big := max(1, jsRound(float64(total)*0.18))
	mid := max(1, jsRound(float64(total)*0.40))
	return Counts{Big: big, Mid: mid, Small: max(0, total-big-mid)}
}

// Report describes how a scene was assembled.
type Report struct {
	Seed     uint32 `json:"seed"`
	Draws    uint64 `json:"draws"`
	Counts   Counts `json:"counts"`
	Bubbles  int    `json:"bubbles"`
	Props    int    `json:"props"`
	Hero     bool   `json:"hero"`
	Schools  int    `json:"schools"`
	Corals   int    `json:"corals"`
	Sparkles int    `json:"sparkles"`

	// Centerpiece gate: the value of the gating draw and how many draws
	// preceded it. When chaos is too low for the gate the value is -1 and
	// the index is 0.
	Centerpiece          bool    `json:"centerpiece"`
	CenterpieceDraw      float64 `json:"centerpiece_draw"`
	CenterpieceDrawIndex uint64  `json:"centerpiece_draw_index"`

	Occupancy []Record         `json:"occupancy"`
	Fallbacks []components.Tag `json:"fallbacks"`
}

// Generate builds the scene for settings.
func Generate(settings Settings) *Scene {
	s, _ := GenerateWithReport(settings)
	return s
}

// GenerateWithReport builds the scene for settings and reports how it was built.
func GenerateWithReport(settings Settings) (*Scene, *Report) {
	settings = settings.Normalize()
	seed := prng.HashString(settings.SeedString())
	rng := prng.New(seed)

	g := &generator{
		rng: rng,
		picker: glyph.NewPicker(settings.Glyphs, glyph.Options{
			Strict:     settings.Strict,
			ChaosAddon: settings.ChaosAddon,
		}, rng),
		w:      float64(settings.Width),
		h:      float64(settings.Height),
		chaos:  settings.Chaos,
		report: &Report{Seed: seed, CenterpieceDraw: -1},
		scene:  &Scene{Width: settings.Width, Height: settings.Height},
	}
	g.seabedY = g.h * 0.82
	g.scene.SeabedY = g.seabedY

	g.seabed()
	g.ambient()

	counts := PopulationCounts(settings.Density)
	g.report.Counts = counts

	var occ Occupancy
	var hero *components.Creature
	occ, hero = g.hero(occ, counts.Total())
	occ = g.population(occ, counts)
	occ = g.schools(occ, hero)
	g.corals()
	g.decor()
	g.guarantee()

	g.report.Occupancy = occ.Records()
	g.report.Draws = rng.Draws()
	return g.scene, g.report
}

type generator struct {
	rng     *prng.RNG
	picker  *glyph.Picker
	w, h    float64
	seabedY float64
	chaos   float64
	scene   *Scene
	report  *Report
}

func (g *generator) static(p components.Placement) {
	g.scene.StaticPlacements = append(g.scene.StaticPlacements, p)
}

func (g *generator) seabed() {
	rng := g.rng
	for i := 0; i < 7; i++ {
		g.scene.SeabedWave = append(g.scene.SeabedWave, components.WavePoint{
			X: g.w / 6 * float64(i),
			Y: g.seabedY + rng.Range(-18, 18),
		})
	}

	n := rng.IntRange(2, 4)
	for i := 0; i < n; i++ {
		g.scene.Rocks = append(g.scene.Rocks, components.RockShape{
			X:    rng.Range(g.w*0.05, g.w*0.95),
			Y:    rng.Range(g.seabedY+10, g.h-20),
			W:    rng.Range(60, 140),
			H:    rng.Range(30, 80),
			Tilt: rng.Range(-0.4, 0.4),
		})
	}
}

// ambient scatters bubbles through the water, props along the seabed and,
// at high chaos, one oversized centerpiece prop.
func (g *generator) ambient() {
	rng := g.rng

	bubbles := max(6, jsRound(g.w*g.h/180000)+jsRound(g.chaos/12))
	for i := 0; i < bubbles; i++ {
		x := rng.Range(40, g.w-40)
		y := rng.Range(30, g.seabedY-40)
		scale := rng.Range(12, 28)
		rot := rng.Range(-0.4, 0.4)
		bubble := g.picker.Pick(components.TagBubble)
		g.static(components.Placement{
			X: x, Y: y, Scale: scale, Rotation: rot, Layer: 1,
			Glyph: bubble, Tag: components.TagBubble,
		}.WithOpacity(rng.Range(0.5, 0.9)))
	}
	g.report.Bubbles = bubbles

	props := max(2, jsRound(g.chaos/8))
	for i := 0; i < props; i++ {
		scale := rng.Range(24, 64)
		x := rng.Range(40, g.w-40)
		y := rng.Range(g.seabedY-30, g.h-40)
		rot := rng.Range(-1.2, 1.2)
		g.static(components.Placement{
			X: x, Y: y, Scale: scale, Rotation: rot, Layer: 6,
			Glyph: g.picker.Pick(components.TagProp), Tag: components.TagProp,
		})
	}
	g.report.Props = props

	if g.chaos <= 60 {
		return
	}
	g.report.CenterpieceDrawIndex = rng.Draws()
	draw := rng.Float64()
	g.report.CenterpieceDraw = draw
	if draw >= 0.7 {
		return
	}
	x := rng.Range(g.w*0.2, g.w*0.8)
	y := rng.Range(g.seabedY-40, g.h-80)
	scale := rng.Range(90, 130)
	rot := rng.Range(-0.3, 0.3)
	g.static(components.Placement{
		X: x, Y: y, Scale: scale, Rotation: rot, Layer: 7,
		Glyph: g.picker.Pick(components.TagProp), Tag: components.TagProp,
	})
	g.report.Centerpiece = true
}

// creature runs an archetype and appends the result to the scene.
func (g *generator) creature(a templates.Archetype, x, y, size, angle float64, layerOffset int, static bool) components.Creature {
	placements := a.Generate(templates.Input{
		RNG:    g.rng,
		X:      x,
		Y:      y,
		Size:   size,
		Angle:  angle,
		Picker: g.picker,
	})
	for i := range placements {
		placements[i].Layer += layerOffset
	}
	c := components.NewCreature(a.String(), placements, g.rng.Uint32(), static)
	g.scene.Creatures = append(g.scene.Creatures, c)
	return c
}

// heading picks a mostly horizontal direction, facing left or right.
func (g *generator) heading(spread float64) float64 {
	a := g.rng.Range(-spread, spread)
	if g.rng.Chance(0.5) {
		a += math.Pi
	}
	return a
}

// hero places the mosaic giant near the centre and reserves a wide circle
// around it before any other creature is placed.
func (g *generator) hero(occ Occupancy, total int) (Occupancy, *components.Creature) {
	draw := g.rng.Float64()
	if total < 3 || draw >= 0.45+g.chaos/200 {
		return occ, nil
	}

	size := g.rng.Range(24, 32)
	x := g.w * 0.5
	y := math.Min(g.h*0.45, g.seabedY-120)
	angle := g.heading(0.25)

	occ = occ.Reserve("hero", Circle{X: x, Y: y, R: size * 6})
	c := g.creature(templates.MosaicGiant, x, y, size, angle, heroLayerOffset, false)
	g.report.Hero = true
	return occ, &c
}

func (g *generator) population(occ Occupancy, counts Counts) Occupancy {
	swimming := templates.Swimming()
	add := func(size, yMin, yMax float64, layerOffset int) {
		a := prng.PickOne(g.rng, swimming)
		var pos Circle
		pos, occ = occ.Place(g.rng, a.String(), size*radiusPerSize, g.w, yMin, yMax)
		g.creature(a, pos.X, pos.Y, size, g.heading(0.6), layerOffset, false)
	}

	for i := 0; i < counts.Big; i++ {
		add(g.rng.Range(26, 36), g.h*0.25, g.seabedY-80, bigLayerOffset)
	}
	for i := 0; i < counts.Mid; i++ {
		add(g.rng.Range(20, 30), g.h*0.2, g.seabedY-50, midLayerOffset)
	}
	for i := 0; i < counts.Small; i++ {
		add(g.rng.Range(14, 20), g.h*0.15, g.seabedY-30, smallLayerOffset)
	}
	return occ
}

// schools adds one or two fish schools. With a hero they orbit it at
// opposing angles; otherwise they are sampled like any other creature.
func (g *generator) schools(occ Occupancy, hero *components.Creature) Occupancy {
	rng := g.rng
	n := rng.IntRange(1, 2)
	base := rng.Range(0, 2*math.Pi)
	for i := 0; i < n; i++ {
		size := rng.Range(16, 22)
		radius := size * radiusPerSize
		var x, y float64
		if hero != nil {
			theta := base + float64(i)*math.Pi + rng.Range(-0.5, 0.5)
			dist := math.Max(hero.Bounds.Width(), hero.Bounds.Height())/2 + radius*rng.Range(0.6, 1.0)
			x = clamp(hero.Center.X+math.Cos(theta)*dist, radius+edgeMargin, g.w-radius-edgeMargin)
			y = clamp(hero.Center.Y+math.Sin(theta)*dist*0.6, g.h*0.15, g.seabedY-40)
			occ = occ.Reserve("school", Circle{X: x, Y: y, R: radius})
		} else {
			var c Circle
			c, occ = occ.Place(rng, "school", radius, g.w, g.h*0.2, g.seabedY-60)
			x, y = c.X, c.Y
		}
		g.creature(templates.SchoolOfFish, x, y, size, g.heading(0.4), schoolLayerOffset, false)
	}
	g.report.Schools = n
	return occ
}

// corals plants static coral clusters on the seabed, alternating sides.
func (g *generator) corals() {
	rng := g.rng
	n := rng.IntRange(1, 3)
	left := rng.Chance(0.5)
	for i := 0; i < n; i++ {
		var x float64
		if left {
			x = rng.Range(80, math.Max(80, g.w*0.45))
		} else {
			x = rng.Range(math.Min(g.w-80, g.w*0.55), g.w-80)
		}
		left = !left
		y := rng.Range(g.seabedY+10, g.h-30)
		size := rng.Range(18, 24)
		g.creature(templates.CoralCluster, x, y, size, -math.Pi/2, coralLayerOffset, true)
	}
	g.report.Corals = n
}

// decor adds the static dressing: foreground silhouettes, a faint
// background silhouette and sparkles in the upper water. Fins and eyes are
// left to the creatures and the guarantee pass.
func (g *generator) decor() {
	rng := g.rng

	fg := 1 + jsRound(g.chaos/40)
	for i := 0; i < fg; i++ {
		x := rng.Range(0, g.w)
		y := rng.Range(g.seabedY+20, g.h-10)
		scale := rng.Range(70, 110)
		rot := rng.Range(-0.3, 0.3)
		g.static(components.Placement{
			X: x, Y: y, Scale: scale, Rotation: rot, Layer: 8,
			Glyph: g.picker.Pick(components.TagProp), Tag: components.TagProp,
		}.WithOpacity(rng.Range(0.7, 0.9)))
	}

	if rng.Chance(0.65) {
		ghost := g.picker.Pick(components.TagBody)
		x := rng.Range(g.w*0.2, g.w*0.8)
		y := rng.Range(g.h*0.25, g.h*0.55)
		scale := rng.Range(220, 320)
		rot := rng.Range(-0.2, 0.2)
		g.static(components.Placement{
			X: x, Y: y, Scale: scale, Rotation: rot, Layer: 0,
			Glyph: ghost, Tag: components.TagBody,
		}.WithOpacity(rng.Range(0.08, 0.16)))
	}

	sparkles := 3 + jsRound(g.chaos/20)
	for i := 0; i < sparkles; i++ {
		x := rng.Range(20, g.w-20)
		y := rng.Range(10, g.h*0.35)
		scale := rng.Range(10, 20)
		rot := rng.Range(-0.5, 0.5)
		g.static(components.Placement{
			X: x, Y: y, Scale: scale, Rotation: rot, Layer: 9,
			Glyph: g.picker.Pick(components.TagAccent), Tag: components.TagAccent,
		}.WithOpacity(rng.Range(0.5, 1)))
	}
	g.report.Sparkles = sparkles
}

// guarantee appends a placement at a fixed anchor for every required tag
// that no static placement carries yet.
func (g *generator) guarantee() {
	anchors := []struct {
		tag   components.Tag
		x, y  float64
		scale float64
		layer int
	}{
		{components.TagBubble, g.w * 0.2, g.h * 0.3, 18, 1},
		{components.TagProp, g.w * 0.8, g.seabedY + 20, 60, 6},
		{components.TagFin, g.w * 0.6, g.h * 0.4, 22, 6},
		{components.TagAccent, g.w * 0.3, g.h * 0.35, 18, 7},
		{components.TagEye, g.w * 0.4, g.h * 0.3, 20, 7},
	}
	for _, a := range anchors {
		if g.scene.HasStaticTag(a.tag) {
			continue
		}
		g.static(components.Placement{
			X: a.x, Y: a.y, Scale: a.scale, Layer: a.layer,
			Glyph: g.picker.Pick(a.tag), Tag: a.tag,
		})
		g.report.Fallbacks = append(g.report.Fallbacks, a.tag)
	}
}

// RequiredTags are the tags every scene carries among its static placements.
var RequiredTags = []components.Tag{
	components.TagBubble,
	components.TagProp,
	components.TagFin,
	components.TagAccent,
	components.TagEye,
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func jsRound(x float64) int {
	return int(math.Floor(x + 0.5))
}
