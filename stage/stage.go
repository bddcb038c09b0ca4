// Package stage keeps the viewer's animated sprites in an ECS world.
//
// Each prepared creature sprite becomes one entity carrying its resting
// anchor, motion parameters and current pose. Animate advances every pose
// for a timestamp; Instances returns the poses in draw order.
package stage

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/renderer"
)

// Instance is one sprite's pose for drawing.
type Instance struct {
	Sprite   int     // index into the prepared scene's sprites
	X, Y     float64 // creature centre in scene units
	Rotation float64 // radians
}

// Stage holds the sprite entities of one prepared scene.
type Stage struct {
	world *ecs.World

	mapper *ecs.Map5[
		components.Position,
		components.Rotation,
		components.SpriteRef,
		components.Anchor,
		components.Motion,
	]
	filter *ecs.Filter5[
		components.Position,
		components.Rotation,
		components.SpriteRef,
		components.Anchor,
		components.Motion,
	]

	count int
	time  float64
}

// New creates an empty stage.
func New() *Stage {
	world := ecs.NewWorld()
	return &Stage{
		world: world,
		mapper: ecs.NewMap5[
			components.Position,
			components.Rotation,
			components.SpriteRef,
			components.Anchor,
			components.Motion,
		](world),
		filter: ecs.NewFilter5[
			components.Position,
			components.Rotation,
			components.SpriteRef,
			components.Anchor,
			components.Motion,
		](world),
	}
}

// Load replaces the stage's entities with the sprites of p.
func (s *Stage) Load(p *renderer.PreparedScene) {
	s.Clear()
	for i, sp := range p.Sprites {
		pos := components.Position{X: sp.Center.X, Y: sp.Center.Y}
		rot := components.Rotation{}
		ref := components.SpriteRef{Index: i, Layer: sp.Layer, Static: sp.Static}
		anchor := components.Anchor{X: sp.Center.X, Y: sp.Center.Y}
		motion := sp.Motion
		s.mapper.NewEntity(&pos, &rot, &ref, &anchor, &motion)
	}
	s.count = len(p.Sprites)
	s.time = 0
}

// Clear removes every entity.
func (s *Stage) Clear() {
	var dead []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		dead = append(dead, query.Entity())
	}
	for _, e := range dead {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}

// Len returns the number of sprite entities.
func (s *Stage) Len() int { return s.count }

// Time returns the timestamp of the last Animate.
func (s *Stage) Time() float64 { return s.time }

// Animate poses every sprite for time t. Static sprites stay on their anchor.
func (s *Stage) Animate(t float64) {
	s.time = t
	query := s.filter.Query()
	for query.Next() {
		pos, rot, ref, anchor, motion := query.Get()
		if ref.Static {
			pos.X, pos.Y = anchor.X, anchor.Y
			rot.Angle = 0
			continue
		}
		dx, dy, r := motion.Offset(t)
		pos.X = anchor.X + dx
		pos.Y = anchor.Y + dy
		rot.Angle = r
	}
}

// Instances returns the current poses ascending by layer, ties in sprite order.
func (s *Stage) Instances() []Instance {
	type keyed struct {
		layer int
		inst  Instance
	}
	items := make([]keyed, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		pos, rot, ref, _, _ := query.Get()
		items = append(items, keyed{
			layer: ref.Layer,
			inst:  Instance{Sprite: ref.Index, X: pos.X, Y: pos.Y, Rotation: rot.Angle},
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return items[i].inst.Sprite < items[j].inst.Sprite
	})

	out := make([]Instance, len(items))
	for i, it := range items {
		out[i] = it.inst
	}
	return out
}
