// Package scene generates aquarium scenes from Settings.
//
// Generation is a pure function of its Settings: every random decision is
// drawn from one generator seeded by Settings.SeedString, so the same
// settings always produce the same Scene.
package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pthm-cable/aquarium/components"
)

// Scene is everything a renderer needs to draw one aquarium.
// It is not modified after generation.
type Scene struct {
	Width            int                    `json:"width"`
	Height           int                    `json:"height"`
	SeabedY          float64                `json:"seabed_y"`
	SeabedWave       []components.WavePoint `json:"seabed_wave"`
	Rocks            []components.RockShape `json:"rocks"`
	StaticPlacements []components.Placement `json:"static_placements"`
	Creatures        []components.Creature  `json:"creatures"`
}

// PlacementCount returns the number of static and creature placements.
func (s *Scene) PlacementCount() int {
	n := len(s.StaticPlacements)
	for _, c := range s.Creatures {
		n += len(c.Placements)
	}
	return n
}

// AllPlacements returns static placements followed by each creature's placements.
func (s *Scene) AllPlacements() []components.Placement {
	out := make([]components.Placement, 0, s.PlacementCount())
	out = append(out, s.StaticPlacements...)
	for _, c := range s.Creatures {
		out = append(out, c.Placements...)
	}
	return out
}

// HasStaticTag reports whether any static placement carries tag.
func (s *Scene) HasStaticTag(tag components.Tag) bool {
	for _, p := range s.StaticPlacements {
		if p.Tag == tag {
			return true
		}
	}
	return false
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return nil
}

// Decode reads a scene written by Encode.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return &s, nil
}
