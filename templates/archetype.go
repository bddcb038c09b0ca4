// Package templates builds creatures out of glyph placements.
//
// Archetypes compose a handful of geometric primitives (spines, rows, fans,
// oval fills and chains). Each generator is a pure function of its Input:
// the same RNG state and picker yield the same placements.
package templates

import (
	"fmt"

	"github.com/pthm-cable/aquarium/components"
)

// Generator produces the placements of one creature.
type Generator func(in Input) []components.Placement

// Archetype identifies a creature generator.
type Archetype uint8

const (
	FishLong Archetype = iota
	FishRound
	MosaicGiant
	Eel
	Jellyfish
	Shrimp
	Crab
	SchoolOfFish
	CoralCluster
	Octopus
	Seahorse
	archetypeCount
)

var archetypeNames = [archetypeCount]string{
	FishLong:     "fish_long",
	FishRound:    "fish_round",
	MosaicGiant:  "mosaic_giant",
	Eel:          "eel",
	Jellyfish:    "jellyfish",
	Shrimp:       "shrimp",
	Crab:         "crab",
	SchoolOfFish: "school_of_fish",
	CoralCluster: "coral_cluster",
	Octopus:      "octopus",
	Seahorse:     "seahorse",
}

var generators = [archetypeCount]Generator{
	FishLong:     fishLong,
	FishRound:    fishRound,
	MosaicGiant:  mosaicGiant,
	Eel:          eel,
	Jellyfish:    jellyfish,
	Shrimp:       shrimp,
	Crab:         crab,
	SchoolOfFish: schoolOfFish,
	CoralCluster: coralCluster,
	Octopus:      octopus,
	Seahorse:     seahorse,
}

// String returns the archetype identifier used as a creature ID.
func (a Archetype) String() string {
	if a < archetypeCount {
		return archetypeNames[a]
	}
	return fmt.Sprintf("archetype(%d)", uint8(a))
}

// Generate runs the archetype's generator.
func (a Archetype) Generate(in Input) []components.Placement {
	return generators[a](in)
}

// Archetypes returns every archetype in table order.
func Archetypes() []Archetype {
	out := make([]Archetype, archetypeCount)
	for i := range out {
		out[i] = Archetype(i)
	}
	return out
}

// Swimming returns the archetypes placed as free-swimming creatures:
// everything except the hero and coral, which the scene places itself.
func Swimming() []Archetype {
	out := make([]Archetype, 0, archetypeCount-2)
	for _, a := range Archetypes() {
		if a == MosaicGiant || a == CoralCluster {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ParseArchetype looks up an archetype by identifier.
func ParseArchetype(name string) (Archetype, error) {
	for i, n := range archetypeNames {
		if n == name {
			return Archetype(i), nil
		}
	}
	return 0, fmt.Errorf("unknown archetype %q", name)
}
