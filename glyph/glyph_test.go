package glyph

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/prng"
)

func TestPoolConstruction(t *testing.T) {
	tests := []struct {
		name   string
		glyphs []string
		strict bool
		want   []string
	}{
		{
			name:   "strict keeps caller glyphs deduplicated",
			glyphs: []string{"🐟", "🐠", "🐟"},
			strict: true,
			want:   []string{"🐟", "🐠"},
		},
		{
			name:   "empty strict falls back to defaults",
			glyphs: nil,
			strict: true,
			want:   defaultPool,
		},
		{
			name:   "non-strict unions defaults after caller glyphs",
			glyphs: []string{"🐙", "🐟"},
			strict: false,
			want:   append([]string{"🐙"}, defaultPool...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPicker(tt.glyphs, Options{Strict: tt.strict}, prng.New(1))
			if got := p.Pool(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidatesFallBackToFullPool(t *testing.T) {
	p := NewPicker([]string{"🐟", "🐠"}, Options{Strict: true}, prng.New(1))
	for _, tag := range []components.Tag{components.TagEye, components.TagBubble, components.TagAccent, components.TagProp} {
		if got := p.Candidates(tag); !reflect.DeepEqual(got, []string{"🐟", "🐠"}) {
			t.Errorf("Candidates(%v) = %v, want full pool", tag, got)
		}
	}
}

func TestCandidatesUseSubPool(t *testing.T) {
	p := NewPicker([]string{"🐟", "👀", "🫧", "🪨"}, Options{Strict: true}, prng.New(1))
	tests := []struct {
		tag  components.Tag
		want []string
	}{
		{components.TagEye, []string{"👀"}},
		{components.TagBubble, []string{"🫧"}},
		{components.TagProp, []string{"🪨"}},
		{components.TagBody, []string{"🐟", "👀", "🫧", "🪨"}},
	}
	for _, tt := range tests {
		if got := p.Candidates(tt.tag); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Candidates(%v) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestChaosAddonExtendsProps(t *testing.T) {
	p := NewPicker([]string{"🐟", "🪨"}, Options{Strict: true, ChaosAddon: true}, prng.New(1))
	got := p.Candidates(components.TagProp)
	if got[0] != "🪨" {
		t.Errorf("prop sub-pool should lead, got %v", got)
	}
	if len(got) != len(hazardPool) {
		t.Errorf("len = %d, want %d (🪨 already in hazard list)", len(got), len(hazardPool))
	}
	seen := map[string]bool{}
	for _, g := range got {
		if seen[g] {
			t.Errorf("duplicate candidate %q", g)
		}
		seen[g] = true
	}
}

func TestWeights(t *testing.T) {
	tests := []struct {
		tag   components.Tag
		glyph string
		want  float64
	}{
		{components.TagBody, "✋", 3.5},
		{components.TagFin, "🦴", 3.5},
		{components.TagEye, "🧿", 4},
		{components.TagBubble, "🫧", 3.5},
		{components.TagAccent, "🌀", 3},
		{components.TagProp, "⚓", 3},
		{components.TagEye, "🐟", 1},
		{components.TagProp, "✋", 1},
	}
	for _, tt := range tests {
		got := Weights([]string{tt.glyph}, tt.tag)[0]
		if got != tt.want {
			t.Errorf("weight(%v, %s) = %v, want %v", tt.tag, tt.glyph, got, tt.want)
		}
	}
}

func TestPickConsumesOneDrawAndStaysInPool(t *testing.T) {
	rng := prng.NewFromString("picker")
	p := NewPicker(nil, Options{}, rng)
	pool := map[string]bool{}
	for _, g := range p.Pool() {
		pool[g] = true
	}

	for i := 0; i < 200; i++ {
		before := rng.Draws()
		tag := components.Tag(i % components.TagCount())
		g := p.Pick(tag)
		if rng.Draws()-before != 1 {
			t.Fatalf("Pick consumed %d draws", rng.Draws()-before)
		}
		if !pool[g] {
			t.Fatalf("Pick(%v) = %q outside pool", tag, g)
		}
	}
}

func TestPickIsDeterministic(t *testing.T) {
	a := NewPicker([]string{"🐟", "🐠", "👀"}, Options{}, prng.NewFromString("same"))
	b := NewPicker([]string{"🐟", "🐠", "👀"}, Options{}, prng.NewFromString("same"))
	for i := 0; i < 50; i++ {
		tag := components.Tag(i % components.TagCount())
		if ga, gb := a.Pick(tag), b.Pick(tag); ga != gb {
			t.Fatalf("pick %d diverged: %q vs %q", i, ga, gb)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"spaced emoji", "🐟 🐠 🐟", []string{"🐟", "🐠"}},
		{"packed emoji", "🐟🐠🫧", []string{"🐟", "🐠", "🫧"}},
		{"variation selector kept", "👁️, ⚠️", []string{"👁️", "⚠️"}},
		{"zwj sequence is one glyph", "🧑‍🚀 🐟", []string{"🧑‍🚀", "🐟"}},
		{"keycaps beside emoji", "🐟 1️⃣ #️⃣ 🐠", []string{"🐟", "1️⃣", "#️⃣", "🐠"}},
		{"packed keycaps", "🐟1️⃣*️⃣", []string{"🐟", "1️⃣", "*️⃣"}},
		{"misc symbols block", "☀️ ⛵ ⚓", []string{"☀️", "⛵", "⚓"}},
		{"unqualified symbol", "🐠 \u2764", []string{"🐠", "\u2764"}},
		{"digits beside emoji are dropped", "🐟 12 🐠", []string{"🐟", "🐠"}},
		{"plain words fall back to split", "fish, crab  fish", []string{"fish", "crab"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRandomSelection(t *testing.T) {
	got := RandomSelection(prng.NewFromString("random"), 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	seen := map[string]bool{}
	for _, g := range got {
		if seen[g] {
			t.Errorf("duplicate %q", g)
		}
		seen[g] = true
	}
	if n := len(RandomSelection(prng.New(1), 1000)); n != len(showcase) {
		t.Errorf("oversized request returned %d glyphs", n)
	}
}
