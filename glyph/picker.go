// Package glyph selects emoji glyphs for scene parts.
package glyph

import (
	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/prng"
)

// Options controls pool construction.
type Options struct {
	Strict     bool // use only the caller's glyphs (unless there are none)
	ChaosAddon bool // add the hazard list to prop candidates
}

// Picker draws glyphs for a tag with category-biased weights.
// Each Pick consumes exactly one value from the shared RNG.
type Picker struct {
	rng    *prng.RNG
	opts   Options
	all    []string
	pools  [6][]string
	hazard []string
}

// NewPicker builds the pool from glyphs and precomputes the per-tag sub-pools.
func NewPicker(glyphs []string, opts Options, rng *prng.RNG) *Picker {
	base := addUnique(nil, glyphs)
	if len(base) == 0 {
		base = addUnique(nil, defaultPool)
	}
	if !opts.Strict {
		base = addUnique(base, defaultPool)
	}

	p := &Picker{rng: rng, opts: opts, all: base}
	p.pools[components.TagEye] = filter(base, eyeSet)
	p.pools[components.TagBubble] = filter(base, bubbleSet)
	p.pools[components.TagAccent] = filter(base, accentSet)
	p.pools[components.TagProp] = filter(base, propSet)

	if opts.ChaosAddon {
		props := p.pools[components.TagProp]
		if len(props) == 0 {
			props = base
		}
		p.hazard = addUnique(append([]string(nil), props...), hazardPool)
	}
	return p
}

// Pool returns a copy of the full candidate pool.
func (p *Picker) Pool() []string {
	return append([]string(nil), p.all...)
}

// Candidates returns the list Pick samples from for tag.
func (p *Picker) Candidates(tag components.Tag) []string {
	if tag == components.TagProp && p.opts.ChaosAddon {
		return p.hazard
	}
	if int(tag) < len(p.pools) && len(p.pools[tag]) > 0 {
		return p.pools[tag]
	}
	return p.all
}

// Pick draws one glyph for tag. Repeated picks are independent draws.
func (p *Picker) Pick(tag components.Tag) string {
	candidates := p.Candidates(tag)
	return prng.WeightedChoice(p.rng, candidates, Weights(candidates, tag))
}

// Weights returns the selection weight of each candidate for tag.
func Weights(candidates []string, tag components.Tag) []float64 {
	weights := make([]float64, len(candidates))
	for i, g := range candidates {
		w := 1.0
		switch tag {
		case components.TagBody, components.TagFin:
			if handSet.has(g) {
				w += 2.5
			}
		case components.TagEye:
			if eyeSet.has(g) {
				w += 3
			}
		case components.TagBubble:
			if bubbleSet.has(g) {
				w += 2.5
			}
		case components.TagAccent:
			if accentSet.has(g) {
				w += 2
			}
		case components.TagProp:
			if propSet.has(g) {
				w += 2
			}
		}
		weights[i] = w
	}
	return weights
}

func filter(list []string, s set) []string {
	var out []string
	for _, g := range list {
		if s.has(g) {
			out = append(out, g)
		}
	}
	return out
}

// addUnique appends the items of extra missing from base, preserving order.
func addUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, g := range base {
		seen[g] = struct{}{}
	}
	for _, g := range extra {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		base = append(base, g)
	}
	return base
}
