package scene

import (
	"github.com/pthm-cable/aquarium/glyph"
	"github.com/pthm-cable/aquarium/prng"
)

func newTestPicker(rng *prng.RNG) *glyph.Picker {
	return glyph.NewPicker(nil, glyph.Options{}, rng)
}
