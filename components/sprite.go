package components

// Position is a sprite's current draw center in scene units.
type Position struct {
	X, Y float64
}

// Rotation is a sprite's current rotation in radians.
type Rotation struct {
	Angle float64
}

// SpriteRef links a viewer entity to a prepared creature sprite.
type SpriteRef struct {
	Index  int // index into the prepared scene's sprite list
	Layer  int
	Static bool
}

// Anchor is the resting center a sprite animates around.
type Anchor struct {
	X, Y float64
}
