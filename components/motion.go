package components

import "math"

// Motion holds a creature's idle-animation parameters.
type Motion struct {
	Speed float64 // angular speed multiplier
	Bob   float64 // vertical amplitude, scene units
	Sway  float64 // horizontal amplitude, scene units
	Rot   float64 // rotation amplitude, radians
	Phase float64
}

// Offset returns the displacement and rotation at time t (seconds).
func (m Motion) Offset(t float64) (dx, dy, rot float64) {
	dx = m.Sway * math.Sin(t*m.Speed+m.Phase)
	dy = m.Bob * math.Cos(0.9*t*m.Speed+m.Phase)
	rot = m.Rot * math.Sin(0.7*t*m.Speed+m.Phase)
	return dx, dy, rot
}
