// Package slider maps a logarithmic slider position to a length scale.
// A position p selects the scale 10^p meters.
package slider

import "math"

// Slider range and resolution, in decades.
const (
	Min  = -35.0
	Max  = 26.0
	Step = 0.1
)

// ToScale returns 10^pos meters.
func ToScale(pos float64) float64 {
	return math.Pow(10, pos)
}

// FromScale returns the position that selects scale. scale must be positive.
func FromScale(scale float64) float64 {
	return math.Log10(scale)
}

// Clamp limits pos to [Min, Max].
func Clamp(pos float64) float64 {
	return math.Max(Min, math.Min(Max, pos))
}

// Move returns pos advanced by n steps, clamped and snapped to the step grid.
func Move(pos float64, n int) float64 {
	next := Clamp(pos + float64(n)*Step)
	return math.Round(next/Step) * Step
}
