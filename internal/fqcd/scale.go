package fqcd

import "math"

// Length scales (meters) bounding the φ(ℓ) transition.
const (
	PlanckScale = 1.6e-35
	GalaxyScale = 3e20 // ~10 kpc
)

var (
	logPlanck = math.Log10(PlanckScale)
	logGalaxy = math.Log10(GalaxyScale)
)

// ScaleDependentPhi returns the local coupling φ(ℓ) at a length scale in meters.
// It is exactly 1 at or below the Planck length, exactly φ at or above the
// galactic scale, and follows a smoothstep in log10(ℓ) between them, so it never
// decreases as the scale grows.
func (calc *Calculator) ScaleDependentPhi(scaleMeters float64) (float64, error) {
	if !finite(scaleMeters) || scaleMeters <= 0 {
		return 0, invalid("scale must be a finite positive length, got %v m", scaleMeters)
	}
	return calc.scalePhi(scaleMeters), nil
}

// scalePhi assumes a validated positive scale.
func (calc *Calculator) scalePhi(scale float64) float64 {
	if scale <= PlanckScale {
		return 1.0
	}
	if scale >= GalaxyScale {
		return calc.c.Phi
	}

	t := (math.Log10(scale) - logPlanck) / (logGalaxy - logPlanck)
	t = math.Max(0, math.Min(1, t))
	s := t * t * (3 - 2*t)

	return 1.0 + (calc.c.Phi-1.0)*s
}

// ScaleRegime labels a band of length scales for display.
type ScaleRegime uint8

const (
	RegimePlanckAtomic ScaleRegime = iota
	RegimeStellarSystem
	RegimeGalactic
	RegimeCosmological
)

// Upper bounds (exclusive) of the first three regimes, in meters.
const (
	atomicCeiling   = 1e-15
	stellarCeiling  = 1e16
	galacticCeiling = 1e22
)

var regimeNames = [...]string{
	RegimePlanckAtomic:  "Planck / Atomic",
	RegimeStellarSystem: "Stellar System",
	RegimeGalactic:      "Galactic",
	RegimeCosmological:  "Cosmological",
}

func (r ScaleRegime) String() string {
	if int(r) < len(regimeNames) {
		return regimeNames[r]
	}
	return "Unknown"
}

// MarshalText encodes the regime by name.
func (r ScaleRegime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ClassifyScale places a positive length (meters) in its regime.
func ClassifyScale(scaleMeters float64) (ScaleRegime, error) {
	if math.IsNaN(scaleMeters) || scaleMeters <= 0 {
		return 0, invalid("scale must be positive, got %v m", scaleMeters)
	}
	switch {
	case scaleMeters < atomicCeiling:
		return RegimePlanckAtomic, nil
	case scaleMeters < stellarCeiling:
		return RegimeStellarSystem, nil
	case scaleMeters < galacticCeiling:
		return RegimeGalactic, nil
	default:
		return RegimeCosmological, nil
	}
}
