package fqcd

import (
	"iter"
	"math"
)

// Unit conversions.
const (
	MetersPerKpc   = 3.086e19
	KgPerSolarMass = 1.989e30
	metersPerKm    = 1000.0
)

// Synthetic rotation curve profile.
const (
	CurvePoints   = 50   // radii 1..50 kpc
	coreRadiusKpc = 10   // linear mass growth inside, point mass outside
	massPerKpc    = 1e10 // solar masses per kpc inside the core
	enclosedMass  = 1e11 // solar masses outside the core
	observedBoost = 1.5  // stand-in for the dark-matter curve
)

// Rotation holds circular velocities in km/s.
type Rotation struct {
	VNewton float64 `json:"v_newton" yaml:"v_newton"`
	VFqft   float64 `json:"v_fqft" yaml:"v_fqft"`
}

// RotationPoint is one sample of the synthetic rotation curve.
type RotationPoint struct {
	RadiusKpc float64 `json:"radius_kpc" yaml:"radius_kpc" db:"radius_kpc"`
	VNewton   float64 `json:"v_newton" yaml:"v_newton" db:"v_newton"`
	VFqft     float64 `json:"v_fqft" yaml:"v_fqft" db:"v_fqft"`
	VObserved float64 `json:"v_observed" yaml:"v_observed" db:"v_observed"`
}

// GalaxyRotation returns the Newtonian circular velocity √(G·M/r) at radiusKpc
// around massSolar, and the same velocity stretched by φ(r).
//
// Negative masses are rejected rather than producing NaN; a zero mass gives
// zero velocities.
func (calc *Calculator) GalaxyRotation(radiusKpc, massSolar float64) (Rotation, error) {
	if !finite(radiusKpc) || radiusKpc <= 0 {
		return Rotation{}, invalid("radius must be a finite positive number of kpc, got %v", radiusKpc)
	}
	if !finite(massSolar) || massSolar < 0 {
		return Rotation{}, invalid("mass must be finite and non-negative, got %v solar masses", massSolar)
	}

	rot := calc.rotation(radiusKpc, massSolar)
	if !finite(rot.VNewton) || !finite(rot.VFqft) {
		return Rotation{}, invalid("velocity out of range for radius %v kpc, mass %v", radiusKpc, massSolar)
	}
	return rot, nil
}

func (calc *Calculator) rotation(radiusKpc, massSolar float64) Rotation {
	r := radiusKpc * MetersPerKpc
	m := massSolar * KgPerSolarMass

	vNewton := math.Sqrt(calc.c.G*m/r) / metersPerKm
	return Rotation{
		VNewton: vNewton,
		VFqft:   vNewton * calc.scalePhi(r),
	}
}

// GenerateRotationCurve returns the 50-point synthetic curve in ascending radius.
func (calc *Calculator) GenerateRotationCurve() []RotationPoint {
	points := make([]RotationPoint, 0, CurvePoints)
	for p := range calc.RotationCurve() {
		points = append(points, p)
	}
	return points
}

// RotationCurve yields the same points as GenerateRotationCurve lazily.
// The sequence can be ranged over any number of times.
func (calc *Calculator) RotationCurve() iter.Seq[RotationPoint] {
	return func(yield func(RotationPoint) bool) {
		for r := 1; r <= CurvePoints; r++ {
			if !yield(calc.curvePoint(float64(r))) {
				return
			}
		}
	}
}

func (calc *Calculator) curvePoint(radius float64) RotationPoint {
	mass := enclosedMass
	if radius < coreRadiusKpc {
		mass = massPerKpc * radius
	}
	v := calc.rotation(radius, mass)
	return RotationPoint{
		RadiusKpc: radius,
		VNewton:   v.VNewton,
		VFqft:     v.VFqft,
		VObserved: v.VNewton * observedBoost,
	}
}
