// Package phi provides the physical constant table shared by every FQCD formula.
// The golden ratio is the model's coupling; the rest are the measured constants
// the formulas are evaluated against.
package phi

import (
	"errors"
	"fmt"
	"math"
)

// Phi is the golden ratio (1+√5)/2.
const Phi = 1.6180339887498948

// Measured constants in the units the formulas expect.
const (
	// Alpha is the fine-structure constant.
	Alpha = 1 / 137.035999084

	// SpeedOfLight in km/s.
	SpeedOfLight = 299792.458

	// H0Planck is the Planck 2018 Hubble constant (km/s/Mpc).
	H0Planck = 67.4

	// H0SH0ES is the distance-ladder Hubble constant (km/s/Mpc).
	H0SH0ES = 73.0

	// G is Newton's gravitational constant (m³ kg⁻¹ s⁻²).
	G = 6.67430e-11
)

// Constants is an immutable table of the values every formula reads.
// It is built once at startup and passed by value; nothing mutates it afterwards.
type Constants struct {
	Alpha    float64 `json:"alpha" yaml:"alpha" mapstructure:"alpha"`
	Phi      float64 `json:"phi" yaml:"phi" mapstructure:"phi"`
	Pi       float64 `json:"pi" yaml:"pi" mapstructure:"pi"`
	C        float64 `json:"c_km_s" yaml:"c_km_s" mapstructure:"c_km_s"`
	H0Planck float64 `json:"h0_planck" yaml:"h0_planck" mapstructure:"h0_planck"`
	H0SH0ES  float64 `json:"h0_shoes" yaml:"h0_shoes" mapstructure:"h0_shoes"`
	G        float64 `json:"g" yaml:"g" mapstructure:"g"`
}

// Canonical returns the reference constant table.
func Canonical() Constants {
	return Constants{
		Alpha:    Alpha,
		Phi:      Phi,
		Pi:       math.Pi,
		C:        SpeedOfLight,
		H0Planck: H0Planck,
		H0SH0ES:  H0SH0ES,
		G:        G,
	}
}

// ErrInvalidConstants is returned by Validate for a table no formula can use.
var ErrInvalidConstants = errors.New("invalid constants")

// Validate checks that every value is finite and positive and that Phi > 1.
// A table with Phi <= 1 would invert the scale-dependent coupling.
func (c Constants) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"alpha", c.Alpha},
		{"phi", c.Phi},
		{"pi", c.Pi},
		{"c_km_s", c.C},
		{"h0_planck", c.H0Planck},
		{"h0_shoes", c.H0SH0ES},
		{"g", c.G},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("%w: %s must be finite and positive, got %v", ErrInvalidConstants, f.name, f.value)
		}
	}
	if c.Phi <= 1 {
		return fmt.Errorf("%w: phi must exceed 1, got %v", ErrInvalidConstants, c.Phi)
	}
	return nil
}
