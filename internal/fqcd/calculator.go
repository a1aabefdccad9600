// Package fqcd evaluates the Fibonacci-Quantum Cosmological Dynamics formulas:
// the predicted matter density, the scale-dependent coupling φ(ℓ), galaxy
// rotation velocities, Hubble-parameter evolution and the synthetic rotation
// curve the charts plot.
//
// Every method is a pure function of its arguments and the constant table the
// Calculator was built with. A Calculator is safe for concurrent use.
package fqcd

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/fi-verse/internal/phi"
)

// ErrInvalidArgument is returned when an input lies outside a formula's domain.
var ErrInvalidArgument = errors.New("invalid argument")

// Calculator evaluates the FQCD formulas against one constant table.
type Calculator struct {
	c phi.Constants
}

// New returns a Calculator bound to c. The table is copied; later changes to
// the caller's value do not reach the Calculator.
func New(c phi.Constants) *Calculator {
	return &Calculator{c: c}
}

// Default returns a Calculator over the canonical constant table.
func Default() *Calculator {
	return New(phi.Canonical())
}

// Constants returns a copy of the table the Calculator reads.
func (calc *Calculator) Constants() phi.Constants {
	return calc.c
}

// OmegaMatter returns the predicted matter-density parameter
//
//	Ωm = ½·(1 + α/(π·φ) − 1/φ²)
//
// which is ≈0.3097 for the canonical table.
func (calc *Calculator) OmegaMatter() float64 {
	coupling := calc.c.Alpha / (calc.c.Pi * calc.c.Phi)
	geometric := 1 / math.Pow(calc.c.Phi, 2)
	return 0.5 * (1 + coupling - geometric)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
