package fqcd

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/fi-verse/internal/phi"
)

func TestScaleDependentPhi(t *testing.T) {
	calc := Default()

	t.Run("should be exactly one at or below the Planck length", func(t *testing.T) {
		for _, s := range []float64{1e-80, 1e-40, 1e-35, PlanckScale} {
			got, err := calc.ScaleDependentPhi(s)
			if err != nil {
				t.Fatalf("phi(%v): %v", s, err)
			}
			if got != 1.0 {
				t.Fatalf("phi(%v) = %v, want 1", s, got)
			}
		}
	})

	t.Run("should be exactly phi at or above the galactic scale", func(t *testing.T) {
		for _, s := range []float64{GalaxyScale, 1e21, 1.4e26, 1e40} {
			got, err := calc.ScaleDependentPhi(s)
			if err != nil {
				t.Fatalf("phi(%v): %v", s, err)
			}
			if got != phi.Phi {
				t.Fatalf("phi(%v) = %v, want %v", s, got, phi.Phi)
			}
		}
	})

	t.Run("should lie strictly between one and phi in the transition", func(t *testing.T) {
		for _, s := range []float64{1e-34, 1e-20, 1e-10, 1, 1e10, 1e20} {
			got, _ := calc.ScaleDependentPhi(s)
			if got <= 1.0 || got >= phi.Phi {
				t.Fatalf("phi(%v) = %v, want in (1, %v)", s, got, phi.Phi)
			}
		}
	})

	t.Run("should follow the smoothstep", func(t *testing.T) {
		got, _ := calc.ScaleDependentPhi(1)
		if math.Abs(got-1.426409542013963) > 1e-12 {
			t.Fatalf("phi(1m) = %v", got)
		}
	})

	t.Run("should never decrease with scale", func(t *testing.T) {
		prev := 0.0
		for exp := -40.0; exp <= 30; exp += 0.1 {
			got, err := calc.ScaleDependentPhi(math.Pow(10, exp))
			if err != nil {
				t.Fatalf("phi(1e%v): %v", exp, err)
			}
			if got < prev {
				t.Fatalf("phi decreased at 1e%.1f: %v < %v", exp, got, prev)
			}
			prev = got
		}
	})

	t.Run("should reject lengths outside the domain", func(t *testing.T) {
		for _, s := range []float64{0, -1, -1e-40, math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := calc.ScaleDependentPhi(s)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("phi(%v) error = %v, want ErrInvalidArgument", s, err)
			}
		}
	})
}

func TestClassifyScale(t *testing.T) {
	tests := []struct {
		scale float64
		want  ScaleRegime
	}{
		{1e-35, RegimePlanckAtomic},
		{1e-16, RegimePlanckAtomic},
		{1e-15, RegimeStellarSystem},
		{1.5e11, RegimeStellarSystem},
		{1e16, RegimeGalactic},
		{3e20, RegimeGalactic},
		{1e22, RegimeCosmological},
		{math.Inf(1), RegimeCosmological},
	}

	for _, tt := range tests {
		got, err := ClassifyScale(tt.scale)
		if err != nil {
			t.Fatalf("ClassifyScale(%v): %v", tt.scale, err)
		}
		if got != tt.want {
			t.Errorf("ClassifyScale(%v) = %v, want %v", tt.scale, got, tt.want)
		}
	}

	if _, err := ClassifyScale(0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ClassifyScale(0) error = %v", err)
	}
}

func TestScaleRegimeText(t *testing.T) {
	text, err := RegimeGalactic.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "Galactic" {
		t.Fatalf("\nwanted:\nGalactic\ngot:\n%s", text)
	}
	if ScaleRegime(9).String() != "Unknown" {
		t.Fatalf("out of range regime = %q", ScaleRegime(9).String())
	}
}
