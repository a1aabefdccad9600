package fqcd

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/talgya/fi-verse/internal/phi"
)

func TestOmegaMatter(t *testing.T) {
	calc := Default()
	got := calc.OmegaMatter()

	c := phi.Canonical()
	want := 0.5 * (1 + c.Alpha/(math.Pi*c.Phi) - 1/math.Pow(c.Phi, 2))
	if got != want {
		t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
	}
	if got < 0.309 || got > 0.310 {
		t.Fatalf("omega_m = %v, want within [0.309, 0.310]", got)
	}
}

func TestCalculatorCopiesConstants(t *testing.T) {
	c := phi.Canonical()
	calc := New(c)
	c.Phi = 2

	if calc.Constants().Phi != phi.Phi {
		t.Fatalf("calculator observed caller mutation: phi = %v", calc.Constants().Phi)
	}
}

func TestIdempotence(t *testing.T) {
	calc := Default()

	first := calc.GenerateRotationCurve()
	omega := calc.OmegaMatter()
	h, _ := calc.HubbleEvolution(2.5)

	for range 3 {
		again := calc.GenerateRotationCurve()
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("point %d drifted: %+v vs %+v", i, first[i], again[i])
			}
		}
		if calc.OmegaMatter() != omega {
			t.Fatal("omega_m drifted")
		}
		h2, _ := calc.HubbleEvolution(2.5)
		if h2 != h {
			t.Fatalf("hubble drifted: %+v vs %+v", h, h2)
		}
	}
}

func TestConcurrentCallers(t *testing.T) {
	calc := Default()
	want := calc.GenerateRotationCurve()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := calc.GenerateRotationCurve()
			for i := range want {
				if got[i] != want[i] {
					errs <- errors.New("concurrent curve differs")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}
}

func TestEndToEnd(t *testing.T) {
	calc := Default()

	low, err := calc.ScaleDependentPhi(1e-35)
	if err != nil || low != 1.0 {
		t.Fatalf("phi(1e-35) = %v, %v; want 1", low, err)
	}

	high, err := calc.ScaleDependentPhi(3e20)
	if err != nil || high != phi.Phi {
		t.Fatalf("phi(3e20) = %v, %v; want %v", high, err, phi.Phi)
	}
	if math.Abs(high-1.6180339887) > 1e-10 {
		t.Fatalf("phi(3e20) = %v", high)
	}

	rot, err := calc.GalaxyRotation(10, 1e11)
	if err != nil {
		t.Fatalf("GalaxyRotation: %v", err)
	}
	if math.Abs(rot.VNewton-207.4) > 0.05 {
		t.Fatalf("v_newton = %v, want ≈207.4", rot.VNewton)
	}
	if rot.VFqft <= rot.VNewton {
		t.Fatalf("v_fqft = %v, want > v_newton %v", rot.VFqft, rot.VNewton)
	}
}
