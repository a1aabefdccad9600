package fqcd

import (
	"errors"
	"math"
	"testing"
)

func TestHubbleEvolution(t *testing.T) {
	calc := Default()

	t.Run("should equal H0 at zero redshift", func(t *testing.T) {
		h, err := calc.HubbleEvolution(0)
		if err != nil {
			t.Fatal(err)
		}
		if h.HLcdm != calc.Constants().H0Planck {
			t.Fatalf("h_lcdm(0) = %v, want %v", h.HLcdm, calc.Constants().H0Planck)
		}
		if h.HFqcd != h.HLcdm {
			t.Fatalf("h_fqcd(0) = %v, want %v", h.HFqcd, h.HLcdm)
		}
	})

	t.Run("should follow flat LCDM", func(t *testing.T) {
		h, _ := calc.HubbleEvolution(1)
		want := 67.4 * math.Sqrt(0.315*8+0.685)
		if math.Abs(h.HLcdm-want) > 1e-9 {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, h.HLcdm)
		}
		wantFqcd := want / (1 + 0.002*math.Ln2)
		if math.Abs(h.HFqcd-wantFqcd) > 1e-9 {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", wantFqcd, h.HFqcd)
		}
	})

	t.Run("should grow with redshift and stay below LCDM", func(t *testing.T) {
		prev, _ := calc.HubbleEvolution(0)
		for z := 0.25; z <= 10; z += 0.25 {
			h, err := calc.HubbleEvolution(z)
			if err != nil {
				t.Fatal(err)
			}
			if h.HLcdm <= prev.HLcdm {
				t.Fatalf("h_lcdm not increasing at z=%v", z)
			}
			if h.HFqcd >= h.HLcdm {
				t.Fatalf("h_fqcd %v >= h_lcdm %v at z=%v", h.HFqcd, h.HLcdm, z)
			}
			prev = h
		}
	})

	t.Run("should reject unphysical redshifts", func(t *testing.T) {
		for _, z := range []float64{-0.1, -1, math.NaN(), math.Inf(1)} {
			_, err := calc.HubbleEvolution(z)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("HubbleEvolution(%v) error = %v", z, err)
			}
		}
	})

	t.Run("should reject a redshift whose rate overflows", func(t *testing.T) {
		h, err := calc.HubbleEvolution(1e103)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%+v, %v", ErrInvalidArgument, h, err)
		}
	})
}

func TestBaselineIsSeparateFromPrediction(t *testing.T) {
	calc := Default()
	if calc.OmegaMatter() == BaselineOmegaM {
		t.Fatal("prediction and baseline should stay distinct")
	}
	if BaselineOmegaM+BaselineOmegaLambda != 1 {
		t.Fatalf("baseline is not flat: %v", BaselineOmegaM+BaselineOmegaLambda)
	}
}

func TestHubbleSeries(t *testing.T) {
	calc := Default()

	t.Run("should sample inclusively from zero", func(t *testing.T) {
		series, err := calc.HubbleSeries(3, 0.1)
		if err != nil {
			t.Fatal(err)
		}
		if len(series) != 31 {
			t.Fatalf("\nwanted:\n31\ngot:\n%d", len(series))
		}
		for i, h := range series {
			want, _ := calc.HubbleEvolution(float64(i) * 0.1)
			if h != want {
				t.Fatalf("sample %d = %+v, want %+v", i, h, want)
			}
		}
	})

	t.Run("should stop before a partial step", func(t *testing.T) {
		series, _ := calc.HubbleSeries(1, 0.3)
		if len(series) != 4 {
			t.Fatalf("\nwanted:\n4\ngot:\n%d", len(series))
		}
	})

	t.Run("should return only z=0 for zmax zero", func(t *testing.T) {
		series, _ := calc.HubbleSeries(0, 1)
		if len(series) != 1 || series[0].Z != 0 {
			t.Fatalf("got %+v", series)
		}
	})

	t.Run("should reject bad bounds", func(t *testing.T) {
		cases := [][2]float64{{-1, 0.1}, {1, 0}, {1, -0.1}, {math.NaN(), 1}, {1, math.Inf(1)}, {1e6, 1e-3}}
		for _, c := range cases {
			if _, err := calc.HubbleSeries(c[0], c[1]); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("HubbleSeries(%v, %v) error = %v", c[0], c[1], err)
			}
		}
	})

	t.Run("should reject a series whose last rate overflows", func(t *testing.T) {
		series, err := calc.HubbleSeries(1e103, 1e100)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%d points, %v", ErrInvalidArgument, len(series), err)
		}
	})
}

func TestHubbleTension(t *testing.T) {
	tension := Default().HubbleTension()
	if math.Abs(tension.Difference-5.6) > 1e-9 {
		t.Fatalf("difference = %v, want 5.6", tension.Difference)
	}
	if math.Abs(tension.Ratio-73.0/67.4) > 1e-12 {
		t.Fatalf("ratio = %v", tension.Ratio)
	}
}
