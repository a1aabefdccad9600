package fqcd

import "math"

// Observational ΛCDM baseline used by HubbleEvolution. These are deliberately
// separate from OmegaMatter(): the prediction and the baseline are compared,
// never substituted for each other.
const (
	BaselineOmegaM      = 0.315
	BaselineOmegaLambda = 0.685
)

// phiDrift is the logarithmic evolution rate of φ with redshift.
const phiDrift = 0.002

// MaxSeriesPoints caps the length of a HubbleSeries.
const MaxSeriesPoints = 10000

// Hubble is the expansion rate at redshift Z in km/s/Mpc.
type Hubble struct {
	Z     float64 `json:"z" yaml:"z" db:"z"`
	HLcdm float64 `json:"h_lcdm" yaml:"h_lcdm" db:"h_lcdm"`
	HFqcd float64 `json:"h_fqcd" yaml:"h_fqcd" db:"h_fqcd"`
}

// hubbleFrac returns E(z) = H(z)/H0 for a flat universe without radiation.
func hubbleFrac(omegaM, omegaL, z float64) float64 {
	return math.Sqrt(omegaM*math.Pow(1.0+z, 3.0) + omegaL)
}

// HubbleEvolution returns H(z) under flat ΛCDM with the Planck H0, and the FQCD
// variant where H scales inversely with φ(z) = φ·(1 + 0.002·ln(1+z)).
// At z = 0 both equal H0 exactly.
func (calc *Calculator) HubbleEvolution(z float64) (Hubble, error) {
	if !finite(z) || z < 0 {
		return Hubble{}, invalid("redshift must be finite and non-negative, got %v", z)
	}
	h := calc.hubble(z)
	if !h.finite() {
		return Hubble{}, invalid("hubble rate out of range at redshift %v", z)
	}
	return h, nil
}

func (h Hubble) finite() bool {
	return finite(h.HLcdm) && finite(h.HFqcd)
}

func (calc *Calculator) hubble(z float64) Hubble {
	hLcdm := calc.c.H0Planck * hubbleFrac(BaselineOmegaM, BaselineOmegaLambda, z)
	phiZ := calc.c.Phi * (1 + phiDrift*math.Log(1+z))
	return Hubble{
		Z:     z,
		HLcdm: hLcdm,
		HFqcd: hLcdm * (calc.c.Phi / phiZ),
	}
}

// HubbleSeries samples HubbleEvolution at z = 0, step, 2·step, ... up to and
// including zMax when zMax is a whole number of steps.
func (calc *Calculator) HubbleSeries(zMax, step float64) ([]Hubble, error) {
	if !finite(zMax) || zMax < 0 {
		return nil, invalid("zmax must be finite and non-negative, got %v", zMax)
	}
	if !finite(step) || step <= 0 {
		return nil, invalid("step must be finite and positive, got %v", step)
	}

	steps := math.Floor(zMax/step + 1e-9)
	if steps+1 > MaxSeriesPoints {
		return nil, invalid("series of %.0f points exceeds the limit of %d", steps+1, MaxSeriesPoints)
	}

	n := int(steps) + 1
	series := make([]Hubble, n)
	for i := range n {
		series[i] = calc.hubble(float64(i) * step)
	}
	// H(z) grows with z, so the last point is the first to overflow.
	if last := series[n-1]; !last.finite() {
		return nil, invalid("hubble rate out of range at redshift %v", last.Z)
	}
	return series, nil
}

// Tension compares the two Hubble constants in the table.
type Tension struct {
	H0Planck   float64 `json:"h0_planck" yaml:"h0_planck"`
	H0SH0ES    float64 `json:"h0_shoes" yaml:"h0_shoes"`
	Difference float64 `json:"difference" yaml:"difference"`
	Ratio      float64 `json:"ratio" yaml:"ratio"`
}

// HubbleTension returns the SH0ES − Planck gap in km/s/Mpc and as a ratio.
func (calc *Calculator) HubbleTension() Tension {
	return Tension{
		H0Planck:   calc.c.H0Planck,
		H0SH0ES:    calc.c.H0SH0ES,
		Difference: calc.c.H0SH0ES - calc.c.H0Planck,
		Ratio:      calc.c.H0SH0ES / calc.c.H0Planck,
	}
}
