package fqcd

import "math"

// Planck 2018 matter density and its 1σ band, used to judge the prediction.
const (
	ObservedOmegaM  = 0.315
	OmegaMTolerance = 0.007
)

// ComparisonRow sets one FQCD value against its observed reference band.
type ComparisonRow struct {
	Name     string  `json:"name" yaml:"name"`
	FQCD     float64 `json:"fqcd" yaml:"fqcd"`
	Observed float64 `json:"observed" yaml:"observed"`
	BandMin  float64 `json:"band_min" yaml:"band_min"`
	BandMax  float64 `json:"band_max" yaml:"band_max"`
}

// ComparisonRows returns the reference table of cosmological parameters.
// The values are fixed literals, not computed.
func ComparisonRows() []ComparisonRow {
	return []ComparisonRow{
		{Name: "Ω_m", FQCD: 0.3097, Observed: 0.315, BandMin: 0.308, BandMax: 0.322},
		{Name: "Ω_Λ", FQCD: 0.6903, Observed: 0.685, BandMin: 0.678, BandMax: 0.692},
		{Name: "σ_8", FQCD: 0.807, Observed: 0.811, BandMin: 0.805, BandMax: 0.817},
	}
}

// InBand reports whether the FQCD value lies inside the observed band.
func (r ComparisonRow) InBand() bool {
	return r.FQCD >= r.BandMin && r.FQCD <= r.BandMax
}

// OmegaCheck is the verdict on the predicted matter density.
type OmegaCheck struct {
	Predicted  float64 `json:"predicted" yaml:"predicted"`
	Observed   float64 `json:"observed" yaml:"observed"`
	Tolerance  float64 `json:"tolerance" yaml:"tolerance"`
	Deviation  float64 `json:"deviation" yaml:"deviation"`
	Consistent bool    `json:"consistent" yaml:"consistent"`
}

// CheckOmega compares OmegaMatter() with the observed value. The prediction is
// consistent when it lies strictly within the tolerance.
func (calc *Calculator) CheckOmega() OmegaCheck {
	predicted := calc.OmegaMatter()
	deviation := math.Abs(predicted - ObservedOmegaM)
	return OmegaCheck{
		Predicted:  predicted,
		Observed:   ObservedOmegaM,
		Tolerance:  OmegaMTolerance,
		Deviation:  deviation,
		Consistent: deviation < OmegaMTolerance,
	}
}
