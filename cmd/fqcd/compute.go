package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/fi-verse/internal/fqcd"
	"github.com/talgya/fi-verse/internal/slider"
)

func constantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Print the constant table in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.calc.Constants()
			return a.emit(cmd.OutOrStdout(), c, func(w io.Writer) {
				fmt.Fprintf(w, "alpha      %.12g\n", c.Alpha)
				fmt.Fprintf(w, "phi        %.16g\n", c.Phi)
				fmt.Fprintf(w, "pi         %.16g\n", c.Pi)
				fmt.Fprintf(w, "c          %s km/s\n", humanize.Commaf(c.C))
				fmt.Fprintf(w, "H0 Planck  %.1f km/s/Mpc\n", c.H0Planck)
				fmt.Fprintf(w, "H0 SH0ES   %.1f km/s/Mpc\n", c.H0SH0ES)
				fmt.Fprintf(w, "G          %.5e m³/kg/s²\n", c.G)
			})
		},
	}
}

func omegaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "omega",
		Short: "Predict the matter density Ω_m and check it against Planck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check := a.calc.CheckOmega()
			return a.emit(cmd.OutOrStdout(), check, func(w io.Writer) {
				fmt.Fprintf(w, "Ω_m (FQCD)    %.5f\n", check.Predicted)
				fmt.Fprintf(w, "Ω_m (Planck)  %.3f ± %.3f\n", check.Observed, check.Tolerance)
				fmt.Fprintf(w, "deviation     %.5f\n", check.Deviation)
				if check.Consistent {
					fmt.Fprintln(w, "verdict       consistent within 1σ")
				} else {
					fmt.Fprintln(w, "verdict       inconsistent")
				}
			})
		},
	}
}

// phiResult is the output of the phi command.
type phiResult struct {
	Scale  float64          `json:"scale_m" yaml:"scale_m"`
	Slider float64          `json:"slider" yaml:"slider"`
	Phi    float64          `json:"phi" yaml:"phi"`
	Regime fqcd.ScaleRegime `json:"regime" yaml:"regime"`
}

func phiCmd(a *app) *cobra.Command {
	var pos float64

	cmd := &cobra.Command{
		Use:   "phi [scale-meters]",
		Short: "Evaluate the scale-dependent coupling at a length scale",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bySlider := cmd.Flags().Changed("slider")

			var scale float64
			switch {
			case bySlider && len(args) > 0:
				return errors.New("give a scale or --slider, not both")
			case bySlider:
				if pos < slider.Min || pos > slider.Max {
					return fmt.Errorf("slider position %v outside [%v, %v]", pos, slider.Min, slider.Max)
				}
				scale = slider.ToScale(pos)
			case len(args) == 1:
				var err error
				if scale, err = strconv.ParseFloat(args[0], 64); err != nil {
					return fmt.Errorf("parse scale: %w", err)
				}
			default:
				return errors.New("a scale in meters or --slider is required")
			}

			value, err := a.calc.ScaleDependentPhi(scale)
			if err != nil {
				return err
			}
			regime, err := fqcd.ClassifyScale(scale)
			if err != nil {
				return err
			}

			res := phiResult{Scale: scale, Slider: slider.FromScale(scale), Phi: value, Regime: regime}
			return a.emit(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "scale   %.4g m (10^%.1f)\n", res.Scale, res.Slider)
				fmt.Fprintf(w, "regime  %s\n", res.Regime)
				fmt.Fprintf(w, "φ       %.6f\n", res.Phi)
			})
		},
	}

	cmd.Flags().Float64Var(&pos, "slider", 0, fmt.Sprintf("slider position: the exponent p of 10^p meters, in [%v, %v]", slider.Min, slider.Max))
	return cmd
}

func rotationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rotation <radius-kpc> <mass-solar>",
		Short: "Newtonian and FQCD circular velocity at one radius",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			radius, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse radius: %w", err)
			}
			mass, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parse mass: %w", err)
			}

			rot, err := a.calc.GalaxyRotation(radius, mass)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), rot, func(w io.Writer) {
				fmt.Fprintf(w, "r = %g kpc, M = %s M☉\n", radius, humanize.Commaf(mass))
				fmt.Fprintf(w, "v_newton  %.1f km/s\n", rot.VNewton)
				fmt.Fprintf(w, "v_fqft    %.1f km/s\n", rot.VFqft)
			})
		},
	}
}

func curveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "curve",
		Short: "Print the 50-point synthetic galaxy rotation curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			curve := a.calc.GenerateRotationCurve()
			return a.emit(cmd.OutOrStdout(), curve, func(w io.Writer) {
				fmt.Fprintf(w, "%6s  %9s  %9s  %9s\n", "r_kpc", "newton", "fqft", "observed")
				for _, p := range curve {
					fmt.Fprintf(w, "%6.0f  %9.1f  %9.1f  %9.1f\n", p.RadiusKpc, p.VNewton, p.VFqft, p.VObserved)
				}
			})
		},
	}
}

func hubbleCmd(a *app) *cobra.Command {
	var (
		series bool
		zMax   float64
		step   float64
	)

	cmd := &cobra.Command{
		Use:   "hubble [z]",
		Short: "Hubble rate H(z) under ΛCDM and FQCD",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if series {
				if len(args) > 0 {
					return errors.New("give a redshift or --series, not both")
				}
				points, err := a.calc.HubbleSeries(zMax, step)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), points, func(w io.Writer) {
					fmt.Fprintf(w, "%6s  %9s  %9s\n", "z", "H_lcdm", "H_fqcd")
					for _, h := range points {
						fmt.Fprintf(w, "%6.2f  %9.2f  %9.2f\n", h.Z, h.HLcdm, h.HFqcd)
					}
				})
			}

			if len(args) == 0 {
				return errors.New("a redshift or --series is required")
			}
			z, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse redshift: %w", err)
			}
			h, err := a.calc.HubbleEvolution(z)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), h, func(w io.Writer) {
				fmt.Fprintf(w, "z       %g\n", h.Z)
				fmt.Fprintf(w, "H_lcdm  %.2f km/s/Mpc\n", h.HLcdm)
				fmt.Fprintf(w, "H_fqcd  %.2f km/s/Mpc\n", h.HFqcd)
			})
		},
	}

	cmd.Flags().BoolVar(&series, "series", false, "sample H(z) from 0 to --zmax")
	cmd.Flags().Float64Var(&zMax, "zmax", 3, "largest redshift of the series")
	cmd.Flags().Float64Var(&step, "step", 0.1, "redshift step of the series")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare FQCD values with observation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows := fqcd.ComparisonRows()
			return a.emit(cmd.OutOrStdout(), rows, func(w io.Writer) {
				fmt.Fprintf(w, "%-20s  %9s  %9s  %s\n", "parameter", "fqcd", "observed", "band")
				for _, r := range rows {
					mark := "✘"
					if r.InBand() {
						mark = "✔"
					}
					fmt.Fprintf(w, "%-20s  %9.4g  %9.4g  [%g, %g] %s\n", r.Name, r.FQCD, r.Observed, r.BandMin, r.BandMax, mark)
				}
			})
		},
	}
}

func tensionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tension",
		Short: "Gap between the Planck and SH0ES Hubble constants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := a.calc.HubbleTension()
			return a.emit(cmd.OutOrStdout(), t, func(w io.Writer) {
				fmt.Fprintf(w, "H0 Planck   %.1f km/s/Mpc\n", t.H0Planck)
				fmt.Fprintf(w, "H0 SH0ES    %.1f km/s/Mpc\n", t.H0SH0ES)
				fmt.Fprintf(w, "difference  %.1f km/s/Mpc (%.1f%%)\n", t.Difference, (t.Ratio-1)*100)
			})
		},
	}
}
