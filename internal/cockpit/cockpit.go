package cockpit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/talgya/fi-verse/internal/fqcd"
	"github.com/talgya/fi-verse/internal/slider"
)

const (
	sliderWidth = 50
	helpLine    = "←/→ h/l step 0.1 · Shift/PgUp/PgDn decade · Home/End bounds · Tab switch · q quit"
)

var (
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePhi    = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleGood   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBad    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleActive = tcell.StyleDefault.Reverse(true).Bold(true)
)

// Cockpit draws calculator output on a terminal screen.
type Cockpit struct {
	calc   *fqcd.Calculator
	screen tcell.Screen
	state  State

	// Computed once on start; only the slider readout changes afterwards.
	omega fqcd.OmegaCheck
	rows  []fqcd.ComparisonRow
	curve []fqcd.RotationPoint
}

// New binds a cockpit to an initialized screen.
func New(calc *fqcd.Calculator, screen tcell.Screen) *Cockpit {
	return &Cockpit{
		calc:   calc,
		screen: screen,
		state:  InitialState(),
		omega:  calc.CheckOmega(),
		rows:   fqcd.ComparisonRows(),
		curve:  calc.GenerateRotationCurve(),
	}
}

// State returns the current user state.
func (c *Cockpit) State() State {
	return c.state
}

// Run opens the terminal, runs the event loop until the user quits and
// restores the terminal.
func Run(calc *fqcd.Calculator) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	return New(calc, screen).Loop()
}

// Loop redraws and processes events until the user quits.
func (c *Cockpit) Loop() error {
	slog.Debug("cockpit started", "slider", c.state.Slider)
	for !c.state.Quit {
		if err := c.Draw(); err != nil {
			return err
		}

		switch ev := c.screen.PollEvent().(type) {
		case nil:
			return nil // screen finalized
		case *tcell.EventKey:
			c.state = c.state.Handle(ev)
		case *tcell.EventResize:
			c.screen.Sync()
		}
	}
	slog.Debug("cockpit stopped", "slider", c.state.Slider)
	return nil
}

// Draw renders the current state.
func (c *Cockpit) Draw() error {
	scale := slider.ToScale(c.state.Slider)
	localPhi, err := c.calc.ScaleDependentPhi(scale)
	if err != nil {
		return err
	}
	regime, err := fqcd.ClassifyScale(scale)
	if err != nil {
		return err
	}

	c.screen.Clear()
	y := 0

	drawText(c.screen, 0, y, styleTitle, "FQCD SIMULATION LAB")
	y++
	drawText(c.screen, 0, y, styleLabel, "FIBONACCI-QUANTUM COSMOLOGICAL DYNAMICS v1.0")
	y += 2

	// Ω_m prediction.
	x := drawText(c.screen, 0, y, styleLabel, "Ω_m prediction  ")
	x = drawText(c.screen, x, y, styleValue, fmt.Sprintf("%.5f", c.omega.Predicted))
	drawText(c.screen, x, y, styleLabel, fmt.Sprintf("   Planck (observed) %.3f ± %.3f", c.omega.Observed, c.omega.Tolerance))
	y++
	if c.omega.Consistent {
		drawText(c.screen, 0, y, styleGood, "✔ CONSISTENT WITHIN 1σ")
	} else {
		drawText(c.screen, 0, y, styleBad, "✘ INCONSISTENT")
	}
	y += 2

	// Scale slider.
	drawText(c.screen, 0, y, styleLabel, "Scale-dependent φ(ℓ)")
	y++
	drawText(c.screen, 0, y, stylePhi, sliderBar(c.state.Slider, sliderWidth))
	y++
	x = drawText(c.screen, 0, y, styleLabel, fmt.Sprintf("scale 10^%.1f m  ", c.state.Slider))
	x = drawText(c.screen, x, y, styleValue, regime.String())
	x = drawText(c.screen, x, y, styleLabel, "   local φ ")
	drawText(c.screen, x, y, stylePhi, fmt.Sprintf("%.4f", localPhi))
	y += 2

	// Tabs.
	x = 0
	for _, tab := range []Tab{TabCosmology, TabGalaxy} {
		style := styleLabel
		if tab == c.state.Tab {
			style = styleActive
		}
		x = drawText(c.screen, x, y, style, fmt.Sprintf(" [%d] %s ", tab+1, tab))
		x++
	}
	y += 2

	_, height := c.screen.Size()
	if c.state.Tab == TabCosmology {
		y = c.drawComparison(y)
	} else {
		y = c.drawRotation(y, height-y-2)
	}

	drawText(c.screen, 0, max(y+1, height-1), styleLabel, helpLine)
	c.screen.Show()
	return nil
}

func (c *Cockpit) drawComparison(y int) int {
	drawText(c.screen, 0, y, styleValue, fmt.Sprintf("%-6s %9s %9s %17s", "", "FQCD", "PLANCK", "1σ BAND"))
	y++
	for _, r := range c.rows {
		style := styleGood
		if !r.InBand() {
			style = styleBad
		}
		drawText(c.screen, 0, y, style, fmt.Sprintf("%-6s %9.4f %9.4f   [%.3f, %.3f]", r.Name, r.FQCD, r.Observed, r.BandMin, r.BandMax))
		y++
	}
	return y
}

// drawRotation prints the curve, thinned to fit in rows lines.
func (c *Cockpit) drawRotation(y, rows int) int {
	drawText(c.screen, 0, y, styleValue, fmt.Sprintf("%8s %10s %10s %10s", "r (kpc)", "NEWTON", "FQFT", "OBSERVED"))
	y++

	stride := 1
	if rows > 1 && len(c.curve) > rows-1 {
		stride = (len(c.curve) + rows - 2) / (rows - 1)
	}
	for i := 0; i < len(c.curve); i += stride {
		p := c.curve[i]
		drawText(c.screen, 0, y, styleLabel, fmt.Sprintf("%8.0f %10.1f %10.1f %10.1f", p.RadiusKpc, p.VNewton, p.VFqft, p.VObserved))
		y++
	}
	return y
}

// sliderBar draws the slider position on a track of the given width.
func sliderBar(pos float64, width int) string {
	frac := (pos - slider.Min) / (slider.Max - slider.Min)
	knob := int(frac*float64(width-1) + 0.5)
	knob = max(0, min(width-1, knob))
	return "[" + strings.Repeat("=", knob) + "●" + strings.Repeat("-", width-1-knob) + "]"
}

// drawText writes s from (x, y) and returns the column after it.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
