// Package cockpit is a terminal rendition of the FQCD simulation cockpit:
// a logarithmic scale slider driving the local φ readout, the Ω_m verdict,
// and two tabs with the cosmology comparison and the galaxy rotation table.
package cockpit

import (
	"github.com/gdamore/tcell/v2"

	"github.com/talgya/fi-verse/internal/slider"
)

// Tab selects the right-hand panel.
type Tab uint8

const (
	TabCosmology Tab = iota
	TabGalaxy
)

func (t Tab) String() string {
	if t == TabGalaxy {
		return "GALAXY DYNAMICS"
	}
	return "COSMOLOGY"
}

// decadeSteps is how many slider steps one decade spans.
const decadeSteps = 10

// State is everything the user controls. Handle never mutates the receiver.
type State struct {
	Slider float64
	Tab    Tab
	Quit   bool
}

// InitialState starts at the Planck end of the slider on the cosmology tab.
func InitialState() State {
	return State{Slider: slider.Min, Tab: TabCosmology}
}

// Handle returns the state after a key press.
func (s State) Handle(ev *tcell.EventKey) State {
	shift := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.Quit = true
	case tcell.KeyRight:
		s.Slider = slider.Move(s.Slider, stride(shift))
	case tcell.KeyLeft:
		s.Slider = slider.Move(s.Slider, -stride(shift))
	case tcell.KeyPgUp:
		s.Slider = slider.Move(s.Slider, decadeSteps)
	case tcell.KeyPgDn:
		s.Slider = slider.Move(s.Slider, -decadeSteps)
	case tcell.KeyHome:
		s.Slider = slider.Min
	case tcell.KeyEnd:
		s.Slider = slider.Max
	case tcell.KeyTab, tcell.KeyBacktab:
		s.Tab = 1 - s.Tab
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			s.Quit = true
		case 'l':
			s.Slider = slider.Move(s.Slider, 1)
		case 'h':
			s.Slider = slider.Move(s.Slider, -1)
		case 'L':
			s.Slider = slider.Move(s.Slider, decadeSteps)
		case 'H':
			s.Slider = slider.Move(s.Slider, -decadeSteps)
		case '1':
			s.Tab = TabCosmology
		case '2':
			s.Tab = TabGalaxy
		}
	}
	return s
}

func stride(shift bool) int {
	if shift {
		return decadeSteps
	}
	return 1
}
