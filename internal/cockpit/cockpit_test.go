package cockpit

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/talgya/fi-verse/internal/fqcd"
	"github.com/talgya/fi-verse/internal/slider"
)

func setupScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() failed: %v", err)
	}
	screen.SetSize(100, 40)
	t.Cleanup(screen.Fini)
	return screen
}

func screenText(screen tcell.Screen) string {
	width, height := screen.Size()
	var b strings.Builder
	for y := range height {
		for x := range width {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestDrawCosmology(t *testing.T) {
	screen := setupScreen(t)
	c := New(fqcd.Default(), screen)

	if err := c.Draw(); err != nil {
		t.Fatal(err)
	}
	text := screenText(screen)

	for _, want := range []string{"0.30973", "CONSISTENT WITHIN 1σ", "Planck / Atomic", "local φ 1.0000", "Ω_Λ", "σ_8"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestDrawGalaxy(t *testing.T) {
	screen := setupScreen(t)
	c := New(fqcd.Default(), screen)
	c.state = State{Slider: slider.FromScale(3e20), Tab: TabGalaxy}

	if err := c.Draw(); err != nil {
		t.Fatal(err)
	}
	text := screenText(screen)

	for _, want := range []string{"Galactic", "local φ 1.6180", "OBSERVED", "207.4"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestSliderBar(t *testing.T) {
	if got := sliderBar(slider.Min, 10); got != "[●---------]" {
		t.Fatalf("min bar = %q", got)
	}
	if got := sliderBar(slider.Max, 10); got != "[=========●]" {
		t.Fatalf("max bar = %q", got)
	}
}

func TestLoop(t *testing.T) {
	screen := setupScreen(t)
	c := New(fqcd.Default(), screen)

	screen.InjectKey(tcell.KeyEnd, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- c.Loop() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit after q")
	}

	got := c.State()
	if got.Slider != slider.Max || got.Tab != TabGalaxy || !got.Quit {
		t.Fatalf("final state = %+v", got)
	}
}
