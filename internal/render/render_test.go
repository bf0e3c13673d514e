package render

import (
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"

	pulse "github.com/jobirk/chirped-pulse-simulation"
)

func testSimulation() *pulse.Simulation {
	z := make([]float64, 100)
	floats.Span(z, -10, 10)
	sim := pulse.NewSimulation(z)
	sim.NFrequencies = 50
	sim.SpecWidth = 5
	return sim
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
}

func TestSaveSnapshots(t *testing.T) {
	dir := t.TempDir()
	sim := testSimulation()
	spec := sim.Spectrum()

	if err := SaveComponents(dir, sim.Z, sim.ComponentsAt(0), spec.Frequencies); err != nil {
		t.Fatalf("SaveComponents: %v", err)
	}
	if err := SavePulse(dir, sim.Z, sim.FieldAt(0)); err != nil {
		t.Fatalf("SavePulse: %v", err)
	}
	if err := SaveSpectrum(dir, spec); err != nil {
		t.Fatalf("SaveSpectrum: %v", err)
	}
	if err := SavePulses(dir, sim.Z, sim.Propagate(0, 2, 3)); err != nil {
		t.Fatalf("SavePulses: %v", err)
	}

	for _, name := range []string{
		"spectral_components.svg",
		"resulting_pulse.svg",
		"spectrum.svg",
		"pulse_evolution.svg",
	} {
		assertNonEmptyFile(t, filepath.Join(dir, name))
	}
}

func TestAnimateGIF(t *testing.T) {
	dir := t.TempDir()
	sim := testSimulation()
	pulses := sim.Propagate(0, 1, 3)

	path := filepath.Join(dir, "animation.gif")
	if err := AnimateGIF(path, sim.Z, pulses, 3); err != nil {
		t.Fatalf("AnimateGIF: %v", err)
	}
	assertNonEmptyFile(t, path)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("got %d frames, want 3", len(anim.Image))
	}
}

func TestAnimateGIFNoFrames(t *testing.T) {
	if err := AnimateGIF(filepath.Join(t.TempDir(), "x.gif"), nil, nil, 3); err == nil {
		t.Fatal("expected an error for an empty frame list")
	}
}
