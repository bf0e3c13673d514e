// Package render turns computed fields into plot files and
// animations. Nothing in the numeric core depends on rendering
// succeeding or failing.
package render

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	pulse "github.com/jobirk/chirped-pulse-simulation"
)

const (
	figWidth  = 11 * vg.Inch / 2
	figHeight = 4 * vg.Inch / 2
)

func xyPoints(z, values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(z))
	for i := range z {
		pts[i].X = z[i]
		pts[i].Y = values[i]
	}
	return pts
}

// SaveComponents writes an overlay of spectral components from the
// center of the spectrum to spectral_components.svg in dir.
func SaveComponents(dir string, z []float64, components [][]float64, freqs []float64) error {
	p := plot.New()
	p.HideAxes()
	if len(z) > 0 {
		p.X.Min, p.X.Max = z[0], z[len(z)-1]
	}

	for n, i := range pulse.CenterComponentIndices(len(components), 20) {
		line, err := plotter.NewLine(xyPoints(z, components[i]))
		if err != nil {
			return fmt.Errorf("render components: %w", err)
		}
		line.Color = plotutil.Color(n)
		p.Add(line)
	}

	return p.Save(figWidth, figHeight, filepath.Join(dir, "spectral_components.svg"))
}

// SavePulse writes the summed wave packet to resulting_pulse.svg in
// dir.
func SavePulse(dir string, z, field []float64) error {
	p := plot.New()
	p.HideAxes()
	if len(z) > 0 {
		p.X.Min, p.X.Max = z[0], z[len(z)-1]
	}

	line, err := plotter.NewLine(xyPoints(z, field))
	if err != nil {
		return fmt.Errorf("render pulse: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	return p.Save(figWidth, figHeight, filepath.Join(dir, "resulting_pulse.svg"))
}

// SaveSpectrum writes the frequency grid against its Gaussian weights
// to spectrum.svg in dir.
func SaveSpectrum(dir string, spec pulse.Spectrum) error {
	p := plot.New()
	p.X.Label.Text = "Frequency ν"
	p.Y.Label.Text = "Spectral amplitude S(ν)"

	line, err := plotter.NewLine(xyPoints(spec.Frequencies, spec.Weights))
	if err != nil {
		return fmt.Errorf("render spectrum: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	return p.Save(6*vg.Inch/2, 4*vg.Inch/2, filepath.Join(dir, "spectrum.svg"))
}

// SavePulses overlays the packet at several times into
// pulse_evolution.svg in dir, one line per row of pulses.
func SavePulses(dir string, z []float64, pulses [][]float64) error {
	p := plot.New()
	p.X.Label.Text = "position z"
	if len(z) > 0 {
		p.X.Min, p.X.Max = z[0], z[len(z)-1]
	}

	for i, row := range pulses {
		line, err := plotter.NewLine(xyPoints(z, row))
		if err != nil {
			return fmt.Errorf("render pulses: %w", err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
	}

	return p.Save(figWidth, figHeight, filepath.Join(dir, "pulse_evolution.svg"))
}
