package render

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	imgdraw "image/draw"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// frameColor matches the forestgreen line of the original animation.
var frameColor = color.RGBA{R: 34, G: 139, B: 34, A: 255}

// AnimateGIF renders one frame per row of pulses and encodes the
// sequence as an animated GIF at path. delay is the inter-frame pause
// in hundredths of a second. The y-range is fixed across frames at
// 1.2x the global extrema so the packet visibly moves and broadens.
func AnimateGIF(path string, z []float64, pulses [][]float64, delay int) error {
	if len(pulses) == 0 {
		return fmt.Errorf("animate: no frames to render")
	}
	if delay <= 0 {
		delay = 3
	}

	ymin, ymax := frameBounds(pulses)

	anim := &gif.GIF{}
	for _, row := range pulses {
		img, err := renderFrame(z, row, ymin, ymax)
		if err != nil {
			return err
		}
		pal := image.NewPaletted(img.Bounds(), palette.Plan9)
		imgdraw.Draw(pal, img.Bounds(), img, image.Point{}, imgdraw.Src)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("animate: %w", err)
	}
	defer f.Close()

	return gif.EncodeAll(f, anim)
}

func renderFrame(z, field []float64, ymin, ymax float64) (image.Image, error) {
	p := plot.New()
	p.X.Label.Text = "position z"
	if len(z) > 0 {
		p.X.Min, p.X.Max = z[0], z[len(z)-1]
	}
	p.Y.Min, p.Y.Max = ymin, ymax

	line, err := plotter.NewLine(xyPoints(z, field))
	if err != nil {
		return nil, fmt.Errorf("animate frame: %w", err)
	}
	line.Color = frameColor
	p.Add(line)

	c := vgimg.New(figWidth, figHeight)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

func frameBounds(pulses [][]float64) (ymin, ymax float64) {
	for _, row := range pulses {
		for _, v := range row {
			if v < ymin {
				ymin = v
			}
			if v > ymax {
				ymax = v
			}
		}
	}
	return 1.2 * ymin, 1.2 * ymax
}
